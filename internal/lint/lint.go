package lint

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/open-policy-agent/opa/rego"

	"mahdl/internal/diag"
	"mahdl/internal/sema"
	"mahdl/internal/source"
)

//go:embed policy.rego
var policySource string

const violationsQuery = "data.mahdl.lint.violations"

// Violation is one policy finding.
type Violation struct {
	Rule    string `json:"rule"`
	Name    string `json:"name"`
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// Engine evaluates the lint policy. A prepared query is safe for
// concurrent use, so one Engine serves all file jobs.
type Engine struct {
	query rego.PreparedEvalQuery
}

// New prepares the embedded policy plus any extra Rego modules (name → source).
// Extra modules must define rules in package mahdl.lint.
func New(ctx context.Context, extra map[string]string) (*Engine, error) {
	opts := []func(*rego.Rego){
		rego.Module("policy.rego", policySource),
		rego.Query(violationsQuery),
	}
	names := make([]string, 0, len(extra))
	for name := range extra {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		opts = append(opts, rego.Module(name, extra[name]))
	}
	query, err := rego.New(opts...).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("preparing lint policy: %w", err)
	}
	return &Engine{query: query}, nil
}

var (
	defaultOnce   sync.Once
	defaultEngine *Engine
	defaultErr    error
)

// Default returns the process-wide engine with the embedded policy.
func Default() (*Engine, error) {
	defaultOnce.Do(func() {
		defaultEngine, defaultErr = New(context.Background(), nil)
	})
	return defaultEngine, defaultErr
}

// Evaluate runs the policy over in.
func (e *Engine) Evaluate(ctx context.Context, in Input) ([]Violation, error) {
	inputMap, err := structToMap(in)
	if err != nil {
		return nil, fmt.Errorf("converting lint input: %w", err)
	}
	rs, err := e.query.Eval(ctx, rego.EvalInput(inputMap))
	if err != nil {
		return nil, fmt.Errorf("evaluating lint policy: %w", err)
	}

	var out []Violation
	if len(rs) > 0 && len(rs[0].Expressions) > 0 {
		items, _ := rs[0].Expressions[0].Value.([]any)
		for _, it := range items {
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			out = append(out, Violation{
				Rule:    getString(m, "rule"),
				Name:    getString(m, "name"),
				Line:    getInt(m, "line"),
				Message: getString(m, "message"),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].Rule < out[j].Rule
	})
	return out, nil
}

// Check lints a processed module and reports violations as warnings at the
// declaration of the offending name. Native modules are skipped.
func (e *Engine) Check(ctx context.Context, res sema.Result, fs *source.FileSet, rep diag.Reporter) (int, error) {
	if res.Module == nil || res.Module.Native || rep == nil {
		return 0, nil
	}
	in := Facts(res, fs)
	vs, err := e.Evaluate(ctx, in)
	if err != nil {
		return 0, err
	}
	for _, v := range vs {
		sp := res.Module.Span
		if f, ok := in.lookup(v.Name); ok {
			sp = f.span
		}
		diag.ReportWarning(rep, codeOf(v.Rule), sp, v.Message).Emit()
	}
	return len(vs), nil
}

func codeOf(rule string) diag.Code {
	switch rule {
	case "unused":
		return diag.LintUnused
	case "naming":
		return diag.LintNaming
	case "uninitialized_register":
		return diag.LintUninitializedRegister
	default:
		return diag.LintPolicy
	}
}

func structToMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var result map[string]any
	err = json.Unmarshal(data, &result)
	return result, err
}

func getString(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func getInt(m map[string]any, key string) int {
	switch n := m[key].(type) {
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	}
	return 0
}
