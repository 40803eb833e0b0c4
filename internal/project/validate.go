package project

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaSource []byte

// ErrManifestInvalid wraps schema violations of mahdl.toml.
var ErrManifestInvalid = errors.New("invalid manifest")

var (
	schemaOnce sync.Once
	schemaCtx  *cue.Context
	schemaVal  cue.Value
	schemaErr  error
)

func manifestSchema() (*cue.Context, cue.Value, error) {
	schemaOnce.Do(func() {
		schemaCtx = cuecontext.New()
		v := schemaCtx.CompileBytes(schemaSource)
		if v.Err() != nil {
			schemaErr = fmt.Errorf("compiling manifest schema: %w", v.Err())
			return
		}
		schemaVal = v.LookupPath(cue.ParsePath("#Manifest"))
		if schemaVal.Err() != nil {
			schemaErr = fmt.Errorf("looking up #Manifest: %w", schemaVal.Err())
		}
	})
	return schemaCtx, schemaVal, schemaErr
}

// ValidateManifest checks decoded TOML data against the embedded schema.
// Unknown keys are rejected since CUE definitions are closed.
func ValidateManifest(data map[string]any) error {
	ctx, schema, err := manifestSchema()
	if err != nil {
		return err
	}
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling manifest to JSON: %w", err)
	}
	// cue.Context is not safe for concurrent use
	schemaMu.Lock()
	defer schemaMu.Unlock()
	value := ctx.CompileBytes(jsonBytes)
	if value.Err() != nil {
		return fmt.Errorf("compiling manifest as CUE: %w", value.Err())
	}
	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		msgs := make([]string, 0, 1)
		for _, e := range cueerrors.Errors(err) {
			msgs = append(msgs, e.Error())
		}
		return fmt.Errorf("%w: %s", ErrManifestInvalid, strings.Join(msgs, "; "))
	}
	return nil
}

var schemaMu sync.Mutex
