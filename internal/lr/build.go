package lr

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"fortio.org/safecast"

	"mahdl/internal/token"
)

const (
	symEOF   int32 = 0
	symError int32 = 1

	actAccept int32 = math.MinInt32
	// nonassoc запрещает и сдвиг, и свёртку; в конце сборки превращается в 0
	actExplicitError int32 = math.MinInt32 + 1
)

var ErrInvalidGrammar = errors.New("invalid grammar")

type buildRule struct {
	lhs  int32
	rhs  []int32
	prec int // 0 — без приоритета
	src  int // индекс в Grammar.Rules, -1 для $accept
}

type lrState struct {
	kernel []int32         // отсортированные item-ы
	trans  map[int32]int32 // symbol -> state
	la     []bitset        // lookahead на каждый kernel item
	edges  [][]laEdge      // распространение lookahead, параллельно kernel
}

type laEdge struct{ state, item int32 }

type builder struct {
	g *Grammar

	names   []string
	display []string
	index   map[string]int32
	nTerms  int
	nSyms   int

	termPrec  []int
	levels    []PrecLevel
	rules     []buildRule
	prodsOf   [][]int32 // по нетерминалу (sym - nTerms)
	ruleStart []int32
	itemRule  []int32
	nullable  []bool
	first     []bitset

	states   []*lrState
	stateKey map[string]int32
}

// Build constructs LALR(1) tables for g. Conflicts are resolved yacc-style and
// recorded in Tables.Conflicts; an error is returned only for a malformed grammar.
func Build(g *Grammar) (*Tables, error) {
	b := &builder{g: g, index: make(map[string]int32), stateKey: make(map[string]int32)}
	if err := b.symbols(); err != nil {
		return nil, err
	}
	if err := b.precedence(); err != nil {
		return nil, err
	}
	if err := b.productions(); err != nil {
		return nil, err
	}
	b.computeFirst()
	b.buildLR0()
	b.computeLookaheads()
	return b.tables(), nil
}

func (b *builder) addSymbol(name, display string) error {
	if _, dup := b.index[name]; dup {
		return fmt.Errorf("%w: duplicate symbol %q", ErrInvalidGrammar, name)
	}
	id, err := safecast.Conv[int32](len(b.names))
	if err != nil {
		return fmt.Errorf("%w: too many symbols: %w", ErrInvalidGrammar, err)
	}
	b.index[name] = id
	b.names = append(b.names, name)
	if display == "" {
		display = name
	}
	b.display = append(b.display, display)
	return nil
}

func (b *builder) symbols() error {
	if err := b.addSymbol(EOFName, "end of file"); err != nil {
		return err
	}
	if err := b.addSymbol(ErrorName, ErrorName); err != nil {
		return err
	}
	for _, t := range b.g.Terminals {
		if err := b.addSymbol(t.Name, t.Display); err != nil {
			return err
		}
	}
	b.nTerms = len(b.names)

	if err := b.addSymbol("$accept", ""); err != nil {
		return err
	}
	for _, r := range b.g.Rules {
		if _, ok := b.index[r.LHS]; ok {
			if int(b.index[r.LHS]) < b.nTerms {
				return fmt.Errorf("%w: terminal %q used as rule head", ErrInvalidGrammar, r.LHS)
			}
			continue
		}
		if err := b.addSymbol(r.LHS, ""); err != nil {
			return err
		}
	}
	b.nSyms = len(b.names)
	if _, ok := b.index[b.g.Start]; !ok || int(b.index[b.g.Start]) < b.nTerms {
		return fmt.Errorf("%w: start symbol %q has no rules", ErrInvalidGrammar, b.g.Start)
	}
	return nil
}

func (b *builder) isTerm(sym int32) bool { return int(sym) < b.nTerms }

func (b *builder) precedence() error {
	b.termPrec = make([]int, b.nTerms)
	b.levels = b.g.Precedence
	for lvl, level := range b.g.Precedence {
		for _, name := range level.Terminals {
			sym, ok := b.index[name]
			if !ok {
				continue // псевдотерминал для %prec
			}
			if !b.isTerm(sym) {
				return fmt.Errorf("%w: nonterminal %q in precedence list", ErrInvalidGrammar, name)
			}
			b.termPrec[sym] = lvl + 1
		}
	}
	return nil
}

func (b *builder) precOf(name string) (int, bool) {
	for lvl, level := range b.levels {
		for _, n := range level.Terminals {
			if n == name {
				return lvl + 1, true
			}
		}
	}
	return 0, false
}

func (b *builder) productions() error {
	b.prodsOf = make([][]int32, b.nSyms-b.nTerms)
	start := b.index[b.g.Start]
	b.rules = append(b.rules, buildRule{lhs: b.index["$accept"], rhs: []int32{start}, src: -1})

	for i, r := range b.g.Rules {
		br := buildRule{lhs: b.index[r.LHS], src: i}
		for _, name := range r.RHS {
			sym, ok := b.index[name]
			if !ok {
				return fmt.Errorf("%w: rule %d (%s): unknown symbol %q", ErrInvalidGrammar, i, r.LHS, name)
			}
			br.rhs = append(br.rhs, sym)
			if b.isTerm(sym) {
				br.prec = b.termPrec[sym]
			}
		}
		if r.Prec != "" {
			p, ok := b.precOf(r.Prec)
			if !ok {
				return fmt.Errorf("%w: rule %d (%s): unknown precedence %q", ErrInvalidGrammar, i, r.LHS, r.Prec)
			}
			br.prec = p
		}
		if r.PassThrough && len(r.RHS) != 1 {
			return fmt.Errorf("%w: rule %d (%s): pass-through needs exactly one symbol", ErrInvalidGrammar, i, r.LHS)
		}
		b.rules = append(b.rules, br)
	}

	offset := int32(0)
	for ri, r := range b.rules {
		b.prodsOf[r.lhs-int32(b.nTerms)] = append(b.prodsOf[r.lhs-int32(b.nTerms)], int32(ri))
		b.ruleStart = append(b.ruleStart, offset)
		for range len(r.rhs) + 1 {
			b.itemRule = append(b.itemRule, int32(ri))
		}
		offset += int32(len(r.rhs) + 1)
	}
	for nt, prods := range b.prodsOf {
		if len(prods) == 0 {
			return fmt.Errorf("%w: nonterminal %q has no rules", ErrInvalidGrammar, b.names[nt+b.nTerms])
		}
	}
	return nil
}

// item helpers: item = ruleStart[rule] + dot
func (b *builder) decode(item int32) (rule int32, dot int) {
	rule = b.itemRule[item]
	return rule, int(item - b.ruleStart[rule])
}

func (b *builder) next(item int32) (int32, bool) {
	r, dot := b.decode(item)
	rhs := b.rules[r].rhs
	if dot >= len(rhs) {
		return 0, false
	}
	return rhs[dot], true
}

func (b *builder) computeFirst() {
	nNT := b.nSyms - b.nTerms
	b.nullable = make([]bool, nNT)
	b.first = make([]bitset, nNT)
	for i := range b.first {
		b.first[i] = newBitset(b.nTerms + 1)
	}
	for changed := true; changed; {
		changed = false
		for _, r := range b.rules {
			lhs := r.lhs - int32(b.nTerms)
			allNullable := true
			for _, sym := range r.rhs {
				if b.isTerm(sym) {
					if !b.first[lhs].has(int(sym)) {
						b.first[lhs].set(int(sym))
						changed = true
					}
					allNullable = false
					break
				}
				nt := sym - int32(b.nTerms)
				if b.first[lhs].or(b.first[nt]) {
					changed = true
				}
				if !b.nullable[nt] {
					allNullable = false
					break
				}
			}
			if allNullable && !b.nullable[lhs] {
				b.nullable[lhs] = true
				changed = true
			}
		}
	}
}

// firstOf возвращает FIRST(seq) ∪ (tail, если seq выводит ε).
func (b *builder) firstOf(seq []int32, tail bitset) bitset {
	out := newBitset(b.nTerms + 1)
	for _, sym := range seq {
		if b.isTerm(sym) {
			out.set(int(sym))
			return out
		}
		nt := sym - int32(b.nTerms)
		out.or(b.first[nt])
		if !b.nullable[nt] {
			return out
		}
	}
	out.or(tail)
	return out
}

func kernelKey(items []int32) string {
	var sb strings.Builder
	for _, it := range items {
		fmt.Fprintf(&sb, "%d,", it)
	}
	return sb.String()
}

func (b *builder) addState(kernel []int32) int32 {
	key := kernelKey(kernel)
	if id, ok := b.stateKey[key]; ok {
		return id
	}
	id := int32(len(b.states))
	b.stateKey[key] = id
	st := &lrState{kernel: kernel, trans: make(map[int32]int32)}
	st.la = make([]bitset, len(kernel))
	st.edges = make([][]laEdge, len(kernel))
	for i := range st.la {
		st.la[i] = newBitset(b.nTerms + 1)
	}
	b.states = append(b.states, st)
	return id
}

func (b *builder) closure0(kernel []int32) []int32 {
	items := append([]int32(nil), kernel...)
	added := make([]bool, b.nSyms-b.nTerms)
	for i := 0; i < len(items); i++ {
		sym, ok := b.next(items[i])
		if !ok || b.isTerm(sym) || added[sym-int32(b.nTerms)] {
			continue
		}
		added[sym-int32(b.nTerms)] = true
		for _, r := range b.prodsOf[sym-int32(b.nTerms)] {
			items = append(items, b.ruleStart[r])
		}
	}
	return items
}

func (b *builder) buildLR0() {
	b.addState([]int32{b.ruleStart[0]})
	for s := 0; s < len(b.states); s++ {
		groups := make(map[int32][]int32)
		for _, it := range b.closure0(b.states[s].kernel) {
			if sym, ok := b.next(it); ok {
				groups[sym] = append(groups[sym], it+1)
			}
		}
		syms := make([]int32, 0, len(groups))
		for sym := range groups {
			syms = append(syms, sym)
		}
		sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
		for _, sym := range syms {
			kernel := groups[sym]
			sort.Slice(kernel, func(i, j int) bool { return kernel[i] < kernel[j] })
			kernel = dedupSorted(kernel)
			b.states[s].trans[sym] = b.addState(kernel)
		}
	}
}

func dedupSorted(xs []int32) []int32 {
	out := xs[:0]
	for i, x := range xs {
		if i == 0 || x != xs[i-1] {
			out = append(out, x)
		}
	}
	return out
}

// closure1 — LR(1)-замыкание: item -> множество lookahead.
// Бит nTerms используется как маркер распространения "#".
func (b *builder) closure1(seeds []int32, seedLA []bitset) ([]int32, map[int32]bitset) {
	items := append([]int32(nil), seeds...)
	la := make(map[int32]bitset, len(seeds)*4)
	queue := make([]int32, 0, len(seeds)*4)
	for i, it := range seeds {
		la[it] = seedLA[i].clone()
		queue = append(queue, it)
	}
	for len(queue) > 0 {
		it := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		sym, ok := b.next(it)
		if !ok || b.isTerm(sym) {
			continue
		}
		r, dot := b.decode(it)
		f := b.firstOf(b.rules[r].rhs[dot+1:], la[it])
		for _, pr := range b.prodsOf[sym-int32(b.nTerms)] {
			it2 := b.ruleStart[pr]
			cur, seen := la[it2]
			if !seen {
				cur = newBitset(b.nTerms + 1)
				la[it2] = cur
				items = append(items, it2)
			}
			if cur.or(f) || !seen {
				queue = append(queue, it2)
			}
		}
	}
	return items, la
}

func (b *builder) kernelIndex(st *lrState, item int32) int32 {
	i := sort.Search(len(st.kernel), func(i int) bool { return st.kernel[i] >= item })
	return int32(i)
}

func (b *builder) computeLookaheads() {
	hash := newBitset(b.nTerms + 1)
	hash.set(b.nTerms)
	b.states[0].la[0].set(int(symEOF))

	for _, st := range b.states {
		for k, kit := range st.kernel {
			items, la := b.closure1([]int32{kit}, []bitset{hash})
			for _, it := range items {
				sym, ok := b.next(it)
				if !ok {
					continue
				}
				target := st.trans[sym]
				tst := b.states[target]
				idx := b.kernelIndex(tst, it+1)
				l := la[it]
				l.each(b.nTerms, func(a int) { tst.la[idx].set(a) })
				if l.has(b.nTerms) {
					st.edges[k] = append(st.edges[k], laEdge{target, idx})
				}
			}
		}
	}

	for changed := true; changed; {
		changed = false
		for _, st := range b.states {
			for k, edges := range st.edges {
				for _, e := range edges {
					if b.states[e.state].la[e.item].or(st.la[k]) {
						changed = true
					}
				}
			}
		}
	}
}

func (b *builder) tables() *Tables {
	nStates := len(b.states)
	t := &Tables{
		numStates: nStates,
		numTerms:  b.nTerms,
		numSyms:   b.nSyms,
		action:    make([]int32, nStates*b.nSyms),
		defRed:    make([]int32, nStates),
		names:     b.names,
		display:   b.display,
		termOf:    make(map[token.Kind]int32, len(b.g.Terminals)),
	}
	for i, term := range b.g.Terminals {
		t.termOf[term.Kind] = int32(i) + 2
	}
	for _, r := range b.rules {
		info := ruleInfo{lhs: r.lhs, length: len(r.rhs), src: r.src}
		if r.src >= 0 {
			gr := b.g.Rules[r.src]
			info.kind = gr.Kind
			info.flatten = gr.Flatten
			info.pass = gr.PassThrough
		}
		t.rules = append(t.rules, info)
	}

	for s, st := range b.states {
		row := t.action[s*b.nSyms : (s+1)*b.nSyms]
		for sym, target := range st.trans {
			row[sym] = target + 1
		}
		items, la := b.closure1(st.kernel, st.la)
		sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })
		for _, it := range items {
			if _, ok := b.next(it); ok {
				continue
			}
			r := b.itemRule[it]
			la[it].each(b.nTerms, func(a int) {
				b.setReduce(t, s, row, int32(a), r)
			})
		}
		for i, a := range row {
			if a == actExplicitError {
				row[i] = 0
			}
		}
	}
	for s := range nStates {
		t.defRed[s] = t.computeDefault(s)
	}
	return t
}

func (b *builder) setReduce(t *Tables, state int, row []int32, term, rule int32) {
	if rule == 0 {
		row[term] = actAccept
		return
	}
	red := -(rule + 1)
	cur := row[term]
	switch {
	case cur == 0:
		row[term] = red
	case cur == actExplicitError || cur == red:
	case cur == actAccept:
		t.Conflicts = append(t.Conflicts, b.conflict(state, term, ReduceReduce, "accept", rule))
	case cur > 0:
		rp, tp := b.rules[rule].prec, b.termPrec[term]
		if rp == 0 || tp == 0 {
			t.Conflicts = append(t.Conflicts, b.conflict(state, term, ShiftReduce, "shift", rule))
			return
		}
		switch {
		case tp > rp:
		case tp < rp:
			row[term] = red
		default:
			switch b.levels[rp-1].Assoc {
			case AssocLeft:
				row[term] = red
			case AssocRight:
			default:
				row[term] = actExplicitError
			}
		}
	default:
		prev := -cur - 1
		keep := min(prev, rule)
		row[term] = -(keep + 1)
		t.Conflicts = append(t.Conflicts, b.conflict(state, term, ReduceReduce, b.ruleString(keep), prev, rule))
	}
}

func (b *builder) conflict(state int, term int32, kind ConflictKind, resolution string, rules ...int32) Conflict {
	c := Conflict{State: state, Symbol: b.names[term], Kind: kind, Resolution: resolution}
	for _, r := range rules {
		c.Rules = append(c.Rules, b.ruleString(r))
	}
	return c
}

func (b *builder) ruleString(r int32) string {
	var sb strings.Builder
	sb.WriteString(b.names[b.rules[r].lhs])
	sb.WriteString(" →")
	if len(b.rules[r].rhs) == 0 {
		sb.WriteString(" ε")
	}
	for _, sym := range b.rules[r].rhs {
		sb.WriteByte(' ')
		sb.WriteString(b.names[sym])
	}
	return sb.String()
}
