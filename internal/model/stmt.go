package model

import "mahdl/internal/source"

// Stmt is a typed statement.
type Stmt interface {
	Pos() source.Span
	stmt()
}

type (
	Assign struct {
		Target Expr
		Value  Expr
		Span   source.Span
	}

	If struct {
		Cond Expr
		Then Stmt
		Else Stmt // nil without else
		Span source.Span
	}

	Switch struct {
		Selector Expr
		Cases    []Case
		Default  *Block // nil without default
		Span     source.Span
	}

	// Case is one switch branch; labels are literals of the selector type.
	Case struct {
		Labels []*Literal
		Body   *Block
	}

	Block struct {
		Stmts []Stmt
		Span  source.Span
	}
)

func (*Assign) stmt() {}
func (*If) stmt()     {}
func (*Switch) stmt() {}
func (*Block) stmt()  {}

func (s *Assign) Pos() source.Span { return s.Span }
func (s *If) Pos() source.Span     { return s.Span }
func (s *Switch) Pos() source.Span { return s.Span }
func (s *Block) Pos() source.Span  { return s.Span }

// WalkStmt visits s and nested statements in pre-order.
func WalkStmt(s Stmt, fn func(Stmt) bool) {
	if s == nil || !fn(s) {
		return
	}
	switch s := s.(type) {
	case *If:
		WalkStmt(s.Then, fn)
		WalkStmt(s.Else, fn)
	case *Switch:
		for _, c := range s.Cases {
			WalkStmt(c.Body, fn)
		}
		if s.Default != nil {
			WalkStmt(s.Default, fn)
		}
	case *Block:
		for _, st := range s.Stmts {
			WalkStmt(st, fn)
		}
	}
}
