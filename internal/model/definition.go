package model

import (
	"mahdl/internal/constant"
	"mahdl/internal/source"
	"mahdl/internal/syntax"
	"mahdl/internal/types"
)

// DefKind classifies a module-scope name.
type DefKind uint8

const (
	DefPort DefKind = iota + 1
	DefConstant
	DefSignal
	DefRegister
	DefInstance
)

func (k DefKind) String() string {
	switch k {
	case DefPort:
		return "port"
	case DefConstant:
		return "constant"
	case DefSignal:
		return "signal"
	case DefRegister:
		return "register"
	case DefInstance:
		return "instance"
	}
	return "unknown"
}

// Direction of a port.
type Direction uint8

const (
	In Direction = iota + 1
	Out
)

func (d Direction) String() string {
	if d == In {
		return "in"
	}
	return "out"
}

// Definition binds a module-scope name. Which fields are set depends on Kind:
// Dir for ports, Value for constants, InitNode for signals and registers,
// Instance for instances.
type Definition struct {
	Name string
	Kind DefKind
	Type types.Type
	Dir  Direction

	Value    constant.Value
	InitNode *syntax.Node
	Instance *Instance

	// Decl is the declaring identifier, Node the enclosing declaration.
	Decl source.Span
	Node *syntax.Node
}

// HasInit reports whether a signal or register declares an initializer.
func (d *Definition) HasInit() bool { return d.InitNode != nil }

// Instance is a module instantiation. Interface is nil when the module
// could not be resolved.
type Instance struct {
	Module    string
	Interface *Interface
}

// Definitions is an insertion-ordered name table.
type Definitions struct {
	order  []*Definition
	byName map[string]*Definition
}

func NewDefinitions() *Definitions {
	return &Definitions{byName: make(map[string]*Definition)}
}

// Add inserts d unless the name is taken; then it returns the existing
// definition and false.
func (ds *Definitions) Add(d *Definition) (*Definition, bool) {
	if prev, ok := ds.byName[d.Name]; ok {
		return prev, false
	}
	ds.byName[d.Name] = d
	ds.order = append(ds.order, d)
	return d, true
}

// Lookup returns the definition of name, or nil.
func (ds *Definitions) Lookup(name string) *Definition {
	if ds == nil {
		return nil
	}
	return ds.byName[name]
}

// All returns the definitions in declaration order.
func (ds *Definitions) All() []*Definition {
	if ds == nil {
		return nil
	}
	return ds.order
}

// OfKind returns the definitions of kind k in declaration order.
func (ds *Definitions) OfKind(k DefKind) []*Definition {
	var out []*Definition
	for _, d := range ds.All() {
		if d.Kind == k {
			out = append(out, d)
		}
	}
	return out
}

func (ds *Definitions) Len() int { return len(ds.order) }
