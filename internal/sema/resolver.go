package sema

import "mahdl/internal/model"

// Resolver serves interfaces of modules referenced by instances. Names are
// qualified as written, e.g. "lib.Ram". Implementations must be safe for
// concurrent use.
type Resolver interface {
	ResolveModule(name string) (*model.Interface, bool)
}

// MapResolver resolves from a fixed table.
type MapResolver map[string]*model.Interface

func (m MapResolver) ResolveModule(name string) (*model.Interface, bool) {
	iface, ok := m[name]
	return iface, ok
}
