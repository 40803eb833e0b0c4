package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"mahdl/internal/source"
	"mahdl/internal/types"
)

// Port is one interface port.
type Port struct {
	Name string
	Dir  Direction
	Type types.Type
	Span source.Span
}

// Interface is what other modules see of a module.
type Interface struct {
	Name   string
	Native bool
	Ports  []Port
	Span   source.Span
}

// Port finds a port by name.
func (i *Interface) Port(name string) (Port, bool) {
	if i == nil {
		return Port{}, false
	}
	for _, p := range i.Ports {
		if p.Name == name {
			return p, true
		}
	}
	return Port{}, false
}

// Digest identifies the interface shape for build caching. Spans are
// ignored, so moving a declaration does not invalidate dependents.
func (i *Interface) Digest() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s native=%v\n", i.Name, i.Native)
	for _, p := range i.Ports {
		fmt.Fprintf(h, "%s %s %s\n", p.Dir, p.Type, p.Name)
	}
	return hex.EncodeToString(h.Sum(nil))
}
