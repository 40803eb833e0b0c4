package dag

import (
	"fmt"
	"slices"
	"strings"

	"mahdl/internal/diag"
	"mahdl/internal/source"
)

// Graph is the instance hierarchy: an edge from A to B means module A
// instantiates module B.
type Graph struct {
	Edges   [][]ModuleID // Edges[from] = []to
	Indeg   []int        // входящие степени для Kahn
	Present []bool
}

// InstanceRef is one instantiation inside a module.
type InstanceRef struct {
	Module string
	Span   source.Span
}

// ModuleNode describes one parsed module. Index is the caller's position of
// the module (e.g. the file index) and is carried into the slot.
type ModuleNode struct {
	Name      string
	Span      source.Span
	Index     int
	Instances []InstanceRef
	Reporter  diag.Reporter
}

// ModuleSlot is the winning declaration of a name.
type ModuleSlot struct {
	Node    ModuleNode
	Present bool
}

// BuildGraph reports duplicate module names and self-instantiation, and
// wires edges between declared modules. References to unknown modules are
// left out.
func BuildGraph(idx ModuleIndex, nodes []ModuleNode) (Graph, []ModuleSlot) {
	nodeCount := len(idx.IDToName)
	g := Graph{
		Edges:   make([][]ModuleID, nodeCount),
		Indeg:   make([]int, nodeCount),
		Present: make([]bool, nodeCount),
	}
	slots := make([]ModuleSlot, nodeCount)

	for _, node := range nodes {
		if node.Name == "" {
			continue
		}
		id, ok := idx.NameToID[node.Name]
		if !ok {
			continue
		}
		slot := &slots[int(id)]
		if slot.Present {
			if node.Reporter != nil {
				b := diag.ReportError(node.Reporter, diag.ProjDuplicateModule, node.Span,
					fmt.Sprintf("duplicate module %q", node.Name))
				if slot.Node.Span != (source.Span{}) {
					b.WithNote(slot.Node.Span, fmt.Sprintf("previous declaration of %q", node.Name))
				}
				b.Emit()
			}
			continue
		}
		slot.Node = node
		slot.Present = true
		g.Present[int(id)] = true
	}

	for from := range slots {
		slot := &slots[from]
		if !slot.Present || len(slot.Node.Instances) == 0 {
			continue
		}
		seen := make(map[ModuleID]struct{}, len(slot.Node.Instances))
		for _, ref := range slot.Node.Instances {
			toID, ok := idx.NameToID[ref.Module]
			if !ok {
				continue
			}
			if ModuleID(from) == toID {
				if slot.Node.Reporter != nil {
					diag.ReportError(slot.Node.Reporter, diag.ProjRecursiveInstance, ref.Span,
						fmt.Sprintf("module %q instantiates itself", slot.Node.Name)).Emit()
				}
				continue
			}
			if _, dup := seen[toID]; dup {
				continue
			}
			seen[toID] = struct{}{}
			g.Edges[from] = append(g.Edges[from], toID)
			g.Indeg[int(toID)]++
		}
		if len(g.Edges[from]) > 1 {
			slices.Sort(g.Edges[from])
		}
	}

	return g, slots
}

// ReportCycles reports every module of an instantiation cycle.
func ReportCycles(idx ModuleIndex, slots []ModuleSlot, topo *Topo) {
	if topo == nil || !topo.Cyclic || len(topo.Cycles) == 0 {
		return
	}
	names := make([]string, 0, len(topo.Cycles))
	for _, id := range topo.Cycles {
		names = append(names, idx.IDToName[int(id)])
	}
	summary := strings.Join(names, " -> ")

	for _, id := range topo.Cycles {
		slot := slots[int(id)]
		if !slot.Present || slot.Node.Reporter == nil {
			continue
		}
		msg := fmt.Sprintf("module %q participates in an instantiation cycle: %s", slot.Node.Name, summary)
		diag.ReportError(slot.Node.Reporter, diag.ProjRecursiveInstance, slot.Node.Span, msg).Emit()
	}
}

// Roots returns the modules nobody instantiates, in name order.
func Roots(idx ModuleIndex, g Graph) []string {
	var out []string
	for i, name := range idx.IDToName {
		if g.Present[i] && g.Indeg[i] == 0 {
			out = append(out, name)
		}
	}
	return out
}
