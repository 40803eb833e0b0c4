package dag

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// Topo orders modules so that every module comes before the modules it
// instantiates.
type Topo struct {
	Order   []ModuleID   // линейный порядок (только реальные модули)
	Batches [][]ModuleID // волны независимых модулей
	Cyclic  bool
	Cycles  []ModuleID // узлы, оставшиеся в цикле
}

func ToposortKahn(g Graph) *Topo {
	nodeCount := len(g.Edges)
	indeg := make([]int, len(g.Indeg))
	copy(indeg, g.Indeg)

	topo := &Topo{
		Order:   make([]ModuleID, 0, nodeCount),
		Batches: make([][]ModuleID, 0),
	}

	active := 0
	for i := range nodeCount {
		if g.Present[i] {
			active++
		}
	}

	current := make([]ModuleID, 0, nodeCount)
	for i := range nodeCount {
		if g.Present[i] && indeg[i] == 0 {
			current = append(current, toID(i))
		}
	}

	visited := 0
	for len(current) > 0 {
		batch := make([]ModuleID, len(current))
		copy(batch, current)
		topo.Batches = append(topo.Batches, batch)

		next := make([]ModuleID, 0)
		for _, id := range batch {
			topo.Order = append(topo.Order, id)
			visited++
			for _, to := range g.Edges[int(id)] {
				indeg[int(to)]--
				if indeg[int(to)] == 0 {
					next = append(next, to)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if visited != active {
		topo.Cyclic = true
		left := make([]bool, nodeCount)
		for i := range nodeCount {
			left[i] = g.Present[i] && indeg[i] > 0
		}
		trimTails(g, left)
		for i := range nodeCount {
			if left[i] {
				topo.Cycles = append(topo.Cycles, toID(i))
			}
		}
	}

	return topo
}

// trimTails убирает из left узлы, из которых нет рёбер внутрь left:
// они только инстанцируются циклом, но сами в нём не лежат.
func trimTails(g Graph, left []bool) {
	for changed := true; changed; {
		changed = false
		for i := range left {
			if !left[i] {
				continue
			}
			inner := false
			for _, to := range g.Edges[i] {
				if left[int(to)] {
					inner = true
					break
				}
			}
			if !inner {
				left[i] = false
				changed = true
			}
		}
	}
}

func toID(i int) ModuleID {
	id, err := safecast.Conv[ModuleID](i)
	if err != nil {
		panic(fmt.Errorf("module id overflow: %w", err))
	}
	return id
}
