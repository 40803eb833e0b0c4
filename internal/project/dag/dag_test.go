package dag

import (
	"reflect"
	"testing"

	"mahdl/internal/diag"
	"mahdl/internal/source"
)

func idsToNames(idx ModuleIndex, ids []ModuleID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = idx.IDToName[int(id)]
	}
	return out
}

func node(name string, file source.FileID, bag *diag.Bag, instances ...string) ModuleNode {
	n := ModuleNode{
		Name:     name,
		Span:     source.Span{File: file, Start: 7, End: 7 + uint32(len(name))},
		Reporter: diag.BagReporter{Bag: bag},
	}
	for i, m := range instances {
		n.Instances = append(n.Instances, InstanceRef{
			Module: m,
			Span:   source.Span{File: file, Start: uint32(20 + i*10), End: uint32(25 + i*10)},
		})
	}
	return n
}

func TestBuildIndexSortsNames(t *testing.T) {
	bag := diag.NewBag(10)
	idx := BuildIndex([]ModuleNode{
		node("Top", 1, bag, "Counter", "lib.Ram"),
		node("Counter", 2, bag),
	})
	if want := []string{"Counter", "Top"}; !reflect.DeepEqual(idx.IDToName, want) {
		t.Fatalf("IDToName = %v, want %v", idx.IDToName, want)
	}
	if _, ok := idx.Lookup("lib.Ram"); ok {
		t.Fatalf("undeclared module must not be indexed")
	}
}

func TestToposortOrdersParentsFirst(t *testing.T) {
	bag := diag.NewBag(10)
	nodes := []ModuleNode{
		node("Top", 1, bag, "Alu", "Counter"),
		node("Alu", 2, bag, "Adder"),
		node("Counter", 3, bag, "Adder"),
		node("Adder", 4, bag),
	}
	idx := BuildIndex(nodes)
	g, _ := BuildGraph(idx, nodes)
	topo := ToposortKahn(g)
	if topo.Cyclic {
		t.Fatalf("unexpected cycle: %v", idsToNames(idx, topo.Cycles))
	}
	want := [][]string{{"Top"}, {"Alu", "Counter"}, {"Adder"}}
	for i, batch := range topo.Batches {
		if got := idsToNames(idx, batch); !reflect.DeepEqual(got, want[i]) {
			t.Fatalf("batch %d = %v, want %v", i, got, want[i])
		}
	}
	if roots := Roots(idx, g); !reflect.DeepEqual(roots, []string{"Top"}) {
		t.Fatalf("roots = %v", roots)
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Codes())
	}
}

func TestDuplicateModuleReported(t *testing.T) {
	first := diag.NewBag(10)
	second := diag.NewBag(10)
	nodes := []ModuleNode{
		node("Counter", 1, first),
		node("Counter", 2, second),
	}
	idx := BuildIndex(nodes)
	_, slots := BuildGraph(idx, nodes)

	if first.Len() != 0 {
		t.Fatalf("first declaration must win, got %v", first.Codes())
	}
	if second.Count(diag.ProjDuplicateModule) != 1 {
		t.Fatalf("want one duplicate diagnostic, got %v", second.Codes())
	}
	if notes := second.Items()[0].Notes; len(notes) != 1 || notes[0].Span.File != 1 {
		t.Fatalf("note must point at the first declaration: %+v", notes)
	}
	if slots[0].Node.Span.File != 1 {
		t.Fatalf("slot holds %+v", slots[0].Node)
	}
}

func TestCyclesReportOnlyMembers(t *testing.T) {
	bags := map[string]*diag.Bag{}
	mk := func(name string, file source.FileID, inst ...string) ModuleNode {
		bags[name] = diag.NewBag(10)
		return node(name, file, bags[name], inst...)
	}
	nodes := []ModuleNode{
		mk("A", 1, "B"),
		mk("B", 2, "A", "Leaf"),
		mk("Leaf", 3),
		mk("Self", 4, "Self"),
	}
	idx := BuildIndex(nodes)
	g, slots := BuildGraph(idx, nodes)
	topo := ToposortKahn(g)
	if !topo.Cyclic {
		t.Fatalf("cycle not detected")
	}
	if got := idsToNames(idx, topo.Cycles); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Fatalf("cycles = %v, want [A B]", got)
	}
	ReportCycles(idx, slots, topo)
	for name, want := range map[string]int{"A": 1, "B": 1, "Leaf": 0, "Self": 1} {
		if got := bags[name].Count(diag.ProjRecursiveInstance); got != want {
			t.Fatalf("%s: %d recursive-instance diagnostics, want %d", name, got, want)
		}
	}
}
