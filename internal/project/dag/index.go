package dag

import (
	"sort"

	"fortio.org/safecast"
)

type ModuleID uint32

// ModuleIndex assigns dense IDs to declared module names.
type ModuleIndex struct {
	NameToID map[string]ModuleID
	IDToName []string
}

// собрать уникальные имена, sort.Strings, раздать ID по порядку.
// Имена, на которые только ссылаются инстансы, в индекс не попадают:
// их диагностирует sema.
func BuildIndex(nodes []ModuleNode) ModuleIndex {
	uniq := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		if n.Name != "" {
			uniq[n.Name] = struct{}{}
		}
	}

	names := make([]string, 0, len(uniq))
	for name := range uniq {
		names = append(names, name)
	}
	sort.Strings(names)

	nameToID := make(map[string]ModuleID, len(names))
	for i, name := range names {
		id, err := safecast.Conv[ModuleID](i)
		if err != nil {
			panic(err)
		}
		nameToID[name] = id
	}

	return ModuleIndex{
		NameToID: nameToID,
		IDToName: names,
	}
}

// Lookup returns the ID of a declared module.
func (idx ModuleIndex) Lookup(name string) (ModuleID, bool) {
	id, ok := idx.NameToID[name]
	return id, ok
}
