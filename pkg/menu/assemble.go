package menu

import "encoding/json"

// DefaultMaxDepth bounds how deep the assembler descends into nested groups.
const DefaultMaxDepth = 64

// Stats reports what an assembly pass did besides producing the tree.
type Stats struct {
	// Groups is the number of groups emitted into the tree.
	Groups int

	// Truncated counts subgroup subtrees dropped because they were nested
	// deeper than MaxDepth.
	Truncated int
}

// Assembler builds an AssembledMenu from raw upstream lists.
type Assembler struct {
	// MaxDepth is the deepest level (root groups are level 1) whose
	// subgroups are still expanded. Zero or negative means DefaultMaxDepth.
	MaxDepth int
}

// Assemble builds the menu tree with the default depth bound.
func Assemble(raw Raw) AssembledMenu {
	m, _ := Assembler{}.Assemble(raw)
	return m
}

// Assemble reconstructs the group hierarchy and attaches each group's items
// and goods. Input order is preserved everywhere; priority is carried as data.
func (a Assembler) Assemble(raw Raw) (AssembledMenu, Stats) {
	maxDepth := a.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	b := builder{
		index:    indexItems(raw.Items),
		maxDepth: maxDepth,
	}

	tree := b.groups(raw.Groups, 1)

	supplements := raw.Supplements
	if supplements == nil {
		supplements = []json.RawMessage{}
	}

	return AssembledMenu{Tree: tree, Supplements: supplements}, b.stats
}

// indexItems maps group guid to its item record. Later duplicates win.
func indexItems(items []RawItemRecord) map[string]RawItemRecord {
	index := make(map[string]RawItemRecord, len(items))
	for _, rec := range items {
		index[rec.GUID] = rec
	}
	return index
}

type builder struct {
	index    map[string]RawItemRecord
	maxDepth int
	stats    Stats
}

func (b *builder) groups(raw []RawGroup, depth int) []Group {
	out := make([]Group, 0, len(raw))
	for _, g := range raw {
		out = append(out, b.group(g, depth))
	}
	return out
}

func (b *builder) group(g RawGroup, depth int) Group {
	b.stats.Groups++

	out := Group{
		GUID:      g.GUID,
		Name:      g.Name,
		Priority:  g.Priority,
		ImageLink: g.ImageLink,
		Items:     []json.RawMessage{},
		Goods:     []json.RawMessage{},
	}

	if depth < b.maxDepth {
		out.Subgroups = b.groups(g.GroupList, depth+1)
	} else {
		out.Subgroups = []Group{}
		b.stats.Truncated += len(g.GroupList)
	}

	if rec, ok := b.index[g.GUID]; ok {
		if rec.ItemList != nil {
			out.Items = rec.ItemList
		}
		if rec.GoodsList != nil {
			out.Goods = rec.GoodsList
		}
	}

	return out
}
