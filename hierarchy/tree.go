package hierarchy

import (
	"slices"

	"github.com/kosdata/tarik/core"
)

// BuildTree converts a flat row list into a nested tree. Each row becomes
// one node; a node attaches to its resolved parent when that parent is also
// in the list, otherwise it joins the root list. Every level is sorted by
// the total sibling order, so identical inputs produce identical trees
// regardless of input ordering.
//
// Parent resolution is scoped to the given list, not the whole dataset: a
// record whose real ancestors were not included renders as a root. Callers
// that want ancestor context include the ancestor rows (the query engine
// does).
//
// Duplicate codes keep the first occurrence. Cyclic explicit parent
// references are broken deterministically instead of hanging.
func BuildTree(rows []*core.Row) []*core.Node {
	unique := make([]*core.Row, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		if row == nil || row.Record == nil || seen[row.Record.Code] {
			continue
		}
		seen[row.Record.Code] = true
		unique = append(unique, row)
	}

	records := make([]*core.TariffRecord, len(unique))
	for i, row := range unique {
		records[i] = row.Record
	}
	resolver := NewResolver(records)

	parent := make(map[string]string, len(unique))
	for _, record := range records {
		if p, ok := resolver.Parent(record); ok {
			parent[record.Code] = p.Code
		}
	}
	breakCycles(records, parent)

	nodes := make(map[string]*core.Node, len(unique))
	for _, row := range unique {
		nodes[row.Record.Code] = &core.Node{Record: row.Record, Highlighted: row.Highlighted}
	}

	var roots []*core.Node
	for _, record := range records {
		node := nodes[record.Code]
		if parentCode, ok := parent[record.Code]; ok {
			parentNode := nodes[parentCode]
			parentNode.SubRows = append(parentNode.SubRows, node)
			continue
		}
		roots = append(roots, node)
	}

	sortLevel(roots)
	for _, node := range nodes {
		sortLevel(node.SubRows)
	}
	return roots
}

// Flatten walks a tree depth-first and returns the rows in render order.
func Flatten(nodes []*core.Node) []*core.Row {
	var rows []*core.Row
	var walk func([]*core.Node)
	walk = func(level []*core.Node) {
		for _, node := range level {
			rows = append(rows, &core.Row{Record: node.Record, Highlighted: node.Highlighted})
			walk(node.SubRows)
		}
	}
	walk(nodes)
	return rows
}

func sortLevel(nodes []*core.Node) {
	slices.SortFunc(nodes, func(a, b *core.Node) int {
		return core.CompareRecords(a.Record, b.Record)
	})
}

// breakCycles cuts the parent link that closes any cycle of explicit parent
// references. Prefix-derived parents are strictly shorter than their
// children and cannot cycle; only bad explicit ParentCode data reaches this.
// Records are visited in sorted order so the cut is deterministic.
func breakCycles(records []*core.TariffRecord, parent map[string]string) {
	ordered := make([]*core.TariffRecord, len(records))
	copy(ordered, records)
	slices.SortFunc(ordered, core.CompareRecords)

	const (
		active = 1
		done   = 2
	)
	state := make(map[string]int, len(records))
	for _, record := range ordered {
		if state[record.Code] != 0 {
			continue
		}
		var path []string
		code := record.Code
		for code != "" && state[code] == 0 {
			state[code] = active
			path = append(path, code)
			code = parent[code]
		}
		if code != "" && state[code] == active {
			// The walk re-entered its own path; the last walked node
			// closes the loop.
			delete(parent, path[len(path)-1])
		}
		for _, walked := range path {
			state[walked] = done
		}
	}
}
