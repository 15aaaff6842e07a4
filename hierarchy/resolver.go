package hierarchy

import (
	"github.com/kosdata/tarik/core"
)

// Resolver answers parent and root questions over one fixed record set.
// It memoizes root resolution, so total work over a whole dataset stays
// linear. Not safe for concurrent use; the Snapshot pre-resolves every
// record at build time and is the concurrent-read surface.
type Resolver struct {
	byCode map[string]*core.TariffRecord
	roots  map[string]string // memoized code -> root code
}

// NewResolver builds a resolver over the given records. Duplicate codes
// resolve to the last occurrence.
func NewResolver(records []*core.TariffRecord) *Resolver {
	byCode := make(map[string]*core.TariffRecord, len(records))
	for _, record := range records {
		byCode[record.Code] = record
	}
	return &Resolver{
		byCode: byCode,
		roots:  make(map[string]string, len(records)),
	}
}

// Lookup returns the record for a code.
func (r *Resolver) Lookup(code string) (*core.TariffRecord, bool) {
	record, ok := r.byCode[code]
	return record, ok
}

// Parent resolves a record's parent. An explicit ParentCode wins when it
// references an existing record other than the record itself; otherwise the
// longest proper prefix of the code that is itself a code wins. The second
// return is false for roots.
func (r *Resolver) Parent(record *core.TariffRecord) (*core.TariffRecord, bool) {
	if record.ParentCode != "" && record.ParentCode != record.Code {
		if parent, ok := r.byCode[record.ParentCode]; ok {
			return parent, true
		}
	}
	for cut := len(record.Code) - 1; cut >= 1; cut-- {
		if parent, ok := r.byCode[record.Code[:cut]]; ok {
			return parent, true
		}
	}
	return nil, false
}

// RootCode resolves the topmost ancestor of a code. Unknown codes resolve to
// themselves. A cyclic parent chain is broken at the point the walk would
// revisit a code; every code on the walked path is memoized.
func (r *Resolver) RootCode(code string) string {
	if root, ok := r.roots[code]; ok {
		return root
	}

	var path []string
	visited := make(map[string]bool)
	current := code
	for {
		if root, ok := r.roots[current]; ok {
			current = root
			break
		}
		record, ok := r.byCode[current]
		if !ok {
			break
		}
		visited[current] = true
		path = append(path, current)
		parent, ok := r.Parent(record)
		if !ok || visited[parent.Code] {
			break
		}
		current = parent.Code
	}

	for _, walked := range path {
		r.roots[walked] = current
	}
	r.roots[code] = current
	return current
}

// Ancestors returns the chain from a record's parent up to its root,
// nearest ancestor first. Cycles terminate the walk.
func (r *Resolver) Ancestors(record *core.TariffRecord) []*core.TariffRecord {
	var chain []*core.TariffRecord
	visited := map[string]bool{record.Code: true}
	current := record
	for {
		parent, ok := r.Parent(current)
		if !ok || visited[parent.Code] {
			return chain
		}
		visited[parent.Code] = true
		chain = append(chain, parent)
		current = parent
	}
}
