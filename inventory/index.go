package inventory

import "sort"

// Index is an immutable by-name snapshot of the inventory. Refresh it by
// building a new one from a fresh List.
type Index struct {
	items map[string]Item
}

// NewIndex builds an index over items. A later item replaces an earlier one
// with the same name.
func NewIndex(items []Item) *Index {
	idx := &Index{items: make(map[string]Item, len(items))}
	for _, it := range items {
		idx.items[it.Name] = it
	}
	return idx
}

// Find looks up an item by exact, case-sensitive name.
func (idx *Index) Find(name string) (Item, bool) {
	if idx == nil {
		return Item{}, false
	}
	it, ok := idx.items[name]
	return it, ok
}

// AllPresent reports whether every name has an entry, regardless of its
// quantity or unit.
func (idx *Index) AllPresent(names []string) bool {
	for _, n := range names {
		if _, ok := idx.Find(n); !ok {
			return false
		}
	}
	return true
}

// Missing returns the names that have no entry, in input order.
func (idx *Index) Missing(names []string) []string {
	var missing []string
	for _, n := range names {
		if _, ok := idx.Find(n); !ok {
			missing = append(missing, n)
		}
	}
	return missing
}

// Names returns the indexed names in sorted order.
func (idx *Index) Names() []string {
	if idx == nil {
		return nil
	}
	names := make([]string, 0, len(idx.items))
	for n := range idx.items {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of indexed items.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.items)
}
