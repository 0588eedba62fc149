package material

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// DefaultName is the base name given to a freshly added material row.
const DefaultName = "New Material"

// DefaultQuantity is the quantity given to a freshly added material row.
const DefaultQuantity = "0"

// Entry is one required material: a name and the raw quantity string the user
// entered. The quantity is parsed only when it is consumed.
type Entry struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// List is an association list of materials kept sorted by name with unique
// names. It encodes to JSON as an object of name to quantity string.
//
// Methods never modify the receiver; they return a new List.
type List []Entry

// FromMap builds a List from a name to quantity map.
func FromMap(m map[string]string) List {
	if len(m) == 0 {
		return nil
	}
	l := make(List, 0, len(m))
	for name, qty := range m {
		l = append(l, Entry{Name: name, Quantity: qty})
	}
	sort.Slice(l, func(i, j int) bool { return l[i].Name < l[j].Name })
	return l
}

// Map returns the list as a name to quantity map.
func (l List) Map() map[string]string {
	m := make(map[string]string, len(l))
	for _, e := range l {
		m[e.Name] = e.Quantity
	}
	return m
}

func (l List) index(name string) (int, bool) {
	i := sort.Search(len(l), func(i int) bool { return l[i].Name >= name })
	return i, i < len(l) && l[i].Name == name
}

// Get returns the quantity string recorded for name.
func (l List) Get(name string) (string, bool) {
	i, ok := l.index(name)
	if !ok {
		return "", false
	}
	return l[i].Quantity, true
}

// Has reports whether name is in the list.
func (l List) Has(name string) bool {
	_, ok := l.index(name)
	return ok
}

// Names returns the material names in sorted order.
func (l List) Names() []string {
	names := make([]string, len(l))
	for i, e := range l {
		names[i] = e.Name
	}
	return names
}

// Clone returns a copy of l that shares no storage with it.
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	out := make(List, len(l))
	copy(out, l)
	return out
}

// With returns a list where name maps to qty, inserting or replacing.
func (l List) With(name, qty string) List {
	i, ok := l.index(name)
	out := make(List, 0, len(l)+1)
	out = append(out, l[:i]...)
	out = append(out, Entry{Name: name, Quantity: qty})
	if ok {
		i++
	}
	return append(out, l[i:]...)
}

// Without returns a list with name removed.
func (l List) Without(name string) List {
	i, ok := l.index(name)
	if !ok {
		return l.Clone()
	}
	out := make(List, 0, len(l)-1)
	out = append(out, l[:i]...)
	return append(out, l[i+1:]...)
}

// Rename moves the quantity stored under oldName to newName, replacing any
// entry already called newName. Renaming a missing entry is a no-op.
func (l List) Rename(oldName, newName string) List {
	qty, ok := l.Get(oldName)
	if !ok {
		return l.Clone()
	}
	return l.Without(oldName).With(newName, qty)
}

// NextName returns DefaultName, or "New Material N" with the smallest N ≥ 1
// that is not already used.
func (l List) NextName() string {
	name := DefaultName
	for i := 1; l.Has(name); i++ {
		name = fmt.Sprintf("%s %d", DefaultName, i)
	}
	return name
}

// Equal reports whether both lists hold the same entries.
func (l List) Equal(other List) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		if l[i] != other[i] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the list as a JSON object with keys in sorted order.
func (l List) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Quantity)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of name to quantity string.
func (l *List) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("decode materials: %w", err)
	}
	*l = FromMap(m)
	return nil
}
