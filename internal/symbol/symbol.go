// Package symbol implements the assembler's symbol table: an
// insertion-ordered collection of labels keyed by name.
package symbol

// Kind classifies a Symbol. Label is the only kind in current use.
type Kind int

const (
	Label Kind = iota
)

// Symbol is a named, addressed entity discovered during pass 0.
type Symbol struct {
	Name string
	Kind Kind
	ID   int
	VPC  int64
}

// Table is a linear, insertion-ordered symbol collection. Lookup by name
// is O(n), matching the original's stated "lookup is linear" behavior;
// the table is never large enough in practice for this to matter.
type Table struct {
	order []*Symbol
	byID  map[int]*Symbol
	next  int
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{byID: make(map[int]*Symbol)}
}

// New inserts or replaces (by name) a symbol of the given kind at vpc,
// returning it. Duplicate names are not rejected: later definitions
// silently replace earlier ones, matching the original's "tests may
// treat it as insert-or-replace by name" allowance.
func (t *Table) New(name string, kind Kind, vpc int64) *Symbol {
	if existing := t.ByName(name); existing != nil {
		existing.Kind = kind
		existing.VPC = vpc
		return existing
	}

	sym := &Symbol{Name: name, Kind: kind, ID: t.next, VPC: vpc}
	t.next++
	t.order = append(t.order, sym)
	t.byID[sym.ID] = sym
	return sym
}

// ByName returns the symbol with the given name, or nil.
func (t *Table) ByName(name string) *Symbol {
	for _, s := range t.order {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// ByID returns the symbol with the given sequential id, or nil.
func (t *Table) ByID(id int) *Symbol {
	return t.byID[id]
}
