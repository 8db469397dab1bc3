package table

import "sort"

// Annotations is the ordered annotation list of one region. Insertion order
// is preserved; indices are stable because entries are never removed.
type Annotations struct {
	items []Annotation
}

// Append adds a to the end of the list and returns its index.
func (l *Annotations) Append(a Annotation) int {
	l.items = append(l.items, a)
	return len(l.items) - 1
}

// Len returns the number of annotations in the list.
func (l *Annotations) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

// At returns the annotation at index i.
func (l *Annotations) At(i int) (Annotation, bool) {
	if l == nil || i < 0 || i >= len(l.items) {
		return Annotation{}, false
	}
	return l.items[i], true
}

// All returns the list. Callers must not modify the returned slice.
func (l *Annotations) All() []Annotation {
	if l == nil {
		return nil
	}
	return l.items
}

// Find returns the annotations matching f in insertion order.
func (l *Annotations) Find(f Filter) []Indexed {
	if l == nil {
		return nil
	}
	var out []Indexed
	for i, a := range l.items {
		if f.Matches(a) {
			out = append(out, Indexed{Index: i, Annotation: a})
		}
	}
	return out
}

// Store maps regions to their annotation lists. Regions exist only after an
// explicit GetOrCreate; reads never create them.
type Store struct {
	regions map[Region]*Annotations
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{regions: make(map[Region]*Annotations)}
}

// Get returns the annotation list of r, or nil when r has none.
func (s *Store) Get(r Region) *Annotations {
	return s.regions[r]
}

// GetOrCreate returns the annotation list of r, creating it when absent.
func (s *Store) GetOrCreate(r Region) *Annotations {
	l, ok := s.regions[r]
	if !ok {
		l = &Annotations{}
		s.regions[r] = l
	}
	return l
}

// Regions returns the regions that currently exist, table first, then
// columns, rows and cells.
func (s *Store) Regions() []Region {
	out := make([]Region, 0, len(s.regions))
	for r := range s.regions {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].less(out[j]) })
	return out
}

// Len returns the total number of annotations across all regions.
func (s *Store) Len() int {
	n := 0
	for _, l := range s.regions {
		n += l.Len()
	}
	return n
}

// Compact drops regions without annotations and returns how many it dropped.
// It runs once, right before a table is serialized.
func (s *Store) Compact() int {
	dropped := 0
	for r, l := range s.regions {
		if l.Len() == 0 {
			delete(s.regions, r)
			dropped++
		}
	}
	return dropped
}
