package storage

// Set is an append-only collection of user-agent strings that remembers
// insertion order. It is not safe for concurrent use.
type Set struct {
	items []string
	index map[string]struct{}
}

// NewSet returns a Set holding the given strings. Duplicates are collapsed,
// keeping the first occurrence.
func NewSet(items ...string) *Set {
	s := &Set{
		items: make([]string, 0, len(items)),
		index: make(map[string]struct{}, len(items)),
	}
	for _, it := range items {
		s.Add(it)
	}
	return s
}

// Add appends ua if it is not present yet and reports whether it was added.
func (s *Set) Add(ua string) bool {
	if _, ok := s.index[ua]; ok {
		return false
	}
	s.index[ua] = struct{}{}
	s.items = append(s.items, ua)
	return true
}

// Contains reports whether ua is in the set.
func (s *Set) Contains(ua string) bool {
	_, ok := s.index[ua]
	return ok
}

// Len returns the number of strings in the set.
func (s *Set) Len() int {
	return len(s.items)
}

// Items returns a copy of the strings in insertion order.
func (s *Set) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}
