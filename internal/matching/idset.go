package matching

// idSet is an insertion-ordered set of identifiers.
type idSet struct {
	order []string
	index map[string]struct{}
}

func newIDSet() *idSet {
	return &idSet{index: make(map[string]struct{})}
}

func (s *idSet) has(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[id]
	return ok
}

// add appends id and reports whether it was absent.
func (s *idSet) add(id string) bool {
	if s.has(id) {
		return false
	}
	s.index[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

// remove deletes id and reports whether it was present.
func (s *idSet) remove(id string) bool {
	if !s.has(id) {
		return false
	}
	delete(s.index, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *idSet) len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

func (s *idSet) ids() []string {
	if s == nil || len(s.order) == 0 {
		return nil
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
