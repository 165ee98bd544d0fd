package candidate

// set is an insertion-ordered string set.
type set struct {
	seen  map[string]struct{}
	items []string
}

func newSet(capacity int) *set {
	return &set{
		seen:  make(map[string]struct{}, capacity),
		items: make([]string, 0, capacity),
	}
}

func (s *set) add(v string) {
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}

func (s *set) addAll(vs []string) {
	for _, v := range vs {
		s.add(v)
	}
}

func (s *set) list() []string {
	return s.items
}
