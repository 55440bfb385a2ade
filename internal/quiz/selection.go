package quiz

// Selection is the set of currently selected choice labels.
type Selection struct {
	labels map[string]struct{}
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{labels: make(map[string]struct{})}
}

// Toggle flips label and reports whether it is now selected.
func (s *Selection) Toggle(label string) bool {
	if _, ok := s.labels[label]; ok {
		delete(s.labels, label)
		return false
	}
	s.labels[label] = struct{}{}
	return true
}

// Has reports whether label is selected.
func (s *Selection) Has(label string) bool {
	_, ok := s.labels[label]
	return ok
}

// Labels returns the selected labels in natural order.
func (s *Selection) Labels() []string {
	out := make([]string, 0, len(s.labels))
	for label := range s.labels {
		out = append(out, label)
	}
	SortNatural(out)
	return out
}

// Len returns the number of selected labels.
func (s *Selection) Len() int {
	return len(s.labels)
}

// Clear deselects every label.
func (s *Selection) Clear() {
	clear(s.labels)
}
