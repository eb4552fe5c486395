package changelog

// Sections maps version keys to section lines, remembering the order in
// which keys were first seen. The zero value is ready to use.
type Sections struct {
	keys   []string
	bodies map[string][]string
}

// NewSections returns an empty Sections.
func NewSections() *Sections {
	return &Sections{bodies: make(map[string][]string)}
}

// Add stores lines under key. If key already holds lines, the new lines are
// appended after a blank separator line.
func (s *Sections) Add(key string, lines []string) {
	if s.bodies == nil {
		s.bodies = make(map[string][]string)
	}
	existing, ok := s.bodies[key]
	if !ok {
		s.keys = append(s.keys, key)
		s.bodies[key] = append([]string(nil), lines...)
		return
	}
	merged := make([]string, 0, len(existing)+1+len(lines))
	merged = append(merged, existing...)
	merged = append(merged, "")
	merged = append(merged, lines...)
	s.bodies[key] = merged
}

// Keys returns the keys in first-seen order.
func (s *Sections) Keys() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.keys...)
}

// Lines returns the lines stored under key.
func (s *Sections) Lines(key string) []string {
	if s == nil {
		return nil
	}
	return s.bodies[key]
}

// Len returns the number of keys.
func (s *Sections) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Map returns the sections as a plain map.
func (s *Sections) Map() map[string][]string {
	out := make(map[string][]string, s.Len())
	if s == nil {
		return out
	}
	for k, v := range s.bodies {
		out[k] = v
	}
	return out
}
