package domain

// PackageSet is an insertion-ordered collection of formulas keyed by package name.
// Each name appears at most once.
type PackageSet struct {
	order    []string
	formulas map[string]*Formula
}

// NewPackageSet creates an empty PackageSet.
func NewPackageSet() *PackageSet {
	return &PackageSet{formulas: make(map[string]*Formula)}
}

// Add inserts a formula. Adding a name that is already present replaces the formula
// and moves the name to the end.
func (s *PackageSet) Add(f *Formula) {
	if _, exists := s.formulas[f.Name]; exists {
		s.Touch(f.Name)
	} else {
		s.order = append(s.order, f.Name)
	}
	s.formulas[f.Name] = f
}

// Get returns the formula for name.
func (s *PackageSet) Get(name string) (*Formula, bool) {
	f, ok := s.formulas[name]
	return f, ok
}

// Touch moves name to the end of the ordering hint.
func (s *PackageSet) Touch(name string) {
	for i, n := range s.order {
		if n == name {
			copy(s.order[i:], s.order[i+1:])
			s.order[len(s.order)-1] = name
			return
		}
	}
}

// Len returns the number of packages in the set.
func (s *PackageSet) Len() int {
	return len(s.order)
}

// Names returns the package names in their current order.
func (s *PackageSet) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
