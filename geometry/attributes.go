package geometry

import (
	"fmt"
	"sort"
)

// Region classifies which simplex collection of a mesh an integral ranges over
type Region uint8

const (
	Domain Region = iota
	Boundary
	Interface
)

func (r Region) String() string {
	names := [...]string{"Domain", "Boundary", "Interface"}
	if int(r) >= len(names) {
		return fmt.Sprintf("Region(%d)", r)
	}
	return names[r]
}

// AttributeSet is a set of integer tags. The empty (or nil) set means "every attribute"
// wherever it is used as a filter.
type AttributeSet map[int]struct{}

func NewAttributeSet(attrs ...int) (s AttributeSet) {
	if len(attrs) == 0 {
		return nil
	}
	s = make(AttributeSet, len(attrs))
	for _, a := range attrs {
		s[a] = struct{}{}
	}
	return
}

func (s AttributeSet) Empty() bool { return len(s) == 0 }

func (s AttributeSet) Contains(attr int) bool {
	_, ok := s[attr]
	return ok
}

// Matches reports whether a simplex carrying attr passes the filter
func (s AttributeSet) Matches(attr int) bool {
	return s.Empty() || s.Contains(attr)
}

func (s AttributeSet) Copy() AttributeSet {
	if s == nil {
		return nil
	}
	c := make(AttributeSet, len(s))
	for a := range s {
		c[a] = struct{}{}
	}
	return c
}

func (s AttributeSet) Union(o AttributeSet) AttributeSet {
	if s.Empty() && o.Empty() {
		return nil
	}
	u := s.Copy()
	if u == nil {
		u = make(AttributeSet, len(o))
	}
	for a := range o {
		u[a] = struct{}{}
	}
	return u
}

// Slice returns the attributes in ascending order
func (s AttributeSet) Slice() (attrs []int) {
	attrs = make([]int, 0, len(s))
	for a := range s {
		attrs = append(attrs, a)
	}
	sort.Ints(attrs)
	return
}

func (s AttributeSet) String() string {
	return fmt.Sprintf("%v", s.Slice())
}
