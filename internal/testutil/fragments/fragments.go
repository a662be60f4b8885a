package fragments

import (
	"math/rand"
	"strings"
	"testing"
)

// Space enumerates every subset of a set of top-level program fragments.
// Each subset is joined in a random order into one source text and handed to the subject,
// then every invariant is checked against the selection and the subject's error.
// Fragments must be order independent: any arrangement of valid fragments is a valid program.
type Space struct {
	subject    func(src string) error
	fragments  []Fragment
	invariants []invariant
}

type Fragment struct {
	Name   string
	Source string
	Valid  bool
}

type invariant struct {
	Name   string
	Assert func(selected []Fragment, src string, err error) bool
}

// Test creates a new space exercising fn.
func Test(fn func(src string) error) *Space { return &Space{subject: fn} }

// WithValid appends a fragment that is a complete statement on its own.
func (s *Space) WithValid(name, src string) *Space {
	s.fragments = append(s.fragments, Fragment{Name: name, Source: src, Valid: true})
	return s
}

// WithInvalid appends a fragment that must make any program containing it fail.
func (s *Space) WithInvalid(name, src string) *Space {
	s.fragments = append(s.fragments, Fragment{Name: name, Source: src})
	return s
}

// WithInvariant appends an assertion evaluated for every subset of fragments.
func (s *Space) WithInvariant(name string, fn func(selected []Fragment, src string, err error) bool) *Space {
	s.invariants = append(s.invariants, invariant{Name: name, Assert: fn})
	return s
}

// AcceptsIffValid is the baseline invariant: the program is accepted exactly
// when no invalid fragment was selected.
func AcceptsIffValid(selected []Fragment, _ string, err error) bool {
	for _, f := range selected {
		if !f.Valid {
			return err != nil
		}
	}
	return err == nil
}

func (s *Space) Evaluate(t *testing.T) {
	s.evaluate(t.Errorf)
}

func (s *Space) evaluate(fail func(msg string, args ...any)) {
	subsets := make([]int, 1<<len(s.fragments))
	for i := range subsets {
		subsets[i] = i
	}
	rand.Shuffle(len(subsets), func(i, j int) { subsets[i], subsets[j] = subsets[j], subsets[i] })

	for _, bitmap := range subsets {
		var selected []Fragment
		for _, i := range rand.Perm(len(s.fragments)) {
			if (bitmap>>i)&1 == 1 {
				selected = append(selected, s.fragments[i])
			}
		}

		parts := make([]string, len(selected))
		for i, f := range selected {
			parts[i] = f.Source
		}
		src := strings.Join(parts, "\n")
		err := s.subject(src)

		for _, inv := range s.invariants {
			if inv.Assert(selected, src, err) {
				continue
			}
			names := make([]string, len(selected))
			for i, f := range selected {
				names[i] = f.Name
			}
			fail("invariant '%s' failed with fragments [%s]: %v", inv.Name, strings.Join(names, ", "), err)
		}
	}
}
