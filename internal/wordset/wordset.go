// apps/go-server/internal/wordset/wordset.go
//
// Set of lowercase words, used for a player's found words and as scratch
// storage while scoring.
//
// The mutating operations (Insert, UnionWith, Subtract, Clear) change the
// receiver only; the argument is never modified. A Set has a single owner at a
// time: the player session while collecting, the scoring pass afterwards.
// Union and Difference return fresh sets for callers that must not alias.

package wordset

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Set is a set of normalised words. The zero value is an empty set.
type Set struct {
	m map[string]struct{}
}

// New returns a set holding the given words, normalised.
func New(words ...string) *Set {
	s := &Set{m: make(map[string]struct{}, len(words))}
	for _, w := range words {
		s.Insert(w)
	}
	return s
}

// Normalize trims surrounding whitespace and lowercases w.
func Normalize(w string) string {
	return strings.ToLower(strings.TrimSpace(w))
}

// Insert normalises w and adds it. Empty words and duplicates are no-ops.
func (s *Set) Insert(w string) {
	w = Normalize(w)
	if w == "" {
		return
	}
	if s.m == nil {
		s.m = make(map[string]struct{})
	}
	s.m[w] = struct{}{}
}

// Contains matches w exactly against the stored normalised words.
func (s *Set) Contains(w string) bool {
	_, ok := s.m[w]
	return ok
}

// UnionWith adds every word of other to s. A nil other is the empty set.
func (s *Set) UnionWith(other *Set) {
	if other == nil {
		return
	}
	if s.m == nil {
		s.m = make(map[string]struct{}, len(other.m))
	}
	for w := range other.m {
		s.m[w] = struct{}{}
	}
}

// Subtract removes from s every word that is also in other. A nil other is
// the empty set.
func (s *Set) Subtract(other *Set) {
	if other == nil {
		return
	}
	// Iterate whichever side is smaller.
	if len(other.m) < len(s.m) {
		for w := range other.m {
			delete(s.m, w)
		}
		return
	}
	for w := range s.m {
		if _, ok := other.m[w]; ok {
			delete(s.m, w)
		}
	}
}

// Clear empties the set.
func (s *Set) Clear() {
	clear(s.m)
}

// Size returns the number of words.
func (s *Set) Size() int {
	return len(s.m)
}

// Words returns the current words in unspecified order. The slice is a new
// copy and may be iterated any number of times.
func (s *Set) Words() []string {
	return lo.Keys(s.m)
}

// Sorted returns the words in lexical order, for display.
func (s *Set) Sorted() []string {
	out := s.Words()
	sort.Strings(out)
	return out
}

// Clone returns an independent copy of s.
func (s *Set) Clone() *Set {
	c := &Set{m: make(map[string]struct{}, len(s.m))}
	for w := range s.m {
		c.m[w] = struct{}{}
	}
	return c
}

// Union returns a new set holding the words of every argument.
func Union(sets ...*Set) *Set {
	out := New()
	for _, s := range sets {
		out.UnionWith(s)
	}
	return out
}

// Difference returns a new set holding the words of a that are not in b.
func Difference(a, b *Set) *Set {
	out := a.Clone()
	out.Subtract(b)
	return out
}

// MarshalJSON encodes the set as a sorted array of words.
func (s *Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes an array of words, normalising each.
func (s *Set) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	s.m = make(map[string]struct{}, len(list))
	for _, w := range list {
		s.Insert(w)
	}
	return nil
}
