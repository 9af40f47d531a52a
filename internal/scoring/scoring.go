// apps/go-server/internal/scoring/scoring.go
//
// Cross-player scoring for one round.
//
// For each player P:
//   1. others = union of every other player's words
//   2. unique = P's words minus others
//   3. score  = sum of Points(w) over unique
//
// Word validity is not re-checked here: every word already passed the
// acceptance gate when it was added to the player's set. Scoring never
// mutates the submitted sets; each ClientInfo owns fresh copies.
//
// Tariff (word length → points):
//      3 → 1     4 → 1     5 → 2
//      6 → 3     7 → 5     8+ → 11

package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/robalobadob/boggle/apps/go-server/internal/wordset"
)

// NoScore is the Score of a ClientInfo that has not been through scoring.
const NoScore = -1

var (
	// ErrDuplicateIdentity is returned when two submissions share a name.
	ErrDuplicateIdentity = errors.New("scoring: duplicate player identity")
	// ErrNotFound is returned by Results.Get for unknown names.
	ErrNotFound = errors.New("scoring: player not found")
)

// Submission is one player's final found-words set.
type Submission struct {
	Name  string
	Words *wordset.Set
}

// ClientInfo is a player's result for a round.
type ClientInfo struct {
	Name   string       `json:"name"`
	Words  *wordset.Set `json:"words"`  // copy of the submitted words
	Unique *wordset.Set `json:"unique"` // words no other player found
	Score  int          `json:"score"`
}

// Pending returns an unscored record for a player still collecting words.
func Pending(name string, words *wordset.Set) *ClientInfo {
	return &ClientInfo{Name: name, Words: words, Unique: wordset.New(), Score: NoScore}
}

// Points returns the tariff for a single word. Words shorter than three
// letters are worth nothing; the acceptance gate keeps them out of play.
// A catch-all tariff would hand them 11; the n < 3 case exists to stop
// that, so do not fold it into default.
func Points(word string) int {
	switch n := utf8.RuneCountInString(word); {
	case n < 3:
		return 0
	case n <= 4:
		return 1
	case n == 5:
		return 2
	case n == 6:
		return 3
	case n == 7:
		return 5
	default:
		return 11
	}
}

// Score sums the tariff over every word of s.
func Score(s *wordset.Set) int {
	return lo.SumBy(s.Words(), Points)
}

// Results maps player name to ClientInfo for the most recent round.
type Results struct {
	clients map[string]*ClientInfo
}

// NewResults returns an empty Results.
func NewResults() *Results {
	return &Results{clients: make(map[string]*ClientInfo)}
}

// Compute scores subs into a new Results.
func Compute(subs []Submission) (*Results, error) {
	r := NewResults()
	if err := r.Compute(subs); err != nil {
		return nil, err
	}
	return r, nil
}

// Compute scores subs and replaces the contents of r. On error r is left
// unchanged.
func (r *Results) Compute(subs []Submission) error {
	seen := make(map[string]struct{}, len(subs))
	for _, s := range subs {
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateIdentity, s.Name)
		}
		seen[s.Name] = struct{}{}
	}

	out := make(map[string]*ClientInfo, len(subs))
	for _, p := range subs {
		others := wordset.Union(lo.FilterMap(subs, func(o Submission, _ int) (*wordset.Set, bool) {
			return words(o), o.Name != p.Name
		})...)
		unique := wordset.Difference(words(p), others)
		out[p.Name] = &ClientInfo{
			Name:   p.Name,
			Words:  words(p).Clone(),
			Unique: unique,
			Score:  Score(unique),
		}
	}
	r.clients = out
	return nil
}

// words treats a missing set as empty.
func words(s Submission) *wordset.Set {
	if s.Words == nil {
		return wordset.New()
	}
	return s.Words
}

// Get returns the result for name.
func (r *Results) Get(name string) (*ClientInfo, error) {
	c, ok := r.clients[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return c, nil
}

// Names returns the player names in lexical order.
func (r *Results) Names() []string {
	names := lo.Keys(r.clients)
	sort.Strings(names)
	return names
}

// Len returns the number of players.
func (r *Results) Len() int { return len(r.clients) }

// Ranking returns every result ordered by score (highest first), then name.
func (r *Results) Ranking() []*ClientInfo {
	out := lo.Values(r.clients)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Winners returns the names holding the top score. Ties all win; a round
// where nobody scored has no winners.
func (r *Results) Winners() []string {
	var (
		best  int
		names []string
	)
	for _, c := range r.Ranking() {
		if c.Score <= 0 {
			break
		}
		if len(names) == 0 {
			best = c.Score
		}
		if c.Score != best {
			break
		}
		names = append(names, c.Name)
	}
	return names
}

// MarshalJSON encodes the results as the ranking list.
func (r *Results) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Ranking())
}
