// apps/go-server/internal/game/engine.go
//
// Round engine: one board, many players, one scoring pass.
// Responsibilities:
//   - Track who joined and each player's found-words set.
//   - Gate every word through the acceptance rule at the moment it is added.
//   - Move Collecting → Scoring → Complete once every player has submitted,
//     or when the round is finished early (deadline, explicit close).
//   - Join/AddWord/Submit at or past the deadline seal the round first and
//     fail with ErrNotCollecting; no word lands after time is up.
//   - Run completion hooks (ledger, live updates) exactly once.
//
// Notes:
//   - A single mutex guards the round; the Scoring transition happens under it,
//     so no word can slip into any set once scoring has begun.
//   - Hooks run after the lock is released and may call back into the round.
//   - Words are not checked against the board's adjacency graph.

package game

import (
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/boggle/apps/go-server/internal/board"
	"github.com/robalobadob/boggle/apps/go-server/internal/scoring"
	"github.com/robalobadob/boggle/apps/go-server/internal/words"
	"github.com/robalobadob/boggle/apps/go-server/internal/wordset"
)

// MinWordLength is the shortest word the acceptance gate lets through.
const MinWordLength = 3

var (
	ErrNotCollecting = errors.New("round is no longer accepting words")
	ErrNotComplete   = errors.New("round has not been scored yet")
	ErrUnknownPlayer = errors.New("player has not joined this round")
	ErrAlreadyJoined = errors.New("player already joined this round")
	ErrInvalidName   = errors.New("player name is empty")
)

// CompletionHook is called once with the final results of a round.
type CompletionHook func(r *Round, res *scoring.Results)

type player struct {
	found    *wordset.Set
	finished bool
}

// Round is a single timed play session sharing one board.
type Round struct {
	ID        string
	Board     *board.Board
	Daily     string
	CreatedAt time.Time
	Deadline  time.Time

	dict *words.Dictionary

	mu      sync.Mutex
	phase   Phase
	order   []string // join order
	players map[string]*player
	results *scoring.Results
	hooks   []CompletionHook
}

// New starts a round in the Collecting phase. The dictionary is shared and
// only read.
func New(b *board.Board, dict *words.Dictionary, duration time.Duration) *Round {
	now := time.Now().UTC()
	return &Round{
		ID:        uuid.NewString(),
		Board:     b,
		CreatedAt: now,
		Deadline:  now.Add(duration),
		dict:      dict,
		phase:     Collecting,
		players:   make(map[string]*player),
	}
}

// Accept applies the acceptance gate: after normalising, the word must have
// at least MinWordLength letters, be in dict, and not already be in found.
// Accepted words are inserted into found. Rejections are silent.
func Accept(dict *words.Dictionary, found *wordset.Set, word string) bool {
	w := wordset.Normalize(word)
	if utf8.RuneCountInString(w) < MinWordLength {
		return false
	}
	if !dict.Contains(w) || found.Contains(w) {
		return false
	}
	found.Insert(w)
	return true
}

// OnComplete registers a hook. If the round is already complete the hook
// runs immediately.
func (r *Round) OnComplete(h CompletionHook) {
	r.mu.Lock()
	if r.phase == Complete {
		res := r.results
		r.mu.Unlock()
		h(r, res)
		return
	}
	r.hooks = append(r.hooks, h)
	r.mu.Unlock()
}

// Join adds a player with an empty found-words set.
func (r *Round) Join(name string) error {
	if name == "" {
		return ErrInvalidName
	}
	r.mu.Lock()
	if r.sealExpiredLocked(time.Now()) {
		return ErrNotCollecting
	}
	defer r.mu.Unlock()
	if r.phase != Collecting {
		return ErrNotCollecting
	}
	if _, ok := r.players[name]; ok {
		return fmt.Errorf("%w: %q", ErrAlreadyJoined, name)
	}
	r.players[name] = &player{found: wordset.New()}
	r.order = append(r.order, name)
	return nil
}

// AddWord offers one word on behalf of name. It reports whether the word was
// accepted; a rejected word is not an error.
func (r *Round) AddWord(name, word string) (bool, error) {
	r.mu.Lock()
	if r.sealExpiredLocked(time.Now()) {
		return false, ErrNotCollecting
	}
	defer r.mu.Unlock()
	p, err := r.collectingPlayerLocked(name)
	if err != nil {
		return false, err
	}
	return Accept(r.dict, p.found, word), nil
}

// Submit offers a final list of words for name and marks them finished. When
// the last player finishes, the round is scored. It returns how many of the
// words were newly accepted.
func (r *Round) Submit(name string, list []string) (int, error) {
	r.mu.Lock()
	if r.sealExpiredLocked(time.Now()) {
		return 0, ErrNotCollecting
	}
	p, err := r.collectingPlayerLocked(name)
	if err != nil {
		r.mu.Unlock()
		return 0, err
	}
	accepted := 0
	for _, w := range list {
		if Accept(r.dict, p.found, w) {
			accepted++
		}
	}
	p.finished = true

	if !r.allFinishedLocked() {
		r.mu.Unlock()
		return accepted, nil
	}
	hooks, res := r.scoreLocked()
	r.mu.Unlock()
	runHooks(r, hooks, res)
	return accepted, nil
}

// Finish closes the round early and scores whatever each player has found.
// Finishing a round that is already complete is a no-op.
func (r *Round) Finish() {
	r.mu.Lock()
	if r.phase != Collecting {
		r.mu.Unlock()
		return
	}
	hooks, res := r.scoreLocked()
	r.mu.Unlock()
	runHooks(r, hooks, res)
}

// Expired reports whether the deadline has passed while still collecting.
func (r *Round) Expired(now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase == Collecting && !now.Before(r.Deadline)
}

// Phase returns the current phase.
func (r *Round) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// HasPlayer reports whether name joined the round.
func (r *Round) HasPlayer(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.players[name]
	return ok
}

// Found returns a copy of name's accepted words.
func (r *Round) Found(name string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlayer, name)
	}
	return p.found.Sorted(), nil
}

// Standing returns name's record: a pending one (Score NoScore, no unique
// words) while the round is open, the scored one once it is complete.
func (r *Round) Standing(name string) (*scoring.ClientInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlayer, name)
	}
	if r.phase == Complete {
		if c, err := r.results.Get(name); err == nil {
			return c, nil
		}
	}
	return scoring.Pending(name, p.found.Clone()), nil
}

// Results returns the scored results once the round is complete.
func (r *Round) Results() (*scoring.Results, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != Complete {
		return nil, ErrNotComplete
	}
	return r.results, nil
}

// Snapshot returns the public state of the round.
func (r *Round) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := Snapshot{
		ID:        r.ID,
		Phase:     r.phase,
		Board:     r.Board,
		Daily:     r.Daily,
		CreatedAt: r.CreatedAt,
		Deadline:  r.Deadline,
		Players:   make([]PlayerView, 0, len(r.order)),
	}
	for _, name := range r.order {
		p := r.players[name]
		s.Players = append(s.Players, PlayerView{Name: name, Words: p.found.Size(), Finished: p.finished})
	}
	if r.phase == Complete {
		s.Results = r.results
	}
	return s
}

func (r *Round) collectingPlayerLocked(name string) (*player, error) {
	if r.phase != Collecting {
		return nil, ErrNotCollecting
	}
	p, ok := r.players[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlayer, name)
	}
	return p, nil
}

func (r *Round) allFinishedLocked() bool {
	for _, p := range r.players {
		if !p.finished {
			return false
		}
	}
	return true
}

// sealExpiredLocked is called with r.mu held. If the deadline has passed while
// collecting, it scores the round, releases the lock, runs the hooks and
// reports true; otherwise the lock is still held and it reports false.
func (r *Round) sealExpiredLocked(now time.Time) bool {
	if r.phase != Collecting || now.Before(r.Deadline) {
		return false
	}
	hooks, res := r.scoreLocked()
	r.mu.Unlock()
	runHooks(r, hooks, res)
	return true
}

// scoreLocked runs the barrier. After it returns the round is Complete and the
// hooks have been handed back for the caller to run unlocked.
func (r *Round) scoreLocked() ([]CompletionHook, *scoring.Results) {
	r.phase = Scoring

	subs := make([]scoring.Submission, 0, len(r.order))
	for _, name := range r.order {
		subs = append(subs, scoring.Submission{Name: name, Words: r.players[name].found})
	}
	res, err := scoring.Compute(subs)
	if err != nil {
		log.Error().Err(err).Str("round", r.ID).Msg("rejecting round results")
		res = scoring.NewResults()
	}

	r.results = res
	r.phase = Complete
	hooks := r.hooks
	r.hooks = nil
	return hooks, res
}

func runHooks(r *Round, hooks []CompletionHook, res *scoring.Results) {
	for _, h := range hooks {
		h(r, res)
	}
}
