// apps/go-server/internal/store/memory.go
//
// In-memory implementation of the round Store.
//
// Characteristics:
//   - Stores *game.Round objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - Capacity-limited; Save of a new round fails with ErrFull at the cap.
//   - Sweep finishes rounds past their deadline and drops stale ones.

package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/boggle/apps/go-server/internal/game"
)

var (
	ErrNotFound = errors.New("round not found")
	ErrFull     = errors.New("too many active rounds")
)

// Store defines the persistence interface for rounds.
type Store interface {
	// Save persists a round, replacing any round with the same ID.
	Save(ctx context.Context, r *game.Round) error

	// Get retrieves a round by ID.
	Get(ctx context.Context, id string) (*game.Round, error)

	// Delete drops a round. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// List returns every stored round, newest first.
	List(ctx context.Context) ([]*game.Round, error)
}

// Memory is a map-based Store.
type Memory struct {
	mu        sync.RWMutex           // guards rounds
	rounds    map[string]*game.Round // keyed by Round.ID
	maxRounds int
}

// NewMemoryStore constructs an in-memory Store holding at most maxRounds
// rounds. maxRounds <= 0 means no limit.
func NewMemoryStore(maxRounds int) *Memory {
	return &Memory{rounds: make(map[string]*game.Round), maxRounds: maxRounds}
}

// Save adds or updates the round in the map.
func (m *Memory) Save(ctx context.Context, r *game.Round) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.rounds[r.ID]; !exists && m.maxRounds > 0 && len(m.rounds) >= m.maxRounds {
		return ErrFull
	}
	m.rounds[r.ID] = r
	return nil
}

// Get looks up a round by ID.
func (m *Memory) Get(ctx context.Context, id string) (*game.Round, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.rounds[id]; ok {
		return r, nil
	}
	return nil, ErrNotFound
}

// Delete removes a round.
func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rounds, id)
	return nil
}

// List returns all rounds ordered by creation time, newest first.
func (m *Memory) List(ctx context.Context) ([]*game.Round, error) {
	m.mu.RLock()
	out := make([]*game.Round, 0, len(m.rounds))
	for _, r := range m.rounds {
		out = append(out, r)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Sweep finishes every round whose deadline has passed and drops rounds
// created more than ttl before now. It returns the number finished and dropped.
func (m *Memory) Sweep(ctx context.Context, now time.Time, ttl time.Duration) (finished, dropped int) {
	rounds, _ := m.List(ctx)
	for _, r := range rounds {
		if r.Expired(now) {
			// Finish runs completion hooks, so it must not hold m.mu.
			r.Finish()
			finished++
		}
		if ttl > 0 && now.Sub(r.CreatedAt) > ttl {
			_ = m.Delete(ctx, r.ID)
			dropped++
		}
	}
	return finished, dropped
}

// Maintain runs Sweep every interval until ctx is cancelled.
func (m *Memory) Maintain(ctx context.Context, interval, ttl time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if f, d := m.Sweep(ctx, now.UTC(), ttl); f > 0 || d > 0 {
				log.Debug().Int("finished", f).Int("dropped", d).Msg("swept rounds")
			}
		}
	}
}
