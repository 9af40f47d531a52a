// apps/go-server/internal/game/types.go
//
// Core type definitions for a boggle round.
// Defines:
//   - Phase: where a round is in its lifecycle.
//   - Snapshot/PlayerView: read-only JSON views of a round.

package game

import (
	"time"

	"github.com/robalobadob/boggle/apps/go-server/internal/board"
	"github.com/robalobadob/boggle/apps/go-server/internal/scoring"
)

// Phase is the lifecycle state of a round.
//
//	Collecting → Scoring → Complete
//
// Words are accepted only while Collecting. Scoring is the barrier where all
// players' sets are read together; it is entered exactly once.
type Phase int

const (
	Collecting Phase = iota
	Scoring
	Complete
)

// String returns the display value for the phase.
func (p Phase) String() string {
	switch p {
	case Collecting:
		return "collecting"
	case Scoring:
		return "scoring"
	case Complete:
		return "complete"
	}
	return "unknown"
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// PlayerView describes one participant without exposing their words.
type PlayerView struct {
	Name     string `json:"name"`
	Words    int    `json:"words"`    // accepted words so far
	Finished bool   `json:"finished"` // submitted their final list
}

// Snapshot is a point-in-time copy of a round's public state.
type Snapshot struct {
	ID        string           `json:"id"`
	Phase     Phase            `json:"phase"`
	Board     *board.Board     `json:"board"`
	Daily     string           `json:"daily,omitempty"` // YYYY-MM-DD for daily boards
	CreatedAt time.Time        `json:"createdAt"`
	Deadline  time.Time        `json:"deadline"`
	Players   []PlayerView     `json:"players"`
	Results   *scoring.Results `json:"results,omitempty"` // only once Complete
}
