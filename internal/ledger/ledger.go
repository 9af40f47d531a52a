// apps/go-server/internal/ledger/ledger.go
//
// Results ledger over the SQLite schema from db.go.
// Responsibilities:
//   - Recording a completed round: one row per player plus user stat bumps,
//     in a single transaction.
//   - Queries: all-time leaderboard, daily leaderboard, per-player history.

package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/robalobadob/boggle/apps/go-server/internal/scoring"
)

// Entry is one player's stored result for one round.
type Entry struct {
	RoundID   string    `json:"roundId"`
	Username  string    `json:"username"`
	Daily     string    `json:"daily,omitempty"`
	Score     int       `json:"score"`
	Words     int       `json:"words"`
	Unique    []string  `json:"unique"`
	Winner    bool      `json:"winner"`
	CreatedAt time.Time `json:"createdAt"`
}

// Standing is a row of the all-time leaderboard.
type Standing struct {
	Username     string `json:"username"`
	RoundsPlayed int    `json:"roundsPlayed"`
	Wins         int    `json:"wins"`
	TotalScore   int    `json:"totalScore"`
}

// Ledger records completed rounds.
type Ledger struct{ db *sql.DB }

func New(db *sql.DB) *Ledger { return &Ledger{db: db} }

// Record stores every player's result for a round and bumps the players'
// account totals, all in one transaction. Recording the same round twice
// changes nothing.
func (l *Ledger) Record(ctx context.Context, roundID, daily string, res *scoring.Results) error {
	winners := lo.SliceToMap(res.Winners(), func(n string) (string, bool) { return n, true })
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range res.Ranking() {
		unique, err := json.Marshal(c.Unique)
		if err != nil {
			return err
		}
		won := winners[c.Name]
		out, err := tx.ExecContext(ctx, `
            INSERT OR IGNORE INTO round_results
                (round_id, username, daily, score, words, unique_words, winner, created_at)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			roundID, c.Name, daily, c.Score, c.Words.Size(), string(unique), won, now,
		)
		if err != nil {
			return fmt.Errorf("insert result %s/%s: %w", roundID, c.Name, err)
		}
		if n, _ := out.RowsAffected(); n == 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx, `
            UPDATE users
            SET rounds_played = rounds_played + 1,
                total_score   = total_score + ?,
                wins          = wins + ?
            WHERE username = ?`,
			c.Score, lo.Ternary(won, 1, 0), c.Name,
		); err != nil {
			return fmt.Errorf("bump stats %s: %w", c.Name, err)
		}
	}
	return tx.Commit()
}

// Leaderboard returns the top accounts by total score.
func (l *Ledger) Leaderboard(ctx context.Context, limit int) ([]Standing, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.QueryContext(ctx, `
        SELECT username, rounds_played, wins, total_score
        FROM users
        WHERE rounds_played > 0
        ORDER BY total_score DESC, rounds_played ASC, username ASC
        LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Standing, 0, limit)
	for rows.Next() {
		var s Standing
		if err := rows.Scan(&s.Username, &s.RoundsPlayed, &s.Wins, &s.TotalScore); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Daily returns the best results for the daily board of date (YYYY-MM-DD).
func (l *Ledger) Daily(ctx context.Context, date string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	return l.entries(ctx, `
        SELECT round_id, username, daily, score, words, unique_words, winner, created_at
        FROM round_results
        WHERE daily = ?
        ORDER BY score DESC, created_at ASC
        LIMIT ?`, date, limit)
}

// History returns a player's most recent results.
func (l *Ledger) History(ctx context.Context, username string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	return l.entries(ctx, `
        SELECT round_id, username, daily, score, words, unique_words, winner, created_at
        FROM round_results
        WHERE username = ?
        ORDER BY created_at DESC, round_id DESC
        LIMIT ?`, username, limit)
}

func (l *Ledger) entries(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var (
			e       Entry
			unique  string
			created string
		)
		if err := rows.Scan(&e.RoundID, &e.Username, &e.Daily, &e.Score, &e.Words, &unique, &e.Winner, &created); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(unique), &e.Unique); err != nil {
			return nil, fmt.Errorf("decode unique words for %s/%s: %w", e.RoundID, e.Username, err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, e)
	}
	return out, rows.Err()
}
