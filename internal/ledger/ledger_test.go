package ledger

import (
	"context"
	"database/sql"
	"testing"

	"github.com/matryer/is"

	"github.com/robalobadob/boggle/apps/go-server/internal/scoring"
	"github.com/robalobadob/boggle/apps/go-server/internal/wordset"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func addUser(t *testing.T, db *sql.DB, name string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		"id-"+name, name, "x", "2026-01-01T00:00:00Z")
	if err != nil {
		t.Fatalf("insert user %s: %v", name, err)
	}
}

func results(t *testing.T) *scoring.Results {
	t.Helper()
	res, err := scoring.Compute([]scoring.Submission{
		{Name: "alice", Words: wordset.New("cat", "dog", "zebra")},
		{Name: "bob", Words: wordset.New("dog", "bird")},
	})
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestMigrateIsIdempotent(t *testing.T) {
	is := is.New(t)
	db := openTestDB(t)
	is.NoErr(Migrate(db))

	var n int
	is.NoErr(db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n))
	is.Equal(n, 1)
}

func TestRecordAndLeaderboard(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	db := openTestDB(t)
	addUser(t, db, "alice")
	addUser(t, db, "bob")
	l := New(db)

	is.NoErr(l.Record(ctx, "round-1", "", results(t)))
	is.NoErr(l.Record(ctx, "round-1", "", results(t))) // replay is ignored

	board, err := l.Leaderboard(ctx, 10)
	is.NoErr(err)
	is.Equal(board, []Standing{
		{Username: "alice", RoundsPlayed: 1, Wins: 1, TotalScore: 3},
		{Username: "bob", RoundsPlayed: 1, Wins: 0, TotalScore: 1},
	})

	hist, err := l.History(ctx, "alice", 0)
	is.NoErr(err)
	is.Equal(len(hist), 1)
	is.Equal(hist[0].Score, 3)
	is.Equal(hist[0].Words, 3)
	is.Equal(hist[0].Unique, []string{"cat", "zebra"})
	is.True(hist[0].Winner)
	is.True(!hist[0].CreatedAt.IsZero())
}

func TestRecordGuestsOnlyHistory(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	l := New(openTestDB(t))

	// no accounts: rows are kept, leaderboard stays empty
	is.NoErr(l.Record(ctx, "round-2", "2026-03-01", results(t)))
	board, err := l.Leaderboard(ctx, 0)
	is.NoErr(err)
	is.Equal(len(board), 0)

	daily, err := l.Daily(ctx, "2026-03-01", 0)
	is.NoErr(err)
	is.Equal(len(daily), 2)
	is.Equal(daily[0].Username, "alice")
	is.Equal(daily[0].Daily, "2026-03-01")

	none, err := l.Daily(ctx, "2026-03-02", 0)
	is.NoErr(err)
	is.Equal(len(none), 0)
}
