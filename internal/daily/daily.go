// apps/go-server/internal/daily/daily.go
//
// Daily boards: every player who asks for the daily round on the same UTC date
// gets the same board. The board seed is HMAC-SHA256(salt, YYYY-MM-DD), so the
// sequence cannot be predicted without the salt.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"time"

	"lukechampine.com/frand"

	"github.com/robalobadob/boggle/apps/go-server/internal/board"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns the 32-byte seed for the given date.
func Seed(date time.Time, salt string) []byte {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	return h.Sum(nil)
}

// Source returns a deterministic random source for the given date. The
// returned RNG is not safe for concurrent use.
func Source(date time.Time, salt string) *frand.RNG {
	return frand.NewCustom(Seed(date, salt), 1024, 12)
}

// Board builds the daily board of the given size.
func Board(date time.Time, salt string, size int) (*board.Board, error) {
	return board.NewGenerator(Source(date, salt)).Generate(size)
}
