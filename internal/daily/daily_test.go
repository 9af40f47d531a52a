package daily

import (
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestDateKeyIsUTC(t *testing.T) {
	is := is.New(t)
	loc := time.FixedZone("UTC+10", 10*60*60)
	is.Equal(DateKey(time.Date(2026, 3, 2, 8, 0, 0, 0, loc)), "2026-03-01")
}

func TestSameDaySameBoard(t *testing.T) {
	is := is.New(t)
	morning := time.Date(2026, 3, 1, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC)

	a, err := Board(morning, "salt", 4)
	is.NoErr(err)
	b, err := Board(evening, "salt", 4)
	is.NoErr(err)
	is.Equal(a.Rows(), b.Rows())
	is.Equal(len(Seed(morning, "salt")), 32)
}

func TestSeedDependsOnDateAndSalt(t *testing.T) {
	is := is.New(t)
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	is.True(string(Seed(day, "a")) != string(Seed(day, "b")))
	is.True(string(Seed(day, "a")) != string(Seed(day.AddDate(0, 0, 1), "a")))
}
