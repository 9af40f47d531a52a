package board

import (
	"errors"
	"math"
	"testing"

	"github.com/matryer/is"
)

// cycleSource returns 0, 1, ..., n-1, 0, ... so a full cycle hits every
// sample exactly once.
type cycleSource struct{ next int }

func (c *cycleSource) Intn(n int) int {
	v := c.next % n
	c.next++
	return v
}

func checkLabels(t *testing.T, b *Board) {
	t.Helper()
	labels := English.Labels()
	for x := 0; x < b.Size(); x++ {
		for y := 0; y < b.Size(); y++ {
			tile, err := b.Get(x, y)
			if err != nil {
				t.Fatalf("get (%d,%d): %v", x, y, err)
			}
			if tile == "Q" {
				t.Fatalf("bare Q at (%d,%d)", x, y)
			}
			if _, ok := labels[tile]; !ok {
				t.Fatalf("unexpected label %q at (%d,%d)", tile, x, y)
			}
		}
	}
}

func TestDistributionShape(t *testing.T) {
	is := is.New(t)
	is.Equal(len(English), 26)
	is.Equal(English.Total(), 96)
	labels := English.Labels()
	_, hasQu := labels["Qu"]
	_, hasQ := labels["Q"]
	is.True(hasQu)
	is.True(!hasQ)
}

func TestDefaultBoard(t *testing.T) {
	is := is.New(t)
	b, err := Generate(DefaultSize)
	is.NoErr(err)
	is.Equal(b.Size(), 4)
	checkLabels(t, b)
	t.Logf("default board:\n%s", b)
}

func TestLargerBoards(t *testing.T) {
	is := is.New(t)
	for _, n := range []int{1, 2, 5, 10} {
		b, err := Generate(n)
		is.NoErr(err)
		is.Equal(b.Size(), n)
		checkLabels(t, b)
	}
}

func TestInvalidSize(t *testing.T) {
	is := is.New(t)
	for _, n := range []int{0, -1} {
		_, err := Generate(n)
		is.True(errors.Is(err, ErrInvalidSize))
	}
}

func TestGetOutOfRange(t *testing.T) {
	is := is.New(t)
	for _, n := range []int{1, 4, 7} {
		b, err := Generate(n)
		is.NoErr(err)
		for x := -2; x <= n+1; x++ {
			for y := -2; y <= n+1; y++ {
				_, err := b.Get(x, y)
				inside := x >= 0 && x < n && y >= 0 && y < n
				if inside {
					is.NoErr(err)
				} else {
					is.True(errors.Is(err, ErrOutOfRange))
				}
			}
		}
	}
	b, _ := Generate(DefaultSize)
	_, err := b.Get(0, 5)
	is.True(errors.Is(err, ErrOutOfRange))
}

func TestDrawEveryBucketReachable(t *testing.T) {
	is := is.New(t)
	src := &cycleSource{}
	counts := map[Tile]int{}
	for i := 0; i < English.Total(); i++ {
		counts[English.Draw(src)]++
	}
	for _, b := range English {
		is.Equal(counts[b.Label], b.Weight) // one full cycle yields each weight exactly
	}
	is.Equal(counts["Z"], 1)
}

func TestGeneratorUsesSource(t *testing.T) {
	is := is.New(t)
	g := NewGenerator(&cycleSource{})
	b, err := g.Generate(2)
	is.NoErr(err)
	// samples 1..4 all fall in the A bucket
	is.Equal(b.Rows(), [][]string{{"A", "A"}, {"A", "A"}})
}

func TestDistributionConverges(t *testing.T) {
	const boards = 2000
	counts := map[Tile]int{}
	total := 0
	for i := 0; i < boards; i++ {
		b, err := Generate(10)
		if err != nil {
			t.Fatal(err)
		}
		for _, row := range b.cells {
			for _, tile := range row {
				counts[tile]++
				total++
			}
		}
	}
	for _, bucket := range English {
		want := float64(bucket.Weight) / 96
		got := float64(counts[bucket.Label]) / float64(total)
		if math.Abs(got-want) > 0.005 {
			t.Errorf("%s: frequency %.4f, want %.4f", bucket.Label, got, want)
		}
	}
}

func TestMarshalJSON(t *testing.T) {
	is := is.New(t)
	b, err := NewGenerator(&cycleSource{}).Generate(1)
	is.NoErr(err)
	out, err := b.MarshalJSON()
	is.NoErr(err)
	is.Equal(string(out), `{"size":1,"rows":[["A"]]}`)
}
