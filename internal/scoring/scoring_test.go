package scoring

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/robalobadob/boggle/apps/go-server/internal/wordset"
)

func TestPoints(t *testing.T) {
	is := is.New(t)
	cases := map[string]int{
		"ab":           0,
		"cat":          1,
		"bird":         1,
		"zebra":        2,
		"banana":       3,
		"avocado":      5,
		"elephant":     11,
		"refrigerator": 11,
	}
	for word, want := range cases {
		is.Equal(Points(word), want) // tariff
	}
}

func TestComputeExample(t *testing.T) {
	is := is.New(t)
	r, err := Compute([]Submission{
		{"A", wordset.New("cat", "dog", "zebra")},
		{"B", wordset.New("dog", "bird")},
	})
	is.NoErr(err)

	a, err := r.Get("A")
	is.NoErr(err)
	is.Equal(a.Unique.Sorted(), []string{"cat", "zebra"})
	is.Equal(a.Score, 3)
	is.True(a.Score != NoScore)

	b, err := r.Get("B")
	is.NoErr(err)
	is.Equal(b.Unique.Sorted(), []string{"bird"})
	is.Equal(b.Score, 1)

	is.Equal(r.Names(), []string{"A", "B"})
	is.Equal(r.Winners(), []string{"A"})
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	is := is.New(t)
	a := wordset.New("cat", "dog")
	b := wordset.New("dog")
	r, err := Compute([]Submission{{"A", a}, {"B", b}})
	is.NoErr(err)
	is.Equal(a.Sorted(), []string{"cat", "dog"})
	is.Equal(b.Sorted(), []string{"dog"})

	ca, _ := r.Get("A")
	ca.Unique.Insert("extra")
	is.True(!a.Contains("extra"))
}

func TestComputeTrustsInput(t *testing.T) {
	is := is.New(t)
	// Length is gated when words are added, not here.
	r, err := Compute([]Submission{{"C", wordset.New("ab", "xyz")}})
	is.NoErr(err)
	c, _ := r.Get("C")
	is.Equal(c.Unique.Sorted(), []string{"ab", "xyz"})
	is.Equal(c.Score, 1)
}

func TestComputeOrderIndependent(t *testing.T) {
	is := is.New(t)
	subs := []Submission{
		{"A", wordset.New("cat", "dog", "zebra", "elephant")},
		{"B", wordset.New("dog", "bird", "elephant")},
		{"C", wordset.New("cat", "banana")},
	}
	forward, err := Compute(subs)
	is.NoErr(err)
	reversed, err := Compute([]Submission{subs[2], subs[1], subs[0]})
	is.NoErr(err)
	for _, name := range []string{"A", "B", "C"} {
		f, _ := forward.Get(name)
		b, _ := reversed.Get(name)
		is.Equal(f.Score, b.Score)
		is.Equal(f.Unique.Sorted(), b.Unique.Sorted())
	}
	a, _ := forward.Get("A")
	is.Equal(a.Unique.Sorted(), []string{"zebra"})
	c, _ := forward.Get("C")
	is.Equal(c.Score, 3)
}

func TestComputeReplacesPrevious(t *testing.T) {
	is := is.New(t)
	r := NewResults()
	is.NoErr(r.Compute([]Submission{{"A", wordset.New("cat")}, {"B", wordset.New("dog")}}))
	is.Equal(r.Len(), 2)

	is.NoErr(r.Compute([]Submission{{"C", wordset.New("bird")}}))
	is.Equal(r.Names(), []string{"C"})
	_, err := r.Get("A")
	is.True(errors.Is(err, ErrNotFound))
}

func TestComputeDuplicateIdentity(t *testing.T) {
	is := is.New(t)
	r := NewResults()
	is.NoErr(r.Compute([]Submission{{"A", wordset.New("cat")}}))

	err := r.Compute([]Submission{{"B", wordset.New("dog")}, {"B", wordset.New("bird")}})
	is.True(errors.Is(err, ErrDuplicateIdentity))
	is.Equal(r.Names(), []string{"A"}) // previous results kept
}

func TestComputeEmptyAndNilSets(t *testing.T) {
	is := is.New(t)
	r, err := Compute(nil)
	is.NoErr(err)
	is.Equal(r.Len(), 0)
	is.Equal(len(r.Winners()), 0)

	r, err = Compute([]Submission{{"A", nil}, {"B", wordset.New("cat")}})
	is.NoErr(err)
	a, _ := r.Get("A")
	is.Equal(a.Score, 0)
	is.Equal(a.Unique.Size(), 0)
}

func TestWinnersTie(t *testing.T) {
	is := is.New(t)
	r, err := Compute([]Submission{
		{"A", wordset.New("cat")},
		{"B", wordset.New("dog")},
		{"C", wordset.New("dog")},
	})
	is.NoErr(err)
	is.Equal(r.Winners(), []string{"A"})

	r, err = Compute([]Submission{{"A", wordset.New("cat")}, {"B", wordset.New("emu")}})
	is.NoErr(err)
	is.Equal(r.Winners(), []string{"A", "B"})
	is.Equal(r.Ranking()[0].Name, "A")
}

func TestPending(t *testing.T) {
	is := is.New(t)
	p := Pending("A", wordset.New("cat"))
	is.Equal(p.Score, NoScore)
	is.Equal(p.Unique.Size(), 0)
}
