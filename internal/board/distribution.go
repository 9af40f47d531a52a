// apps/go-server/internal/board/distribution.go
//
// Letter distributions for board generation.
// Responsibilities:
//   - The English boggle distribution (26 buckets, weights summing to 96).
//   - Weighted draws: a sample in [1, Total] walks the buckets in order and
//     lands on the first whose running sum reaches it.

package board

// Bucket is one entry of a letter distribution.
type Bucket struct {
	Label  Tile
	Weight int
}

// Distribution is a categorical distribution over tile labels, walked in
// slice order when drawing.
type Distribution []Bucket

// English is the boggle letter distribution. Weights sum to 96; the Q bucket
// is labelled "Qu".
var English = Distribution{
	{"A", 8}, {"B", 3}, {"C", 3}, {"D", 4}, {"E", 10}, {"F", 2}, {"G", 3},
	{"H", 3}, {"I", 7}, {"J", 1}, {"K", 2}, {"L", 5}, {"M", 3}, {"N", 5},
	{"O", 6}, {"P", 3}, {"Qu", 1}, {"R", 4}, {"S", 5}, {"T", 5}, {"U", 4},
	{"V", 2}, {"W", 2}, {"X", 1}, {"Y", 3}, {"Z", 1},
}

// Total returns the sum of all weights.
func (d Distribution) Total() int {
	n := 0
	for _, b := range d {
		n += b.Weight
	}
	return n
}

// Labels returns the set of labels the distribution can produce.
func (d Distribution) Labels() map[Tile]struct{} {
	m := make(map[Tile]struct{}, len(d))
	for _, b := range d {
		m[b.Label] = struct{}{}
	}
	return m
}

// Draw picks one label. The sample is taken in [1, Total] so that the
// inclusive running-total comparison gives every bucket exactly Weight
// chances, the last bucket included.
func (d Distribution) Draw(src Source) Tile {
	sample := src.Intn(d.Total()) + 1
	running := 0
	for _, b := range d {
		running += b.Weight
		if running >= sample {
			return b.Label
		}
	}
	// unreachable for a distribution with positive weights
	return d[len(d)-1].Label
}
