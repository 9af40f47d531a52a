// apps/go-server/internal/board/board.go
//
// Boggle board: an N×N grid of letter tiles drawn from a weighted
// distribution.
//
// Notes:
//   - A board is fully populated by Generate and never changes afterwards.
//   - Cells are addressed as (x, y) with both in [0, Size()).
//   - The default randomness comes from lukechampine.com/frand, which is safe
//     for concurrent use. Seeded sources (see the daily package) are not, and
//     must be used by one generator at a time.

package board

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"lukechampine.com/frand"
)

// DefaultSize is the side length of a standard board.
const DefaultSize = 4

var (
	// ErrOutOfRange is returned by Get for coordinates outside the board.
	ErrOutOfRange = errors.New("board: coordinate out of range")
	// ErrInvalidSize is returned by Generate for sizes below 1.
	ErrInvalidSize = errors.New("board: size must be at least 1")
)

// Tile is the label shown on one cell: a single uppercase letter, or "Qu".
type Tile string

// Board is an immutable square grid of tiles.
type Board struct {
	cells [][]Tile // cells[x][y]
}

// Source supplies uniform integers in [0, n).
type Source interface {
	Intn(n int) int
}

type frandSource struct{}

func (frandSource) Intn(n int) int { return frand.Intn(n) }

// Generator builds boards from a distribution and a random source.
type Generator struct {
	src  Source
	dist Distribution
}

// NewGenerator returns a generator drawing from English. A nil src uses the
// process-wide frand generator.
func NewGenerator(src Source) *Generator {
	if src == nil {
		src = frandSource{}
	}
	return &Generator{src: src, dist: English}
}

// Generate returns a size×size board with every cell drawn independently.
func (g *Generator) Generate(size int) (*Board, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	cells := make([][]Tile, size)
	for x := range cells {
		cells[x] = make([]Tile, size)
		for y := range cells[x] {
			cells[x][y] = g.dist.Draw(g.src)
		}
	}
	return &Board{cells: cells}, nil
}

// Generate builds a board with the default generator.
func Generate(size int) (*Board, error) {
	return NewGenerator(nil).Generate(size)
}

// Size returns the side length.
func (b *Board) Size() int { return len(b.cells) }

// Get returns the tile at (x, y).
func (b *Board) Get(x, y int) (Tile, error) {
	n := b.Size()
	if x < 0 || x >= n || y < 0 || y >= n {
		return "", fmt.Errorf("%w: (%d,%d) on %dx%d board", ErrOutOfRange, x, y, n, n)
	}
	return b.cells[x][y], nil
}

// Rows returns the labels as rows of strings, rows[x][y].
func (b *Board) Rows() [][]string {
	out := make([][]string, len(b.cells))
	for x, col := range b.cells {
		out[x] = make([]string, len(col))
		for y, t := range col {
			out[x][y] = string(t)
		}
	}
	return out
}

// String renders the board one row per line, tiles padded to two columns.
func (b *Board) String() string {
	var sb strings.Builder
	for _, row := range b.cells {
		for y, t := range row {
			if y > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%-2s", t)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// MarshalJSON encodes the board as {"size": N, "rows": [[...], ...]}.
func (b *Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Size int        `json:"size"`
		Rows [][]string `json:"rows"`
	}{b.Size(), b.Rows()})
}
