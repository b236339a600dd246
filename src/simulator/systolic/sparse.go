package systolic

import (
	"fmt"

	"github.com/samber/lo"
)

// PackedWeights is a 2:1 structurally pruned weight matrix folded onto half
// as many physical columns. Packed cell (r,p) holds whichever of logical
// weights (r,2p) and (r,2p+1) is kept, and its tag says which: 0 for the even
// column, 1 for the odd one.
type PackedWeights struct {
	values *Grid
	tags   []uint8
}

// ValidateSparsity checks that every contiguous pair of a row holds at least
// one zero and that rows have an even width.
func ValidateSparsity(weights [][]int64) error {
	grid, err := GridFromRows(weights)
	if err != nil {
		return err
	}
	return validatePairs(grid)
}

func validatePairs(grid *Grid) error {
	if grid.Cols()%2 != 0 {
		return fmt.Errorf("sparse weights need an even width, got %d: %w", grid.Cols(), ErrInvalidDimension)
	}
	for i := 0; i < grid.Rows(); i++ {
		for p, pair := range lo.Chunk(grid.Row(i), 2) {
			if pair[0] != 0 && pair[1] != 0 {
				first, second := Coord{Row: i, Col: 2 * p}, Coord{Row: i, Col: 2*p + 1}
				return fmt.Errorf("weights %s=%d and %s=%d are both non-zero: %w",
					first, pair[0], second, pair[1], ErrSparsityViolation)
			}
		}
	}
	return nil
}

// Pack validates the pruning guarantee and folds weights onto half-width
// columns. A pair of zeros packs as a zero with tag 0.
func Pack(weights [][]int64) (*PackedWeights, error) {
	grid, err := GridFromRows(weights)
	if err != nil {
		return nil, err
	}
	if err := validatePairs(grid); err != nil {
		return nil, err
	}

	packed := &PackedWeights{
		values: mustGrid(grid.Rows(), grid.Cols()/2),
		tags:   make([]uint8, grid.Rows()*grid.Cols()/2),
	}
	for i := 0; i < grid.Rows(); i++ {
		for p, pair := range lo.Chunk(grid.Row(i), 2) {
			if pair[1] != 0 {
				packed.values.Set(i, p, pair[1])
				packed.tags[i*packed.values.Cols()+p] = 1
			} else {
				packed.values.Set(i, p, pair[0])
			}
		}
	}
	return packed, nil
}

// NewPackedWeights wraps already packed values and tags, e.g. metadata
// produced offline. Tags must be 0 or 1.
func NewPackedWeights(values [][]int64, tags [][]uint8) (*PackedWeights, error) {
	grid, err := GridFromRows(values)
	if err != nil {
		return nil, err
	}
	if len(tags) != grid.Rows() {
		return nil, fmt.Errorf("%d tag rows for %d weight rows: %w", len(tags), grid.Rows(), ErrDimensionMismatch)
	}

	flat := make([]uint8, 0, grid.Rows()*grid.Cols())
	for i, row := range tags {
		if len(row) != grid.Cols() {
			return nil, fmt.Errorf("tag row %d has %d entries, want %d: %w", i, len(row), grid.Cols(), ErrDimensionMismatch)
		}
		for j, tag := range row {
			if tag > 1 {
				return nil, fmt.Errorf("tag (%d,%d)=%d: %w", i, j, tag, ErrInvalidTag)
			}
		}
		flat = append(flat, row...)
	}

	return &PackedWeights{values: grid, tags: flat}, nil
}

// Rows is the number of weight rows.
func (p *PackedWeights) Rows() int {
	return p.values.Rows()
}

// Cols is the number of packed (physical) columns.
func (p *PackedWeights) Cols() int {
	return p.values.Cols()
}

// LogicalCols is the dense width the packing covers.
func (p *PackedWeights) LogicalCols() int {
	return 2 * p.values.Cols()
}

func (p *PackedWeights) Value(row, col int) int64 {
	return p.values.At(row, col)
}

func (p *PackedWeights) Tag(row, col int) uint8 {
	return p.tags[row*p.values.Cols()+col]
}

// Values returns a copy of the packed value grid.
func (p *PackedWeights) Values() *Grid {
	return p.values.Clone()
}

// Unpack rebuilds the dense logical weight matrix.
func (p *PackedWeights) Unpack() [][]int64 {
	out := make([][]int64, p.Rows())
	for i := range out {
		out[i] = make([]int64, p.LogicalCols())
		for c := 0; c < p.Cols(); c++ {
			out[i][2*c+int(p.Tag(i, c))] = p.Value(i, c)
		}
	}
	return out
}
