package consistency

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/cuatro-costuras/pitchboard/internal/domain/pitch"
)

// degenerateHalfWidth spreads a zero-range histogram across one unit so
// the bin edges still strictly increase.
const degenerateHalfWidth = 0.5

// Histogram is an equal-width binning of one movement axis. Edges has one
// more element than Counts; bin i covers [Edges[i], Edges[i+1]).
type Histogram struct {
	Edges  []float64 `json:"edges"`
	Counts []int     `json:"counts"`
}

// MakeHistogram bins values into the given number of equal-width bins.
// It returns ErrInvalidBins for bins < 1 and ErrInsufficientSample for an
// empty value set. When all values are identical the single point is
// centered in a unit-wide range so the edges remain strictly increasing.
func MakeHistogram(values []float64, bins int) (Histogram, error) {
	if bins < 1 {
		return Histogram{}, fmt.Errorf("%w: %d", ErrInvalidBins, bins)
	}
	if len(values) == 0 {
		return Histogram{}, fmt.Errorf("%w: no values to bin", ErrInsufficientSample)
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo -= degenerateHalfWidth
		hi += degenerateHalfWidth
	}

	edges := make([]float64, bins+1)
	width := (hi - lo) / float64(bins)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	// gonum requires every value to fall strictly below the last divider.
	edges[bins] = math.Nextafter(hi, math.Inf(1))

	raw := stat.Histogram(make([]float64, bins), edges, sorted, nil)
	counts := make([]int, bins)
	for i, c := range raw {
		counts[i] = int(math.Round(c))
	}

	return Histogram{Edges: edges, Counts: counts}, nil
}

// Histograms bins both movement axes of a group, converted to the
// calculator's unit.
func (c *Calculator) Histograms(obs []pitch.Observation, bins int) (horz, vert Histogram, err error) {
	hb := make([]float64, len(obs))
	vb := make([]float64, len(obs))
	for i, o := range obs {
		hb[i] = c.unit.FromFeet(o.HorzBreak)
		vb[i] = c.unit.FromFeet(o.VertBreak)
	}

	horz, err = MakeHistogram(hb, bins)
	if err != nil {
		return Histogram{}, Histogram{}, err
	}
	vert, err = MakeHistogram(vb, bins)
	if err != nil {
		return Histogram{}, Histogram{}, err
	}
	return horz, vert, nil
}
