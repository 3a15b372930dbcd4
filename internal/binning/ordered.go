package binning

import (
	"fmt"
	"math"
	"sort"

	"scorebin/internal/data"
)

// OrderedBinner partitions a numeric predictor into contiguous (left, right]
// intervals and merges the neighbouring intervals whose bad rates are
// closest.
type OrderedBinner struct {
	values   []float64
	outcomes []data.Outcome
	cuts     []float64
}

// NewOrderedBinner takes the predictor column (NaN for missing) and the
// initial cut points. The cut points must be strictly increasing. With two or
// more cut points the outer ones are replaced by -Inf and +Inf; a single cut
// point gets both added around it.
func NewOrderedBinner(values []float64, outcomes []data.Outcome, cuts []float64) (*OrderedBinner, error) {
	if len(values) != len(outcomes) {
		return nil, fmt.Errorf("binning: %d values for %d outcomes", len(values), len(outcomes))
	}
	c, err := sentinelCuts(cuts)
	if err != nil {
		return nil, err
	}
	return &OrderedBinner{values: values, outcomes: outcomes, cuts: c}, nil
}

func sentinelCuts(cuts []float64) ([]float64, error) {
	for i, c := range cuts {
		if math.IsNaN(c) {
			return nil, fmt.Errorf("%w: NaN at position %d", ErrInvalidCuts, i)
		}
		if i > 0 && c <= cuts[i-1] {
			return nil, fmt.Errorf("%w: %v does not follow %v", ErrInvalidCuts, c, cuts[i-1])
		}
	}
	if len(cuts) < 2 {
		out := []float64{math.Inf(-1)}
		out = append(out, cuts...)
		return append(out, math.Inf(1)), nil
	}
	out := append([]float64(nil), cuts...)
	out[0], out[len(out)-1] = math.Inf(-1), math.Inf(1)
	return out, nil
}

func (b *OrderedBinner) Name() string { return "ordered" }

func (b *OrderedBinner) Bins() int { return len(b.cuts) - 1 }

func (b *OrderedBinner) Limit(max int) int { return max }

func (b *OrderedBinner) Partition() Partition {
	return Partition{Cuts: append([]float64(nil), b.cuts...)}
}

// Assign maps each row to the interval holding it, -1 for missing values.
func (b *OrderedBinner) Assign() []int {
	out := make([]int, len(b.values))
	for i, v := range b.values {
		if math.IsNaN(v) {
			out[i] = -1
			continue
		}
		// first cut >= v closes the interval on the right
		k := sort.SearchFloat64s(b.cuts, v) - 1
		if k < 0 {
			k = 0
		}
		out[i] = k
	}
	return out
}

func (b *OrderedBinner) Step(iteration int) (IterationRecord, error) {
	if b.Bins() < 2 {
		return IterationRecord{}, fmt.Errorf("%w: iteration %d has %d bin(s)", ErrExcessiveIterations, iteration, b.Bins())
	}
	tab, err := Compute(b.Assign(), b.outcomes, b.Bins(), ByBadRate)
	if err != nil {
		return IterationRecord{}, fmt.Errorf("iteration %d: %w", iteration, err)
	}
	k, _ := tab.Anchor()
	rec := IterationRecord{
		Iteration: iteration,
		Partition: b.Partition(),
		Stats:     tab,
		IV:        tab.IV,
		WOE:       tab.WOE,
		Merged:    [2]int{k - 1, k},
	}
	// cuts[k] separates bin k-1 from bin k
	b.cuts = append(b.cuts[:k], b.cuts[k+1:]...)
	return rec, nil
}
