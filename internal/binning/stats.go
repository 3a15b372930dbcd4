package binning

import (
	"fmt"
	"math"

	"scorebin/internal/data"
)

// Epsilon replaces a good or bad share of exactly zero before the WOE
// logarithm is taken, so WOE and IV stay finite for every bin.
const Epsilon = 1e-16

// Metric selects the per-bin quantity compared between neighbours when
// scoring merge priority.
type Metric int

const (
	ByBadRate Metric = iota
	ByIV
)

func (m Metric) String() string {
	if m == ByIV {
		return "iv"
	}
	return "bad_rate"
}

func (m Metric) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// BinStats holds the counts and derived measures of one bin.
type BinStats struct {
	Bin       int     `json:"bin"`
	Count     int     `json:"count"`
	Bad       int     `json:"bad"`
	Good      int     `json:"good"`
	BadShare  float64 `json:"bad_share"`
	GoodShare float64 `json:"good_share"`
	// BadRate is NaN for an empty bin.
	BadRate float64 `json:"bad_rate"`
	WOE     float64 `json:"woe"`
	IV      float64 `json:"iv"`
	// Priority is NaN for the first bin and wherever a neighbour's metric is
	// undefined.
	Priority float64 `json:"priority"`
}

// Table is the statistics of a whole partition. IV and WOE are the sums over
// its bins. The bin to merge next is given by Anchor: the first bin with the
// smallest finite priority, or bin 1 when no priority is finite.
type Table struct {
	Bins   []BinStats `json:"bins"`
	Metric Metric     `json:"metric"`
	IV     float64    `json:"iv"`
	WOE    float64    `json:"woe"`
}

// Count is the number of rows that landed in some bin.
func (t Table) Count() int {
	n := 0
	for _, b := range t.Bins {
		n += b.Count
	}
	return n
}

// Compute builds the statistics table for a partition. assign[i] is the bin
// of row i, or -1 for rows outside every bin. Rows with an unknown outcome
// are skipped.
func Compute(assign []int, outcomes []data.Outcome, bins int, metric Metric) (Table, error) {
	if len(assign) != len(outcomes) {
		return Table{}, fmt.Errorf("binning: %d assignments for %d outcomes", len(assign), len(outcomes))
	}
	t := Table{Bins: make([]BinStats, bins), Metric: metric}
	for i := range t.Bins {
		t.Bins[i].Bin = i
	}
	var totalBad, totalGood int
	for i, b := range assign {
		if b < 0 || !outcomes[i].Known() {
			continue
		}
		if b >= bins {
			return Table{}, fmt.Errorf("binning: row %d assigned to bin %d of %d", i, b, bins)
		}
		t.Bins[b].Count++
		if outcomes[i] == data.Bad {
			t.Bins[b].Bad++
			totalBad++
		} else {
			t.Bins[b].Good++
			totalGood++
		}
	}
	if totalBad == 0 || totalGood == 0 {
		return Table{}, fmt.Errorf("%w: %d bad, %d good", ErrDegenerateOutcome, totalBad, totalGood)
	}

	for i := range t.Bins {
		b := &t.Bins[i]
		b.BadShare = float64(b.Bad) / float64(totalBad)
		b.GoodShare = float64(b.Good) / float64(totalGood)
		b.BadRate = math.NaN()
		if b.Count > 0 {
			b.BadRate = float64(b.Bad) / float64(b.Count)
		}
		b.WOE = woe(b.GoodShare, b.BadShare)
		b.IV = (b.GoodShare - b.BadShare) * b.WOE
		t.WOE += b.WOE
		t.IV += b.IV
	}

	for i := range t.Bins {
		if i == 0 {
			t.Bins[i].Priority = math.NaN()
			continue
		}
		t.Bins[i].Priority = math.Abs(t.metric(i) - t.metric(i-1))
	}
	return t, nil
}

func (t Table) metric(i int) float64 {
	if t.Metric == ByIV {
		return t.Bins[i].IV
	}
	return t.Bins[i].BadRate
}

func woe(good, bad float64) float64 {
	if good == 0 {
		good = Epsilon
	}
	if bad == 0 {
		bad = Epsilon
	}
	return math.Log(good / bad)
}

// Anchor returns the bin that should be merged into its predecessor: the
// first bin, in current order, with the smallest finite priority. Bin 0 is
// never a candidate. If no priority is finite, bin 1 is returned. ok is false
// when there are fewer than two bins.
func (t Table) Anchor() (idx int, ok bool) {
	if len(t.Bins) < 2 {
		return 0, false
	}
	idx = 1
	best := math.Inf(1)
	for i := 1; i < len(t.Bins); i++ {
		p := t.Bins[i].Priority
		if math.IsNaN(p) {
			continue
		}
		if p < best {
			best = p
			idx = i
		}
	}
	return idx, true
}
