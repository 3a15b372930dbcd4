package features

import (
	"fmt"
	"math"
	"sort"

	"scorebin/internal/binning"
	"scorebin/internal/data"
)

// Encoder replaces raw predictor values with the WOE of the bin they fall in,
// as observed at one iteration of a discretization run. Missing values and
// categories never seen during the run encode to 0, the neutral WOE.
type Encoder struct {
	Predictor string
	Iteration int
	cuts      []float64
	groups    map[string]int
	woe       []float64
}

func NewEncoder(h *binning.History, iteration int) (*Encoder, error) {
	if iteration < 0 || iteration >= h.Len() {
		return nil, fmt.Errorf("features: iteration %d out of range [0, %d)", iteration, h.Len())
	}
	rec := h.Records[iteration]
	e := &Encoder{Predictor: h.Predictor, Iteration: iteration, woe: make([]float64, len(rec.Stats.Bins))}
	for i, b := range rec.Stats.Bins {
		e.woe[i] = b.WOE
	}
	if h.Ordered {
		e.cuts = append([]float64(nil), rec.Partition.Cuts...)
		return e, nil
	}
	e.groups = map[string]int{}
	for gi, g := range rec.Partition.Groups {
		for _, m := range g.Members {
			e.groups[m] = gi
		}
	}
	return e, nil
}

func (e *Encoder) Bins() int { return len(e.woe) }

func (e *Encoder) bin(v data.Value) int {
	if v.IsMissing() {
		return -1
	}
	if e.groups != nil {
		if gi, ok := e.groups[v.String()]; ok {
			return gi
		}
		return -1
	}
	f := v.Float()
	if math.IsNaN(f) {
		return -1
	}
	k := sort.SearchFloat64s(e.cuts, f) - 1
	if k < 0 {
		k = 0
	}
	return k
}

func (e *Encoder) Encode(v data.Value) float64 {
	k := e.bin(v)
	if k < 0 || k >= len(e.woe) {
		return 0
	}
	return e.woe[k]
}

// Transform encodes a whole column.
func (e *Encoder) Transform(values []data.Value) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = e.Encode(v)
	}
	return out
}
