package binning

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// CutRule produces the initial cut points for an ordered predictor from its
// non-missing sample.
type CutRule interface {
	Cuts(sample []float64) []float64
	Name() string
}

// widthRule produces equal-width edges over the sample range the way numpy's
// histogram_bin_edges does, with the outer edges opened to -Inf and +Inf.
type widthRule struct {
	name  string
	width func(x []float64, ptp float64) float64
}

var (
	Doane   CutRule = widthRule{"doane", doaneWidth}
	Sturges CutRule = widthRule{"sturges", sturgesWidth}
	Sqrt    CutRule = widthRule{"sqrt", sqrtWidth}
)

func (r widthRule) Name() string { return r.name }

func (r widthRule) Cuts(sample []float64) []float64 {
	x := finite(sample)
	if len(x) == 0 {
		return []float64{math.Inf(-1), math.Inf(1)}
	}
	first, last := floats.Min(x), floats.Max(x)
	ptp := last - first
	if first == last {
		first, last = first-0.5, last+0.5
	}
	n := 1
	if w := r.width(x, ptp); w > 0 {
		n = int(math.Ceil((last - first) / w))
	}
	edges := floats.Span(make([]float64, n+1), first, last)
	edges[0], edges[n] = math.Inf(-1), math.Inf(1)
	return edges
}

func doaneWidth(x []float64, ptp float64) float64 {
	n := float64(len(x))
	if len(x) <= 2 {
		return 0
	}
	sg1 := math.Sqrt(6 * (n - 2) / ((n + 1) * (n + 3)))
	mean, sigma := stat.PopMeanStdDev(x, nil)
	if sigma <= 0 {
		return 0
	}
	var g1 float64
	for _, v := range x {
		z := (v - mean) / sigma
		g1 += z * z * z
	}
	g1 /= n
	return ptp / (1 + math.Log2(n) + math.Log2(1+math.Abs(g1)/sg1))
}

func sturgesWidth(x []float64, ptp float64) float64 {
	return ptp / (math.Log2(float64(len(x))) + 1)
}

func sqrtWidth(x []float64, ptp float64) float64 {
	return ptp / math.Sqrt(float64(len(x)))
}

// Fixed returns the same cut points for every sample.
type Fixed []float64

func (f Fixed) Name() string { return "fixed" }

func (f Fixed) Cuts([]float64) []float64 { return append([]float64(nil), f...) }

func ParseRule(name string) (CutRule, error) {
	switch name {
	case "", "doane":
		return Doane, nil
	case "sturges":
		return Sturges, nil
	case "sqrt":
		return Sqrt, nil
	}
	return nil, fmt.Errorf("binning: unknown cut rule %q", name)
}

func finite(sample []float64) []float64 {
	out := make([]float64, 0, len(sample))
	for _, v := range sample {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
