package features

import (
	"math"
	"testing"

	"scorebin/internal/binning"
	"scorebin/internal/data"
)

func run(t *testing.T, vals []data.Value, ys []data.Outcome, opts ...binning.Option) *binning.History {
	t.Helper()
	ds, err := data.NewDataset("x", "y", vals, ys)
	if err != nil {
		t.Fatal(err)
	}
	d, err := binning.New(ds, opts...)
	if err != nil {
		t.Fatal(err)
	}
	h, err := d.Run(1)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestEncoderOrdered(t *testing.T) {
	var vals []data.Value
	for _, f := range []float64{1, 2, 3, 4, 5, 6} {
		vals = append(vals, data.Number(f))
	}
	ys := []data.Outcome{0, 0, 1, 0, 1, 1}
	h := run(t, vals, ys, binning.WithCuts([]float64{0, 2, 4, 6}))

	e, err := NewEncoder(h, 0)
	if err != nil {
		t.Fatal(err)
	}
	if e.Bins() != 3 {
		t.Fatalf("bins = %d, want 3", e.Bins())
	}
	stats := h.Records[0].Stats.Bins
	got := e.Transform([]data.Value{data.Number(2), data.Number(2.5), data.Number(100), data.Missing()})
	want := []float64{stats[0].WOE, stats[1].WOE, stats[2].WOE, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("encoded[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestEncoderCategorical(t *testing.T) {
	vals := []data.Value{data.Label("a"), data.Label("a"), data.Label("b"), data.Label("b"), data.Label("c"), data.Label("c")}
	ys := []data.Outcome{0, 1, 0, 1, 1, 1}
	h := run(t, vals, ys, binning.WithOrdered(false))

	e, err := NewEncoder(h, 0)
	if err != nil {
		t.Fatal(err)
	}
	stats := h.Records[0].Stats.Bins
	if got := e.Encode(data.Label("c")); got != stats[2].WOE {
		t.Errorf("c encodes to %v, want %v", got, stats[2].WOE)
	}
	if got := e.Encode(data.Label("zzz")); got != 0 {
		t.Errorf("unseen label encodes to %v, want 0", got)
	}
	if math.IsInf(e.Encode(data.Label("a")), 0) {
		t.Error("WOE must be finite")
	}
}

func TestEncoderRange(t *testing.T) {
	h := &binning.History{}
	if _, err := NewEncoder(h, 0); err == nil {
		t.Error("empty history accepted")
	}
}
