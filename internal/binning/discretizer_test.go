package binning

import (
	"errors"
	"math"
	"testing"

	"go.uber.org/zap/zaptest"

	"scorebin/internal/data"
)

func numbers(fs ...float64) []data.Value {
	out := make([]data.Value, len(fs))
	for i, f := range fs {
		out[i] = data.Number(f)
	}
	return out
}

func dataset(t *testing.T, vals []data.Value, ys []data.Outcome) *data.Dataset {
	t.Helper()
	ds, err := data.NewDataset("x", "y", vals, ys)
	if err != nil {
		t.Fatal(err)
	}
	return ds
}

func TestDiscretizerOrderedScenario(t *testing.T) {
	ys := outcomes(0, 0, 0, 0, 1, 1, 1, 1, 1, 1)
	ds := dataset(t, numbers(oneTen...), ys)
	d, err := New(ds, WithCuts([]float64{math.Inf(-1), 3, 6, 9, inf}), WithLogger(zaptest.NewLogger(t)))
	if err != nil {
		t.Fatal(err)
	}
	h, err := d.Run(2)
	if err != nil {
		t.Fatal(err)
	}
	if h.Len() != 2 {
		t.Fatalf("history has %d records, want 2", h.Len())
	}
	if h.Records[0].Partition.Bins() != 4 || h.Records[1].Partition.Bins() != 3 || h.Final.Bins() != 2 {
		t.Errorf("bins per step = %d, %d, final %d; want 4, 3, 2",
			h.Records[0].Partition.Bins(), h.Records[1].Partition.Bins(), h.Final.Bins())
	}
	rates := h.Records[0].Stats.Bins
	if !(rates[0].BadRate < rates[1].BadRate && rates[1].BadRate < rates[2].BadRate) {
		t.Errorf("bad rate should change across the boundary at 6: %v %v %v", rates[0].BadRate, rates[1].BadRate, rates[2].BadRate)
	}

	// IV of the partition left after both merges
	b, err := NewOrderedBinner(ds.Floats(), ys, h.Final.Cuts)
	if err != nil {
		t.Fatal(err)
	}
	final, err := Compute(b.Assign(), ys, b.Bins(), ByBadRate)
	if err != nil {
		t.Fatal(err)
	}
	if !(h.Records[0].IV > final.IV) {
		t.Errorf("IV at iteration 0 (%v) should exceed the IV after merging (%v)", h.Records[0].IV, final.IV)
	}
	if got := h.Final.Names(); len(got) != 3 || got[1] != "3" {
		t.Errorf("final cuts = %v, want [-Inf 3 +Inf]", got)
	}
}

func TestDiscretizerExcessiveIterations(t *testing.T) {
	ds := dataset(t, numbers(oneTen...), outcomes(0, 0, 0, 0, 1, 1, 1, 1, 1, 1))
	d, _ := New(ds, WithCuts([]float64{0, 3, 6, 9, 10}))
	h, err := d.Run(4)
	if !errors.Is(err, ErrExcessiveIterations) {
		t.Fatalf("err = %v, want ErrExcessiveIterations", err)
	}
	if h.Len() != 3 {
		t.Errorf("partial history has %d records, want 3", h.Len())
	}
	if h.Final.Bins() != 1 {
		t.Errorf("final bins = %d, want 1", h.Final.Bins())
	}
}

func TestDiscretizerDegenerate(t *testing.T) {
	ds := dataset(t, numbers(oneTen...), outcomes(0, 0, 0, 0, 0, 0, 0, 0, 0, 0))
	for _, ordered := range []bool{true, false} {
		d, err := New(ds, WithOrdered(ordered))
		if err != nil {
			t.Fatal(err)
		}
		h, err := d.Run(3)
		if !errors.Is(err, ErrDegenerateOutcome) {
			t.Errorf("ordered=%v: err = %v, want ErrDegenerateOutcome", ordered, err)
		}
		if h == nil || h.Len() != 0 {
			t.Errorf("ordered=%v: history should be empty", ordered)
		}
	}
}

func TestDiscretizerCategoricalClamps(t *testing.T) {
	vals, ys := categoryRows([]string{"A", "B", "C"}, []int{1, 5, 9})
	d, err := New(dataset(t, vals, ys), WithOrdered(false))
	if err != nil {
		t.Fatal(err)
	}
	h, err := d.Run(10)
	if err != nil {
		t.Fatal(err)
	}
	if h.Len() != 2 || h.Final.Bins() != 1 {
		t.Errorf("got %d records and %d final groups, want 2 and 1", h.Len(), h.Final.Bins())
	}
	if h.Ordered {
		t.Error("history marked ordered")
	}
	if d.Missing() != (MissingSummary{}) {
		t.Errorf("categorical runs keep no missing summary, got %+v", d.Missing())
	}
}

func TestDiscretizerCategoricalFromNumbers(t *testing.T) {
	ds := dataset(t, numbers(1, 2, 2, 3, 3, 3), outcomes(0, 1, 0, 1, 1, 0))
	d, err := New(ds, WithOrdered(false))
	if err != nil {
		t.Fatal(err)
	}
	h, err := d.Run(1)
	if err != nil {
		t.Fatal(err)
	}
	if got := h.Records[0].Partition.Names(); len(got) != 3 || got[0] != "1" || got[2] != "3" {
		t.Errorf("labels = %v", got)
	}
}

func TestDiscretizerMissing(t *testing.T) {
	nan := math.NaN()
	ds := dataset(t, numbers(1, nan, 2, nan, nan, 3), outcomes(0, 1, 1, 0, -1, 1))
	d, err := New(ds, WithCuts([]float64{2}))
	if err != nil {
		t.Fatal(err)
	}
	m := d.Missing()
	if m.Count != 3 || m.Known != 2 || m.BadRate != 0.5 {
		t.Errorf("missing = %+v, want count 3, known 2, bad rate 0.5", m)
	}
	h, err := d.Run(1)
	if err != nil {
		t.Fatal(err)
	}
	if h.Records[0].Stats.Count() != 3 {
		t.Errorf("missing rows entered the bins: count %d", h.Records[0].Stats.Count())
	}
}

func TestDiscretizerRejects(t *testing.T) {
	ds := dataset(t, []data.Value{data.Label("a"), data.Number(1)}, outcomes(0, 1))
	if _, err := New(ds); !errors.Is(err, data.ErrInvalidDataset) {
		t.Errorf("labels in ordered mode: err = %v", err)
	}
	if _, err := New(nil); err == nil {
		t.Error("nil dataset accepted")
	}
	d, _ := New(dataset(t, numbers(1, 2), outcomes(0, 1)))
	if _, err := d.Run(0); !errors.Is(err, ErrInvalidIterations) {
		t.Errorf("Run(0): err = %v", err)
	}
	d, _ = New(dataset(t, numbers(1, 2), outcomes(0, 1)), WithCuts([]float64{2, 1}))
	if _, err := d.Run(1); !errors.Is(err, ErrInvalidCuts) {
		t.Errorf("decreasing cuts: err = %v", err)
	}
}

func TestHistoryTable(t *testing.T) {
	h := &History{Records: []IterationRecord{
		{Iteration: 0, Partition: Partition{Groups: []Group{{Label: "a"}, {Label: "b"}, {Label: "c"}}}},
		{Iteration: 1, Partition: Partition{Groups: []Group{{Label: "a__b"}, {Label: "c"}}}},
	}}
	tab := h.Table()
	if len(tab) != 4 {
		t.Fatalf("table has %d rows, want header plus 3", len(tab))
	}
	if tab[0][1] != "iter_0" || tab[0][2] != "iter_1" {
		t.Errorf("header = %v", tab[0])
	}
	if tab[1][2] != "a__b" || tab[3][1] != "c" || tab[3][2] != "" {
		t.Errorf("table = %v", tab)
	}
}
