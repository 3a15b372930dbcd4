package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"scorebin/internal/binning"
)

// WriteHistoryCSV writes the per-iteration bin identifiers, one column per
// iteration, followed by a trailing "iv" row with each iteration's IV.
func WriteHistoryCSV(path string, h *binning.History) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.WriteAll(h.Table()); err != nil {
		return err
	}
	iv := make([]string, h.Len()+1)
	iv[0] = "iv"
	for i, v := range h.IVs() {
		iv[i+1] = strconv.FormatFloat(v, 'f', 6, 64)
	}
	if err := w.Write(iv); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// WriteStatsCSV writes the bin statistics table of one iteration.
func WriteStatsCSV(path string, rec binning.IterationRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write([]string{"bin", "count", "bad", "good", "bad_share", "good_share", "bad_rate", "woe", "iv", "priority"}); err != nil {
		return err
	}
	names := binNames(rec.Partition)
	for i, b := range rec.Stats.Bins {
		row := []string{names[i], strconv.Itoa(b.Count), strconv.Itoa(b.Bad), strconv.Itoa(b.Good),
			fmt.Sprintf("%.6f", b.BadShare), fmt.Sprintf("%.6f", b.GoodShare), fmt.Sprintf("%.6f", b.BadRate),
			fmt.Sprintf("%.6f", b.WOE), fmt.Sprintf("%.6f", b.IV), fmt.Sprintf("%.6f", b.Priority),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func binNames(p binning.Partition) []string {
	if p.Groups != nil {
		return p.Names()
	}
	return p.Intervals()
}

// PlotIV draws aggregate IV against the iteration number.
func PlotIV(path string, h *binning.History) error {
	p := plot.New()
	p.Title.Text = "IV por iteração: " + h.Predictor
	p.X.Label.Text = "Iteração"
	p.Y.Label.Text = "IV"
	p.Y.Min = 0

	iv := make(plotter.XYs, h.Len())
	for i, r := range h.Records {
		iv[i].X = float64(r.Iteration)
		iv[i].Y = r.IV
	}
	if err := plotutil.AddLinePoints(p, "IV", iv); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
