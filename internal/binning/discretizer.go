package binning

import (
	"fmt"

	"go.uber.org/zap"

	"scorebin/internal/data"
)

// MissingSummary describes rows whose predictor is missing. It is computed
// once for ordered predictors and never enters the merge loop.
type MissingSummary struct {
	Count int `json:"count"`
	// Known counts the missing-predictor rows with a known outcome; BadRate
	// is their mean outcome and is meaningful only when Known > 0.
	Known   int     `json:"known"`
	BadRate float64 `json:"bad_rate"`
}

// Option configures a Discretizer.
type Option func(*Discretizer)

func WithOrdered(ordered bool) Option { return func(d *Discretizer) { d.ordered = ordered } }

// WithCuts sets explicit initial cut points, overriding the rule.
func WithCuts(cuts []float64) Option { return func(d *Discretizer) { d.rule = Fixed(cuts) } }

func WithRule(r CutRule) Option { return func(d *Discretizer) { d.rule = r } }

func WithCategoryOrder(o Order) Option { return func(d *Discretizer) { d.order = o } }

func WithLogger(l *zap.Logger) Option { return func(d *Discretizer) { d.logger = l } }

// Discretizer runs the merge loop for one predictor and keeps the history of
// every iteration.
type Discretizer struct {
	ds      *data.Dataset
	ordered bool
	rule    CutRule
	order   Order
	logger  *zap.Logger
	missing MissingSummary
}

func New(ds *data.Dataset, opts ...Option) (*Discretizer, error) {
	if ds == nil {
		return nil, fmt.Errorf("%w: nil dataset", data.ErrInvalidDataset)
	}
	d := &Discretizer{ds: ds, ordered: true, rule: Doane, logger: zap.NewNop()}
	for _, o := range opts {
		o(d)
	}
	if d.ordered {
		if !ds.Numeric() {
			return nil, fmt.Errorf("%w: predictor %q has non-numeric values in ordered mode", data.ErrInvalidDataset, ds.Predictor)
		}
		d.missing = missingSummary(ds)
	}
	return d, nil
}

func missingSummary(ds *data.Dataset) MissingSummary {
	var s MissingSummary
	bad := 0
	for i, v := range ds.Values {
		if !v.IsMissing() {
			continue
		}
		s.Count++
		if o := ds.Outcomes[i]; o.Known() {
			s.Known++
			if o == data.Bad {
				bad++
			}
		}
	}
	if s.Known > 0 {
		s.BadRate = float64(bad) / float64(s.Known)
	}
	return s
}

func (d *Discretizer) Missing() MissingSummary { return d.missing }

func (d *Discretizer) Ordered() bool { return d.ordered }

func (d *Discretizer) binner() (Binner, error) {
	if !d.ordered {
		return NewCategoricalBinner(d.ds.Values, d.ds.Outcomes, d.order)
	}
	values := d.ds.Floats()
	return NewOrderedBinner(values, d.ds.Outcomes, d.rule.Cuts(values))
}

// Run performs up to maxIterations merges and returns every observed
// partition. Ordered runs fail with ErrExcessiveIterations when they run out
// of boundaries; categorical runs stop at a single group. On failure the
// records completed so far are returned with the error.
func (d *Discretizer) Run(maxIterations int) (*History, error) {
	h := &History{Predictor: d.ds.Predictor, Ordered: d.ordered}
	if maxIterations <= 0 {
		return h, fmt.Errorf("%w: got %d", ErrInvalidIterations, maxIterations)
	}
	b, err := d.binner()
	if err != nil {
		return h, err
	}
	n := b.Limit(maxIterations)
	d.logger.Info("discretizing",
		zap.String("predictor", d.ds.Predictor),
		zap.String("binner", b.Name()),
		zap.Int("bins", b.Partition().Bins()),
		zap.Int("iterations", n),
	)
	for it := 0; it < n; it++ {
		rec, err := b.Step(it)
		if err != nil {
			d.logger.Warn("discretization stopped", zap.String("predictor", d.ds.Predictor), zap.Int("iteration", it), zap.Error(err))
			h.Final = b.Partition()
			return h, err
		}
		h.Records = append(h.Records, rec)
		d.logger.Debug("iteration",
			zap.Int("iteration", it),
			zap.Int("bins", rec.Partition.Bins()),
			zap.Float64("iv", rec.IV),
			zap.Ints("merged", rec.Merged[:]),
		)
	}
	h.Final = b.Partition()
	return h, nil
}
