package data

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Outcome is the binary target of a row. Bad is the event being scored.
type Outcome int

const (
	Unknown Outcome = -1
	Good    Outcome = 0
	Bad     Outcome = 1
)

func (o Outcome) Known() bool { return o == Good || o == Bad }

// Value is a single predictor observation. The zero Value is missing.
type Value struct {
	num   float64
	label string
	kind  uint8
}

const (
	missingValue uint8 = iota
	numberValue
	labelValue
)

func Number(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{num: f, kind: numberValue}
}

func Label(s string) Value { return Value{label: s, kind: labelValue} }

func Missing() Value { return Value{} }

func (v Value) IsMissing() bool { return v.kind == missingValue }

func (v Value) IsNumber() bool { return v.kind == numberValue }

// Float returns the numeric value, or NaN for labels and missing values.
func (v Value) Float() float64 {
	if v.kind != numberValue {
		return math.NaN()
	}
	return v.num
}

// String returns the label form of the value. Numbers are formatted with the
// shortest representation that round-trips.
func (v Value) String() string {
	switch v.kind {
	case numberValue:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case labelValue:
		return v.label
	}
	return ""
}

type Dataset struct {
	Predictor string
	Target    string
	Values    []Value
	Outcomes  []Outcome
}

var ErrInvalidDataset = errors.New("invalid dataset")

func NewDataset(predictor, target string, values []Value, outcomes []Outcome) (*Dataset, error) {
	if len(values) != len(outcomes) {
		return nil, fmt.Errorf("%w: %d values but %d outcomes", ErrInvalidDataset, len(values), len(outcomes))
	}
	for i, o := range outcomes {
		if !o.Known() && o != Unknown {
			return nil, fmt.Errorf("%w: row %d has outcome %d", ErrInvalidDataset, i, o)
		}
	}
	return &Dataset{Predictor: predictor, Target: target, Values: values, Outcomes: outcomes}, nil
}

func (d *Dataset) Len() int { return len(d.Values) }

// Floats returns the numeric view of the predictor column, NaN for missing
// and non-numeric entries.
func (d *Dataset) Floats() []float64 {
	out := make([]float64, len(d.Values))
	for i, v := range d.Values {
		out[i] = v.Float()
	}
	return out
}

// Numeric reports whether every non-missing predictor value is a number.
func (d *Dataset) Numeric() bool {
	for _, v := range d.Values {
		if !v.IsMissing() && !v.IsNumber() {
			return false
		}
	}
	return true
}
