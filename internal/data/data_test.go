package data

import (
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"
)

func TestValue(t *testing.T) {
	if !Number(math.NaN()).IsMissing() {
		t.Error("NaN should be missing")
	}
	if v := Number(2.5); !v.IsNumber() || v.Float() != 2.5 || v.String() != "2.5" {
		t.Errorf("Number(2.5) = %+v", v)
	}
	if v := Label("x"); v.IsNumber() || !math.IsNaN(v.Float()) || v.String() != "x" {
		t.Errorf("Label(x) = %+v", v)
	}
	var zero Value
	if !zero.IsMissing() || zero.String() != "" {
		t.Error("zero Value should be missing")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		asLabel bool
		want    Value
	}{
		{"1.5", false, Number(1.5)},
		{" 3 ", false, Number(3)},
		{"3", true, Label("3")},
		{"abc", false, Label("abc")},
		{"", false, Missing()},
		{"NaN", false, Missing()},
		{"NA", true, Missing()},
	}
	for _, tt := range tests {
		if got := ParseValue(tt.in, tt.asLabel); got != tt.want {
			t.Errorf("ParseValue(%q, %v) = %+v, want %+v", tt.in, tt.asLabel, got, tt.want)
		}
	}
	for in, want := range map[string]Outcome{"0": Good, "1": Bad, "1.0": Bad, "": Unknown} {
		got, err := ParseOutcome(in)
		if err != nil || got != want {
			t.Errorf("ParseOutcome(%q) = %v, %v", in, got, err)
		}
	}
	for _, in := range []string{"2", "yes"} {
		if _, err := ParseOutcome(in); err == nil {
			t.Errorf("ParseOutcome(%q) accepted", in)
		}
	}
}

func TestNewDataset(t *testing.T) {
	if _, err := NewDataset("x", "y", []Value{Number(1)}, nil); !errors.Is(err, ErrInvalidDataset) {
		t.Errorf("length mismatch: err = %v", err)
	}
	if _, err := NewDataset("x", "y", []Value{Number(1)}, []Outcome{3}); !errors.Is(err, ErrInvalidDataset) {
		t.Errorf("bad outcome: err = %v", err)
	}
	ds, err := NewDataset("x", "y", []Value{Number(1), Missing(), Number(3)}, []Outcome{Good, Bad, Unknown})
	if err != nil {
		t.Fatal(err)
	}
	if !ds.Numeric() {
		t.Error("numbers and missing values are numeric")
	}
	if f := ds.Floats(); f[0] != 1 || !math.IsNaN(f[1]) || f[2] != 3 {
		t.Errorf("Floats() = %v", f)
	}
}

const sample = `expense_id,amount,category,fraud
E1,10.5,Taxi,0
E2,,Taxi,1
E3,99,Hospedagem,1
E4,12,Pedágio,
`

func TestTableDataset(t *testing.T) {
	tbl, err := ParseTable(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	ds, err := tbl.Dataset("amount", "FRAUD", false)
	if err != nil {
		t.Fatal(err)
	}
	if ds.Len() != 4 || !ds.Values[1].IsMissing() || ds.Values[2].Float() != 99 || ds.Outcomes[3] != Unknown {
		t.Errorf("dataset = %+v", ds)
	}
	cat, err := tbl.Dataset("category", "fraud", true)
	if err != nil {
		t.Fatal(err)
	}
	if cat.Values[3].String() != "Pedágio" {
		t.Errorf("category = %q", cat.Values[3].String())
	}
	if _, err := tbl.Dataset("missing", "fraud", false); !errors.Is(err, ErrInvalidDataset) {
		t.Errorf("unknown column: err = %v", err)
	}
}

func TestTableDatasetReportsEveryBadRow(t *testing.T) {
	tbl, err := ParseTable(strings.NewReader("x,y\n1,0\n2,7\n3,x\n"))
	if err != nil {
		t.Fatal(err)
	}
	_, err = tbl.Dataset("x", "y", false)
	if !errors.Is(err, ErrInvalidDataset) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(err.Error(), "row 3") || !strings.Contains(err.Error(), "row 4") {
		t.Errorf("error should name both bad rows: %v", err)
	}
}

func TestGenerateExpenses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "synthetic.csv")
	if err := GenerateExpenses(GenerateOptions{N: 2000, FraudRate: 0.05, MissingRate: 0.1, Seed: 3}, path); err != nil {
		t.Fatal(err)
	}
	tbl, err := ReadTable(path)
	if err != nil {
		t.Fatal(err)
	}
	ds, err := tbl.Dataset("amount", "fraud", false)
	if err != nil {
		t.Fatal(err)
	}
	var missing, bad int
	for i, v := range ds.Values {
		if v.IsMissing() {
			missing++
		}
		if ds.Outcomes[i] == Bad {
			bad++
		}
	}
	if ds.Len() != 2000 || missing == 0 || bad == 0 || bad == 2000 {
		t.Errorf("rows %d, missing %d, bad %d", ds.Len(), missing, bad)
	}
}
