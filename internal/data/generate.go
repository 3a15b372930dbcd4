package data

import (
	"encoding/csv"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
)

var categories = []string{"Alimentação", "Transporte", "Taxi", "Pedágio", "Hospedagem"}
var departments = []string{"Financeiro", "Comercial", "Operações", "Tecnologia", "RH"}

// fraud propensity per category, used to give the categorical predictor a signal
var categoryRisk = map[string]float64{
	"Alimentação": 0.04,
	"Transporte":  0.06,
	"Taxi":        0.18,
	"Pedágio":     0.03,
	"Hospedagem":  0.10,
}

type GenerateOptions struct {
	N           int
	FraudRate   float64
	MissingRate float64
	Seed        int64
}

// GenerateExpenses writes a synthetic expense CSV with columns
// expense_id, amount, category, department, fraud. Larger amounts and some
// categories carry a higher fraud probability; a fraction of amounts is left
// blank to exercise missing-value handling.
func GenerateExpenses(opts GenerateOptions, outPath string) error {
	if dir := filepath.Dir(outPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"expense_id", "amount", "category", "department", "fraud"}); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	for i := 0; i < opts.N; i++ {
		cat := categories[rng.Intn(len(categories))]
		dept := departments[rng.Intn(len(departments))]
		amount := rng.Float64()*450 + 10
		if rng.Float64() < 0.25 {
			amount = float64(int(amount))
		}

		p := opts.FraudRate + categoryRisk[cat] + 0.25*(amount/460)*(amount/460)
		fraud := 0
		if rng.Float64() < p {
			fraud = 1
		}

		amt := strconv.FormatFloat(amount, 'f', 2, 64)
		if rng.Float64() < opts.MissingRate {
			amt = ""
		}
		rec := []string{"E" + strconv.Itoa(1000000+i), amt, cat, dept, strconv.Itoa(fraud)}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
