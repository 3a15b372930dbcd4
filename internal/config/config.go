package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

type Predictor struct {
	Column  string    `yaml:"column" toml:"column" validate:"required"`
	Ordered bool      `yaml:"ordered" toml:"ordered"`
	Rule    string    `yaml:"rule" toml:"rule" validate:"omitempty,oneof=doane sturges sqrt"`
	Cuts    []float64 `yaml:"cuts" toml:"cuts"`
	// Order applies to categorical predictors only.
	Order string `yaml:"order" toml:"order" validate:"omitempty,oneof=sorted first_seen"`
}

type Generate struct {
	Enabled     bool    `yaml:"enabled" toml:"enabled"`
	N           int     `yaml:"n" toml:"n" validate:"gte=0"`
	FraudRate   float64 `yaml:"fraud_rate" toml:"fraud_rate" validate:"gte=0,lte=1"`
	MissingRate float64 `yaml:"missing_rate" toml:"missing_rate" validate:"gte=0,lte=1"`
	Seed        int64   `yaml:"seed" toml:"seed"`
}

type Config struct {
	Data          string      `yaml:"data" toml:"data" validate:"required"`
	Target        string      `yaml:"target" toml:"target" validate:"required"`
	MaxIterations int         `yaml:"max_iterations" toml:"max_iterations" validate:"gt=0"`
	OutDir        string      `yaml:"out_dir" toml:"out_dir" validate:"required"`
	Plot          bool        `yaml:"plot" toml:"plot"`
	Predictors    []Predictor `yaml:"predictors" toml:"predictors" validate:"required,min=1,dive"`
	Generate      Generate    `yaml:"generate" toml:"generate"`
}

func Default() Config {
	return Config{
		Data:          "data/synthetic.csv",
		Target:        "fraud",
		MaxIterations: 10,
		OutDir:        "out",
		Plot:          true,
		Predictors: []Predictor{
			{Column: "amount", Ordered: true, Rule: "doane"},
			{Column: "category", Order: "sorted"},
		},
		Generate: Generate{Enabled: true, N: 20000, FraudRate: 0.02, MissingRate: 0.05, Seed: 1},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c Config) Validate() error { return validate.Struct(c) }

// Load reads a YAML or TOML file, chosen by extension, over the defaults.
// An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	// predictors listed in the file replace the default ones
	defaults := cfg.Predictors
	cfg.Predictors = nil
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		return cfg, fmt.Errorf("config: unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	if cfg.Predictors == nil {
		cfg.Predictors = defaults
	}
	return cfg, cfg.Validate()
}

// ParsePredictors reads the -columns flag form "amount:ordered,category".
// Columns without a kind are categorical.
func ParsePredictors(s string) ([]Predictor, error) {
	var out []Predictor
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		name, kind, _ := strings.Cut(f, ":")
		p := Predictor{Column: name}
		switch kind {
		case "ordered":
			p.Ordered = true
		case "", "categorical":
		default:
			return nil, fmt.Errorf("config: column %q has unknown kind %q", name, kind)
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("config: no columns in %q", s)
	}
	return out, nil
}
