package main

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"scorebin/internal/binning"
	"scorebin/internal/config"
	"scorebin/internal/data"
	"scorebin/internal/report"
	"scorebin/pkg/utils"
)

func main() {
	logger := utils.Logger()
	defer logger.Sync()

	cfgPath := flag.String("config", "", "Arquivo de configuração (.yaml ou .toml)")
	dataPath := flag.String("data", "", "CSV de entrada")
	regen := flag.Bool("regen", false, "Regenerar dataset sintético")
	n := flag.Int("n", 0, "Número de registros sintéticos")
	columns := flag.String("columns", "", "Preditores: nome:ordered|categorical separados por vírgula")
	target := flag.String("target", "", "Coluna alvo (0/1)")
	maxIter := flag.Int("max_iter", 0, "Número máximo de iterações")
	rule := flag.String("rule", "", "Regra de cortes iniciais: doane|sturges|sqrt")
	outDir := flag.String("out_dir", "", "Diretório de saída")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Fatal("Falha ao carregar configuração", zap.Error(err))
	}
	if *dataPath != "" {
		cfg.Data = *dataPath
	}
	if *regen {
		cfg.Generate.Enabled = true
	}
	if *n > 0 {
		cfg.Generate.N = *n
	}
	if *columns != "" {
		ps, err := config.ParsePredictors(*columns)
		if err != nil {
			logger.Fatal("Colunas inválidas", zap.Error(err))
		}
		cfg.Predictors = ps
	}
	if *target != "" {
		cfg.Target = *target
	}
	if *maxIter > 0 {
		cfg.MaxIterations = *maxIter
	}
	if *rule != "" {
		for i := range cfg.Predictors {
			cfg.Predictors[i].Rule = *rule
		}
	}
	if *outDir != "" {
		cfg.OutDir = *outDir
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Configuração inválida", zap.Error(err))
	}

	if cfg.Generate.Enabled {
		logger.Info("Gerando dataset sintético", zap.Int("n", cfg.Generate.N), zap.String("out", cfg.Data))
		opts := data.GenerateOptions{N: cfg.Generate.N, FraudRate: cfg.Generate.FraudRate, MissingRate: cfg.Generate.MissingRate, Seed: cfg.Generate.Seed}
		if err := data.GenerateExpenses(opts, cfg.Data); err != nil {
			logger.Fatal("Falha ao gerar dataset", zap.Error(err))
		}
	}

	tbl, err := data.ReadTable(cfg.Data)
	if err != nil {
		logger.Fatal("Falha ao ler CSV", zap.String("path", cfg.Data), zap.Error(err))
	}

	// predictors share nothing but the read-only table
	var g errgroup.Group
	for _, p := range cfg.Predictors {
		p := p
		g.Go(func() error {
			return discretize(logger.With(zap.String("predictor", p.Column)), tbl, cfg, p)
		})
	}
	if err := g.Wait(); err != nil {
		logger.Fatal("Falha na discretização", zap.Error(err))
	}
}

func discretize(logger *zap.Logger, tbl *data.Table, cfg config.Config, p config.Predictor) error {
	ds, err := tbl.Dataset(p.Column, cfg.Target, !p.Ordered)
	if err != nil {
		return err
	}
	opts := []binning.Option{binning.WithOrdered(p.Ordered), binning.WithLogger(logger)}
	if p.Ordered {
		r, err := binning.ParseRule(p.Rule)
		if err != nil {
			return err
		}
		opts = append(opts, binning.WithRule(r))
		if len(p.Cuts) > 0 {
			opts = append(opts, binning.WithCuts(p.Cuts))
		}
	} else {
		o, err := binning.ParseOrder(p.Order)
		if err != nil {
			return err
		}
		opts = append(opts, binning.WithCategoryOrder(o))
	}
	d, err := binning.New(ds, opts...)
	if err != nil {
		return err
	}
	if p.Ordered {
		m := d.Missing()
		logger.Info("Valores ausentes", zap.Int("count", m.Count), zap.Int("known", m.Known), zap.Float64("bad_rate", m.BadRate))
	}

	h, runErr := d.Run(cfg.MaxIterations)
	if runErr != nil && !errors.Is(runErr, binning.ErrExcessiveIterations) {
		return fmt.Errorf("%s: %w", p.Column, runErr)
	}
	if runErr != nil {
		// keep what was computed before the partition ran out of boundaries
		logger.Warn("Histórico parcial", zap.Int("iterations", h.Len()), zap.Error(runErr))
	}

	histPath := filepath.Join(cfg.OutDir, p.Column+"_history.csv")
	if err := report.WriteHistoryCSV(histPath, h); err != nil {
		return err
	}
	if h.Len() > 0 {
		if err := report.WriteStatsCSV(filepath.Join(cfg.OutDir, p.Column+"_iter0.csv"), h.Records[0]); err != nil {
			return err
		}
	}
	if cfg.Plot && h.Len() > 0 {
		if err := report.PlotIV(filepath.Join(cfg.OutDir, p.Column+"_iv.png"), h); err != nil {
			logger.Warn("Falha ao salvar PNG", zap.Error(err))
		}
	}
	for _, r := range h.Records {
		logger.Info("Iteração", zap.Int("iteration", r.Iteration), zap.Int("bins", r.Partition.Bins()), zap.Float64("iv", r.IV))
	}
	logger.Info("Histórico salvo", zap.String("path", histPath))
	return nil
}
