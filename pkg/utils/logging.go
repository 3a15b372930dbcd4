package utils

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the process logger. JSON lines go to stdout and, when
// LOG_FILE is set, are appended to that file too. LOG_LEVEL picks the level
// (default info).
func Logger() *zap.Logger {
	loggerOnce.Do(func() { logger = newLogger() })
	return logger
}

func newLogger() *zap.Logger {
	lvl := zapcore.InfoLevel
	if s := os.Getenv("LOG_LEVEL"); s != "" {
		if l, err := zapcore.ParseLevel(s); err == nil {
			lvl = l
		}
	}
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	consoleCore := zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), lvl)

	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		return zap.New(consoleCore)
	}
	_ = os.MkdirAll(filepath.Dir(logFile), 0o755)
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zap.New(consoleCore)
	}
	fileCore := zapcore.NewCore(enc, zapcore.AddSync(f), lvl)
	return zap.New(zapcore.NewTee(fileCore, consoleCore))
}
