// Package logging builds the process-wide zap logger.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/iliyamo/autopro/internal/config"
)

// Setup builds a zap logger from cfg and installs it as the global logger.
// Production uses the JSON encoder, every other environment the console
// encoder.  When LogFile is set, JSON lines are also written to a rotated
// file.  The returned function flushes buffered entries.
func Setup(cfg config.Config) (func(), error) {
	var zapConfig zap.Config
	if cfg.IsProduction() {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	if err := zapConfig.Level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, err
	}
	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	if cfg.LogFile != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    64, // megabytes
			MaxBackups: 7,
			MaxAge:     14, // days
		}
		stdoutEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		if cfg.IsProduction() {
			stdoutEncoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		}
		core := zapcore.NewTee(
			zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(rotator), zapConfig.Level),
			zapcore.NewCore(stdoutEncoder, zapcore.AddSync(os.Stdout), zapConfig.Level),
		)
		logger = zap.New(core, zap.AddCaller())
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller())
		if err != nil {
			return nil, err
		}
	}

	logger = logger.With(zap.String("env", cfg.Env))
	zap.ReplaceGlobals(logger)
	return func() { _ = logger.Sync() }, nil
}
