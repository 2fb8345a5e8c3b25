package cli

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds the process logger. Console encoding is used with --debug
// or when stderr is a terminal, JSON otherwise. --quiet raises the level to warn
// and --log-level overrides the configured level.
func newLogger(configured string) (*zap.Logger, error) {
	levelName := configured
	if flagLogLevel != "" {
		levelName = flagLogLevel
	}
	if flagDebug {
		levelName = "debug"
	}

	level, err := zap.ParseAtomicLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %s: %w", levelName, err)
	}
	if flagQuiet && level.Level() < zapcore.WarnLevel {
		level.SetLevel(zapcore.WarnLevel)
	}

	var loggerCfg zap.Config
	if flagDebug || isTerminal(os.Stderr) {
		loggerCfg = zap.NewDevelopmentConfig()
		loggerCfg.DisableStacktrace = !flagDebug
	} else {
		loggerCfg = zap.NewProductionConfig()
	}
	loggerCfg.Level = level

	logger, err := loggerCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return logger.Named("zipdir"), nil
}

// logConfigFile records which config file, if any, the run was loaded from.
func logConfigFile(logger *zap.Logger, path string) {
	if path == "" {
		logger.Debug("no config file found, using defaults and environment")
		return
	}
	logger.Debug("loaded config file", zap.String("path", path))
}
