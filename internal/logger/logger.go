package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var level = zap.NewAtomicLevelAt(zap.InfoLevel)

// Init builds the process-wide logger and installs it as zap.L().
func Init(environment string) error {
	var conf zap.Config
	switch strings.ToLower(environment) {
	case "prod", "production":
		conf = zap.NewProductionConfig()
	default:
		conf = zap.NewDevelopmentConfig()
		level.SetLevel(zap.DebugLevel)
	}
	conf.Level = level

	logger, err := conf.Build()
	if err != nil {
		return fmt.Errorf("conf.Build -> %w", err)
	}
	zap.ReplaceGlobals(logger)

	return nil
}

// SetLevel changes the level of the installed logger without rebuilding it.
func SetLevel(text string) error {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(text)); err != nil {
		return fmt.Errorf("invalid log level %q -> %w", text, err)
	}
	level.SetLevel(l)

	return nil
}

func Level() zapcore.Level {
	return level.Level()
}
