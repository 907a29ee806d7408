package logger

import (
	"strings"

	"github.com/brtprivate/blockchain-bull-server/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the service logger from the log section of the config.
// Unknown levels fall back to info, unknown formats to json.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()

	switch strings.ToLower(cfg.LogFormat) {
	case "console", "text":
		zcfg.Encoding = "console"
	default:
		zcfg.Encoding = "json"
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		zcfg.Development = true
	case "warn":
		zcfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zcfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zcfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	output := cfg.LogOutput
	if output == "" {
		output = "stdout"
	}
	zcfg.OutputPaths = []string{output}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	zcfg.EncoderConfig.TimeKey = "ts"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zcfg.Build()
}
