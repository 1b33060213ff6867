package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var base *zap.Logger

// Init builds the process-wide logger. Production gets JSON on stdout for log
// shippers; everything else gets the colored console encoder.
func Init(env string) {
	if env == "production" {
		enc := zap.NewProductionEncoderConfig()
		enc.TimeKey = "timestamp"
		enc.MessageKey = "message"
		enc.EncodeTime = zapcore.ISO8601TimeEncoder

		core := zapcore.NewCore(
			zapcore.NewJSONEncoder(enc),
			zapcore.Lock(os.Stdout),
			zap.InfoLevel,
		)
		base = zap.New(core, zap.AddCaller()).With(zap.String("service", "gigmarket"))
		return
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	l, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	base = l
}

// L returns the global logger, initializing it on first use.
func L() *zap.Logger {
	if base == nil {
		Init(os.Getenv("APP_ENV"))
	}
	return base
}

func Sync() {
	if base != nil {
		_ = base.Sync()
	}
}
