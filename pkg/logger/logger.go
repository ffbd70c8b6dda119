// Package logger constructs the zap.SugaredLogger instances threaded through
// every subsystem's Config struct. Centralizing construction here keeps the
// encoder and level settings consistent across the engine, storage, index,
// and compaction packages.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production-style, JSON-encoded SugaredLogger tagged with the
// given service name. Construction failures from zap's own validation are
// treated as unreachable given the static config below, matching the
// "can't fail with these inputs" pattern the rest of the package uses for
// library-internal setup.
func New(service string) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.TimeKey = "ts"

	log, err := cfg.Build()
	if err != nil {
		// zap.NewProductionConfig().Build() only fails on configuration we
		// don't mutate above (invalid level, bad encoder name); fall back
		// to a no-op logger rather than panic a library caller.
		log = zap.NewNop()
	}

	return log.Sugar().With("service", service)
}

// Nop returns a logger that discards all output, useful for tests that
// don't want log noise but still need a non-nil *zap.SugaredLogger to
// satisfy a Config.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
