package infrastructure

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/JaimeStill/stepwise/internal/config"
)

// NewLogger builds the service logger writing to stderr.
func NewLogger(cfg *config.LoggingConfig) *slog.Logger {
	return slog.New(newHandler(os.Stderr, cfg))
}

func newHandler(w io.Writer, cfg *config.LoggingConfig) slog.Handler {
	level := cfg.SlogLevel()

	if cfg.Format == config.LogFormatJSON {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}

	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	})
}
