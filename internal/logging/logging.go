package logging

import (
	"io"
	"log/slog"

	"github.com/alejandrodnm/yieldsite/config"
)

// Setup instala el logger por defecto según la config: text o json, nivel por nombre.
func Setup(w io.Writer, cfg config.LogConfig) {
	slog.SetDefault(slog.New(NewHandler(w, cfg)))
}

// NewHandler construye el handler de slog sin instalarlo.
func NewHandler(w io.Writer, cfg config.LogConfig) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if cfg.Format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// ParseLevel traduce debug|info|warn|error; cualquier otro valor es info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
