package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logger configuration
type Config struct {
	Level  string
	Pretty bool
	Output io.Writer
}

// New builds the process logger and installs it as the global zerolog
// logger used through github.com/rs/zerolog/log.
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339
	l := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "hospital-api").
		Logger()

	log.Logger = l
	return l
}
