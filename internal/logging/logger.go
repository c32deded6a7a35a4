package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Level  string
	Pretty bool
	App    string
	Env    string
}

// New builds a zerolog logger tagged with the app and environment.
// Unknown levels fall back to info.
func New(c Config, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}
	if c.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	level, err := zerolog.ParseLevel(c.Level)
	if err != nil || c.Level == "" {
		level = zerolog.InfoLevel
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("app", c.App).
		Str("env", c.Env).
		Logger()
}

// Setup installs the logger as the package-global zerolog logger.
func Setup(c Config) zerolog.Logger {
	l := New(c, nil)
	log.Logger = l
	return l
}
