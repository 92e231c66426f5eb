package logging

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/edvin/launchpad/internal/config"
)

// NewLogger creates a structured zerolog.Logger for the given component
// ("api" or "worker"), levelled from the config.
func NewLogger(cfg *config.Config, component string) zerolog.Logger {
	ctx := zerolog.New(os.Stdout).With().Timestamp().
		Str("service", "launchpad")

	if component != "" {
		ctx = ctx.Str("component", component)
	}

	logger := ctx.Logger()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	return logger.Level(level)
}
