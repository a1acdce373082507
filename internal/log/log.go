// Package log configures zerolog's global logger for booger: stderr
// only, since stdout is reserved for JSON-RPC frames in `mcp` mode
// (spec §4.10). Other packages log through the global
// github.com/rs/zerolog/log singleton, via a Component logger derived
// from it — this package owns setup and that helper.
package log

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init parses level (zerolog's level names: debug, info, warn, error,
// ...) and points the global logger at stderr with a timestamp field.
// Call once at process startup, before any subcommand logs.
func Init(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
	return nil
}

// Component returns a logger tagged with a "component" field, for
// subsystems (indexer, dispatch, protocol) that want their log lines
// attributable without importing zerolog directly.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
