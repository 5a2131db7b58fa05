package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"oxrsession/internal/session"
)

// newLogger builds the process logger. format is "console" or "json".
func newLogger(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: want debug|info|warn|error", level)
	}
	switch format {
	case "console", "":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	case "json":
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q: want console|json", format)
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// logPublisher forwards session events to the logger.
type logPublisher struct {
	log zerolog.Logger
}

func (p logPublisher) Publish(ev session.Event) {
	e := p.log.Debug().Str("event", ev.Name)
	if len(ev.Fields) > 0 {
		e = e.Fields(ev.Fields)
	}
	e.Msg("session event")
}
