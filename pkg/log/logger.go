package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ErrAttrKey is the attribute key errors are logged under.
const ErrAttrKey = "error"

// SetupLogger installs a JSON slog default and a zerolog provider, both
// writing to stdout at loglevel. It panics on an unknown level; validate
// user input with ParseLevel first.
func SetupLogger(loglevel string) {
	level, err := ParseLevel(loglevel)
	if err != nil {
		panic(err.Error())
	}
	slog.SetDefault(slog.New(newHandler(os.Stdout, level)))
	SetProvider(NewZerologProviderWithWriter(os.Stdout, level))
}

// newHandler builds the slog handler used by SetupLogger. Keys follow the
// Cloud Logging structured format.
func newHandler(w io.Writer, level Level) slog.Handler {
	opts := slog.HandlerOptions{
		AddSource: true,
		Level:     slog.Level(level),
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				attr.Key = "severity"
			case slog.MessageKey:
				attr.Key = "message"
			case slog.SourceKey:
				attr.Key = "logging.googleapis.com/sourceLocation"
			}
			return attr
		},
	}
	return WrapByErrFmtHandler(slog.NewJSONHandler(w, &opts))
}

// ParseLevel converts "debug", "info", "warn" (or "warning") and "error",
// in any case, to a Level.
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %q", level)
	}
}

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}
