package logging

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	gommonlog "github.com/labstack/gommon/log"
)

// Config captures the settings needed to configure the process logger.
type Config struct {
	// Directory receives one file per UTC day. Empty means stdout only.
	Directory string
	// Level represents the textual log level (debug, info, warn, error).
	Level string
	// Format controls the output encoding (json or text).
	Format    string
	AddSource bool
}

// ParseLevel converts textual levels into slog levels, defaulting to info.
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug", "dbg":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	case "trace":
		return slog.LevelDebug - 2
	default:
		return slog.LevelInfo
	}
}

// EchoLevel maps the same textual level onto echo's gommon logger.
func EchoLevel(raw string) gommonlog.Lvl {
	switch level := ParseLevel(raw); {
	case level <= slog.LevelDebug:
		return gommonlog.DEBUG
	case level >= slog.LevelError:
		return gommonlog.ERROR
	case level >= slog.LevelWarn:
		return gommonlog.WARN
	default:
		return gommonlog.INFO
	}
}

// New builds a slog.Logger for the provided writer using the supplied configuration.
func New(w io.Writer, cfg Config) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level), AddSource: cfg.AddSource}
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	default:
		return slog.New(slog.NewTextHandler(w, handlerOpts))
	}
}

// Setup writes to stdout and a dated file, installs the logger as slog's default and routes the
// standard log package through the same writer. The returned closer releases the file.
func Setup(cfg Config, now time.Time) (io.Closer, io.Writer, error) {
	var (
		writer io.Writer = os.Stdout
		closer io.Closer = io.NopCloser(nil)
	)
	if dir := strings.TrimSpace(cfg.Directory); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		fileName := filepath.Join(dir, now.UTC().Format("2006-01-02")+".log")
		file, err := os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		writer = io.MultiWriter(os.Stdout, file)
		closer = file
	}

	slog.SetDefault(New(writer, cfg))
	log.SetOutput(writer)
	log.SetFlags(0)
	log.SetPrefix("")
	return closer, writer, nil
}
