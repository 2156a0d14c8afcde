// Package logging builds the diagnostic logger. Progress output for the user
// goes through plain writers; this logger only carries diagnostics.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

// Options selects the sinks of the logger
type Options struct {
	Level    string // debug, info, warn, error
	Format   string // text or json, for the terminal sink
	File     string // optional JSON log file
	Journald bool   // also send records to the systemd journal
}

// ParseLevel maps a level name to a slog level. Unknown names read as info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns a logger that fans out to every configured sink. The returned
// closer releases the log file and is never nil.
func New(opts Options, w io.Writer) (*slog.Logger, func() error, error) {
	closer := func() error { return nil }
	if w == nil {
		w = io.Discard
	}

	level := new(slog.LevelVar)
	level.Set(ParseLevel(opts.Level))
	handlerOpts := &slog.HandlerOptions{Level: level}

	var terminal slog.Handler
	if strings.ToLower(opts.Format) == "json" {
		terminal = slog.NewJSONHandler(w, handlerOpts)
	} else {
		terminal = slog.NewTextHandler(w, handlerOpts)
	}
	handlers := []slog.Handler{terminal}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, closer, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, closer, fmt.Errorf("failed to open log file: %w", err)
		}
		closer = f.Close
		handlers = append(handlers, slog.NewJSONHandler(f, handlerOpts))
	}

	if opts.Journald {
		journal, err := slogjournal.NewHandler(&slogjournal.Options{
			Level: level,
			ReplaceGroup: func(key string) string {
				return journalKey(key)
			},
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a.Key = journalKey(a.Key)
				return a
			},
		})
		if err != nil {
			// Not fatal: the journal socket is missing outside systemd hosts
			record := slog.NewRecord(time.Now(), slog.LevelWarn, "systemd journal unavailable", 0)
			record.Add("error", err)
			_ = terminal.Handle(context.Background(), record)
		} else {
			handlers = append(handlers, journal)
		}
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

// journalKey turns an attribute key into a valid journal field name
func journalKey(key string) string {
	key = strings.ToUpper(key)
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, key)
}
