// Package logger provides structured logging with colored output.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[90m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

// Format selects the handler used by the logger.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// New creates a structured logger writing to stderr at the given level.
// Stdout is left free for command output such as dry-run comments.
// The format comes from LOG_FORMAT (text or json).
func New(level string) *slog.Logger {
	return NewWithWriter(os.Stderr, level, Format(strings.ToLower(os.Getenv("LOG_FORMAT"))))
}

// NewWithWriter creates a logger writing to w. Colors follow NO_COLOR and
// LOG_COLOR in text format.
func NewWithWriter(w io.Writer, level string, format Format) *slog.Logger {
	l := ParseLevel(level)

	if format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: l}))
	}

	return slog.New(&coloredTextHandler{
		w:        w,
		mu:       &sync.Mutex{},
		level:    l,
		useColor: shouldUseColor(),
	})
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// shouldUseColor determines if colored output should be used.
func shouldUseColor() bool {
	// https://no-color.org/
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if logColor := strings.ToLower(os.Getenv("LOG_COLOR")); logColor == "false" || logColor == "0" {
		return false
	}
	return true
}

// coloredTextHandler is a slog.Handler that writes one colored line per record.
type coloredTextHandler struct {
	w        io.Writer
	mu       *sync.Mutex // shared by handlers derived via WithAttrs/WithGroup
	level    slog.Level
	useColor bool
	attrs    []slog.Attr
	prefix   string // dotted group path applied to record attributes
}

func (h *coloredTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *coloredTextHandler) Handle(_ context.Context, r slog.Record) error {
	var buf strings.Builder

	h.paint(&buf, colorGray, r.Time.Format("2006-01-02 15:04:05"))
	buf.WriteString(" ")

	color, label := levelStyle(r.Level)
	h.paint(&buf, color, label)
	buf.WriteString(" ")

	buf.WriteString(r.Message)

	for _, a := range h.attrs {
		h.writeAttr(&buf, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&buf, h.prefix, a)
		return true
	})

	buf.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, buf.String())
	return err
}

func (h *coloredTextHandler) writeAttr(buf *strings.Builder, prefix string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	buf.WriteString(" ")
	h.paint(buf, colorGray, prefix+a.Key+"="+a.Value.Resolve().String())
}

func (h *coloredTextHandler) paint(buf *strings.Builder, color, s string) {
	if h.useColor {
		buf.WriteString(color)
		buf.WriteString(s)
		buf.WriteString(colorReset)
		return
	}
	buf.WriteString(s)
}

func levelStyle(level slog.Level) (color, label string) {
	switch {
	case level >= slog.LevelError:
		return colorRed + colorBold, "ERROR"
	case level >= slog.LevelWarn:
		return colorYellow, "WARN "
	case level >= slog.LevelInfo:
		return colorBlue, "INFO "
	default:
		return colorCyan, "DEBUG"
	}
}

func (h *coloredTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	newAttrs = append(newAttrs, h.attrs...)
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		newAttrs = append(newAttrs, a)
	}
	clone := *h
	clone.attrs = newAttrs
	return &clone
}

func (h *coloredTextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}
