// Package logger provides the slog handler and log destinations used by
// scriptpaths.
//
// Log output format:
//
//	2006-01-02T15:04:05.000Z [LEVEL] message | key=value, key2=value2
//
// The timestamp is omitted for terminal output. Custom levels beyond the
// standard slog set:
//   - LevelTrace (-8): per-probe diagnostics
//   - LevelFail  (12): errors that abort the command
package logger

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// ///////////////////////////////////////////////
// Custom Levels
// ///////////////////////////////////////////////

const (
	LevelTrace slog.Level = -8
	LevelDebug slog.Level = slog.LevelDebug
	LevelInfo  slog.Level = slog.LevelInfo
	LevelWarn  slog.Level = slog.LevelWarn
	LevelError slog.Level = slog.LevelError
	LevelFail  slog.Level = 12
)

// levelName returns the display name for a log level.
func levelName(l slog.Level) string {
	switch {
	case l <= LevelTrace:
		return "TRACE"
	case l <= LevelDebug:
		return "DEBUG"
	case l <= LevelInfo:
		return "INFO"
	case l <= LevelWarn:
		return "WARN"
	case l <= LevelError:
		return "ERROR"
	default:
		return "FAIL"
	}
}

// ParseLevel converts a level string to slog.Level, case-insensitively.
// Unrecognized strings map to LevelInfo.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	case "fail":
		return LevelFail
	default:
		return LevelInfo
	}
}

// ///////////////////////////////////////////////
// Handler
// ///////////////////////////////////////////////

// lineEnding is CRLF on Windows, LF elsewhere.
var lineEnding = "\n"

func init() {
	if runtime.GOOS == "windows" {
		lineEnding = "\r\n"
	}
}

// Options configures a [Handler].
type Options struct {
	// Level is the minimum severity emitted.
	Level slog.Level
	// Timestamps prefixes each line with a UTC timestamp.
	Timestamps bool
}

// Handler is a slog.Handler writing one line per record:
//
//	[timestamp ][LEVEL] message | key=value, ...
type Handler struct {
	w     io.Writer
	mu    *sync.Mutex // shared by handlers derived via WithAttrs/WithGroup
	opts  Options
	attrs []slog.Attr
	group string
}

// NewHandler creates a Handler writing to w.
func NewHandler(w io.Writer, opts Options) *Handler {
	return &Handler{w: w, mu: &sync.Mutex{}, opts: opts}
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level
}

// Handle formats and writes a log record.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var buf strings.Builder

	if h.opts.Timestamps && !r.Time.IsZero() {
		buf.WriteString(r.Time.UTC().Format("2006-01-02T15:04:05.000Z"))
		buf.WriteByte(' ')
	}
	buf.WriteByte('[')
	buf.WriteString(levelName(r.Level))
	buf.WriteString("] ")
	buf.WriteString(r.Message)

	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})

	for i, a := range attrs {
		if i == 0 {
			buf.WriteString(" | ")
		} else {
			buf.WriteString(", ")
		}
		if h.group != "" {
			buf.WriteString(h.group)
			buf.WriteByte('.')
		}
		buf.WriteString(a.Key)
		buf.WriteByte('=')
		buf.WriteString(a.Value.String())
	}
	buf.WriteString(lineEnding)

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, buf.String())
	return err
}

// WithAttrs returns a new Handler with the given attributes pre-applied.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &Handler{w: h.w, mu: h.mu, opts: h.opts, attrs: merged, group: h.group}
}

// WithGroup returns a new Handler whose attribute keys are prefixed with
// name ("group.key").
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	group := name
	if h.group != "" {
		group = h.group + "." + name
	}
	return &Handler{w: h.w, mu: h.mu, opts: h.opts, attrs: h.attrs, group: group}
}

// ///////////////////////////////////////////////
// Constructors
// ///////////////////////////////////////////////

// nopCloser is returned when the destination is not owned by the logger.
type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New creates a logger for terminal output on w, without timestamps.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(NewHandler(w, Options{Level: level}))
}

// NewFileLogger creates a logger writing timestamped lines to a rotating log
// file. The returned io.Closer must be closed to flush pending writes.
func NewFileLogger(path string, level slog.Level, maxSizeMB int) (*slog.Logger, io.Closer) {
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: 3,
		MaxAge:     28,
	}
	return slog.New(NewHandler(lj, Options{Level: level, Timestamps: true})), lj
}

// Open returns a file logger when path is set and a terminal logger on
// stderr otherwise.
func Open(stderr io.Writer, path string, level slog.Level, maxSizeMB int) (*slog.Logger, io.Closer) {
	if path == "" {
		return New(stderr, level), nopCloser{}
	}
	return NewFileLogger(path, level, maxSizeMB)
}

// ///////////////////////////////////////////////
// Helper Functions
// ///////////////////////////////////////////////

// Trace logs a message at LevelTrace.
func Trace(logger *slog.Logger, msg string, args ...any) {
	logger.Log(context.Background(), LevelTrace, msg, args...)
}

// Fail logs a message at LevelFail.
func Fail(logger *slog.Logger, msg string, args ...any) {
	logger.Log(context.Background(), LevelFail, msg, args...)
}
