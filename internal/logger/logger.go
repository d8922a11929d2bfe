package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type Options struct {
	Level     string
	Format    string // text|json
	AddSource bool
	Env       string
	Service   string    // binary name attached to every record
	Output    io.Writer // defaults to stdout
}

func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	hopts := &slog.HandlerOptions{
		Level:     ParseLevel(opts.Level),
		AddSource: opts.AddSource,
	}

	var h slog.Handler = slog.NewTextHandler(out, hopts)
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		h = slog.NewJSONHandler(out, hopts)
	}

	var attrs []slog.Attr
	if v := strings.TrimSpace(opts.Service); v != "" {
		attrs = append(attrs, slog.String("service", v))
	}
	if v := strings.TrimSpace(opts.Env); v != "" {
		attrs = append(attrs, slog.String("env", v))
	}
	if len(attrs) > 0 {
		h = h.WithAttrs(attrs)
	}
	return slog.New(h)
}

// ParseLevel accepts slog level names ("debug", "WARN", "info+2") and
// "warning". Anything else is info.
func ParseLevel(s string) slog.Level {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "warning") {
		return slog.LevelWarn
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Discard drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
