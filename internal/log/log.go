package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
)

var enabledSections = []string{
	"solver",
	"lattice",
	"problem",
	"cli",
}

var level = new(slog.LevelVar)

// SetLevel changes the level of every logger derived from DefaultLogger
func SetLevel(l slog.Level) {
	level.Set(l)
}

var LoggerOpts = &slog.HandlerOptions{
	AddSource: false,
	Level:     level,
	ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == "time" {
			return slog.Attr{}
		}
		return a
	},
}

var DefaultLogger = New(os.Stderr)

// New returns a section-filtering logger writing text records to w
func New(w io.Writer) *slog.Logger {
	return slog.New(&filteringHandler{underlying: slog.NewTextHandler(w, LoggerOpts)})
}

var _ slog.Handler = &filteringHandler{}

// filteringHandler drops records below Warn which do not belong to one of
// enabledSections. The section may be set on the record or on the logger via With.
type filteringHandler struct {
	underlying slog.Handler
	sections   []string
}

func (f filteringHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return f.underlying.Enabled(ctx, level)
}

func (f filteringHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level >= slog.LevelWarn || len(f.sections) > 0 {
		return f.underlying.Handle(ctx, record)
	}
	wantSection := false
	record.Attrs(func(attr slog.Attr) bool {
		wantSection = wantSection || attr.Key == "section" && isEnabled(attr.Value.String())
		// iterate as long as we have not found our section
		return !wantSection
	})
	if !wantSection {
		return nil
	}
	return f.underlying.Handle(ctx, record)
}

func (f filteringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sections := slices.Clone(f.sections)
	for _, attr := range attrs {
		if attr.Key == "section" && isEnabled(attr.Value.String()) {
			sections = append(sections, attr.Value.String())
		}
	}
	return &filteringHandler{
		underlying: f.underlying.WithAttrs(attrs),
		sections:   sections,
	}
}

func (f filteringHandler) WithGroup(name string) slog.Handler {
	return &filteringHandler{
		underlying: f.underlying.WithGroup(name),
		sections:   f.sections,
	}
}

func isEnabled(section string) bool {
	return slices.ContainsFunc(enabledSections, func(enabled string) bool {
		return strings.HasPrefix(section, enabled)
	})
}
