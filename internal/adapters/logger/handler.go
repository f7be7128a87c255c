package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	colorDebug = lipgloss.Color("#667085")
	colorInfo  = lipgloss.Color("#22A06B")
	colorWarn  = lipgloss.Color("#F59E0B")
	colorError = lipgloss.Color("#D93025")
)

const (
	iconWarn  = "!"
	iconError = "✗"
	iconInfo  = "⇒"
)

// colorProfile honours NO_COLOR and otherwise detects the terminal.
func colorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

type levelStyles struct {
	debug lipgloss.Style
	info  lipgloss.Style
	warn  lipgloss.Style
	error lipgloss.Style
}

func newLevelStyles(r *lipgloss.Renderer) levelStyles {
	return levelStyles{
		debug: r.NewStyle().Foreground(colorDebug),
		info:  r.NewStyle().Foreground(colorInfo),
		warn:  r.NewStyle().Foreground(colorWarn),
		error: r.NewStyle().Foreground(colorError).Bold(true),
	}
}

// PrettyHandler is a slog.Handler that produces human-readable, colored output.
type PrettyHandler struct {
	out    io.Writer
	styles levelStyles
	level  slog.Leveler
	attrs  []slog.Attr
	group  string
}

// NewPrettyHandler creates a new PrettyHandler writing to the provided writer.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	renderer := lipgloss.NewRenderer(w)
	renderer.SetColorProfile(colorProfile())

	return &PrettyHandler{
		out:    w,
		styles: newLevelStyles(renderer),
		level:  level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and outputs the log record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var msg string
	var style lipgloss.Style

	switch {
	case r.Level >= slog.LevelError:
		msg = iconError + " " + r.Message
		style = h.styles.error
	case r.Level >= slog.LevelWarn:
		msg = iconWarn + " " + r.Message
		style = h.styles.warn
	case r.Level >= slog.LevelInfo:
		msg = iconInfo + " " + r.Message
		style = h.styles.info
	default:
		msg = r.Message
		style = h.styles.debug
	}

	attrParts := make([]string, 0, len(h.attrs)+r.NumAttrs())
	for _, attr := range h.attrs {
		attrParts = append(attrParts, formatAttr(h.group, attr))
	}
	r.Attrs(func(attr slog.Attr) bool {
		attrParts = append(attrParts, formatAttr(h.group, attr))
		return true
	})
	if len(attrParts) > 0 {
		msg += " " + strings.Join(attrParts, " ")
	}

	// Render pads multi-line input to its widest line.
	lines := strings.Split(msg, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	_, err := io.WriteString(h.out, strings.Join(lines, "\n")+"\n")

	return err
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)

	return &PrettyHandler{out: h.out, styles: h.styles, level: h.level, attrs: newAttrs, group: h.group}
}

// WithGroup returns a new Handler with the given group name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	return &PrettyHandler{out: h.out, styles: h.styles, level: h.level, attrs: h.attrs, group: name}
}

func formatAttr(group string, attr slog.Attr) string {
	key := attr.Key
	if group != "" {
		key = group + "." + key
	}
	return key + "=" + attr.Value.String()
}
