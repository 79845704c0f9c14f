package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/weave/internal/ui/output"
	"go.trai.ch/weave/internal/ui/style"
)

// ErrorKey is the attribute that carries an error to be rendered with its cause chain.
const ErrorKey = "error"

// subjectKeys name what a record is about. They are printed first, in this order.
var subjectKeys = []string{"target", "mixin", "member"}

// messager describes an error that can report its own message without the chain.
type messager interface {
	Message() string
}

// metadataer describes an error that carries structured metadata.
type metadataer interface {
	Metadata() map[string]any
}

// PrettyHandler renders records for a terminal: a level icon, the message,
// the composition subject and any remaining attributes. An error passed under
// ErrorKey replaces the message with its headline, metadata and causes.
type PrettyHandler struct {
	out    *termenv.Output
	level  slog.Leveler
	attrs  []slog.Attr
	prefix string
}

// NewPrettyHandler creates a PrettyHandler writing to w, or stderr when w is nil.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}
	h := &PrettyHandler{out: output.New(w), level: slog.LevelInfo}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level
	}
	return h
}

// Enabled implements slog.Handler.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := slices.Clone(h.attrs)
	var failure error
	r.Attrs(func(a slog.Attr) bool {
		if err, ok := a.Value.Any().(error); ok && a.Key == ErrorKey && h.prefix == "" {
			failure = err
			return true
		}
		attrs = append(attrs, qualify(h.prefix, a))
		return true
	})

	msg := r.Message
	if failure != nil {
		msg = formatError(failure)
	}
	if rest := renderAttrs(attrs); rest != "" {
		msg += " " + rest
	}

	icon, color := levelStyle(r.Level)
	if icon != "" {
		msg = icon + " " + msg
	}

	_, err := h.out.WriteString(h.out.String(msg).Foreground(color).String() + "\n")
	return err
}

// WithAttrs implements slog.Handler.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = slices.Clone(h.attrs)
	for _, a := range attrs {
		next.attrs = append(next.attrs, qualify(h.prefix, a))
	}
	return &next
}

// WithGroup implements slog.Handler. Nested groups are joined with dots.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = qualifyKey(h.prefix, name)
	return &next
}

func levelStyle(level slog.Level) (string, termenv.Color) {
	switch {
	case level >= slog.LevelError:
		return style.Cross, termenv.RGBColor(string(style.Red))
	case level >= slog.LevelWarn:
		return style.Warning, termenv.RGBColor(string(style.Yellow))
	case level < slog.LevelInfo:
		return style.Dot, termenv.RGBColor(string(style.Slate))
	default:
		return "", termenv.RGBColor(string(style.Slate))
	}
}

func qualify(prefix string, a slog.Attr) slog.Attr {
	return slog.Attr{Key: qualifyKey(prefix, a.Key), Value: a.Value}
}

func qualifyKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// renderAttrs prints subject keys first and everything else in arrival order.
// A key given twice keeps its last value.
func renderAttrs(attrs []slog.Attr) string {
	values := make(map[string]string, len(attrs))
	var order []string
	for _, a := range attrs {
		if _, seen := values[a.Key]; !seen {
			order = append(order, a.Key)
		}
		values[a.Key] = a.Value.Resolve().String()
	}

	parts := make([]string, 0, len(order))
	for _, key := range subjectKeys {
		if v, ok := values[key]; ok {
			parts = append(parts, key+"="+v)
		}
	}
	for _, key := range order {
		if !slices.Contains(subjectKeys, key) {
			parts = append(parts, key+"="+values[key])
		}
	}
	return strings.Join(parts, " ")
}

// formatError renders the error chain as a headline, its metadata and the causes.
func formatError(err error) string {
	var messages []string
	for current := err; current != nil; {
		m, ok := current.(messager)
		if !ok {
			messages = append(messages, current.Error())
			break
		}
		messages = append(messages, m.Message())
		current = errors.Unwrap(current)
	}

	var lines []string
	for i, msg := range messages {
		parts := strings.Split(msg, "\n")
		switch i {
		case 0:
			lines = append(lines, "Error: "+parts[0])
			for _, line := range parts[1:] {
				lines = append(lines, "       "+line)
			}
			lines = append(lines, metadataLines(err)...)
		case 1:
			lines = append(lines, "", "  Caused by:")
			fallthrough
		default:
			lines = append(lines, "    → "+parts[0])
			for _, line := range parts[1:] {
				lines = append(lines, "      "+line)
			}
		}
	}

	return strings.Join(lines, "\n")
}

func metadataLines(err error) []string {
	m, ok := err.(metadataer)
	if !ok {
		return nil
	}
	meta := m.Metadata()
	keys := slices.Sorted(maps.Keys(meta))

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("       %s: %v", k, meta[k]))
	}
	return lines
}
