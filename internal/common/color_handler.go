package common

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"
)

// ANSI color codes
const (
	Reset   = "\033[0m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
	Gray    = "\033[90m"
)

// ColorHandler implements a colorized text handler for slog
type ColorHandler struct {
	opts     *slog.HandlerOptions
	writer   io.Writer
	attrs    []slog.Attr
	groups   []string
	masker   *Masker
	useColor bool
}

// NewColorHandler creates a new color handler
func NewColorHandler(w io.Writer, opts *slog.HandlerOptions) *ColorHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &ColorHandler{
		opts:     opts,
		writer:   w,
		useColor: shouldUseColor(w),
		masker:   GetGlobalMasker(),
	}
}

// shouldUseColor determines if colors should be used based on the output
func shouldUseColor(w io.Writer) bool {
	if runtime.GOOS == "windows" {
		return false
	}
	if f, ok := w.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// Enabled reports whether the handler handles records at the given level
func (h *ColorHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle handles the Record
func (h *ColorHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, 512)

	if !r.Time.IsZero() {
		buf = append(buf, h.colorize(Gray, r.Time.Format(time.RFC3339))...)
		buf = append(buf, " "...)
	}

	buf = append(buf, h.formatLevel(r.Level)...)
	buf = append(buf, " "...)

	if len(h.groups) > 0 {
		buf = append(buf, h.colorize(Cyan, fmt.Sprintf("[%s]", strings.Join(h.groups, ".")))...)
		buf = append(buf, " "...)
	}

	buf = append(buf, h.colorize(White, r.Message)...)

	attrs := make([]slog.Attr, 0, r.NumAttrs()+len(h.attrs))
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})
	if len(attrs) > 0 {
		buf = append(buf, " "...)
		buf = h.formatAttributes(buf, attrs)
	}

	buf = append(buf, "\n"...)
	_, err := h.writer.Write(buf)
	return err
}

// formatLevel formats the log level with appropriate colors
func (h *ColorHandler) formatLevel(level slog.Level) string {
	var color, levelStr string
	switch level {
	case slog.LevelDebug:
		color, levelStr = Gray, "DEBUG"
	case slog.LevelInfo:
		color, levelStr = Green, "INFO "
	case slog.LevelWarn:
		color, levelStr = Yellow, "WARN "
	case slog.LevelError:
		color, levelStr = Red, "ERROR"
	default:
		color, levelStr = White, "UNKNOWN"
	}
	return h.colorize(color, fmt.Sprintf("[%s]", levelStr))
}

// formatAttributes formats attributes with colors, masking sensitive values
func (h *ColorHandler) formatAttributes(buf []byte, attrs []slog.Attr) []byte {
	for i, attr := range attrs {
		if i > 0 {
			buf = append(buf, " "...)
		}
		buf = append(buf, h.colorize(Cyan, attr.Key)...)
		buf = append(buf, "="...)
		buf = append(buf, h.formatValue(attr.Key, attr.Value)...)
	}
	return buf
}

// formatValue formats a slog.Value with appropriate coloring
func (h *ColorHandler) formatValue(key string, v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		str := v.String()
		if h.masker != nil && h.masker.IsEnabled() {
			str = h.masker.MaskValue(key, str)
		}
		switch {
		case isErrorLike(str):
			return h.colorize(Red, fmt.Sprintf("%q", str))
		case isSuccessLike(str):
			return h.colorize(Green, fmt.Sprintf("%q", str))
		default:
			return h.colorize(White, fmt.Sprintf("%q", str))
		}
	case slog.KindInt64:
		return h.colorize(Magenta, fmt.Sprintf("%d", v.Int64()))
	case slog.KindBool:
		if v.Bool() {
			return h.colorize(Green, "true")
		}
		return h.colorize(Red, "false")
	case slog.KindDuration:
		return h.colorize(Yellow, v.Duration().String())
	case slog.KindTime:
		return h.colorize(Gray, v.Time().Format(time.RFC3339))
	default:
		str := v.String()
		if h.masker != nil && h.masker.IsEnabled() {
			str = h.masker.MaskValue(key, str)
		}
		return h.colorize(White, str)
	}
}

func isErrorLike(s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(s, "error") || strings.Contains(s, "fail") ||
		strings.Contains(s, "timeout")
}

func isSuccessLike(s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(s, "success") || strings.Contains(s, "ok")
}

// colorize applies color to text if colors are enabled
func (h *ColorHandler) colorize(color, text string) string {
	if !h.useColor {
		return text
	}
	return color + text + Reset
}

// WithAttrs returns a new ColorHandler with the given attributes added
func (h *ColorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ColorHandler{
		opts:     h.opts,
		writer:   h.writer,
		attrs:    append(h.attrs, attrs...),
		groups:   h.groups,
		masker:   h.masker,
		useColor: h.useColor,
	}
}

// WithGroup returns a new ColorHandler with the given group name added
func (h *ColorHandler) WithGroup(name string) slog.Handler {
	return &ColorHandler{
		opts:     h.opts,
		writer:   h.writer,
		attrs:    h.attrs,
		groups:   append(h.groups, name),
		masker:   h.masker,
		useColor: h.useColor,
	}
}

// SetColorEnabled enables or disables colors
func (h *ColorHandler) SetColorEnabled(enabled bool) {
	h.useColor = enabled
}
