package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Host severity codes: 1 error, 2 assert, 3 warning, 4 log. Debug and info
// both land on 4, matching the coarse levels game-engine consoles expose.
func severityOf(l slog.Level) int32 {
	switch {
	case l >= slog.LevelError:
		return 1
	case l >= slog.LevelWarn:
		return 3
	default:
		return 4
	}
}

// HostLogHandler is a slog.Handler that forwards records to the host's
// log callback, so bridge diagnostics appear in the host's own console.
type HostLogHandler struct {
	host  LogHost
	level slog.Level
	attrs []slog.Attr
	group string
}

func NewHostLogHandler(host LogHost, level slog.Level) *HostLogHandler {
	return &HostLogHandler{host: host, level: level}
}

func (h *HostLogHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level
}

func (h *HostLogHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s][%s] %s", r.Time.Format("2006-01-02 15:04:05.000000"), r.Level, r.Message)
	for _, a := range h.attrs {
		writeAttr(&b, h.group, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.group, a)
		return true
	})
	h.host.ShowLog(severityOf(r.Level), b.String())
	return nil
}

func writeAttr(b *strings.Builder, group string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if group != "" {
		key = group + "." + key
	}
	fmt.Fprintf(b, " %s=%v", key, a.Value.Any())
}

func (h *HostLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &nh
}

func (h *HostLogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	if nh.group != "" {
		nh.group += "." + name
	} else {
		nh.group = name
	}
	return &nh
}
