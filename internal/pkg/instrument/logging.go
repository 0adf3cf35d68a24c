package instrument

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

const masked = "***"

func initLogging(cfg *Config, lp *sdklog.LoggerProvider) {
	sinks := []slog.Handler{newJSONHandler(os.Stdout, parseLevel(cfg.LogLevel))}
	if lp != nil {
		sinks = append(sinks, otelslog.NewHandler(cfg.ServiceName, otelslog.WithLoggerProvider(lp)))
	}

	slog.SetDefault(slog.New(newHandler(sinks, cfg.MaskFields, cfg.KioskID)))
}

func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}

	return lvl
}

func newJSONHandler(w io.Writer, lvl slog.Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: true,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.TimeKey:
				a.Key = "ts"
			case slog.LevelKey:
				a.Key = "severity"
			case slog.SourceKey:
				src, ok := a.Value.Any().(*slog.Source)
				if !ok {
					return a
				}
				_, rel, found := strings.Cut(src.File, "/internal/")
				if !found {
					return slog.Attr{}
				}
				return slog.String("file", fmt.Sprintf("internal/%s:%d", rel, src.Line))
			}
			return a
		},
	})
}

// handler fans records out to every sink after masking sensitive attributes
// and stamping the kiosk ID and correlation ID.
type handler struct {
	sinks   []slog.Handler
	mask    map[string]struct{}
	kioskID string
}

func newHandler(sinks []slog.Handler, fields []string, kioskID string) *handler {
	mask := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			mask[f] = struct{}{}
		}
	}

	return &handler{sinks: sinks, mask: mask, kioskID: kioskID}
}

func (h *handler) Enabled(ctx context.Context, lvl slog.Level) bool {
	for _, s := range h.sinks {
		if s.Enabled(ctx, lvl) {
			return true
		}
	}

	return false
}

func (h *handler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.maskAttr(a))
		return true
	})
	if cID := GetCorrelationID(ctx); cID != "" {
		out.AddAttrs(slog.String("_cID", cID))
	}
	if h.kioskID != "" {
		out.AddAttrs(slog.String("kiosk", h.kioskID))
	}

	var first error
	for _, s := range h.sinks {
		if !s.Enabled(ctx, r.Level) {
			continue
		}
		if err := s.Handle(ctx, out.Clone()); err != nil && first == nil {
			first = err
		}
	}

	return first
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clean[i] = h.maskAttr(a)
	}

	return h.derive(func(s slog.Handler) slog.Handler { return s.WithAttrs(clean) })
}

func (h *handler) WithGroup(name string) slog.Handler {
	return h.derive(func(s slog.Handler) slog.Handler { return s.WithGroup(name) })
}

func (h *handler) derive(f func(slog.Handler) slog.Handler) slog.Handler {
	sinks := make([]slog.Handler, len(h.sinks))
	for i, s := range h.sinks {
		sinks[i] = f(s)
	}

	return &handler{sinks: sinks, mask: h.mask, kioskID: h.kioskID}
}

func (h *handler) masks(key string) bool {
	_, ok := h.mask[strings.ToLower(key)]
	return ok
}

func (h *handler) maskAttr(a slog.Attr) slog.Attr {
	if len(h.mask) == 0 {
		return a
	}
	if h.masks(a.Key) {
		return slog.String(a.Key, masked)
	}

	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindGroup:
		group := v.Group()
		attrs := make([]slog.Attr, len(group))
		for i, ga := range group {
			attrs[i] = h.maskAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(attrs...)}
	case slog.KindString:
		if s, ok := h.maskJSON([]byte(v.String())); ok {
			return slog.String(a.Key, s)
		}
	case slog.KindAny:
		switch raw := v.Any().(type) {
		case []byte:
			if s, ok := h.maskJSON(raw); ok {
				return slog.String(a.Key, s)
			}
		case map[string]any, []any:
			return slog.Any(a.Key, h.maskTree(raw))
		case map[string]string:
			tree := make(map[string]any, len(raw))
			for k, val := range raw {
				tree[k] = val
			}
			return slog.Any(a.Key, h.maskTree(tree))
		}
	}

	return slog.Attr{Key: a.Key, Value: v}
}

func (h *handler) maskJSON(payload []byte) (string, bool) {
	if len(payload) == 0 || (payload[0] != '{' && payload[0] != '[') {
		return "", false
	}

	var tree any
	if err := json.Unmarshal(payload, &tree); err != nil {
		return "", false
	}

	out, err := json.Marshal(h.maskTree(tree))
	if err != nil {
		return "", false
	}

	return string(out), true
}

func (h *handler) maskTree(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			if h.masks(k) {
				out[k] = masked
				continue
			}
			out[k] = h.maskTree(child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = h.maskTree(child)
		}
		return out
	default:
		return v
	}
}
