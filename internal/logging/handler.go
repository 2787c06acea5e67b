// Package logging provides a custom slog handler that mirrors WARN level
// and above into the local state database's event log, so failed syncs and
// session resets stay inspectable after the process exits.
package logging

import (
	"context"
	"log/slog"
	"strings"

	"github.com/danatelecom/portal-go/internal/state"
)

// Event categories recorded in the local log.
const (
	CategoryAuth    = "auth"
	CategoryCatalog = "catalog"
	CategoryNews    = "news"
	CategoryAdmin   = "admin"
	CategorySystem  = "system"
)

// Event levels.
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// EventLogHandler is a slog.Handler that wraps another handler and also
// writes WARN and ERROR level records to the state database.
type EventLogHandler struct {
	inner   slog.Handler
	queries *state.Queries
	level   slog.Level
}

// NewEventLogHandler creates an EventLogHandler that wraps the given
// handler. Records at WARN and above are mirrored into the event log.
func NewEventLogHandler(inner slog.Handler, queries *state.Queries) *EventLogHandler {
	return &EventLogHandler{
		inner:   inner,
		queries: queries,
		level:   slog.LevelWarn,
	}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level {
		h.writeToEventLog(r)
	}

	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EventLogHandler{
		inner:   h.inner.WithAttrs(attrs),
		queries: h.queries,
		level:   h.level,
	}
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{
		inner:   h.inner.WithGroup(name),
		queries: h.queries,
		level:   h.level,
	}
}

// writeToEventLog persists a record. A background context is used so the
// event is kept even when the triggering request context is already done.
func (h *EventLogHandler) writeToEventLog(r slog.Record) {
	_, _ = h.queries.CreateEvent(context.Background(), state.CreateEventParams{
		Level:     levelString(r.Level),
		Category:  extractCategory(r),
		Message:   r.Message,
		Metadata:  extractMetadata(r),
		CreatedAt: r.Time,
	})
}

func levelString(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return LevelError
	case level >= slog.LevelWarn:
		return LevelWarning
	default:
		return LevelInfo
	}
}

// extractCategory looks for an explicit "category" attribute and otherwise
// infers one from the message.
func extractCategory(r slog.Record) string {
	var category string

	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			category = a.Value.String()
			return false
		}
		return true
	})

	if category != "" {
		return category
	}

	msg := strings.ToLower(r.Message)
	switch {
	case strings.Contains(msg, "token") || strings.Contains(msg, "login") ||
		strings.Contains(msg, "session") || strings.Contains(msg, "auth"):
		return CategoryAuth
	case strings.Contains(msg, "product") || strings.Contains(msg, "catalog"):
		return CategoryCatalog
	case strings.Contains(msg, "news") || strings.Contains(msg, "comment") || strings.Contains(msg, "like"):
		return CategoryNews
	case strings.Contains(msg, "upload") || strings.Contains(msg, "dashboard"):
		return CategoryAdmin
	default:
		return CategorySystem
	}
}

// extractMetadata collects the remaining attributes into a JSON object.
func extractMetadata(r slog.Record) string {
	if r.NumAttrs() == 0 {
		return "{}"
	}

	var sb strings.Builder
	sb.WriteString("{")
	first := true

	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			return true // already extracted
		}
		if !first {
			sb.WriteString(",")
		}
		first = false
		sb.WriteString(`"`)
		sb.WriteString(escapeJSON(a.Key))
		sb.WriteString(`":"`)
		sb.WriteString(escapeJSON(a.Value.String()))
		sb.WriteString(`"`)
		return true
	})

	sb.WriteString("}")
	return sb.String()
}

func escapeJSON(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
