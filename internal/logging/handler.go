// Package logging provides a custom slog handler that integrates with the
// event log. It forwards logs at WARN level and above to the database-backed
// event log for auditing.
package logging

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/olegiv/hcms-go/internal/model"
	"github.com/olegiv/hcms-go/internal/store"
)

// EventLogHandler is a slog.Handler that wraps another handler and also
// writes WARN and ERROR level logs to the event log.
type EventLogHandler struct {
	inner slog.Handler
	st    *store.Store
	level slog.Level // minimum level forwarded to the event log
}

// NewEventLogHandler creates an EventLogHandler that wraps the given handler.
// Logs at WARN level and above are written to both the wrapped handler and
// the event log.
func NewEventLogHandler(inner slog.Handler, db *sql.DB) *EventLogHandler {
	return &EventLogHandler{
		inner: inner,
		st:    store.New(db),
		level: slog.LevelWarn,
	}
}

// NewEventLogHandlerWithLevel creates an EventLogHandler with a custom
// minimum level.
func NewEventLogHandlerWithLevel(inner slog.Handler, db *sql.DB, level slog.Level) *EventLogHandler {
	return &EventLogHandler{
		inner: inner,
		st:    store.New(db),
		level: level,
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
		inner: h.inner.WithAttrs(attrs),
		st:    h.st,
		level: h.level,
	}
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{
		inner: h.inner.WithGroup(name),
		st:    h.st,
		level: h.level,
	}
}

// writeToEventLog persists one log record as an event. A background
// context is used so the event lands even when the request context is
// already cancelled; a failed write is dropped rather than failing the
// log call.
func (h *EventLogHandler) writeToEventLog(r slog.Record) {
	_, _ = h.st.Events.Create(context.Background(), store.CreateEventInput{
		Level:    slogLevelToEventLevel(r.Level),
		Category: extractCategory(r),
		Message:  r.Message,
		ActorID:  extractActorID(r),
		Metadata: extractMetadata(r),
	})
}

func slogLevelToEventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.EventLevelError
	case level >= slog.LevelWarn:
		return model.EventLevelWarning
	default:
		return model.EventLevelInfo
	}
}

// extractCategory looks for a "category" attribute, falling back to
// inference from the message.
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
	case strings.Contains(msg, "auth") || strings.Contains(msg, "login") || strings.Contains(msg, "logout"):
		return model.EventCategoryAuth
	case strings.Contains(msg, "entry") || strings.Contains(msg, "content") || strings.Contains(msg, "site"):
		return model.EventCategoryContent
	case strings.Contains(msg, "schedul") || strings.Contains(msg, "publish"):
		return model.EventCategoryScheduler
	default:
		return model.EventCategorySystem
	}
}

// extractActorID looks for an "actor_id" attribute set by the actor
// middleware's request logger.
func extractActorID(r slog.Record) *int64 {
	var actorID *int64
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "actor_id" && a.Value.Kind() == slog.KindInt64 {
			id := a.Value.Int64()
			actorID = &id
			return false
		}
		return true
	})
	return actorID
}

// extractMetadata collects the remaining attributes.
func extractMetadata(r slog.Record) map[string]any {
	if r.NumAttrs() == 0 {
		return nil
	}
	metadata := make(map[string]any, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" || a.Key == "actor_id" {
			return true
		}
		metadata[a.Key] = a.Value.Any()
		return true
	})
	return metadata
}
