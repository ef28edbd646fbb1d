package domain

import (
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	EventExportCreated    = "orders.export.created"
	EventExportDownloaded = "orders.export.downloaded"
)

// ExportEvent — событие жизненного цикла файла выгрузки (для аудита).
type ExportEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	Filename   string    `json:"filename"`
	Rows       int       `json:"rows,omitempty"`
	Bytes      int64     `json:"bytes,omitempty"`
	Backend    string    `json:"backend,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewExportEvent — событие с ULID-идентификатором (сортируется по времени).
func NewExportEvent(eventType, filename string, at time.Time) ExportEvent {
	return ExportEvent{
		EventID:    ulid.Make().String(),
		Type:       eventType,
		Filename:   filename,
		OccurredAt: at.UTC(),
	}
}
