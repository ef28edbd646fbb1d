package ports

import (
	"context"

	"github.com/Gunvolt24/wc_order_export/internal/domain"
)

// EventPublisher — публикация событий жизненного цикла выгрузки.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.ExportEvent) error
	Close() error
}
