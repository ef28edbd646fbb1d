package ports

import (
	"context"

	"github.com/Gunvolt24/wc_order_export/internal/domain"
)

// OrderExportService — сервис выгрузки заказов (предпросмотр, CSV, скачивание).
type OrderExportService interface {
	Preview(ctx context.Context, spec domain.FilterSpec) (*domain.PreviewResult, error)
	Export(ctx context.Context, spec domain.FilterSpec) (*domain.ExportResult, error)
	Download(ctx context.Context, filename, token string) (*domain.Download, error)
	Sweep(ctx context.Context) (int, error)
}
