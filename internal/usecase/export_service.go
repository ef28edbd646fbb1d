package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Gunvolt24/wc_order_export/internal/domain"
	"github.com/Gunvolt24/wc_order_export/internal/export"
	"github.com/Gunvolt24/wc_order_export/internal/ports"
	"github.com/Gunvolt24/wc_order_export/pkg/metrics"
)

const (
	// DefaultPreviewRows — число строк в предпросмотре по умолчанию.
	DefaultPreviewRows = 10

	// maxFilenameAttempts — сколько имён пробуем при коллизиях (одна секунда — одно имя).
	maxFilenameAttempts = 10

	backendUnknown = "unknown"
)

// Проверка, что ExportService удовлетворяет интерфейсу верхнего уровня.
var _ ports.OrderExportService = (*ExportService)(nil)

// Options — настройки сервиса выгрузки.
type Options struct {
	PreviewRows int
	Now         func() time.Time
}

// ExportService — предпросмотр, выгрузка в CSV и одноразовое скачивание (без знаний о транспорте).
type ExportService struct {
	engine  *QueryEngine
	storage ports.ExportStorage
	tokens  ports.ArtifactStore
	events  ports.EventPublisher
	log     ports.Logger

	previewRows int
	now         func() time.Time
	tracer      trace.Tracer
}

// NewExportService — DI-конструктор.
func NewExportService(
	engine *QueryEngine,
	storage ports.ExportStorage,
	tokens ports.ArtifactStore,
	events ports.EventPublisher,
	log ports.Logger,
	opts Options,
) *ExportService {
	if opts.PreviewRows <= 0 {
		opts.PreviewRows = DefaultPreviewRows
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &ExportService{
		engine:      engine,
		storage:     storage,
		tokens:      tokens,
		events:      events,
		log:         log,
		previewRows: opts.PreviewRows,
		now:         opts.Now,
		tracer:      otel.Tracer("github.com/Gunvolt24/wc_order_export/internal/usecase"),
	}
}

// Preview — первые previewRows строк и общее число подходящих заказов.
// Ноль совпадений — успешный пустой результат.
func (s *ExportService) Preview(ctx context.Context, spec domain.FilterSpec) (*domain.PreviewResult, error) {
	ctx, span := s.tracer.Start(ctx, "ExportService.Preview")
	defer span.End()

	src, err := s.engine.Source(ctx)
	if err != nil {
		return nil, s.previewFailed(ctx, span, backendUnknown, err)
	}
	backend := src.Backend()
	span.SetAttributes(attribute.String("orders.backend", backend))

	capped := spec
	capped.Limit = s.previewRows
	records, err := src.FetchOrders(ctx, capped)
	if err != nil {
		return nil, s.previewFailed(ctx, span, backend, err)
	}

	total, err := src.CountOrders(ctx, spec)
	if err != nil {
		return nil, s.previewFailed(ctx, span, backend, err)
	}

	rows := export.Flatten(export.LayoutFor(spec), records, spec.ItemsIncluded())
	if len(rows) > s.previewRows {
		rows = rows[:s.previewRows]
	}

	res := &domain.PreviewResult{
		Rows:       rows,
		TotalCount: total,
		Columns:    []string{},
		Backend:    backend,
	}
	if len(rows) > 0 {
		res.Columns = rows[0].Columns
	}

	span.SetAttributes(attribute.Int("orders.total", total), attribute.Int("orders.rows", len(rows)))
	metrics.PreviewsTotal.WithLabelValues(backend, "ok").Inc()
	s.log.Infof(ctx, "preview backend=%s rows=%d total=%d", backend, len(rows), total)
	return res, nil
}

// Export — выгрузка всех подходящих заказов в CSV и выпуск токена на скачивание.
// Ноль совпадений — domain.ErrNoMatch.
func (s *ExportService) Export(ctx context.Context, spec domain.FilterSpec) (*domain.ExportResult, error) {
	ctx, span := s.tracer.Start(ctx, "ExportService.Export")
	defer span.End()

	src, err := s.engine.Source(ctx)
	if err != nil {
		return nil, s.exportFailed(ctx, span, backendUnknown, err)
	}
	backend := src.Backend()
	span.SetAttributes(attribute.String("orders.backend", backend))

	records, err := src.FetchOrders(ctx, spec)
	if err != nil {
		return nil, s.exportFailed(ctx, span, backend, err)
	}
	if len(records) == 0 {
		return nil, s.exportFailed(ctx, span, backend, domain.ErrNoMatch)
	}

	rows := export.Flatten(export.LayoutFor(spec), records, spec.ItemsIncluded())
	name, count, size, err := s.writeFile(ctx, rows)
	if err != nil {
		return nil, s.exportFailed(ctx, span, backend, err)
	}

	token, err := s.tokens.Issue(ctx, name)
	if err != nil {
		if rmErr := s.storage.Remove(ctx, name); rmErr != nil {
			s.log.Warnf(ctx, "remove %s after token failure: %v", name, rmErr)
		}
		return nil, s.exportFailed(ctx, span, backend, fmt.Errorf("issue download token: %w", err))
	}

	ev := domain.NewExportEvent(domain.EventExportCreated, name, s.now())
	ev.Rows, ev.Bytes, ev.Backend = count, size, backend
	s.publish(ctx, ev)

	span.SetAttributes(attribute.Int("orders.rows", count), attribute.Int64("export.bytes", size))
	metrics.ExportsTotal.WithLabelValues(backend, "ok").Inc()
	metrics.ExportRows.Observe(float64(count))
	s.log.Infof(ctx, "export created file=%s backend=%s rows=%d bytes=%d", name, backend, count, size)

	return &domain.ExportResult{
		Filename:      name,
		DownloadToken: token,
		RowCount:      count,
		FileSizeBytes: size,
		Backend:       backend,
	}, nil
}

// Download — гасит токен и открывает файл. Без действительного токена к файлу не обращаемся.
// Закрытие Body удаляет файл.
func (s *ExportService) Download(ctx context.Context, filename, token string) (*domain.Download, error) {
	ctx, span := s.tracer.Start(ctx, "ExportService.Download")
	defer span.End()
	span.SetAttributes(attribute.String("export.file", filename))

	if err := s.tokens.Redeem(ctx, filename, token); err != nil {
		result := "unauthorized"
		if !errors.Is(err, domain.ErrUnauthorized) {
			result = "error"
		}
		metrics.DownloadsTotal.WithLabelValues(result).Inc()
		s.log.Warnf(ctx, "download refused file=%s: %v", filename, err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	body, size, err := s.storage.Open(ctx, filename)
	if err != nil {
		result := "error"
		if errors.Is(err, domain.ErrNotFound) {
			result = "not_found"
		}
		metrics.DownloadsTotal.WithLabelValues(result).Inc()
		s.log.Warnf(ctx, "download open file=%s: %v", filename, err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	metrics.DownloadsTotal.WithLabelValues("ok").Inc()
	return &domain.Download{
		Filename: filename,
		Size:     size,
		Body: &consumeOnClose{
			ReadCloser: body,
			ctx:        context.WithoutCancel(ctx),
			name:       filename,
			size:       size,
			svc:        s,
		},
	}, nil
}

// Sweep — удаляет все файлы выгрузки (например, при остановке сервиса).
func (s *ExportService) Sweep(ctx context.Context) (int, error) {
	n, err := s.storage.Sweep(ctx)
	if err != nil {
		s.log.Errorf(ctx, "sweep export dir: %v", err)
		return n, err
	}
	s.log.Infof(ctx, "sweep removed %d export files", n)
	return n, nil
}
