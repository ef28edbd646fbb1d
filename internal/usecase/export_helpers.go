package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Gunvolt24/wc_order_export/internal/domain"
	"github.com/Gunvolt24/wc_order_export/internal/export"
	"github.com/Gunvolt24/wc_order_export/pkg/metrics"
)

// writeFile — создаёт файл с уникальным именем и пишет в него CSV.
// При ошибке записи недописанный файл удаляется.
func (s *ExportService) writeFile(ctx context.Context, rows []domain.OrderRow) (string, int, int64, error) {
	now := s.now()
	for attempt := 0; attempt < maxFilenameAttempts; attempt++ {
		name := export.Filename(now, attempt)
		w, err := s.storage.Create(ctx, name)
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return "", 0, 0, err
		}

		cw := &countingWriter{w: w}
		count, writeErr := export.WriteCSV(cw, rows)
		closeErr := w.Close()
		if writeErr != nil || closeErr != nil {
			if rmErr := s.storage.Remove(ctx, name); rmErr != nil {
				s.log.Warnf(ctx, "remove partial file %s: %v", name, rmErr)
			}
			if errors.Is(writeErr, domain.ErrEmptyResult) {
				return "", 0, 0, writeErr
			}
			return "", 0, 0, fmt.Errorf("%w: %w", domain.ErrWriteFailure, errors.Join(writeErr, closeErr))
		}
		return name, count, cw.n, nil
	}
	return "", 0, 0, fmt.Errorf("%w: no free file name after %d attempts", domain.ErrWriteFailure, maxFilenameAttempts)
}

// publish — события не влияют на результат операции: ошибка только логируется.
func (s *ExportService) publish(ctx context.Context, ev domain.ExportEvent) {
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warnf(ctx, "publish %s file=%s: %v", ev.Type, ev.Filename, err)
	}
}

func (s *ExportService) previewFailed(ctx context.Context, span trace.Span, backend string, err error) error {
	metrics.PreviewsTotal.WithLabelValues(backend, resultLabel(err)).Inc()
	span.SetStatus(codes.Error, err.Error())
	s.log.Errorf(ctx, "preview backend=%s failed: %v", backend, err)
	return err
}

func (s *ExportService) exportFailed(ctx context.Context, span trace.Span, backend string, err error) error {
	metrics.ExportsTotal.WithLabelValues(backend, resultLabel(err)).Inc()
	if errors.Is(err, domain.ErrNoMatch) {
		s.log.Infof(ctx, "export backend=%s: no matching orders", backend)
		return err
	}
	span.SetStatus(codes.Error, err.Error())
	s.log.Errorf(ctx, "export backend=%s failed: %v", backend, err)
	return err
}

// resultLabel — значение метки result для метрик.
func resultLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoMatch):
		return "no_match"
	case errors.Is(err, domain.ErrQueryFailure):
		return "query_error"
	case errors.Is(err, domain.ErrStorageUnavailable):
		return "storage_error"
	case errors.Is(err, domain.ErrWriteFailure), errors.Is(err, domain.ErrEmptyResult):
		return "write_error"
	default:
		return "error"
	}
}

// countingWriter — считает записанные байты (размер файла без дополнительного stat).
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// consumeOnClose — тело скачивания: при закрытии файл удаляется и публикуется событие.
type consumeOnClose struct {
	io.ReadCloser
	ctx  context.Context
	name string
	size int64
	svc  *ExportService
	once sync.Once
}

func (c *consumeOnClose) Close() error {
	var err error
	c.once.Do(func() {
		err = c.ReadCloser.Close()
		if rmErr := c.svc.storage.Remove(c.ctx, c.name); rmErr != nil {
			c.svc.log.Warnf(c.ctx, "remove downloaded file %s: %v", c.name, rmErr)
			err = errors.Join(err, rmErr)
		}
		ev := domain.NewExportEvent(domain.EventExportDownloaded, c.name, c.svc.now())
		ev.Bytes = c.size
		c.svc.publish(c.ctx, ev)
		c.svc.log.Infof(c.ctx, "download completed file=%s bytes=%d", c.name, c.size)
	})
	return err
}
