package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Gunvolt24/wc_order_export/internal/domain"
	"github.com/Gunvolt24/wc_order_export/internal/ports"
	"github.com/Gunvolt24/wc_order_export/pkg/ctxmeta"
	"github.com/Gunvolt24/wc_order_export/pkg/metrics"
	"github.com/segmentio/kafka-go"
)

// Проверка, что Publisher удовлетворяет интерфейсу верхнего уровня (порт приложения).
var (
	_ ports.EventPublisher = (*Publisher)(nil)
	_ ports.EventPublisher = Noop{}
)

const headerEventType = "event-type"

// writer — минимальный контракт над kafka.Writer, чтобы подменять его в тестах.
type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher — публикует события выгрузки в Kafka (JSON, ключ — имя файла).
type Publisher struct {
	writer       writer
	topic        string
	log          ports.Logger
	writeTimeout time.Duration
	closeOnce    sync.Once
}

// NewPublisher — конструктор.
func NewPublisher(cfg *PublisherConfig, log ports.Logger) *Publisher {
	return newPublisher(cfg.WriterConfig(), cfg.Topic, cfg.WriteTimeout, log)
}

func newPublisher(w writer, topic string, timeout time.Duration, log ports.Logger) *Publisher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Publisher{writer: w, topic: topic, log: log, writeTimeout: timeout}
}

// Publish — синхронная запись одного события с таймаутом.
func (p *Publisher) Publish(ctx context.Context, event domain.ExportEvent) error {
	if event.RequestID == "" {
		if rid, ok := ctxmeta.RequestIDFromContext(ctx); ok {
			event.RequestID = rid
		}
	}

	raw, err := json.Marshal(event)
	if err != nil {
		metrics.EventsFailed.WithLabelValues(p.topic).Inc()
		return fmt.Errorf("marshal export event: %w", err)
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, p.writeTimeout)
	defer cancel()

	msg := kafka.Message{
		Key:     []byte(event.Filename),
		Value:   raw,
		Headers: []kafka.Header{{Key: headerEventType, Value: []byte(event.Type)}},
		Time:    event.OccurredAt,
	}
	if err := p.writer.WriteMessages(ctxTimeout, msg); err != nil {
		metrics.EventsFailed.WithLabelValues(p.topic).Inc()
		return fmt.Errorf("publish export event: %w", err)
	}

	metrics.EventsPublished.WithLabelValues(p.topic).Inc()
	p.log.Debugf(ctx, "published %s file=%s topic=%s", event.Type, event.Filename, p.topic)
	return nil
}

// Close — закрывает writer (дожидается отправки буфера). Вызывается при остановке приложения.
func (p *Publisher) Close() (retErr error) {
	p.closeOnce.Do(func() {
		retErr = p.writer.Close()
	})
	return retErr
}

// Noop — публикатор-заглушка, когда Kafka выключена.
type Noop struct{}

func (Noop) Publish(context.Context, domain.ExportEvent) error { return nil }
func (Noop) Close() error                                      { return nil }
