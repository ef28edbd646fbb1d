package kafka

import (
	"time"

	"github.com/segmentio/kafka-go"
)

// PublisherConfig — параметры продьюсера событий выгрузки.
type PublisherConfig struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
	MaxAttempts  int
}

// WriterConfig — конфигурация kafka.Writer: синхронная запись, подтверждение от всех реплик,
// ключ сообщения (имя файла) определяет партицию.
func (c *PublisherConfig) WriterConfig() *kafka.Writer {
	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(c.Brokers...),
		Topic:                  c.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		MaxAttempts:            attempts,
		AllowAutoTopicCreation: true,
	}
}
