//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/wc_order_export/internal/domain"
	ikafka "github.com/Gunvolt24/wc_order_export/internal/kafka"
	"github.com/Gunvolt24/wc_order_export/internal/testutil"
	"github.com/Gunvolt24/wc_order_export/pkg/logger"
)

var reUnsafe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func safe(t *testing.T) string { return reUnsafe.ReplaceAllString(t.Name(), "-") }

// Событие выгрузки доходит до брокера и читается обратно с ключом = имя файла.
func TestPublisher_RoundTrip_TC(t *testing.T) {
	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelStart()

	kf, stopKF, err := testutil.StartKafkaTC(ctxStart, "orders-export")
	require.NoError(t, err)
	t.Cleanup(func() { _ = stopKF(context.Background()) })

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	topic := testutil.UniqueTopic(kf.BaseTopic + "-" + safe(t))
	require.NoError(t, testutil.EnsureTopic(ctx, kf.Brokers[0], topic, 3))

	logg, cleanup, err := logger.NewZapLogger(false, "info")
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })

	pub := ikafka.NewPublisher(&ikafka.PublisherConfig{
		Brokers:      kf.Brokers,
		Topic:        topic,
		WriteTimeout: 10 * time.Second,
	}, logg)
	t.Cleanup(func() { _ = pub.Close() })

	ev := domain.NewExportEvent(domain.EventExportCreated, "orders-export-2024-01-31-10-00-00.csv", time.Now())
	ev.Rows = 4
	require.NoError(t, pub.Publish(ctx, ev))

	msg, err := testutil.ReadMessage(ctx, kf.Brokers, topic)
	require.NoError(t, err)
	require.Equal(t, ev.Filename, string(msg.Key))
	require.Contains(t, msg.Headers, kafka.Header{Key: "event-type", Value: []byte(domain.EventExportCreated)})

	var got domain.ExportEvent
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	require.Equal(t, ev.EventID, got.EventID)
	require.Equal(t, domain.EventExportCreated, got.Type)
	require.Equal(t, 4, got.Rows)
}
