package metrics_test

import (
	"testing"

	"github.com/Gunvolt24/wc_order_export/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMustRegister_IsIdempotent(t *testing.T) {
	// Должно выполняться без паники даже при повторном вызове.
	metrics.MustRegister()
	metrics.MustRegister()
}

func TestExportCounters_ByLabel(t *testing.T) {
	metrics.MustRegister()

	okBefore := testutil.ToFloat64(metrics.ExportsTotal.WithLabelValues("hpos", "ok"))
	noMatchBefore := testutil.ToFloat64(metrics.ExportsTotal.WithLabelValues("hpos", "no_match"))

	metrics.ExportsTotal.WithLabelValues("hpos", "ok").Inc()
	metrics.ExportsTotal.WithLabelValues("hpos", "ok").Inc()

	if got := testutil.ToFloat64(metrics.ExportsTotal.WithLabelValues("hpos", "ok")); got != okBefore+2 {
		t.Fatalf("ExportsTotal(ok): got=%v want=%v", got, okBefore+2)
	}
	if got := testutil.ToFloat64(metrics.ExportsTotal.WithLabelValues("hpos", "no_match")); got != noMatchBefore {
		t.Fatalf("ExportsTotal(no_match): got=%v want=%v", got, noMatchBefore)
	}
}

func TestEventCounters_Inc(t *testing.T) {
	metrics.MustRegister()

	beforePublished := testutil.ToFloat64(metrics.EventsPublished.WithLabelValues("orders-export-events"))
	beforeFailed := testutil.ToFloat64(metrics.EventsFailed.WithLabelValues("orders-export-events"))

	metrics.EventsPublished.WithLabelValues("orders-export-events").Inc()
	metrics.EventsFailed.WithLabelValues("orders-export-events").Inc()

	if got := testutil.ToFloat64(metrics.EventsPublished.WithLabelValues("orders-export-events")); got != beforePublished+1 {
		t.Fatalf("EventsPublished: got=%v want=%v", got, beforePublished+1)
	}
	if got := testutil.ToFloat64(metrics.EventsFailed.WithLabelValues("orders-export-events")); got != beforeFailed+1 {
		t.Fatalf("EventsFailed: got=%v want=%v", got, beforeFailed+1)
	}
}

func TestTokenStoreSize_GaugeSet(t *testing.T) {
	metrics.MustRegister()

	cur := testutil.ToFloat64(metrics.TokenStoreSize)

	metrics.TokenStoreSize.Set(cur + 5)
	if got := testutil.ToFloat64(metrics.TokenStoreSize); got != cur+5 {
		t.Fatalf("TokenStoreSize after +5: got=%v want=%v", got, cur+5)
	}

	metrics.TokenStoreSize.Set(cur) // вернуть как было
	if got := testutil.ToFloat64(metrics.TokenStoreSize); got != cur {
		t.Fatalf("TokenStoreSize restore: got=%v want=%v", got, cur)
	}
}
