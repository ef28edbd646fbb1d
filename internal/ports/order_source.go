package ports

import (
	"context"

	"github.com/Gunvolt24/wc_order_export/internal/domain"
)

// OrderSource — стратегия выборки заказов под конкретную схему хранения.
// Обе реализации (HPOS и legacy) обязаны давать одинаковые записи для одних и тех же данных.
type OrderSource interface {
	// Backend — имя схемы хранения ("hpos" или "legacy").
	Backend() string

	// FetchOrders — заказы по фильтру (с позициями, если они нужны), новые сначала.
	// Количество заказов не превышает spec.EffectiveLimit().
	FetchOrders(ctx context.Context, spec domain.FilterSpec) ([]domain.OrderRecord, error)

	// CountOrders — число подходящих заказов без учёта лимита.
	CountOrders(ctx context.Context, spec domain.FilterSpec) (int, error)
}

// BackendProbe — определение активной схемы хранения заказов.
type BackendProbe interface {
	// DedicatedOrdersTable — true, если заказы лежат в выделенных таблицах (HPOS).
	DedicatedOrdersTable(ctx context.Context) (bool, error)
}
