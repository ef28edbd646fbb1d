package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Gunvolt24/wc_order_export/internal/domain"
	"github.com/Gunvolt24/wc_order_export/pkg/metrics"
	"github.com/jackc/pgx/v5/pgxpool"
)

// orderScan — приёмник одной строки запроса заказов.
type orderScan struct {
	rec     domain.OrderRecord
	created *time.Time
}

// orderField — выражение SELECT и соответствующий ему приёмник Scan.
type orderField struct {
	expr string
	dest func(s *orderScan) any
}

// orderExprs — SQL-выражения полей заказа в конкретной схеме хранения.
type orderExprs struct {
	id, status, created, modified           string
	total, tax, currency                    string
	paymentMethod, paymentTitle, customerID string
	billing, shipping                       addressExprs
	notes                                   string
}

type addressExprs struct {
	firstName, lastName, email, phone, company string
	address1, address2, city, state, postcode  string
	country                                    string
}

// projection — список полей SELECT под фильтр. Порядок совпадает с порядком Scan.
func projection(spec domain.FilterSpec, ex orderExprs) []orderField {
	fields := []orderField{
		{ex.id, func(s *orderScan) any { return &s.rec.ID }},
		{ex.status, func(s *orderScan) any { return &s.rec.Status }},
		{ex.created, func(s *orderScan) any { return &s.created }},
		{ex.modified, func(s *orderScan) any { return &s.rec.ModifiedAt }},
		{ex.total, func(s *orderScan) any { return &s.rec.Total }},
		{ex.tax, func(s *orderScan) any { return &s.rec.Tax }},
		{ex.currency, func(s *orderScan) any { return &s.rec.Currency }},
		{ex.paymentMethod, func(s *orderScan) any { return &s.rec.PaymentMethod }},
		{ex.paymentTitle, func(s *orderScan) any { return &s.rec.PaymentMethodTitle }},
		{ex.customerID, func(s *orderScan) any { return &s.rec.CustomerID }},
	}

	if spec.BillingIncluded() {
		b := ex.billing
		fields = append(fields,
			orderField{b.firstName, func(s *orderScan) any { return &s.rec.Billing.FirstName }},
			orderField{b.lastName, func(s *orderScan) any { return &s.rec.Billing.LastName }},
			orderField{b.email, func(s *orderScan) any { return &s.rec.Billing.Email }},
			orderField{b.phone, func(s *orderScan) any { return &s.rec.Billing.Phone }},
			orderField{b.company, func(s *orderScan) any { return &s.rec.Billing.Company }},
			orderField{b.address1, func(s *orderScan) any { return &s.rec.Billing.Address1 }},
			orderField{b.address2, func(s *orderScan) any { return &s.rec.Billing.Address2 }},
			orderField{b.city, func(s *orderScan) any { return &s.rec.Billing.City }},
			orderField{b.state, func(s *orderScan) any { return &s.rec.Billing.State }},
			orderField{b.postcode, func(s *orderScan) any { return &s.rec.Billing.Postcode }},
			orderField{b.country, func(s *orderScan) any { return &s.rec.Billing.Country }},
		)
	}

	if spec.ShippingIncluded() {
		sh := ex.shipping
		fields = append(fields,
			orderField{sh.firstName, func(s *orderScan) any { return &s.rec.Shipping.FirstName }},
			orderField{sh.lastName, func(s *orderScan) any { return &s.rec.Shipping.LastName }},
			orderField{sh.address1, func(s *orderScan) any { return &s.rec.Shipping.Address1 }},
			orderField{sh.address2, func(s *orderScan) any { return &s.rec.Shipping.Address2 }},
			orderField{sh.city, func(s *orderScan) any { return &s.rec.Shipping.City }},
			orderField{sh.state, func(s *orderScan) any { return &s.rec.Shipping.State }},
			orderField{sh.postcode, func(s *orderScan) any { return &s.rec.Shipping.Postcode }},
			orderField{sh.country, func(s *orderScan) any { return &s.rec.Shipping.Country }},
		)
	}

	if spec.NotesIncluded() {
		fields = append(fields, orderField{ex.notes, func(s *orderScan) any { return &s.rec.Notes }})
	}
	return fields
}

func selectList(fields []orderField) string {
	exprs := make([]string, len(fields))
	for i, f := range fields {
		exprs[i] = f.expr
	}
	return strings.Join(exprs, ",\n\t\t")
}

// itemColumns — общий список колонок запроса позиций (обе схемы возвращают их в этом порядке).
const itemColumns = "order_id, order_item_id, product_id, variation_id, product_name, variation_name, sku, qty, " +
	"gross, net, coupon, tax, shipping, shipping_tax"

// queryOrders — выполняет запрос заказов и сканирует строки по проекции.
func queryOrders(ctx context.Context, pool *pgxpool.Pool, backend, sql string, a args, fields []orderField) ([]domain.OrderRecord, error) {
	defer observe(backend, "orders", time.Now())

	rows, err := pool.Query(ctx, sql, a...)
	if err != nil {
		return nil, fmt.Errorf("%w: select %s orders: %w", domain.ErrQueryFailure, backend, err)
	}
	defer rows.Close()

	records := make([]domain.OrderRecord, 0, 16)
	dests := make([]any, len(fields))
	for rows.Next() {
		var s orderScan
		for i, f := range fields {
			dests[i] = f.dest(&s)
		}
		if err := rows.Scan(dests...); err != nil {
			return nil, fmt.Errorf("%w: scan %s order: %w", domain.ErrQueryFailure, backend, err)
		}
		if s.created != nil {
			s.rec.CreatedAt = s.created.UTC()
		}
		if s.rec.ModifiedAt != nil {
			m := s.rec.ModifiedAt.UTC()
			s.rec.ModifiedAt = &m
		}
		records = append(records, s.rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s orders rows: %w", domain.ErrQueryFailure, backend, err)
	}
	return records, nil
}

// queryItems — позиции для набора заказов, сгруппированные по order_id.
func queryItems(ctx context.Context, pool *pgxpool.Pool, backend, sql string, a args) (map[int64][]domain.LineItem, error) {
	defer observe(backend, "items", time.Now())

	rows, err := pool.Query(ctx, sql, a...)
	if err != nil {
		return nil, fmt.Errorf("%w: select %s items: %w", domain.ErrQueryFailure, backend, err)
	}
	defer rows.Close()

	byOrder := make(map[int64][]domain.LineItem)
	for rows.Next() {
		var (
			orderID int64
			it      domain.LineItem
		)
		if err := rows.Scan(
			&orderID, &it.ID, &it.ProductID, &it.VariationID, &it.ProductName, &it.VariationName, &it.SKU,
			&it.Quantity, &it.GrossRevenue, &it.NetRevenue, &it.CouponAmount, &it.TaxAmount,
			&it.Shipping, &it.ShippingTax,
		); err != nil {
			return nil, fmt.Errorf("%w: scan %s item: %w", domain.ErrQueryFailure, backend, err)
		}
		byOrder[orderID] = append(byOrder[orderID], it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s items rows: %w", domain.ErrQueryFailure, backend, err)
	}
	return byOrder, nil
}

// queryCount — COUNT(*) подходящих заказов.
func queryCount(ctx context.Context, pool *pgxpool.Pool, backend, sql string, a args) (int, error) {
	defer observe(backend, "count", time.Now())

	var n int64
	if err := pool.QueryRow(ctx, sql, a...).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count %s orders: %w", domain.ErrQueryFailure, backend, err)
	}
	return int(n), nil
}

// orderIDs — идентификаторы заказов страницы (для второго запроса).
func orderIDs(records []domain.OrderRecord) []int64 {
	ids := make([]int64, len(records))
	for i := range records {
		ids[i] = records[i].ID
	}
	return ids
}

// attachItems — склейка позиций с заказами; порядок заказов не меняется.
func attachItems(records []domain.OrderRecord, byOrder map[int64][]domain.LineItem) {
	for i := range records {
		if items := byOrder[records[i].ID]; len(items) > 0 {
			records[i].Items = items
		}
	}
}

func observe(backend, query string, start time.Time) {
	metrics.QueryDuration.WithLabelValues(backend, query).Observe(time.Since(start).Seconds())
}
