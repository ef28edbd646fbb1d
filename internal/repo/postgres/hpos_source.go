package postgres

import (
	"context"
	"fmt"

	"github.com/Gunvolt24/wc_order_export/internal/domain"
	"github.com/Gunvolt24/wc_order_export/internal/ports"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BackendHPOS — заказы в выделенных таблицах (wc_orders, wc_order_addresses, wc_order_product_lookup).
const BackendHPOS = "hpos"

// Проверка, что HPOSSource удовлетворяет интерфейсу OrderSource.
var _ ports.OrderSource = (*HPOSSource)(nil)

// HPOSSource — стратегия выборки для схемы с выделенными таблицами заказов.
type HPOSSource struct {
	pool   *pgxpool.Pool
	tables Tables
}

// NewHPOSSource — конструктор HPOSSource.
func NewHPOSSource(pool *pgxpool.Pool, tables Tables) *HPOSSource {
	return &HPOSSource{pool: pool, tables: tables}
}

func (s *HPOSSource) Backend() string { return BackendHPOS }

// FetchOrders — два запроса: заказы страницы (с адресами и заметками) и их позиции,
// затем склейка в памяти с сохранением порядка первого запроса.
func (s *HPOSSource) FetchOrders(ctx context.Context, spec domain.FilterSpec) ([]domain.OrderRecord, error) {
	sql, a, fields := s.ordersQuery(spec)
	records, err := queryOrders(ctx, s.pool, BackendHPOS, sql, a, fields)
	if err != nil || len(records) == 0 || !spec.ItemsIncluded() {
		return records, err
	}

	itemsSQL, itemArgs := s.itemsQuery(spec, orderIDs(records))
	byOrder, err := queryItems(ctx, s.pool, BackendHPOS, itemsSQL, itemArgs)
	if err != nil {
		return nil, err
	}
	attachItems(records, byOrder)
	return records, nil
}

// CountOrders — число подходящих заказов без JOIN'ов и без лимита.
func (s *HPOSSource) CountOrders(ctx context.Context, spec domain.FilterSpec) (int, error) {
	var a args
	w := s.conditions(spec, &a)
	sql := fmt.Sprintf(`SELECT COUNT(*) FROM %s o %s`, s.tables.Name("wc_orders"), w)
	return queryCount(ctx, s.pool, BackendHPOS, sql, a)
}

func (s *HPOSSource) conditions(spec domain.FilterSpec, a *args) where {
	w := where{"o.type = 'shop_order'"}
	filterConditions(spec, columnRefs{
		created: "o.date_created_gmt",
		status:  "o.status",
		customer: func(a *args, id int64) string {
			return "o.customer_id = " + a.add(id)
		},
		product: func(a *args, id int64) string {
			return fmt.Sprintf("EXISTS (SELECT 1 FROM %s l WHERE l.order_id = o.id AND l.product_id = %s)",
				s.tables.Name("wc_order_product_lookup"), a.add(id))
		},
	}, a, &w)
	return w
}

func (s *HPOSSource) ordersQuery(spec domain.FilterSpec) (string, args, []orderField) {
	t := s.tables
	fields := projection(spec, orderExprs{
		id:            "o.id",
		status:        "COALESCE(o.status, '')",
		created:       "o.date_created_gmt",
		modified:      "o.date_updated_gmt",
		total:         money("COALESCE(o.total_amount, 0)"),
		tax:           money("COALESCE(o.tax_amount, 0)"),
		currency:      "COALESCE(o.currency, '')",
		paymentMethod: "COALESCE(o.payment_method, '')",
		paymentTitle:  "COALESCE(o.payment_method_title, '')",
		customerID:    "COALESCE(o.customer_id, 0)",
		billing:       hposAddress("ba", "COALESCE(NULLIF(ba.email, ''), o.billing_email, '')"),
		shipping:      hposAddress("sa", "''"),
		notes:         notesArray(t, "o.id"),
	})

	joins := ""
	if spec.BillingIncluded() {
		joins += fmt.Sprintf("\n\tLEFT JOIN %s ba ON ba.order_id = o.id AND ba.address_type = 'billing'", t.Name("wc_order_addresses"))
	}
	if spec.ShippingIncluded() {
		joins += fmt.Sprintf("\n\tLEFT JOIN %s sa ON sa.order_id = o.id AND sa.address_type = 'shipping'", t.Name("wc_order_addresses"))
	}

	var a args
	w := s.conditions(spec, &a)
	sql := fmt.Sprintf(`
	SELECT
		%s
	FROM %s o%s
	%s
	ORDER BY o.date_created_gmt DESC, o.id DESC
	LIMIT %s`,
		selectList(fields), t.Name("wc_orders"), joins, w, a.add(spec.EffectiveLimit()))
	return sql, a, fields
}

func (s *HPOSSource) itemsQuery(spec domain.FilterSpec, ids []int64) (string, args) {
	t := s.tables
	var a args
	w := where{"l.order_id = ANY(" + a.add(ids) + "::bigint[])"}
	if spec.ProductFilterActive() {
		w.and("l.product_id = " + a.add(spec.ProductID))
	}

	sql := fmt.Sprintf(`
	SELECT %s FROM (
		SELECT
			l.order_id,
			l.order_item_id,
			l.product_id,
			COALESCE(l.variation_id, 0) AS variation_id,
			COALESCE(NULLIF(p.post_title, ''), oi.order_item_name, '') AS product_name,
			COALESCE(pv.post_title, '') AS variation_name,
			%s AS sku,
			COALESCE(l.product_qty, 0)::bigint AS qty,
			%s AS gross,
			%s AS net,
			%s AS coupon,
			%s AS tax,
			%s AS shipping,
			%s AS shipping_tax
		FROM %s l
		LEFT JOIN %s oi ON oi.order_item_id = l.order_item_id
		LEFT JOIN %s p ON p.id = l.product_id
		LEFT JOIN %s pv ON l.variation_id > 0 AND pv.id = l.variation_id
		%s
	) i
	ORDER BY order_id, order_item_id`,
		itemColumns,
		skuLookup(t, "l.product_id", "COALESCE(l.variation_id, 0)"),
		money("COALESCE(l.product_net_revenue, 0) + COALESCE(l.tax_amount, 0)"),
		money("COALESCE(l.product_net_revenue, 0)"),
		money("COALESCE(l.coupon_amount, 0)"),
		money("COALESCE(l.tax_amount, 0)"),
		money("COALESCE(l.shipping_amount, 0)"),
		money("COALESCE(l.shipping_tax_amount, 0)"),
		t.Name("wc_order_product_lookup"), t.Name("woocommerce_order_items"),
		t.Name("posts"), t.Name("posts"),
		w,
	)
	return sql, a
}

func hposAddress(alias, email string) addressExprs {
	col := func(name string) string { return "COALESCE(" + alias + "." + name + ", '')" }
	return addressExprs{
		firstName: col("first_name"),
		lastName:  col("last_name"),
		email:     email,
		phone:     col("phone"),
		company:   col("company"),
		address1:  col("address_1"),
		address2:  col("address_2"),
		city:      col("city"),
		state:     col("state"),
		postcode:  col("postcode"),
		country:   col("country"),
	}
}
