package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Gunvolt24/wc_order_export/internal/domain"
	"github.com/Gunvolt24/wc_order_export/internal/ports"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BackendLegacy — заказы как записи posts (post_type = shop_order) + postmeta.
const BackendLegacy = "legacy"

// Проверка, что LegacySource удовлетворяет интерфейсу OrderSource.
var _ ports.OrderSource = (*LegacySource)(nil)

// LegacySource — стратегия выборки для схемы posts/postmeta.
// Колонки Item_Coupon_Amount, Item_Shipping_Amount, Item_Shipping_Tax_Amount
// в этой схеме на уровне позиций не хранятся и всегда равны 0.
type LegacySource struct {
	pool   *pgxpool.Pool
	tables Tables
}

// NewLegacySource — конструктор LegacySource.
func NewLegacySource(pool *pgxpool.Pool, tables Tables) *LegacySource {
	return &LegacySource{pool: pool, tables: tables}
}

func (s *LegacySource) Backend() string { return BackendLegacy }

// FetchOrders — заказы страницы (postmeta разворачивается в колонки) + позиции вторым запросом.
func (s *LegacySource) FetchOrders(ctx context.Context, spec domain.FilterSpec) ([]domain.OrderRecord, error) {
	sql, a, fields := s.ordersQuery(spec)
	records, err := queryOrders(ctx, s.pool, BackendLegacy, sql, a, fields)
	if err != nil || len(records) == 0 || !spec.ItemsIncluded() {
		return records, err
	}

	itemsSQL, itemArgs := s.itemsQuery(spec, orderIDs(records))
	byOrder, err := queryItems(ctx, s.pool, BackendLegacy, itemsSQL, itemArgs)
	if err != nil {
		return nil, err
	}
	attachItems(records, byOrder)
	return records, nil
}

// CountOrders — число подходящих заказов (фильтры через EXISTS, без разворота meta).
func (s *LegacySource) CountOrders(ctx context.Context, spec domain.FilterSpec) (int, error) {
	var a args
	w := s.conditions(spec, &a)
	sql := fmt.Sprintf(`SELECT COUNT(*) FROM %s p %s`, s.tables.Name("posts"), w)
	return queryCount(ctx, s.pool, BackendLegacy, sql, a)
}

func (s *LegacySource) conditions(spec domain.FilterSpec, a *args) where {
	t := s.tables
	w := where{"p.post_type = 'shop_order'"}
	filterConditions(spec, columnRefs{
		created: "p.post_date_gmt",
		status:  "p.post_status",
		customer: func(a *args, id int64) string {
			return fmt.Sprintf(
				"EXISTS (SELECT 1 FROM %s cm WHERE cm.post_id = p.id AND cm.meta_key = '_customer_user' AND cm.meta_value = %s)",
				t.Name("postmeta"), a.add(strconv.FormatInt(id, 10)))
		},
		product: func(a *args, id int64) string {
			return fmt.Sprintf(`EXISTS (SELECT 1 FROM %s oi JOIN %s im ON im.order_item_id = oi.order_item_id `+
				`WHERE oi.order_id = p.id AND oi.order_item_type = 'line_item' AND im.meta_key = '_product_id' AND im.meta_value = %s)`,
				t.Name("woocommerce_order_items"), t.Name("woocommerce_order_itemmeta"), a.add(strconv.FormatInt(id, 10)))
		},
	}, a, &w)
	return w
}

// orderMetaKeys — meta-ключи заказа, разворачиваемые в колонки латерального подзапроса m.
var orderMetaKeys = []string{
	"_order_currency", "_payment_method", "_payment_method_title",
	"_billing_first_name", "_billing_last_name", "_billing_email", "_billing_phone", "_billing_company",
	"_billing_address_1", "_billing_address_2", "_billing_city", "_billing_state", "_billing_postcode", "_billing_country",
	"_shipping_first_name", "_shipping_last_name", "_shipping_address_1", "_shipping_address_2",
	"_shipping_city", "_shipping_state", "_shipping_postcode", "_shipping_country",
}

func (s *LegacySource) ordersQuery(spec domain.FilterSpec) (string, args, []orderField) {
	t := s.tables
	meta := func(key string) string { return "COALESCE(m." + strings.TrimPrefix(key, "_") + ", '')" }
	address := func(kind string) addressExprs {
		return addressExprs{
			firstName: meta("_" + kind + "_first_name"),
			lastName:  meta("_" + kind + "_last_name"),
			email:     meta("_" + kind + "_email"),
			phone:     meta("_" + kind + "_phone"),
			company:   meta("_" + kind + "_company"),
			address1:  meta("_" + kind + "_address_1"),
			address2:  meta("_" + kind + "_address_2"),
			city:      meta("_" + kind + "_city"),
			state:     meta("_" + kind + "_state"),
			postcode:  meta("_" + kind + "_postcode"),
			country:   meta("_" + kind + "_country"),
		}
	}

	fields := projection(spec, orderExprs{
		id:            "p.id",
		status:        "p.post_status",
		created:       "p.post_date_gmt",
		modified:      "p.post_modified_gmt",
		total:         "m.total",
		tax:           "m.tax",
		currency:      meta("_order_currency"),
		paymentMethod: meta("_payment_method"),
		paymentTitle:  meta("_payment_method_title"),
		customerID:    "m.customer_id",
		billing:       address("billing"),
		shipping:      address("shipping"),
		notes:         notesArray(t, "p.id"),
	})

	pivots := make([]string, 0, len(orderMetaKeys)+3)
	pivots = append(pivots,
		money(metaNumber(pivot("pm", "_order_total")))+" AS total",
		// итоговый налог = налог позиций + налог доставки
		money(metaNumber(pivot("pm", "_order_tax"))+" + "+metaNumber(pivot("pm", "_order_shipping_tax")))+" AS tax",
		"COALESCE(NULLIF("+pivot("pm", "_customer_user")+", ''), '0')::bigint AS customer_id",
	)
	for _, key := range orderMetaKeys {
		pivots = append(pivots, pivot("pm", key)+" AS "+strings.TrimPrefix(key, "_"))
	}

	var a args
	w := s.conditions(spec, &a)
	sql := fmt.Sprintf(`
	SELECT
		%s
	FROM %s p
	CROSS JOIN LATERAL (
		SELECT
			%s
		FROM %s pm
		WHERE pm.post_id = p.id
	) m
	%s
	ORDER BY p.post_date_gmt DESC, p.id DESC
	LIMIT %s`,
		selectList(fields), t.Name("posts"),
		strings.Join(pivots, ",\n\t\t\t"), t.Name("postmeta"),
		w, a.add(spec.EffectiveLimit()))
	return sql, a, fields
}

func (s *LegacySource) itemsQuery(spec domain.FilterSpec, ids []int64) (string, args) {
	t := s.tables
	var a args
	w := where{"oi.order_item_type = 'line_item'", "oi.order_id = ANY(" + a.add(ids) + "::bigint[])"}
	if spec.ProductFilterActive() {
		w.and("im.product_id = " + a.add(spec.ProductID))
	}

	sql := fmt.Sprintf(`
	SELECT %s FROM (
		SELECT
			oi.order_id,
			oi.order_item_id,
			im.product_id,
			im.variation_id,
			COALESCE(NULLIF(p.post_title, ''), oi.order_item_name, '') AS product_name,
			COALESCE(pv.post_title, '') AS variation_name,
			%s AS sku,
			im.qty,
			%s AS gross,
			%s AS net,
			%s AS coupon,
			%s AS tax,
			%s AS shipping,
			%s AS shipping_tax
		FROM %s oi
		CROSS JOIN LATERAL (
			SELECT
				COALESCE(NULLIF(%s, ''), '0')::bigint AS product_id,
				COALESCE(NULLIF(%s, ''), '0')::bigint AS variation_id,
				COALESCE(NULLIF(%s, ''), '0')::numeric::bigint AS qty,
				%s AS line_total,
				%s AS line_tax
			FROM %s itm
			WHERE itm.order_item_id = oi.order_item_id
		) im
		LEFT JOIN %s p ON p.id = im.product_id
		LEFT JOIN %s pv ON im.variation_id > 0 AND pv.id = im.variation_id
		%s
	) i
	ORDER BY order_id, order_item_id`,
		itemColumns,
		skuLookup(t, "im.product_id", "im.variation_id"),
		money("im.line_total + im.line_tax"),
		money("im.line_total"),
		money("0"),
		money("im.line_tax"),
		money("0"),
		money("0"),
		t.Name("woocommerce_order_items"),
		pivot("itm", "_product_id"),
		pivot("itm", "_variation_id"),
		pivot("itm", "_qty"),
		metaNumber(pivot("itm", "_line_total")),
		metaNumber(pivot("itm", "_line_tax")),
		t.Name("woocommerce_order_itemmeta"),
		t.Name("posts"), t.Name("posts"),
		w,
	)
	return sql, a
}
