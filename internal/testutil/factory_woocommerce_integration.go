//go:build integration

package testutil

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Gunvolt24/wc_order_export/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WooOrder — заказ для заполнения обеих схем хранения одинаковыми данными.
type WooOrder struct {
	ID           int64 // заполняется при SeedOrder
	Status       string
	Created      time.Time
	Modified     time.Time
	Total        string
	Tax          string
	Currency     string
	Payment      string
	PaymentTitle string
	CustomerID   int64
	Billing      domain.Address
	Shipping     domain.Address
	Notes        []string
	Items        []WooItem
}

// WooItem — позиция заказа.
type WooItem struct {
	ProductID   int64
	VariationID int64
	Name        string
	Qty         int64
	Net         string
	Tax         string
}

// MakeOrder — заказ с разумными значениями по умолчанию.
func MakeOrder(opts ...func(*WooOrder)) WooOrder {
	created := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	o := WooOrder{
		Status:       "wc-completed",
		Created:      created,
		Modified:     created.Add(time.Hour),
		Total:        "110.00",
		Tax:          "10.00",
		Currency:     "USD",
		Payment:      "bacs",
		PaymentTitle: "Direct bank transfer",
		CustomerID:   1,
		Billing: domain.Address{
			FirstName: "John", LastName: "Smith", Email: "john@example.com", Phone: "+1-202-555-01",
			Company: "ACME", Address1: "Main st 1", Address2: "apt 2", City: "Metropolis",
			State: "NY", Postcode: "10001", Country: "US",
		},
		Shipping: domain.Address{
			FirstName: "Jane", LastName: "Smith", Address1: "Side st 3", City: "Gotham",
			State: "NJ", Postcode: "07001", Country: "US",
		},
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

func WithStatus(status string) func(*WooOrder) {
	return func(o *WooOrder) { o.Status = status }
}

func WithCreated(t time.Time) func(*WooOrder) {
	return func(o *WooOrder) {
		o.Created = t
		o.Modified = t.Add(time.Hour)
	}
}

func WithCustomer(id int64) func(*WooOrder) {
	return func(o *WooOrder) { o.CustomerID = id }
}

func WithNotes(notes ...string) func(*WooOrder) {
	return func(o *WooOrder) { o.Notes = notes }
}

// WithItems — n позиций указанного товара.
func WithItems(productID int64, n int) func(*WooOrder) {
	return func(o *WooOrder) {
		for i := 0; i < n; i++ {
			o.Items = append(o.Items, WooItem{
				ProductID: productID,
				Name:      "Item " + strconv.Itoa(i+1),
				Qty:       int64(i + 1),
				Net:       "20.00",
				Tax:       "2.00",
			})
		}
	}
}

// SeedProduct — товар (или вариация при parentID > 0) с SKU.
func SeedProduct(ctx context.Context, pool *pgxpool.Pool, title, sku string, parentID int64) (int64, error) {
	postType := "product"
	if parentID > 0 {
		postType = "product_variation"
	}

	var id int64
	if err := pool.QueryRow(ctx, `
		INSERT INTO wp_posts (post_title, post_status, post_type, post_parent)
		VALUES ($1, 'publish', $2, $3)
		RETURNING id
	`, title, postType, parentID).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}
	if sku != "" {
		if _, err := pool.Exec(ctx, `INSERT INTO wp_postmeta (post_id, meta_key, meta_value) VALUES ($1, '_sku', $2)`, id, sku); err != nil {
			return 0, fmt.Errorf("insert sku: %w", err)
		}
	}
	return id, nil
}

// SetHPOS — включает/выключает опцию выделенных таблиц заказов.
func SetHPOS(ctx context.Context, pool *pgxpool.Pool, enabled bool) error {
	value := "no"
	if enabled {
		value = "yes"
	}
	_, err := pool.Exec(ctx, `
		INSERT INTO wp_options (option_name, option_value) VALUES ('woocommerce_custom_orders_table_enabled', $1)
		ON CONFLICT (option_name) DO UPDATE SET option_value = EXCLUDED.option_value
	`, value)
	return err
}

// SeedOrder — транзакционно пишет заказ в обе схемы (posts/postmeta и wc_orders/lookup)
// с одним и тем же ID, как делает WooCommerce в режиме синхронизации.
func SeedOrder(ctx context.Context, pool *pgxpool.Pool, o *WooOrder) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		// При уже завершённой транзакции Rollback вернёт ErrTxClosed — игнорируем.
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			_ = rbErr
		}
	}()

	// 1) posts — запись заказа
	if err = tx.QueryRow(ctx, `
		INSERT INTO wp_posts (post_date_gmt, post_modified_gmt, post_title, post_status, post_type)
		VALUES ($1, $2, 'Order', $3, 'shop_order')
		RETURNING id
	`, o.Created, o.Modified, o.Status).Scan(&o.ID); err != nil {
		return fmt.Errorf("insert order post: %w", err)
	}

	// 2) postmeta — через COPY
	meta := map[string]string{
		"_order_total":          o.Total,
		"_order_tax":            o.Tax,
		"_order_shipping_tax":   "0",
		"_order_currency":       o.Currency,
		"_payment_method":       o.Payment,
		"_payment_method_title": o.PaymentTitle,
		"_customer_user":        strconv.FormatInt(o.CustomerID, 10),
	}
	addAddressMeta(meta, "_billing_", o.Billing, true)
	addAddressMeta(meta, "_shipping_", o.Shipping, false)
	if err = copyMeta(ctx, tx, "wp_postmeta", "post_id", o.ID, meta); err != nil {
		return err
	}

	// 3) wc_orders + адреса
	if _, err = tx.Exec(ctx, `
		INSERT INTO wp_wc_orders (
			id, status, currency, type, tax_amount, total_amount, customer_id, billing_email,
			date_created_gmt, date_updated_gmt, parent_order_id, payment_method, payment_method_title
		) VALUES ($1, $2, $3, 'shop_order', $4::text::numeric, $5::text::numeric, $6, $7, $8, $9, 0, $10, $11)
	`, o.ID, o.Status, o.Currency, o.Tax, o.Total, o.CustomerID, o.Billing.Email,
		o.Created, o.Modified, o.Payment, o.PaymentTitle,
	); err != nil {
		return fmt.Errorf("insert wc_order: %w", err)
	}
	for kind, a := range map[string]domain.Address{"billing": o.Billing, "shipping": o.Shipping} {
		if _, err = tx.Exec(ctx, `
			INSERT INTO wp_wc_order_addresses (
				order_id, address_type, first_name, last_name, company, address_1, address_2,
				city, state, postcode, country, email, phone
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		`, o.ID, kind, a.FirstName, a.LastName, a.Company, a.Address1, a.Address2,
			a.City, a.State, a.Postcode, a.Country, a.Email, a.Phone,
		); err != nil {
			return fmt.Errorf("insert %s address: %w", kind, err)
		}
	}

	// 4) заметки
	for _, note := range o.Notes {
		if _, err = tx.Exec(ctx, `
			INSERT INTO wp_comments (comment_post_id, comment_content, comment_type) VALUES ($1, $2, 'order_note')
		`, o.ID, note); err != nil {
			return fmt.Errorf("insert note: %w", err)
		}
	}

	// 5) позиции: order_items + itemmeta (legacy) и product_lookup (HPOS)
	for _, it := range o.Items {
		var itemID int64
		if err = tx.QueryRow(ctx, `
			INSERT INTO wp_woocommerce_order_items (order_item_name, order_item_type, order_id)
			VALUES ($1, 'line_item', $2) RETURNING order_item_id
		`, it.Name, o.ID).Scan(&itemID); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
		if err = copyMeta(ctx, tx, "wp_woocommerce_order_itemmeta", "order_item_id", itemID, map[string]string{
			"_product_id":   strconv.FormatInt(it.ProductID, 10),
			"_variation_id": strconv.FormatInt(it.VariationID, 10),
			"_qty":          strconv.FormatInt(it.Qty, 10),
			"_line_total":   it.Net,
			"_line_tax":     it.Tax,
		}); err != nil {
			return err
		}
		if _, err = tx.Exec(ctx, `
			INSERT INTO wp_wc_order_product_lookup (
				order_item_id, order_id, product_id, variation_id, customer_id, date_created,
				product_qty, product_net_revenue, product_gross_revenue, tax_amount
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::text::float8, $8::text::float8 + $9::text::float8, $9::text::float8)
		`, itemID, o.ID, it.ProductID, it.VariationID, o.CustomerID, o.Created, it.Qty, it.Net, it.Tax,
		); err != nil {
			return fmt.Errorf("insert product lookup: %w", err)
		}
	}

	// Завершаем транзакцию
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func addAddressMeta(meta map[string]string, prefix string, a domain.Address, contact bool) {
	meta[prefix+"first_name"] = a.FirstName
	meta[prefix+"last_name"] = a.LastName
	meta[prefix+"company"] = a.Company
	meta[prefix+"address_1"] = a.Address1
	meta[prefix+"address_2"] = a.Address2
	meta[prefix+"city"] = a.City
	meta[prefix+"state"] = a.State
	meta[prefix+"postcode"] = a.Postcode
	meta[prefix+"country"] = a.Country
	if contact {
		meta[prefix+"email"] = a.Email
		meta[prefix+"phone"] = a.Phone
	}
}

// copyMeta — вставка meta через COPY (CopyFromRows); быстрее, чем INSERT в цикле.
func copyMeta(ctx context.Context, tx pgx.Tx, table, ownerColumn string, ownerID int64, meta map[string]string) error {
	rows := make([][]any, 0, len(meta))
	for k, v := range meta {
		rows = append(rows, []any{ownerID, k, v})
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{table},
		[]string{ownerColumn, "meta_key", "meta_value"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return fmt.Errorf("copy %s: %w", table, err)
	}
	return nil
}
