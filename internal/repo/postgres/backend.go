package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Gunvolt24/wc_order_export/internal/domain"
	"github.com/Gunvolt24/wc_order_export/internal/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Режимы выбора схемы хранения.
const (
	BackendAuto = "auto"

	// hposOption — опция WooCommerce, включающая выделенные таблицы заказов.
	hposOption = "woocommerce_custom_orders_table_enabled"
)

// ErrUnknownBackend — неизвестный режим выбора схемы.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Проверка, что BackendProbe удовлетворяет интерфейсу BackendProbe.
var _ ports.BackendProbe = (*BackendProbe)(nil)

// BackendProbe — проверка возможностей хранилища: есть ли выделенная таблица заказов
// и включена ли она в настройках магазина. Режим hpos/legacy отключает проверку.
type BackendProbe struct {
	pool   *pgxpool.Pool
	tables Tables
	mode   string
}

// NewBackendProbe — конструктор BackendProbe; mode: auto|hpos|legacy.
func NewBackendProbe(pool *pgxpool.Pool, tables Tables, mode string) (*BackendProbe, error) {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" {
		mode = BackendAuto
	}
	switch mode {
	case BackendAuto, BackendHPOS, BackendLegacy:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, mode)
	}
	return &BackendProbe{pool: pool, tables: tables, mode: mode}, nil
}

// DedicatedOrdersTable — true, если таблица wc_orders существует и HPOS включён опцией.
func (p *BackendProbe) DedicatedOrdersTable(ctx context.Context) (bool, error) {
	switch p.mode {
	case BackendHPOS:
		return true, nil
	case BackendLegacy:
		return false, nil
	}
	defer observe(BackendAuto, "probe", time.Now())

	var exists bool
	if err := p.pool.QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL`, p.tables.Name("wc_orders")).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: probe orders table: %w", domain.ErrQueryFailure, err)
	}
	if !exists {
		return false, nil
	}

	var value string
	err := p.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT option_value FROM %s WHERE option_name = $1`, p.tables.Name("options")),
		hposOption,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: probe hpos option: %w", domain.ErrQueryFailure, err)
	}
	return strings.EqualFold(strings.TrimSpace(value), "yes"), nil
}
