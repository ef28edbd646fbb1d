package postgres

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultApplicationName = "wc-order-export"

// PoolConfig — параметры пула соединений к базе магазина.
type PoolConfig struct {
	DSN              string
	MaxConns         int32
	StatementTimeout time.Duration // 0 — без ограничения на сервере
	ApplicationName  string
}

// NewPool — пул соединений к Postgres.
// Выгрузка читает большие выборки, поэтому таймаут запроса задаётся на стороне сервера,
// а контекст запроса ограничивает ожидание клиента.
func NewPool(ctx context.Context, pc PoolConfig) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(pc.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if pc.MaxConns > 0 {
		cfg.MaxConns = pc.MaxConns
	}
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute

	name := pc.ApplicationName
	if name == "" {
		name = defaultApplicationName
	}
	cfg.ConnConfig.RuntimeParams["application_name"] = name
	if pc.StatementTimeout > 0 {
		cfg.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(pc.StatementTimeout.Milliseconds(), 10)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}

	// fail-fast: недоступная база обнаруживается при старте, а не на первой выгрузке
	if pingErr := pool.Ping(ctx); pingErr != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", pingErr)
	}
	return pool, nil
}
