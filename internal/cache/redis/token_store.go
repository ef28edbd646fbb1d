package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Gunvolt24/wc_order_export/internal/domain"
	"github.com/Gunvolt24/wc_order_export/internal/ports"
	"github.com/Gunvolt24/wc_order_export/pkg/metrics"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// KeyPrefix — префикс ключей токенов скачивания.
const KeyPrefix = "orders-export:token:"

// Проверка, что TokenStore удовлетворяет интерфейсу ArtifactStore.
var _ ports.ArtifactStore = (*TokenStore)(nil)

// redeemScript — атомарно удаляет ключ, только если он привязан к ожидаемому файлу.
var redeemScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// TokenStore — одноразовые токены скачивания в Redis (общие для нескольких инстансов).
type TokenStore struct {
	client goredis.UniversalClient
	ttl    time.Duration
}

// Connect — клиент Redis по URL (redis://...) или адресу host:port.
func Connect(ctx context.Context, redisURL string) (*goredis.Client, error) {
	var client *goredis.Client
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := goredis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client = goredis.NewClient(opt)
	} else {
		client = goredis.NewClient(&goredis.Options{Addr: redisURL})
	}
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// NewTokenStore — конструктор TokenStore. ttl 0 — токены без срока действия.
func NewTokenStore(client goredis.UniversalClient, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, ttl: ttl}
}

// Issue — выпускает токен и сохраняет привязку токен → файл.
func (s *TokenStore) Issue(ctx context.Context, filename string) (string, error) {
	token := uuid.NewString()
	ok, err := s.client.SetNX(ctx, KeyPrefix+token, filename, s.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("issue download token: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("issue download token: key collision")
	}
	metrics.TokenStoreOps.WithLabelValues("issued").Inc()
	return token, nil
}

// Redeem — гасит токен; повторное погашение, чужой файл или неизвестный токен — ErrUnauthorized.
func (s *TokenStore) Redeem(ctx context.Context, filename, token string) error {
	if token == "" {
		metrics.TokenStoreOps.WithLabelValues("rejected").Inc()
		return domain.ErrUnauthorized
	}
	n, err := redeemScript.Run(ctx, s.client, []string{KeyPrefix + token}, filename).Int()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return fmt.Errorf("redeem download token: %w", err)
	}
	if n == 0 {
		metrics.TokenStoreOps.WithLabelValues("rejected").Inc()
		return domain.ErrUnauthorized
	}
	metrics.TokenStoreOps.WithLabelValues("redeemed").Inc()
	return nil
}
