package memory

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/Gunvolt24/wc_order_export/internal/domain"
	"github.com/Gunvolt24/wc_order_export/internal/ports"
	"github.com/Gunvolt24/wc_order_export/pkg/metrics"
	"github.com/google/uuid"
)

// Проверка, что TokenStore удовлетворяет интерфейсу ArtifactStore.
var _ ports.ArtifactStore = (*TokenStore)(nil)

type entry struct {
	token     string
	filename  string
	expiresAt time.Time
}

// TokenStore — одноразовые токены скачивания в памяти процесса.
// Ограничен по ёмкости (вытесняются самые старые токены), TTL опционален (0 — без истечения).
type TokenStore struct {
	capacity int
	ttl      time.Duration

	ll    *list.List
	index map[string]*list.Element

	mu sync.Mutex
}

// NewTokenStore — конструктор TokenStore.
func NewTokenStore(capacity int, ttl time.Duration) *TokenStore {
	if capacity <= 0 {
		capacity = 1
	}
	return &TokenStore{
		capacity: capacity,
		ttl:      ttl,
		ll:       list.New(),
		index:    make(map[string]*list.Element),
	}
}

// Issue — выпускает новый токен для файла.
func (s *TokenStore) Issue(_ context.Context, filename string) (string, error) {
	token := uuid.NewString()
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneExpiredFromBack(now)

	elem := s.ll.PushFront(&entry{
		token:     token,
		filename:  filename,
		expiresAt: s.expiryFrom(now),
	})
	s.index[token] = elem
	metrics.TokenStoreOps.WithLabelValues("issued").Inc()

	if s.ll.Len() > s.capacity {
		s.evictOldest()
	}
	metrics.TokenStoreSize.Set(float64(len(s.index)))
	return token, nil
}

// Redeem — гасит токен. Удачное погашение удаляет токен; при несовпадении имени файла
// токен остаётся действительным для своего файла.
func (s *TokenStore) Redeem(_ context.Context, filename, token string) error {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.index[token]
	if !ok {
		metrics.TokenStoreOps.WithLabelValues("rejected").Inc()
		return domain.ErrUnauthorized
	}
	ent := elem.Value.(*entry)
	if s.isExpired(ent, now) {
		s.removeElement(elem)
		metrics.TokenStoreOps.WithLabelValues("expired").Inc()
		metrics.TokenStoreSize.Set(float64(len(s.index)))
		return domain.ErrUnauthorized
	}
	if ent.filename != filename {
		metrics.TokenStoreOps.WithLabelValues("rejected").Inc()
		return domain.ErrUnauthorized
	}

	s.removeElement(elem)
	metrics.TokenStoreOps.WithLabelValues("redeemed").Inc()
	metrics.TokenStoreSize.Set(float64(len(s.index)))
	return nil
}

// Len — число действующих (не погашенных) токенов.
func (s *TokenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.index)
}
