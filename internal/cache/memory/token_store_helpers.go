package memory

import (
	"container/list"
	"time"

	"github.com/Gunvolt24/wc_order_export/pkg/metrics"
)

// evictOldest — удаляет самый старый токен.
func (s *TokenStore) evictOldest() {
	if back := s.ll.Back(); back != nil {
		s.removeElement(back)
		metrics.TokenStoreOps.WithLabelValues("evicted").Inc()
	}
}

// removeElement — удаляет элемент из списка и индекса.
func (s *TokenStore) removeElement(elem *list.Element) {
	if elem == nil {
		return
	}
	if ent, ok := elem.Value.(*entry); ok {
		delete(s.index, ent.token)
	}
	s.ll.Remove(elem)
}

// isExpired — проверяет истечение TTL.
func (s *TokenStore) isExpired(ent *entry, now time.Time) bool {
	if s.ttl <= 0 {
		return false
	}
	return now.After(ent.expiresAt)
}

// expiryFrom — вычисляет момент истечения для текущего времени.
func (s *TokenStore) expiryFrom(now time.Time) time.Time {
	if s.ttl <= 0 {
		return time.Time{}
	}
	return now.Add(s.ttl)
}

// pruneExpiredFromBack — удаляет истёкшие токены из хвоста до первого актуального.
func (s *TokenStore) pruneExpiredFromBack(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for {
		back := s.ll.Back()
		if back == nil {
			return
		}
		ent, ok := back.Value.(*entry)
		if !ok {
			s.removeElement(back)
			continue
		}
		if now.After(ent.expiresAt) {
			s.removeElement(back)
			metrics.TokenStoreOps.WithLabelValues("expired").Inc()
			continue
		}
		return
	}
}
