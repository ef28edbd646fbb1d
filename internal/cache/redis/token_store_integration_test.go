//go:build integration

package redis_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	rediscache "github.com/Gunvolt24/wc_order_export/internal/cache/redis"
	"github.com/Gunvolt24/wc_order_export/internal/domain"
	"github.com/Gunvolt24/wc_order_export/internal/testutil"
)

// Настоящий Redis: из многих одновременных скачиваний по одному токену проходит ровно одно.
func TestTokenStore_ConcurrentRedeem_TC(t *testing.T) {
	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelStart()

	addr, stop, err := testutil.StartRedisTC(ctxStart)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stop(context.Background()) })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := rediscache.Connect(ctx, "redis://"+addr+"/0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	store := rediscache.NewTokenStore(client, time.Minute)
	token, err := store.Issue(ctx, "orders-export-2024-01-31-10-00-00.csv")
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		ok, deny atomic.Int32
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rerr := store.Redeem(ctx, "orders-export-2024-01-31-10-00-00.csv", token)
			switch {
			case rerr == nil:
				ok.Add(1)
			case errors.Is(rerr, domain.ErrUnauthorized):
				deny.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), ok.Load())
	require.Equal(t, int32(15), deny.Load())

	ttl, err := client.TTL(ctx, rediscache.KeyPrefix+token).Result()
	require.NoError(t, err)
	require.Less(t, ttl, time.Duration(0), "ключ удалён после погашения")
}
