package redis

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/chainscope/SupplyRisk-Intelligence/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/chainscope/SupplyRisk-Intelligence/pkg/errors"
)

type CacheTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *Client
	cache  Cache
}

func (s *CacheTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	require.NoError(s.T(), err)
	s.mr = mr

	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	s.client = NewClientFromRedis(rdb, logging.NewNopLogger())
	s.cache = NewCache(s.client, logging.NewNopLogger(), WithPrefix("test:"))
}

func (s *CacheTestSuite) TearDownTest() {
	_ = s.client.Close()
	s.mr.Close()
}

type cachedValue struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

func (s *CacheTestSuite) TestSetGetRoundTrip() {
	ctx := context.Background()
	want := cachedValue{Name: "acme", Score: 42}

	require.NoError(s.T(), s.cache.Set(ctx, "k1", want, time.Minute))

	var got cachedValue
	require.NoError(s.T(), s.cache.Get(ctx, "k1", &got))
	assert.Equal(s.T(), want, got)

	// Keys are namespaced under the prefix.
	assert.True(s.T(), s.mr.Exists("test:k1"))
}

func (s *CacheTestSuite) TestGet_Miss() {
	var got cachedValue
	err := s.cache.Get(context.Background(), "absent", &got)
	assert.ErrorIs(s.T(), err, ErrCacheMiss)
	assert.True(s.T(), pkgerrors.IsCode(err, pkgerrors.ErrCodeNotFound))
}

func (s *CacheTestSuite) TestGet_CorruptPayload() {
	s.mr.Set("test:bad", "{not json")

	var got cachedValue
	err := s.cache.Get(context.Background(), "bad", &got)
	assert.ErrorIs(s.T(), err, ErrSerializationFailed)
}

func (s *CacheTestSuite) TestDelete() {
	ctx := context.Background()
	require.NoError(s.T(), s.cache.Set(ctx, "k1", cachedValue{Name: "x"}, time.Minute))
	require.NoError(s.T(), s.cache.Delete(ctx, "k1"))

	ok, err := s.cache.Exists(ctx, "k1")
	require.NoError(s.T(), err)
	assert.False(s.T(), ok)
}

func (s *CacheTestSuite) TestSet_TTLWithinJitterBand() {
	ctx := context.Background()
	require.NoError(s.T(), s.cache.Set(ctx, "k1", cachedValue{}, time.Minute))

	ttl := s.mr.TTL("test:k1")
	assert.Greater(s.T(), ttl, 54*time.Second)
	assert.Less(s.T(), ttl, 66*time.Second)
}

func (s *CacheTestSuite) TestGetOrSet_LoadsOnceOnMiss() {
	ctx := context.Background()
	var calls int32

	loader := func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return cachedValue{Name: "loaded", Score: 7}, nil
	}

	var got cachedValue
	require.NoError(s.T(), s.cache.GetOrSet(ctx, "k1", &got, time.Minute, loader))
	assert.Equal(s.T(), "loaded", got.Name)

	// Second call is a hit; the loader must not run again.
	var again cachedValue
	require.NoError(s.T(), s.cache.GetOrSet(ctx, "k1", &again, time.Minute, loader))
	assert.Equal(s.T(), int32(1), atomic.LoadInt32(&calls))
}

func (s *CacheTestSuite) TestGetOrSet_LoaderError() {
	var got cachedValue
	err := s.cache.GetOrSet(context.Background(), "k1", &got, time.Minute,
		func(ctx context.Context) (interface{}, error) {
			return nil, fmt.Errorf("upstream down")
		})
	assert.EqualError(s.T(), err, "upstream down")
}

func (s *CacheTestSuite) TestGetOrSet_ConcurrentCallersCollapse() {
	ctx := context.Background()
	var calls int32
	loader := func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(20 * time.Millisecond)
		return cachedValue{Name: "once"}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var got cachedValue
			assert.NoError(s.T(), s.cache.GetOrSet(ctx, "hot", &got, time.Minute, loader))
		}()
	}
	wg.Wait()

	assert.Equal(s.T(), int32(1), atomic.LoadInt32(&calls))
}

func (s *CacheTestSuite) TestPing() {
	assert.NoError(s.T(), s.cache.Ping(context.Background()))
}

func TestCacheTestSuite(t *testing.T) {
	suite.Run(t, new(CacheTestSuite))
}

func TestClientClose_Idempotent(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewClientFromRedis(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}), nil)

	require.NoError(t, client.Close())
	require.NoError(t, client.Close())
	assert.ErrorIs(t, client.Ping(context.Background()), ErrClientClosed)
}
