package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	mu       sync.Mutex
	products []Product
	err      error
	calls    atomic.Int32
	block    chan struct{}
}

func (s *stubSource) GetProducts(ctx context.Context) ([]Product, error) {
	s.calls.Add(1)
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

var testProducts = []Product{
	{ID: 1, Title: "Premium Winter Jacket", Price: 45000, Discount: 55000, Category: "CLOTHES", Likes: 1250},
	{ID: 2, Title: "Casual Sneakers", Price: 35000, Category: "SHOES", Likes: 890},
	{ID: 5, Title: "Denim Jeans", Price: 28000, Discount: 20000, Category: "CLOTHES", Likes: 670},
}

func newTestCatalog(src Source) *Catalog {
	logger, _ := test.NewNullLogger()
	return New(src, time.Minute, logger)
}

func TestCatalog_FirstReadFetches(t *testing.T) {
	src := &stubSource{products: testProducts}
	c := newTestCatalog(src)

	got := c.Products(context.Background())
	require.Len(t, got, 3)
	_ = c.Products(context.Background())

	assert.Equal(t, int32(1), src.calls.Load())
	assert.False(t, c.Loading())
	assert.NoError(t, c.Err())
}

func TestCatalog_NormalizesBadDiscount(t *testing.T) {
	logger, hook := test.NewNullLogger()
	c := New(&stubSource{products: testProducts}, time.Minute, logger)

	c.Products(context.Background())

	jeans, ok := c.Find(5)
	require.True(t, ok)
	assert.Zero(t, jeans.Discount)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, int64(5), hook.LastEntry().Data["product_id"])
}

func TestCatalog_DropsNonPositivePrices(t *testing.T) {
	logger, hook := test.NewNullLogger()
	products := append([]Product{
		{ID: 8, Title: "Free Sample", Price: 0, Category: "CLOTHES"},
		{ID: 9, Title: "Refund", Price: -100, Category: "SHOES"},
	}, testProducts...)
	c := New(&stubSource{products: products}, time.Minute, logger)

	got := c.Products(context.Background())

	assert.Len(t, got, 3)
	_, ok := c.Find(8)
	assert.False(t, ok)
	_, ok = c.Find(9)
	assert.False(t, ok)

	var dropped []any
	for _, e := range hook.AllEntries() {
		if e.Message == "dropping invalid product" {
			dropped = append(dropped, e.Data["product_id"])
			assert.ErrorIs(t, e.Data["error"].(error), ErrInvalidPrice)
		}
	}
	assert.Equal(t, []any{int64(8), int64(9)}, dropped)
}

func TestCatalog_FailureKeepsPreviousSnapshot(t *testing.T) {
	src := &stubSource{products: testProducts}
	c := newTestCatalog(src)
	ctx := context.Background()
	require.NoError(t, c.Refresh(ctx))

	boom := errors.New("503")
	src.mu.Lock()
	src.err = boom
	src.mu.Unlock()

	assert.ErrorIs(t, c.Refresh(ctx), boom)
	assert.ErrorIs(t, c.Err(), boom)
	assert.Len(t, c.Snapshot(), 3)

	src.mu.Lock()
	src.err = nil
	src.mu.Unlock()
	require.NoError(t, c.Refresh(ctx))
	assert.NoError(t, c.Err())
}

func TestCatalog_StaleReadRevalidatesInBackground(t *testing.T) {
	src := &stubSource{products: testProducts}
	c := newTestCatalog(src)
	now := time.Now()
	c.now = func() time.Time { return now }
	c.Products(context.Background())

	src.mu.Lock()
	src.products = testProducts[:1]
	src.mu.Unlock()
	c.now = func() time.Time { return now.Add(2 * time.Minute) }

	// served from the stale snapshot
	assert.Len(t, c.Products(context.Background()), 3)

	assert.Eventually(t, func() bool {
		return len(c.Snapshot()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestCatalog_ConcurrentRefreshSharesFetch(t *testing.T) {
	src := &stubSource{products: testProducts, block: make(chan struct{})}
	c := newTestCatalog(src)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Refresh(context.Background())
		}()
	}
	assert.Eventually(t, c.Loading, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(src.block)
	wg.Wait()

	assert.Equal(t, int32(1), src.calls.Load())
	assert.False(t, c.Loading())
}

func TestCatalog_CancelledCallerDoesNotAbortSharedFetch(t *testing.T) {
	src := &stubSource{products: testProducts, block: make(chan struct{})}
	c := newTestCatalog(src)

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() { firstErr <- c.Refresh(first) }()
	assert.Eventually(t, c.Loading, time.Second, time.Millisecond)

	secondErr := make(chan error, 1)
	go func() { secondErr <- c.Refresh(context.Background()) }()

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(src.block)
	require.NoError(t, <-secondErr)
	assert.NoError(t, c.Err())
	assert.Len(t, c.Snapshot(), 3)
}

func TestCatalog_LocalQueries(t *testing.T) {
	c := newTestCatalog(&stubSource{products: testProducts})
	c.Products(context.Background())

	assert.True(t, c.Like(2))
	p, _ := c.Find(2)
	assert.Equal(t, int64(891), p.Likes)
	assert.False(t, c.Like(99))

	assert.Len(t, c.ByCategory("CLOTHES"), 2)
	assert.Len(t, c.ByCategory(AllCategories), 3)
	assert.Len(t, c.ByCategory(""), 3)
	assert.Empty(t, c.ByCategory("TOYS"))
	assert.Equal(t, []string{"CLOTHES", "SHOES"}, c.Categories())
	assert.Len(t, c.Search("JEANS"), 1)
	assert.Len(t, c.Search(""), 3)

	_, ok := c.Find(404)
	assert.False(t, ok)
}
