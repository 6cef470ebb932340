package ratelimit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testConfig(endpoints ...EndpointConfig) *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    100,
		DefaultWindow:   time.Minute,
		EndpointConfigs: endpoints,
	}
}

func TestTokenBucket(t *testing.T) {
	start := time.Now()
	tb := newTokenBucket(2, 1, start)

	ok, remaining, _ := tb.take(start)
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)

	ok, _, _ = tb.take(start)
	assert.True(t, ok)

	ok, remaining, reset := tb.take(start)
	assert.False(t, ok)
	assert.Equal(t, 0, remaining)
	assert.Equal(t, start.Add(2*time.Second), reset)

	ok, _, _ = tb.take(start.Add(time.Second))
	assert.True(t, ok, "one token refills per second")

	ok, remaining, _ = tb.take(start.Add(time.Hour))
	assert.True(t, ok)
	assert.Equal(t, 1, remaining, "refill never exceeds capacity")
}

func TestLimiter_EndpointTier(t *testing.T) {
	clock := newFakeClock()
	l := newLimiter(testConfig(EndpointConfig{Path: "/meals/", Method: "DELETE", Limit: 2, Window: time.Minute}), clock.Now)
	defer l.Stop()

	ok, info := l.Allow("1.2.3.4", "/meals/a", "DELETE")
	assert.True(t, ok)
	assert.Equal(t, 2, info.Limit)

	ok, _ = l.Allow("1.2.3.4", "/meals/b", "DELETE")
	assert.True(t, ok)

	ok, info = l.Allow("1.2.3.4", "/meals/c", "DELETE")
	assert.False(t, ok, "all IDs share the tier bucket")
	assert.Equal(t, 30*time.Second, info.RetryAfter)

	ok, _ = l.Allow("5.6.7.8", "/meals/a", "DELETE")
	assert.True(t, ok, "clients are limited independently")

	clock.Advance(30 * time.Second)
	ok, _ = l.Allow("1.2.3.4", "/meals/a", "DELETE")
	assert.True(t, ok)
}

func TestLimiter_DefaultLimit(t *testing.T) {
	clock := newFakeClock()
	cfg := testConfig()
	cfg.DefaultLimit = 3
	l := newLimiter(cfg, clock.Now)

	for i := 0; i < 3; i++ {
		ok, _ := l.Allow("c", "/meals", "GET")
		require.True(t, ok)
	}
	ok, info := l.Allow("c", "/goals", "GET")
	assert.False(t, ok, "unmatched endpoints share the default bucket")
	assert.Equal(t, 3, info.Limit)
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultLimit = 1
	l := newLimiter(cfg, newFakeClock().Now)

	for i := 0; i < 10; i++ {
		ok, info := l.Allow("c", "/health", "GET")
		require.True(t, ok)
		assert.Zero(t, info.Limit)
	}
}

func TestLimiter_Lists(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultLimit = 1
	cfg.Whitelist = map[string]bool{"10.0.0.1": true}
	cfg.Blacklist = map[string]bool{"10.0.0.2": true}
	l := newLimiter(cfg, newFakeClock().Now)

	for i := 0; i < 5; i++ {
		ok, _ := l.Allow("10.0.0.1", "/meals", "GET")
		assert.True(t, ok)
	}
	ok, _ := l.Allow("10.0.0.2", "/meals", "GET")
	assert.False(t, ok)
}

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()
	for i := 0; i < 5; i++ {
		ok, _ := l.Allow("c", "/meals", "POST")
		assert.True(t, ok)
	}
}

func TestLimiter_Cleanup(t *testing.T) {
	clock := newFakeClock()
	cfg := testConfig()
	cfg.IdleTimeout = time.Hour
	l := newLimiter(cfg, clock.Now)

	l.Allow("a", "/meals", "GET")
	clock.Advance(50 * time.Minute)
	l.Allow("b", "/meals", "GET")
	require.Equal(t, 2, l.bucketCount())

	clock.Advance(20 * time.Minute)
	l.cleanupBuckets()
	assert.Equal(t, 1, l.bucketCount())
}

func TestLimiter_Concurrent(t *testing.T) {
	l := newLimiter(testConfig(EndpointConfig{Path: "/meals", Method: "POST", Limit: 50, Window: time.Hour}), newFakeClock().Now)

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("c", "/meals", "POST"); ok {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(50), allowed.Load())
}

func TestLimiter_StopTwice(t *testing.T) {
	l := NewLimiter(nil)
	l.Stop()
	assert.NotPanics(t, l.Stop)
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	got := MatchEndpoint("/meals/analyze-image", "POST", configs)
	require.NotNil(t, got)
	assert.Equal(t, 10, got.Limit)

	got = MatchEndpoint("/meals/123", "PUT", configs)
	require.NotNil(t, got)
	assert.Equal(t, "/meals/", got.Path)

	assert.Nil(t, MatchEndpoint("/meals/123", "GET", configs))
	assert.Nil(t, MatchEndpoint("/meals/123", "POST", configs))

	got = MatchEndpoint("/health", "GET", configs)
	require.NotNil(t, got)
	assert.Zero(t, got.Limit)
}

func TestMatchEndpoint_LongestPrefix(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/a/", Method: "GET", Limit: 1},
		{Path: "/a/b/", Method: "GET", Limit: 2},
	}
	got := MatchEndpoint("/a/b/c", "GET", configs)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.Limit)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "42")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_WHITELIST", "1.1.1.1, 2.2.2.2")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 42, cfg.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.DefaultWindow)
	assert.Equal(t, map[string]bool{"1.1.1.1": true, "2.2.2.2": true}, cfg.Whitelist)
	assert.NotEmpty(t, cfg.EndpointConfigs)

	t.Setenv("RATE_LIMIT_ENABLED", "false")
	assert.False(t, LoadConfig().Enabled)
}
