package ratelimit

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_AllowsUpToLimit(t *testing.T) {
	rl := New(Config{MaxRequestsPerMinute: 3, WindowDuration: time.Minute})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.allow("client-a"), "request %d within limit", i+1)
	}
	assert.False(t, rl.allow("client-a"), "limit exhausted")
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	rl := New(Config{MaxRequestsPerMinute: 1, WindowDuration: time.Minute})
	defer rl.Stop()

	assert.True(t, rl.allow("client-a"))
	assert.True(t, rl.allow("client-b"))
	assert.False(t, rl.allow("client-a"))
}

func TestRateLimiter_Refills(t *testing.T) {
	rl := New(Config{MaxRequestsPerMinute: 600, WindowDuration: time.Minute})
	defer rl.Stop()

	key := "client-c"
	for i := 0; i < 600; i++ {
		if !rl.allow(key) {
			t.Fatalf("request %d unexpectedly limited", i)
		}
	}
	assert.False(t, rl.allow(key))

	// 600/min refills one token every 100ms.
	time.Sleep(250 * time.Millisecond)
	assert.True(t, rl.allow(key))
}

func TestRateLimiter_ManyClients(t *testing.T) {
	rl := New(Config{MaxRequestsPerMinute: 2, WindowDuration: time.Minute})
	defer rl.Stop()

	for i := 0; i < 20; i++ {
		assert.True(t, rl.allow(fmt.Sprintf("client-%d", i)))
	}
}
