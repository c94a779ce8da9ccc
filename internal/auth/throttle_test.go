package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestThrottle(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	th := NewThrottle(1, 2)
	th.now = func() time.Time { return now }

	assert.True(t, th.Allow("10.0.0.1"))
	assert.True(t, th.Allow("10.0.0.1"))
	assert.False(t, th.Allow("10.0.0.1"), "burst exhausted")
	assert.True(t, th.Allow("10.0.0.2"), "keys are limited independently")

	now = now.Add(time.Second)
	assert.True(t, th.Allow("10.0.0.1"), "one token refilled")
	assert.False(t, th.Allow("10.0.0.1"))
}

func TestThrottlePrunesIdleClients(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	th := NewThrottle(1, 1)
	th.now = func() time.Time { return now }

	th.Allow("idle")
	now = now.Add(throttleIdle + 2*time.Minute)
	th.Allow("active")

	assert.NotContains(t, th.clients, "idle")
	assert.Contains(t, th.clients, "active")
}
