package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// This test requires a running memcached instance
// If memcached is not available, the test will be skipped
func TestMemcacheService(t *testing.T) {
	mc := NewMemcacheService("localhost:11211")

	if err := mc.Ping(); err != nil {
		t.Skip("Memcached is not available, skipping test")
	}

	err := mc.Set("boombox_rate_limited", []byte("500"), 2*time.Second)
	assert.NoError(t, err)

	value, err := mc.Get("boombox_rate_limited")
	assert.NoError(t, err)
	assert.Equal(t, "500", string(value))

	// Stored under the namespaced key
	item, err := mc.client.Get(keyPrefix + "boombox_rate_limited")
	assert.NoError(t, err)
	assert.Equal(t, "500", string(item.Value))

	// The block key expires on its own
	time.Sleep(3 * time.Second)
	_, err = mc.Get("boombox_rate_limited")
	assert.Error(t, err)
}
