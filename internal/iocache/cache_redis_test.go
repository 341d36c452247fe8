package iocache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedisKey(t *testing.T) {
	assert.Equal(t, "benchgrid:snapshot:abc", redisKey("abc"))
}

func TestNewRedisCacheStoreErrors(t *testing.T) {
	_, err := NewRedisCacheStore("memcached://localhost:11211")
	assert.ErrorContains(t, err, "failed to parse Redis URL")

	// Nothing listens on port 1
	_, err = NewRedisCacheStore("redis://127.0.0.1:1/0")
	assert.ErrorContains(t, err, "failed to connect to redis")
}
