package cache

import (
	"errors"
	"testing"

	"github.com/go-redis/redis/v8"
)

func TestIsMiss(t *testing.T) {
	if !IsMiss(redis.Nil) {
		t.Error("redis.Nil must be reported as a cache miss")
	}
	if IsMiss(nil) {
		t.Error("nil error is not a miss")
	}
	if IsMiss(errors.New("connection refused")) {
		t.Error("transport errors must not be reported as misses")
	}
}
