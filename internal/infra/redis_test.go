package infra

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStockCache_NilIsAlwaysMiss(t *testing.T) {
	c := NewStockCache(nil, time.Minute)
	assert.Nil(t, c)

	ctx := context.Background()
	c.Set(ctx, 1, 10)
	_, hit := c.Get(ctx, 1)
	assert.False(t, hit)
	c.Invalidate(ctx, 1)
}

func TestStockKey(t *testing.T) {
	assert.Equal(t, "stock:total:7", stockKey(7))
}
