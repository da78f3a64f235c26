package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDBCounter(t *testing.T) {
	ctx := WithDBCounter(context.Background())

	IncrementDBCounter(ctx)
	IncrementDBCounter(ctx)
	AddDBElapsed(ctx, 150)
	AddDBElapsed(ctx, 50)

	assert.Equal(t, int64(2), GetDBCounter(ctx))
	assert.Equal(t, int64(200), GetDBElapsed(ctx))
}

func TestDBCounterWithoutTracker(t *testing.T) {
	ctx := context.Background()

	IncrementDBCounter(ctx)
	AddDBElapsed(ctx, 10)

	assert.Zero(t, GetDBCounter(ctx))
	assert.Zero(t, GetDBElapsed(ctx))
}
