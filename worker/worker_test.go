package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWorkerRunsSubmittedTasks(t *testing.T) {
	w := New(zap.NewNop(), 8)
	w.Start(2)

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		ok := w.Submit(Task{Name: "count", Run: func(ctx context.Context) error {
			ran.Add(1)
			return nil
		}})
		assert.True(t, ok)
	}

	require.NoError(t, w.Stop(context.Background()))
	assert.Equal(t, int32(5), ran.Load())
}

func TestWorkerFailureDoesNotStopOthers(t *testing.T) {
	w := New(zap.NewNop(), 8)
	w.Start(1)

	var ran atomic.Int32
	w.Submit(Task{Name: "boom", Run: func(ctx context.Context) error {
		return errors.New("boom")
	}})
	w.Submit(Task{Name: "after", Run: func(ctx context.Context) error {
		ran.Add(1)
		return nil
	}})

	require.NoError(t, w.Stop(context.Background()))
	assert.Equal(t, int32(1), ran.Load())
}

func TestSubmitAfterStopIsDropped(t *testing.T) {
	w := New(zap.NewNop(), 2)
	w.Start(1)
	require.NoError(t, w.Stop(context.Background()))

	ok := w.Submit(Task{Name: "late", Run: func(ctx context.Context) error { return nil }})
	assert.False(t, ok)
}

func TestSubmitFullQueueDoesNotBlock(t *testing.T) {
	w := New(zap.NewNop(), 1)
	// Not started: the queue only holds one task, the second must be dropped.

	first := w.Submit(Task{Name: "a", Run: func(ctx context.Context) error { return nil }})
	second := w.Submit(Task{Name: "b", Run: func(ctx context.Context) error { return nil }})
	assert.True(t, first)
	assert.False(t, second)

	w.Start(1)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, w.Stop(ctx))
}
