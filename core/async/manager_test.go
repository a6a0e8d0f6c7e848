package async_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dispatch/core/async"
	"github.com/dmitrymomot/dispatch/core/handler"
)

func requestWithManager() (*http.Request, *async.Manager) {
	m := async.NewManager()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	return r.WithContext(async.WithManager(r.Context(), m)), m
}

func TestStart(t *testing.T) {
	t.Parallel()

	task := func(ctx context.Context) (*handler.Outcome, error) { return nil, nil }

	err := async.Start(httptest.NewRequest(http.MethodGet, "/", nil), task)
	assert.ErrorIs(t, err, async.ErrNoManager)

	r, m := requestWithManager()
	assert.False(t, m.IsConcurrentHandlingStarted())
	require.NoError(t, async.Start(r, task))
	assert.True(t, m.IsConcurrentHandlingStarted())
	assert.ErrorIs(t, async.Start(r, task), async.ErrAlreadyStarted)
}

func TestHandoffCompletesOnce(t *testing.T) {
	t.Parallel()

	r, m := requestWithManager()
	release := make(chan struct{})
	require.NoError(t, async.Start(r, func(ctx context.Context) (*handler.Outcome, error) {
		<-release
		return handler.NewOutcome("done", nil), nil
	}))

	var calls atomic.Int32
	var got *handler.Outcome
	complete := func(ctx context.Context, o *handler.Outcome, err error) error {
		calls.Add(1)
		got = o
		return err
	}

	require.NoError(t, m.Handoff(context.Background(), time.Second, complete))
	require.NoError(t, m.Handoff(context.Background(), time.Second, complete))
	assert.Nil(t, m.Err())

	close(release)
	require.NoError(t, m.Wait(context.Background()))
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "done", got.ViewName)
}

func TestHandoffTimeout(t *testing.T) {
	t.Parallel()

	r, m := requestWithManager()
	require.NoError(t, async.Start(r, func(ctx context.Context) (*handler.Outcome, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}))

	var completedWith error
	require.NoError(t, m.Handoff(context.Background(), 20*time.Millisecond, func(ctx context.Context, o *handler.Outcome, err error) error {
		completedWith = err
		return err
	}))

	<-m.Done()
	assert.ErrorIs(t, completedWith, async.ErrTimeout)
	assert.ErrorIs(t, m.Err(), async.ErrTimeout)
}

func TestHandoffRecoversPanic(t *testing.T) {
	t.Parallel()

	r, m := requestWithManager()
	require.NoError(t, async.Start(r, func(ctx context.Context) (*handler.Outcome, error) {
		panic("task exploded")
	}))

	var completedWith error
	require.NoError(t, m.Handoff(context.Background(), time.Second, func(ctx context.Context, o *handler.Outcome, err error) error {
		completedWith = err
		return nil
	}))

	require.NoError(t, m.Wait(context.Background()))
	assert.True(t, handler.IsProcessingError(completedWith))
}

func TestHandoffCanceledContext(t *testing.T) {
	t.Parallel()

	r, m := requestWithManager()
	require.NoError(t, async.Start(r, func(ctx context.Context) (*handler.Outcome, error) {
		<-ctx.Done()
		return nil, errors.New("should not be observed")
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var completedWith error
	require.NoError(t, m.Handoff(ctx, 0, func(ctx context.Context, o *handler.Outcome, err error) error {
		completedWith = err
		return nil
	}))
	<-m.Done()
	assert.ErrorIs(t, completedWith, context.Canceled)
}

func TestHandoffRequiresTask(t *testing.T) {
	t.Parallel()

	m := async.NewManager()
	err := m.Handoff(context.Background(), time.Second, func(context.Context, *handler.Outcome, error) error { return nil })
	assert.ErrorIs(t, err, async.ErrNotStarted)
	require.NoError(t, m.Wait(context.Background()), "nothing to wait for")
}
