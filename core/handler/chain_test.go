package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dispatch/core/handler"
)

type recorder struct {
	calls []string
}

func (rec *recorder) interceptor(name string, pass bool) handler.InterceptorFuncs {
	return handler.InterceptorFuncs{
		Pre: func(w http.ResponseWriter, r *http.Request, h handler.Handler) (bool, error) {
			rec.calls = append(rec.calls, "pre:"+name)
			return pass, nil
		},
		Post: func(w http.ResponseWriter, r *http.Request, h handler.Handler, o *handler.Outcome) error {
			rec.calls = append(rec.calls, "post:"+name)
			return nil
		},
		After: func(w http.ResponseWriter, r *http.Request, h handler.Handler, err error) error {
			rec.calls = append(rec.calls, fmt.Sprintf("after:%s:%v", name, err))
			return nil
		},
		AsyncStarted: func(w http.ResponseWriter, r *http.Request, h handler.Handler) error {
			rec.calls = append(rec.calls, "async:"+name)
			return nil
		},
	}
}

// plainInterceptor does not implement AsyncInterceptor.
type plainInterceptor struct {
	rec  *recorder
	name string
}

func (p plainInterceptor) PreHandle(w http.ResponseWriter, r *http.Request, h handler.Handler) (bool, error) {
	p.rec.calls = append(p.rec.calls, "pre:"+p.name)
	return true, nil
}

func (p plainInterceptor) PostHandle(w http.ResponseWriter, r *http.Request, h handler.Handler, o *handler.Outcome) error {
	return nil
}

func (p plainInterceptor) AfterCompletion(w http.ResponseWriter, r *http.Request, h handler.Handler, err error) error {
	return nil
}

func newReq() (*httptest.ResponseRecorder, *http.Request) {
	return httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)
}

func TestExecutionFullPass(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	chain := handler.NewExecutionChain("h", rec.interceptor("a", true), rec.interceptor("b", true))
	exec := chain.Start()
	w, r := newReq()

	ok, err := exec.ApplyPreHandle(w, r)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, handler.PhasePassed, exec.Phase())
	assert.Equal(t, 2, exec.Passed())

	exec.MarkInvoked()
	require.NoError(t, exec.ApplyPostHandle(w, r, handler.Handled()))
	require.NoError(t, exec.TriggerAfterCompletion(w, r, nil))

	assert.Equal(t, []string{
		"pre:a", "pre:b",
		"post:b", "post:a",
		"after:b:<nil>", "after:a:<nil>",
	}, rec.calls)
	assert.Equal(t, handler.PhaseFinalized, exec.Phase())
}

func TestExecutionShortCircuit(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	chain := handler.NewExecutionChain("h",
		rec.interceptor("a", true),
		rec.interceptor("b", true),
		rec.interceptor("c", false),
		rec.interceptor("d", true),
	)
	exec := chain.Start()
	w, r := newReq()

	ok, err := exec.ApplyPreHandle(w, r)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, handler.PhaseShortCircuited, exec.Phase())
	assert.Equal(t, 2, exec.Passed())

	require.NoError(t, exec.TriggerAfterCompletion(w, r, nil))
	assert.Equal(t, []string{
		"pre:a", "pre:b", "pre:c",
		"after:b:<nil>", "after:a:<nil>",
	}, rec.calls)

	err = exec.ApplyPostHandle(w, r, nil)
	assert.ErrorIs(t, err, handler.ErrInvalidPhase)
}

func TestExecutionPreHandleError(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	boom := errors.New("boom")
	failing := handler.InterceptorFuncs{
		Pre: func(w http.ResponseWriter, r *http.Request, h handler.Handler) (bool, error) {
			return false, boom
		},
		After: func(w http.ResponseWriter, r *http.Request, h handler.Handler, err error) error {
			rec.calls = append(rec.calls, "after:failing")
			return nil
		},
	}
	exec := handler.NewExecutionChain("h", rec.interceptor("a", true), failing).Start()
	w, r := newReq()

	ok, err := exec.ApplyPreHandle(w, r)
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)

	require.NoError(t, exec.TriggerAfterCompletion(w, r, err))
	assert.Equal(t, []string{"pre:a", "after:a:boom"}, rec.calls)
}

func TestExecutionAfterCompletionRunsOnce(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	exec := handler.NewExecutionChain("h", rec.interceptor("a", true)).Start()
	w, r := newReq()

	_, err := exec.ApplyPreHandle(w, r)
	require.NoError(t, err)
	require.NoError(t, exec.TriggerAfterCompletion(w, r, nil))
	require.NoError(t, exec.TriggerAfterCompletion(w, r, errors.New("again")))

	assert.Equal(t, []string{"pre:a", "after:a:<nil>"}, rec.calls)
}

func TestExecutionAfterCompletionCollectsFailures(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	hookErr := errors.New("hook failed")
	exec := handler.NewExecutionChain("h",
		rec.interceptor("a", true),
		handler.InterceptorFuncs{
			After: func(w http.ResponseWriter, r *http.Request, h handler.Handler, err error) error {
				panic("after exploded")
			},
		},
		handler.InterceptorFuncs{
			After: func(w http.ResponseWriter, r *http.Request, h handler.Handler, err error) error {
				return hookErr
			},
		},
	).Start()
	w, r := newReq()

	_, err := exec.ApplyPreHandle(w, r)
	require.NoError(t, err)

	err = exec.TriggerAfterCompletion(w, r, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, hookErr)
	assert.True(t, handler.IsProcessingError(err))
	assert.Contains(t, rec.calls, "after:a:<nil>", "remaining hooks still run")
}

func TestExecutionAsyncStarted(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	exec := handler.NewExecutionChain("h",
		rec.interceptor("a", true),
		plainInterceptor{rec: rec, name: "plain"},
		rec.interceptor("b", true),
	).Start()
	w, r := newReq()

	_, err := exec.ApplyPreHandle(w, r)
	require.NoError(t, err)
	exec.MarkInvoked()

	require.NoError(t, exec.ApplyAfterConcurrentHandlingStarted(w, r))
	require.NoError(t, exec.ApplyAfterConcurrentHandlingStarted(w, r))
	assert.Equal(t, handler.PhaseAsyncDeferred, exec.Phase())
	assert.Equal(t, []string{"pre:a", "pre:plain", "pre:b", "async:b", "async:a"}, rec.calls)

	require.NoError(t, exec.Resume())
	require.NoError(t, exec.ApplyPostHandle(w, r, nil))
	require.NoError(t, exec.TriggerAfterCompletion(w, r, nil))
	assert.Equal(t, []string{
		"pre:a", "pre:plain", "pre:b", "async:b", "async:a",
		"post:b", "post:a",
		"after:b:<nil>", "after:a:<nil>",
	}, rec.calls)
}

func TestExecutionResumeRequiresDeferral(t *testing.T) {
	t.Parallel()

	exec := handler.NewExecutionChain("h").Start()
	assert.ErrorIs(t, exec.Resume(), handler.ErrInvalidPhase)
}

func TestExecutionChainParams(t *testing.T) {
	t.Parallel()

	params := map[string]string{"id": "42"}
	base := handler.NewExecutionChain("h")
	chain := base.WithParams(params)
	params["id"] = "changed"

	assert.Nil(t, base.Params())
	assert.Equal(t, "42", chain.Params()["id"])
	assert.Equal(t, "h", chain.Handler())
}
