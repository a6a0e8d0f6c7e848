package handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/dispatch/core/handler"
)

func TestAttributes(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, handler.SetAttribute(r, "k", "v"), "no bag without dispatcher context")
	assert.Nil(t, handler.Attribute(r, "k"))

	r = r.WithContext(handler.WithAttributes(r.Context()))
	assert.True(t, handler.SetAttribute(r, "k", "v"))
	assert.Equal(t, "v", handler.Attribute(r, "k"))

	// A derived request shares the bag.
	derived := r.WithContext(handler.WithAttributes(r.Context()))
	assert.Equal(t, "v", handler.Attribute(derived, "k"))

	handler.SetParams(r, map[string]string{"id": "7"})
	assert.Equal(t, "7", handler.Param(derived, "id"))
	assert.Empty(t, handler.Param(derived, "missing"))
}

func TestOutcome(t *testing.T) {
	t.Parallel()

	var nilOutcome *handler.Outcome
	assert.True(t, nilOutcome.IsEmpty())
	assert.True(t, handler.Handled().IsEmpty())

	o := handler.NewOutcome("", nil).Set("name", "x")
	assert.False(t, o.IsEmpty())
	assert.False(t, o.HasView())

	o.ViewName = "page"
	assert.True(t, o.HasView())
}

func TestProcessingError(t *testing.T) {
	t.Parallel()

	cause := errors.New("root")
	pe := handler.NewProcessingError("handler dispatch failed", cause)

	assert.Equal(t, "handler dispatch failed: root", pe.Error())
	assert.ErrorIs(t, pe, cause)
	assert.Equal(t, cause, pe.Value())
	assert.NotEmpty(t, pe.Stack())
	assert.True(t, handler.IsProcessingError(pe))
	assert.False(t, handler.IsProcessingError(cause))

	str := handler.NewProcessingError("x", "text panic")
	assert.NoError(t, str.Unwrap())
}
