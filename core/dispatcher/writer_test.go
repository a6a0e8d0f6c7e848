package dispatcher

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseWriterTracksStatus(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	w := newResponseWriter(rec)
	assert.Same(t, w, newResponseWriter(w))
	assert.False(t, w.Written())

	_, _ = w.Write([]byte("ok"))
	w.WriteHeader(http.StatusTeapot)

	assert.True(t, w.Written())
	assert.Equal(t, http.StatusOK, w.Status())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Equal(t, int64(2), w.Size())
}

func TestResponseWriterPin(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	w := newResponseWriter(rec)
	w.pin(http.StatusNotModified)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("dropped"))

	assert.Equal(t, http.StatusNotModified, w.Status())
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Zero(t, w.Size())
	assert.Same(t, rec, w.Unwrap())
}
