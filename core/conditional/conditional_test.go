package conditional_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/dispatch/core/conditional"
)

var modified = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func request(method string, headers map[string]string) *http.Request {
	r := httptest.NewRequest(method, "/resource", nil)
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	return r
}

func TestIsNotModified(t *testing.T) {
	t.Parallel()

	lm := modified.UnixMilli() + 750 // sub-second part is ignored
	same := modified.Format(http.TimeFormat)
	earlier := modified.Add(-time.Hour).Format(http.TimeFormat)

	tests := []struct {
		name   string
		method string
		header string
		lm     int64
		want   bool
	}{
		{"get same second", http.MethodGet, same, lm, true},
		{"head same second", http.MethodHead, same, lm, true},
		{"get modified since", http.MethodGet, earlier, lm, false},
		{"post ignored", http.MethodPost, same, lm, false},
		{"unknown timestamp", http.MethodGet, same, -1, false},
		{"no header", http.MethodGet, "", lm, false},
		{"malformed header", http.MethodGet, "yesterday", lm, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			headers := map[string]string{}
			if tt.header != "" {
				headers["If-Modified-Since"] = tt.header
			}
			assert.Equal(t, tt.want, conditional.IsNotModified(request(tt.method, headers), tt.lm))
		})
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	lm := modified.UnixMilli()

	t.Run("not modified sets last-modified", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		res := conditional.Check(w, request(http.MethodGet, map[string]string{
			"If-Modified-Since": modified.Format(http.TimeFormat),
		}), lm)
		assert.Equal(t, conditional.Result{NotModified: true, Status: http.StatusNotModified}, res)
		assert.Equal(t, modified.Format(http.TimeFormat), w.Header().Get("Last-Modified"))
	})

	t.Run("modified", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		res := conditional.Check(w, request(http.MethodGet, map[string]string{
			"If-Modified-Since": modified.Add(-time.Minute).Format(http.TimeFormat),
		}), lm)
		assert.False(t, res.NotModified)
		assert.NotEmpty(t, w.Header().Get("Last-Modified"))
	})

	t.Run("existing last-modified kept", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		w.Header().Set("Last-Modified", "custom")
		conditional.Check(w, request(http.MethodHead, nil), lm)
		assert.Equal(t, "custom", w.Header().Get("Last-Modified"))
	})

	t.Run("precondition failed", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		res := conditional.Check(w, request(http.MethodPut, map[string]string{
			"If-Unmodified-Since": modified.Add(-time.Hour).Format(http.TimeFormat),
		}), lm)
		assert.Equal(t, conditional.Result{NotModified: true, Status: http.StatusPreconditionFailed}, res)
		assert.Empty(t, w.Header().Get("Last-Modified"), "only safe methods get the header")
	})

	t.Run("unknown timestamp", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		res := conditional.Check(w, request(http.MethodGet, map[string]string{
			"If-Modified-Since": modified.Format(http.TimeFormat),
		}), 0)
		assert.Equal(t, conditional.Result{}, res)
		assert.Empty(t, w.Header().Get("Last-Modified"))
	})
}
