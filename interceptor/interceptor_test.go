package interceptor_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dispatch/core/async"
	"github.com/dmitrymomot/dispatch/core/dispatcher"
	"github.com/dmitrymomot/dispatch/core/handler"
	"github.com/dmitrymomot/dispatch/core/logger"
	"github.com/dmitrymomot/dispatch/core/resolver"
	"github.com/dmitrymomot/dispatch/core/response"
	"github.com/dmitrymomot/dispatch/interceptor"
)

func serve(t *testing.T, h handler.Handler, r *http.Request, ics ...handler.Interceptor) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	dispatcher.New(dispatcher.WithResolvers(resolver.Static(h, ics...))).ServeHTTP(w, r)
	return w
}

func okHandler(w http.ResponseWriter, r *http.Request) (*handler.Outcome, error) {
	_, err := io.WriteString(w, "ok")
	return nil, err
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generates", func(t *testing.T) {
		t.Parallel()
		var seen string
		h := handler.Func(func(w http.ResponseWriter, r *http.Request) (*handler.Outcome, error) {
			seen, _ = interceptor.GetRequestID(r)
			return nil, nil
		})

		w := serve(t, h, httptest.NewRequest(http.MethodGet, "/", nil), interceptor.RequestID())
		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, w.Header().Get("X-Request-ID"))
	})

	t.Run("reuses incoming", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Trace", "abc")

		w := serve(t, handler.Func(okHandler), r, interceptor.RequestIDWithConfig(interceptor.RequestIDConfig{
			HeaderName:  "X-Trace",
			UseExisting: true,
		}))
		assert.Equal(t, "abc", w.Header().Get("X-Trace"))
	})

	t.Run("logged through the extractor", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(
			logger.WithOutput(&buf),
			logger.WithJSONFormatter(),
			logger.WithContextExtractors(interceptor.RequestIDExtractor()),
		)
		h := handler.Func(func(w http.ResponseWriter, r *http.Request) (*handler.Outcome, error) {
			log.InfoContext(r.Context(), "inside")
			return nil, nil
		})

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Request-ID", "req-1")
		serve(t, h, r, interceptor.RequestIDWithConfig(interceptor.RequestIDConfig{UseExisting: true}))
		assert.Contains(t, buf.String(), `"request_id":"req-1"`)
	})
}

func TestLogging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	failing := handler.Func(func(w http.ResponseWriter, r *http.Request) (*handler.Outcome, error) {
		return nil, errors.New("exploded")
	})

	serve(t, failing, httptest.NewRequest(http.MethodPost, "/orders", nil), interceptor.LoggingWithLogger(log))

	out := buf.String()
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, `"msg":"request completed"`)
	assert.Contains(t, out, `"path":"/orders"`)
	assert.Contains(t, out, "exploded")
	assert.Contains(t, out, `"status_code":500`, "reports the status the failure is written with")
}

func TestLoggingStatusAndSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		h      handler.Func
		status string
		size   string
	}{
		{
			name:   "written response",
			h:      okHandler,
			status: `"status_code":200`,
			size:   `"bytes_out":2`,
		},
		{
			name: "unrecovered failure",
			h: func(w http.ResponseWriter, r *http.Request) (*handler.Outcome, error) {
				return nil, errors.New("boom")
			},
			status: `"status_code":500`,
			size:   `"bytes_out":0`,
		},
		{
			name: "resolved failure",
			h: func(w http.ResponseWriter, r *http.Request) (*handler.Outcome, error) {
				return nil, fmt.Errorf("lookup: %w", response.ErrConflict)
			},
			status: `"status_code":409`,
			size:   `"bytes_out":`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			log := slog.New(slog.NewJSONHandler(&buf, nil))

			serve(t, tt.h, httptest.NewRequest(http.MethodGet, "/", nil), interceptor.LoggingWithLogger(log))
			assert.Contains(t, buf.String(), tt.status)
			assert.Contains(t, buf.String(), tt.size)
		})
	}
}

func TestLoggingSkip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ic := interceptor.LoggingWithConfig(interceptor.LoggingConfig{
		Logger: slog.New(slog.NewJSONHandler(&buf, nil)),
		Skip:   func(r *http.Request) bool { return r.URL.Path == "/health" },
	})

	serve(t, handler.Func(okHandler), httptest.NewRequest(http.MethodGet, "/health", nil), ic)
	assert.Empty(t, buf.String())
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m, err := interceptor.NewMetrics(reg, "test")
	require.NoError(t, err)

	serve(t, handler.Func(okHandler), httptest.NewRequest(http.MethodGet, "/", nil), m.Interceptor())
	serve(t, handler.Func(okHandler), httptest.NewRequest(http.MethodGet, "/", nil), m.Interceptor())

	families, err := reg.Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				counts[mf.GetName()] += metric.GetCounter().GetValue()
			case metric.GetHistogram() != nil:
				counts[mf.GetName()] += float64(metric.GetHistogram().GetSampleCount())
			case metric.GetGauge() != nil:
				counts[mf.GetName()] += metric.GetGauge().GetValue()
			}
		}
	}
	assert.Equal(t, float64(2), counts["test_http_requests_total"])
	assert.Equal(t, float64(2), counts["test_http_request_duration_seconds"])
	assert.Zero(t, counts["test_http_requests_deferred"])

	_, err = interceptor.NewMetrics(reg, "test")
	assert.Error(t, err, "duplicate registration")
}

func TestJWT(t *testing.T) {
	t.Parallel()

	const secret = "test-secret"
	sign := func(t *testing.T, key string, claims jwt.Claims) string {
		t.Helper()
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
		require.NoError(t, err)
		return token
	}

	var invoked bool
	var subject string
	h := handler.Func(func(w http.ResponseWriter, r *http.Request) (*handler.Outcome, error) {
		invoked = true
		if claims, ok := interceptor.GetJWTClaims[*jwt.RegisteredClaims](r); ok {
			subject = claims.Subject
		}
		return nil, nil
	})

	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantSub    string
	}{
		{
			name:       "valid",
			token:      sign(t, secret, jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}),
			wantStatus: http.StatusOK,
			wantSub:    "user-1",
		},
		{
			name:       "missing",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong key",
			token:      sign(t, "other", jwt.RegisteredClaims{Subject: "user-1"}),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired",
			token:      sign(t, secret, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))}),
			wantStatus: http.StatusUnauthorized,
		},
	}

	// Subtests share the handler state, so they run sequentially.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoked, subject = false, ""
			r := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.token != "" {
				r.Header.Set("Authorization", "Bearer "+tt.token)
			}

			w := serve(t, h, r, interceptor.JWT(secret))
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, invoked)
			assert.Equal(t, tt.wantSub, subject)
		})
	}
}

func TestJWTPanicsWithoutKey(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { interceptor.JWT("") })
}

func TestBodyLimit(t *testing.T) {
	t.Parallel()

	reader := handler.Func(func(w http.ResponseWriter, r *http.Request) (*handler.Outcome, error) {
		if _, err := io.ReadAll(r.Body); err != nil {
			return nil, err
		}
		_, err := io.WriteString(w, "read")
		return nil, err
	})

	t.Run("declared length over limit", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 64)))
		w := serve(t, reader, r, interceptor.BodyLimitWithSize(16))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("streamed body over limit", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 64)))
		r.ContentLength = -1
		w := serve(t, reader, r, interceptor.BodyLimitWithSize(16))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("within limit", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("small"))
		w := serve(t, reader, r, interceptor.BodyLimitWithSize(16))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "read", w.Body.String())
	})

	t.Run("per content type", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"bbbbbbbbbbbbbbbbbbbb"}`))
		r.Header.Set("Content-Type", "application/json; charset=utf-8")
		w := serve(t, reader, r, interceptor.BodyLimitWithConfig(interceptor.BodyLimitConfig{
			MaxSize:          1 << 10,
			ContentTypeLimit: map[string]int64{"application/json": 8},
		}))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestInterceptorsSeeAsyncCompletion(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h := handler.Func(func(w http.ResponseWriter, r *http.Request) (*handler.Outcome, error) {
		return nil, async.Start(r, func(ctx context.Context) (*handler.Outcome, error) {
			return handler.NewOutcome("", map[string]any{"done": true}), nil
		})
	})

	w := serve(t, h, httptest.NewRequest(http.MethodGet, "/slow", nil), interceptor.LoggingWithLogger(log))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, buf.String(), "request deferred")
	assert.Contains(t, buf.String(), "request completed")
}
