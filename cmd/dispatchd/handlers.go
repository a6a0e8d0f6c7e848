package main

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrymomot/dispatch/core/async"
	"github.com/dmitrymomot/dispatch/core/handler"
	"github.com/dmitrymomot/dispatch/core/response"
	"github.com/dmitrymomot/dispatch/interceptor"
)

func hello(w http.ResponseWriter, r *http.Request) (*handler.Outcome, error) {
	return handler.NewOutcome("", map[string]any{
		"greeting": "hello, " + handler.Param(r, "name"),
	}), nil
}

// doc serves documents that only change on deploy, so conditional GETs can be
// answered from the start time.
func doc(started time.Time) handler.Handler {
	return handler.Versioned{
		Handler: handler.Func(func(w http.ResponseWriter, r *http.Request) (*handler.Outcome, error) {
			return handler.NewOutcome("", map[string]any{
				"slug":    handler.Param(r, "slug"),
				"updated": started.UTC().Format(time.RFC3339),
			}), nil
		}),
		Modified: func(*http.Request) int64 { return started.UnixMilli() },
	}
}

func upload(w http.ResponseWriter, r *http.Request) (*handler.Outcome, error) {
	if r.MultipartForm == nil {
		return nil, response.ErrUnsupportedMediaType.WithMessage("multipart form expected")
	}

	files := map[string]int64{}
	for field, headers := range r.MultipartForm.File {
		for _, fh := range headers {
			files[field+"/"+fh.Filename] = fh.Size
		}
	}
	return &handler.Outcome{
		Model:  map[string]any{"files": files},
		Status: http.StatusCreated,
	}, nil
}

// report builds its result in the background.
func report(delay time.Duration) handler.Func {
	return func(w http.ResponseWriter, r *http.Request) (*handler.Outcome, error) {
		id := handler.Param(r, "id")
		return nil, async.Start(r, func(ctx context.Context) (*handler.Outcome, error) {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			return handler.NewOutcome("", map[string]any{"id": id, "ready": true}), nil
		})
	}
}

func me(w http.ResponseWriter, r *http.Request) (*handler.Outcome, error) {
	claims, ok := interceptor.GetJWTClaims[*jwt.RegisteredClaims](r)
	if !ok {
		return nil, response.ErrUnauthorized
	}
	return handler.NewOutcome("", map[string]any{"subject": claims.Subject}), nil
}
