package exception

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/dispatch/core/async"
	"github.com/dmitrymomot/dispatch/core/handler"
	"github.com/dmitrymomot/dispatch/core/multipart"
	"github.com/dmitrymomot/dispatch/core/response"
)

// Model keys set on outcomes produced by Mapping.
const (
	ModelError  = "error"
	ModelStatus = "status"
)

// Rule maps matching errors to a status and an optional view.
type Rule struct {
	Match  func(error) bool
	Status int
	View   string
}

// Is matches errors for which errors.Is(err, target) holds.
func Is(target error, status int, view string) Rule {
	return Rule{
		Match:  func(err error) bool { return errors.Is(err, target) },
		Status: status,
		View:   view,
	}
}

// As matches errors whose chain contains a T.
func As[T error](status int, view string) Rule {
	return Rule{
		Match: func(err error) bool {
			var target T
			return errors.As(err, &target)
		},
		Status: status,
		View:   view,
	}
}

// Mapping claims errors matching one of its rules, first rule wins. Rules with a
// view produce an outcome carrying the error and status in its model; rules
// without one write the error through Write.
type Mapping struct {
	Rules []Rule
	// Write renders view-less matches. Defaults to response.ErrorHandler.
	Write func(w http.ResponseWriter, r *http.Request, err error)
}

// ResolveError implements Resolver.
func (m Mapping) ResolveError(w http.ResponseWriter, r *http.Request, h handler.Handler, err error) (*handler.Outcome, bool) {
	for _, rule := range m.Rules {
		if rule.Match == nil || !rule.Match(err) {
			continue
		}
		if rule.View != "" {
			o := handler.NewOutcome(rule.View, map[string]any{
				ModelError:  err,
				ModelStatus: rule.Status,
			})
			o.Status = rule.Status
			return o, true
		}
		write(m.Write, w, r, withStatus(err, rule.Status))
		return handler.Handled(), true
	}
	return nil, false
}

// Defaults maps the errors raised by the dispatch machinery itself.
func Defaults() Mapping {
	return Mapping{Rules: []Rule{
		Is(multipart.ErrTooLarge, http.StatusRequestEntityTooLarge, ""),
		As[*http.MaxBytesError](http.StatusRequestEntityTooLarge, ""),
		Is(multipart.ErrParse, http.StatusBadRequest, ""),
		Is(async.ErrTimeout, http.StatusServiceUnavailable, ""),
	}}
}

// Status claims errors that carry their own HTTP status and writes them
// through Write.
type Status struct {
	// Write defaults to response.ErrorHandler.
	Write func(w http.ResponseWriter, r *http.Request, err error)
}

// ResolveError implements Resolver.
func (s Status) ResolveError(w http.ResponseWriter, r *http.Request, h handler.Handler, err error) (*handler.Outcome, bool) {
	var sc interface{ StatusCode() int }
	if !errors.As(err, &sc) {
		return nil, false
	}
	write(s.Write, w, r, err)
	return handler.Handled(), true
}

func write(fn func(http.ResponseWriter, *http.Request, error), w http.ResponseWriter, r *http.Request, err error) {
	if fn == nil {
		fn = response.ErrorHandler
	}
	fn(w, r, err)
}

type statusError struct {
	error
	status int
}

func withStatus(err error, status int) error {
	if status == 0 {
		return err
	}
	return statusError{error: err, status: status}
}

func (e statusError) StatusCode() int { return e.status }

func (e statusError) Unwrap() error { return e.error }
