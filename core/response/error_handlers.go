package response

import (
	"errors"
	"net/http"
)

// statusCode is implemented by errors that carry their own HTTP status.
type statusCode interface {
	StatusCode() int
}

// StatusOf returns the HTTP status for err: the StatusCode of the first error in
// its chain that has one, 500 otherwise.
func StatusOf(err error) int {
	var sc statusCode
	if errors.As(err, &sc) {
		if s := sc.StatusCode(); s >= 400 && s <= 599 {
			return s
		}
	}
	return http.StatusInternalServerError
}

// FromError converts any error to an HTTPError.
func FromError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	base, ok := httpErrorsByStatus[StatusOf(err)]
	if !ok {
		base = ErrInternalServerError
	}
	return base.WithError(err)
}

// ErrorHandler writes err as a plain text response.
func ErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	httpErr := FromError(err)
	Render(w, r, StringWithStatus(httpErr.Error(), httpErr.Status))
}

// JSONErrorHandler writes err as a JSON response.
func JSONErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	httpErr := FromError(err)
	Render(w, r, JSONWithStatus(httpErr, httpErr.Status))
}
