package conditional

import (
	"net/http"
	"time"
)

const (
	headerIfModifiedSince   = "If-Modified-Since"
	headerIfUnmodifiedSince = "If-Unmodified-Since"
	headerLastModified      = "Last-Modified"
)

// Result is the outcome of evaluating conditional headers.
// Status is 304 or 412 when NotModified is true, zero otherwise.
type Result struct {
	NotModified bool
	Status      int
}

// IsNotModified reports whether a GET or HEAD request can be answered with
// 304 for a resource last modified at the given unix millisecond timestamp.
// Unknown timestamps (<= 0) never match.
func IsNotModified(r *http.Request, lastModified int64) bool {
	if lastModified <= 0 || !isSafe(r.Method) {
		return false
	}
	since, ok := parseHeader(r, headerIfModifiedSince)
	if !ok {
		return false
	}
	return truncate(lastModified) <= since.Unix()
}

// Check evaluates If-Unmodified-Since and If-Modified-Since for the request
// and sets Last-Modified on GET and HEAD responses when known and not yet set.
// It never writes the status; the caller decides whether to commit it.
func Check(w http.ResponseWriter, r *http.Request, lastModified int64) Result {
	if lastModified <= 0 {
		return Result{}
	}

	if until, ok := parseHeader(r, headerIfUnmodifiedSince); ok && truncate(lastModified) > until.Unix() {
		return Result{NotModified: true, Status: http.StatusPreconditionFailed}
	}

	if isSafe(r.Method) && w.Header().Get(headerLastModified) == "" {
		w.Header().Set(headerLastModified, FormatMillis(lastModified))
	}

	if IsNotModified(r, lastModified) {
		return Result{NotModified: true, Status: http.StatusNotModified}
	}
	return Result{}
}

// FormatMillis renders a unix millisecond timestamp as an HTTP date.
func FormatMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(http.TimeFormat)
}

func isSafe(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

func truncate(ms int64) int64 {
	return ms / 1000
}

func parseHeader(r *http.Request, name string) (time.Time, bool) {
	v := r.Header.Get(name)
	if v == "" {
		return time.Time{}, false
	}
	t, err := http.ParseTime(v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
