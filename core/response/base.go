package response

import (
	"net/http"

	"github.com/dmitrymomot/dispatch/core/handler"
)

const (
	contentTypeText = "text/plain; charset=utf-8"
	contentTypeHTML = "text/html; charset=utf-8"
)

// Render writes resp and falls back to a plain 500 when it fails.
func Render(w http.ResponseWriter, r *http.Request, resp handler.Response) {
	if resp == nil {
		return
	}
	if err := resp(w, r); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Bytes creates a response with custom content type and status code.
// A zero status means 200 OK.
func Bytes(content []byte, contentType string, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		if len(content) == 0 || r.Method == http.MethodHead {
			return nil
		}
		_, err := w.Write(content)
		return err
	}
}

// String creates a text/plain response with 200 OK status.
func String(content string) handler.Response {
	return Bytes([]byte(content), contentTypeText, http.StatusOK)
}

// StringWithStatus creates a text/plain response with custom status code.
func StringWithStatus(content string, status int) handler.Response {
	return Bytes([]byte(content), contentTypeText, status)
}

// HTML creates a text/html response with 200 OK status.
func HTML(content string) handler.Response {
	return Bytes([]byte(content), contentTypeHTML, http.StatusOK)
}

// HTMLWithStatus creates a text/html response with custom status code.
func HTMLWithStatus(content string, status int) handler.Response {
	return Bytes([]byte(content), contentTypeHTML, status)
}

// NoContent creates a 204 No Content response.
func NoContent() handler.Response {
	return Status(http.StatusNoContent)
}

// Status creates an empty response with the specified status code.
func Status(code int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if code == 0 {
			code = http.StatusOK
		}
		w.WriteHeader(code)
		return nil
	}
}

// Error returns a response that writes nothing and propagates err to the
// dispatcher's exception resolvers.
func Error(err error) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		return err
	}
}
