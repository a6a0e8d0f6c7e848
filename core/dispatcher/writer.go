package dispatcher

import "net/http"

// responseWriter tracks whether a response has been committed. It can also pin
// the status, which a HEAD request answered as not modified relies on.
type responseWriter struct {
	http.ResponseWriter
	status   int
	size     int64
	written  bool
	override int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	if ww, ok := w.(*responseWriter); ok {
		return ww
	}
	return &responseWriter{ResponseWriter: w}
}

func (w *responseWriter) WriteHeader(status int) {
	if w.written {
		return
	}
	if w.override != 0 {
		status = w.override
	}
	w.status = status
	w.written = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	if w.override != 0 {
		// Pinned statuses (304, 412) carry no body.
		return len(b), nil
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += int64(n)
	return n, err
}

// Written reports whether the header has been written.
func (w *responseWriter) Written() bool {
	return w.written
}

// Status returns the written status code.
func (w *responseWriter) Status() int {
	return w.status
}

// Size returns the number of body bytes written.
func (w *responseWriter) Size() int64 {
	return w.size
}

// Flush implements http.Flusher when the underlying writer supports it.
func (w *responseWriter) Flush() {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// pin forces every status written afterwards to status.
func (w *responseWriter) pin(status int) {
	w.override = status
}
