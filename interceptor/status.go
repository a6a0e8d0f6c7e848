package interceptor

import (
	"net"
	"net/http"
	"strings"

	"github.com/dmitrymomot/dispatch/core/response"
)

// statusOf returns the status of the response written through w. The
// dispatcher's writer records it; other writers report 200. An unrecovered
// failure is written by the transport after after-completion runs, so a
// failure seen with a non-error status reports the status it will get.
func statusOf(w http.ResponseWriter, err error) int {
	status := http.StatusOK
	if sw, ok := w.(interface{ Status() int }); ok {
		if s := sw.Status(); s != 0 {
			status = s
		}
	}
	if err != nil && status < http.StatusBadRequest {
		return response.StatusOf(err)
	}
	return status
}

// sizeOf returns the number of body bytes written through w, or -1 when the
// writer does not count them.
func sizeOf(w http.ResponseWriter) int64 {
	if sw, ok := w.(interface{ Size() int64 }); ok {
		return sw.Size()
	}
	return -1
}

// clientIP returns the originating client address, preferring proxy headers.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); net.ParseIP(ip) != nil {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(ip) != nil {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
