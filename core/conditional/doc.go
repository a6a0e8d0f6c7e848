// Package conditional evaluates HTTP conditional request headers against a
// handler's last-modified timestamp.
//
// Timestamps are unix milliseconds. HTTP dates carry second precision, so the
// comparison truncates the handler timestamp to whole seconds first:
//
//	res := conditional.Check(w, r, lastModified)
//	if res.NotModified {
//		w.WriteHeader(res.Status) // 304 or 412
//		return
//	}
//
// Check also populates the Last-Modified header on GET and HEAD responses
// when the timestamp is known and the header is not already set.
package conditional
