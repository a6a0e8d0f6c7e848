package multipart

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
)

// DefaultMaxMemory is how many bytes of file parts are held in memory before they spill to
// temporary files.
const DefaultMaxMemory = 32 << 20

// Resolver detects, parses and cleans up multipart requests.
type Resolver interface {
	IsMultipart(r *http.Request) bool
	Resolve(r *http.Request) (*http.Request, error)
	Cleanup(r *http.Request) error
}

// Standard resolves multipart requests with http.Request.ParseMultipartForm.
type Standard struct {
	// MaxMemory bounds the bytes kept in memory; zero means DefaultMaxMemory.
	MaxMemory int64
	// MaxUploadSize bounds the whole request body; zero means unlimited.
	MaxUploadSize int64
}

// IsMultipart reports whether the request carries a multipart body.
func (Standard) IsMultipart(r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return false
	}
	return strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "multipart/")
}

// Resolve returns a clone of r with its multipart form parsed.
func (s Standard) Resolve(r *http.Request) (*http.Request, error) {
	parsed := r.Clone(r.Context())
	if s.MaxUploadSize > 0 {
		parsed.Body = http.MaxBytesReader(nil, parsed.Body, s.MaxUploadSize)
	}

	maxMemory := s.MaxMemory
	if maxMemory <= 0 {
		maxMemory = DefaultMaxMemory
	}

	if err := parsed.ParseMultipartForm(maxMemory); err != nil {
		// Temporary files written before the failure are still ours to remove.
		if parsed.MultipartForm != nil {
			_ = parsed.MultipartForm.RemoveAll()
		}
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, fmt.Errorf("%w: %w: %w", ErrParse, ErrTooLarge, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return parsed, nil
}

// Cleanup removes temporary files created while parsing.
func (Standard) Cleanup(r *http.Request) error {
	if r.MultipartForm == nil {
		return nil
	}
	return r.MultipartForm.RemoveAll()
}

// Part tracks ownership of a possibly substituted request.
type Part struct {
	req      *http.Request
	resolver Resolver
	parsed   bool
	once     sync.Once
	err      error
}

// Wrap parses r with res when it is a multipart request that has not been parsed
// yet. The returned Part is never nil: on failure it carries the original request
// and owns nothing.
func Wrap(res Resolver, r *http.Request) (*Part, error) {
	p := &Part{req: r, resolver: res}
	if res == nil || r.MultipartForm != nil || !res.IsMultipart(r) {
		return p, nil
	}

	parsed, err := res.Resolve(r)
	if err != nil {
		return p, err
	}
	p.req = parsed
	p.parsed = true
	return p, nil
}

// Request returns the request to dispatch: the parsed substitute when one was
// produced, the original otherwise.
func (p *Part) Request() *http.Request {
	return p.req
}

// Parsed reports whether Wrap substituted a parsed request that this Part owns.
func (p *Part) Parsed() bool {
	return p.parsed
}

// Release cleans up the parsed request. Only the first call does any work.
func (p *Part) Release() error {
	p.once.Do(func() {
		if p.parsed {
			p.err = p.resolver.Cleanup(p.req)
		}
	})
	return p.err
}
