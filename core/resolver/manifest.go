package resolver

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/dmitrymomot/dispatch/core/handler"
)

// Manifest declares routes by name.
type Manifest struct {
	Interceptors []string        `toml:"interceptors"`
	Routes       []ManifestRoute `toml:"route"`
}

// ManifestRoute is one [[route]] table.
type ManifestRoute struct {
	Method       string   `toml:"method"`
	Path         string   `toml:"path"`
	Handler      string   `toml:"handler"`
	Interceptors []string `toml:"interceptors"`
}

// Catalog holds the named handlers and interceptors a manifest may reference.
type Catalog struct {
	Handlers     map[string]handler.Handler
	Interceptors map[string]handler.Interceptor
}

// ParseManifest decodes and validates a TOML manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadManifest reads and parses a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("resolver: read manifest: %w", err)
	}
	return ParseManifest(data)
}

var knownMethods = map[string]bool{
	http.MethodGet: true, http.MethodHead: true, http.MethodPost: true,
	http.MethodPut: true, http.MethodPatch: true, http.MethodDelete: true,
	http.MethodOptions: true, anyMethod: true, "": true,
}

// Validate checks every route for a known method, an absolute path and a
// handler name.
func (m *Manifest) Validate() error {
	if len(m.Routes) == 0 {
		return fmt.Errorf("%w: no routes defined", ErrInvalidManifest)
	}
	var errs []error
	for i, rt := range m.Routes {
		if !knownMethods[strings.ToUpper(rt.Method)] {
			errs = append(errs, fmt.Errorf("route %d: unknown method %q", i, rt.Method))
		}
		if !strings.HasPrefix(rt.Path, "/") {
			errs = append(errs, fmt.Errorf("route %d: path %q must begin with '/'", i, rt.Path))
		}
		if strings.TrimSpace(rt.Handler) == "" {
			errs = append(errs, fmt.Errorf("route %d: handler required", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidManifest, errors.Join(errs...))
	}
	return nil
}

// Build creates a route table from the manifest, resolving names in cat.
func (m *Manifest) Build(cat Catalog) (*Routes, error) {
	rt := NewRoutes()

	global, err := cat.interceptors(m.Interceptors)
	if err != nil {
		return nil, err
	}
	rt.Use(global...)

	for _, mr := range m.Routes {
		h, ok := cat.Handlers[mr.Handler]
		if !ok {
			return nil, fmt.Errorf("%w: handler %q", ErrUnknownName, mr.Handler)
		}
		ics, err := cat.interceptors(mr.Interceptors)
		if err != nil {
			return nil, err
		}
		if err := rt.Handle(mr.Method, mr.Path, h, ics...); err != nil {
			return nil, err
		}
	}
	return rt, nil
}

func (c Catalog) interceptors(names []string) ([]handler.Interceptor, error) {
	out := make([]handler.Interceptor, 0, len(names))
	for _, name := range names {
		ic, ok := c.Interceptors[name]
		if !ok {
			return nil, fmt.Errorf("%w: interceptor %q", ErrUnknownName, name)
		}
		out = append(out, ic)
	}
	return out, nil
}
