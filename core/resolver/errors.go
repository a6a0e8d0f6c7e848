package resolver

import "errors"

var (
	// ErrInvalidRoute is returned for routes with a bad method, path or handler.
	ErrInvalidRoute = errors.New("resolver: invalid route")

	// ErrInvalidManifest is returned when a manifest fails validation.
	ErrInvalidManifest = errors.New("resolver: invalid manifest")

	// ErrUnknownName is returned when a manifest references a handler or
	// interceptor missing from the catalog.
	ErrUnknownName = errors.New("resolver: unknown name")
)
