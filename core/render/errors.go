package render

import "errors"

// ErrViewNotFound is returned when no resolver knows an outcome's view name.
var ErrViewNotFound = errors.New("render: view not found")
