package multipart

import "errors"

var (
	// ErrParse wraps any failure to parse a multipart request body.
	ErrParse = errors.New("multipart: failed to parse request")

	// ErrTooLarge is joined with ErrParse when the body exceeds the upload limit.
	ErrTooLarge = errors.New("multipart: request body too large")
)
