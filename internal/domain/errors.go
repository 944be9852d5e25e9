package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrForbidden           = errors.New("forbidden")
	ErrQuotaExceeded       = errors.New("quota exceeded")
	ErrInvalidTitle        = errors.New("invalid title")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
