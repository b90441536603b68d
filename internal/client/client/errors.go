package client

import "errors"

var (
	ErrUnavailable = errors.New("server unavailable")
	ErrBadStatus   = errors.New("unexpected status")
	ErrNoGrant     = errors.New("presign response has no usable grant")
	ErrNoReference = errors.New("upload response has no path")
)
