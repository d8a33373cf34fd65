package client

import "errors"

var (
	ErrUnavailable    = errors.New("record service unavailable")
	ErrUnsupportedDSN = errors.New("unsupported records DSN")
)
