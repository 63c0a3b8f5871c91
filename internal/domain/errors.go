package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrNothingToExport   = errors.New("nothing to export")
	ErrProviderFailure   = errors.New("provider failure")
	ErrMalformedResponse = errors.New("malformed provider response")
	ErrUnsupportedImage  = errors.New("unsupported image type")
)
