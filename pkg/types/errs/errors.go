package errs

import "errors"

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrObjectNotFound    = errors.New("object not found")
	ErrInvalidImage      = errors.New("invalid image")
	ErrInvalidTransition = errors.New("invalid status transition")
)
