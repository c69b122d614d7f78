package plant

import "errors"

var (
	ErrNotFound = errors.New("plant not found")
	ErrInvalid  = errors.New("invalid plant")
)
