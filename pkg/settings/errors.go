package settings

import "errors"

var (
	ErrNotFound = errors.New("settings not found")
	ErrInvalid  = errors.New("invalid settings")
)
