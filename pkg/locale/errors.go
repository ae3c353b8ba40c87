package locale

import "errors"

var (
	ErrEmptyCode    = errors.New("locale: code cannot be empty")
	ErrInvalidFile  = errors.New("locale: invalid bundle file")
	ErrInvalidValue = errors.New("locale: invalid bundle value")
	ErrNotFound     = errors.New("locale: bundle not found")
)
