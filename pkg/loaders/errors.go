package loaders

import "errors"

var (
	// ErrUnsupportedFormat is returned for file extensions and PLY encodings
	// the loaders do not read.
	ErrUnsupportedFormat = errors.New("loaders: unsupported format")

	// ErrMalformed is returned when a file does not match its own header.
	ErrMalformed = errors.New("loaders: malformed file")
)
