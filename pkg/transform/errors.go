package transform

import "errors"

var (
	// ErrOutOfRange is returned for table indices outside the declared dimensions.
	ErrOutOfRange = errors.New("transform: index out of range")

	// ErrInvalidLength is returned when a Haar transform is given a sequence
	// whose length is not a power of two.
	ErrInvalidLength = errors.New("transform: sequence length must be a power of two")

	// ErrInvalidLevel is returned for a Haar level outside [0, log2(length)].
	ErrInvalidLevel = errors.New("transform: invalid level")
)
