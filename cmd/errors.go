package cmd

import "errors"

var (
	// ErrMissingScene is returned when a command needs a scene argument.
	ErrMissingScene = errors.New("missing scene argument")

	// ErrInvalidTransform is returned for a malformed --transform value.
	ErrInvalidTransform = errors.New("invalid transform")

	// ErrUnsupportedOutput is returned for output files that are neither
	// .bmp nor .png.
	ErrUnsupportedOutput = errors.New("unsupported output format")

	// ErrBVHMismatch is returned when BVH verification finds rays whose
	// nearest hit differs from the linear search.
	ErrBVHMismatch = errors.New("bvh and linear search disagree")

	// ErrInvalidRenderFlag is returned for render flags out of range, such
	// as a non-positive width.
	ErrInvalidRenderFlag = errors.New("invalid render flag")

	// ErrInvalidPort is returned for a --port outside 0-65535.
	ErrInvalidPort = errors.New("invalid port")
)
