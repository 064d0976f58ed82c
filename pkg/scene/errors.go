package scene

import "errors"

var (
	// ErrUnknownScene is returned when a scene name is not registered.
	ErrUnknownScene = errors.New("scene: unknown scene")

	// ErrInvalidMesh is returned by Preprocess when a triangle references a
	// vertex that does not exist.
	ErrInvalidMesh = errors.New("scene: invalid mesh")

	// ErrNoSuchLight is returned when removing a light index that does not exist.
	ErrNoSuchLight = errors.New("scene: no such light")
)
