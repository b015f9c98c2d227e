package datasets

import "github.com/pkg/errors"

var (
	// ErrInvalidMode is returned when the mode is neither "train" nor "val".
	ErrInvalidMode = errors.New("invalid dataset mode")

	// ErrManifestNotFound is returned when <data folder>/<mode>.txt does not exist.
	ErrManifestNotFound = errors.New("manifest not found")

	// ErrMalformedLabel is returned when the angle token of a manifest line is
	// not a number.
	ErrMalformedLabel = errors.New("malformed label")

	// ErrIndexOutOfRange is returned by indexed access outside [0, Len()).
	ErrIndexOutOfRange = errors.New("index out of range")
)
