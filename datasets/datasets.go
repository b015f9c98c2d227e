// Package datasets loads steering-angle training data described by a plain
// text manifest and presents it as examples suitable for model training.
//
// The manifest for a given mode lives at <data folder>/<mode>.txt and holds one
// sample per line:
//
//	images/000123.jpg  0.35
//	/abs/path/b.jpg   -0.1
//
// The dataset uses lazy loading: it stores resolved image paths and angles at
// construction time and only decodes an image when an example is requested.
// An image that cannot be decoded is replaced by a blank image with angle 0,
// so a single bad file never aborts a training epoch.
//
// Layout and intended usage:
//
// ManifestDataset
//   - Parses <data folder>/<mode>.txt once, in NewManifestDataset.
//   - Item(i) returns the processed image and a [1] float32 gomlx tensor
//     holding the angle.
//   - Example(i) additionally converts the image into a [H, W, 3] tensor.
//
// Batching and shuffling are left to the consumer; see package loader for a
// gomlx train.Dataset that does both.
package datasets

import (
	"image"

	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// Dataset is the random-access view of a steering dataset. ManifestDataset
// implements it and loader.New accepts it.
type Dataset interface {
	Len() int
	Item(i int) (Sample, error)
	Example(i int) (img *tensors.Tensor, label *tensors.Tensor, err error)
}

// Sample is one processed example.
type Sample struct {
	// Path is the resolved image path of the manifest entry.
	Path string

	// Image is the decoded RGB image after the transform was applied.
	Image image.Image

	// Label is a float32 tensor shaped [1] holding the steering angle.
	Label *tensors.Tensor

	// Fallback is set when the image could not be loaded and Image/Label
	// hold the blank substitute instead.
	Fallback bool
}

// Angle returns the scalar value stored in Label.
func (s Sample) Angle() float32 {
	if s.Label == nil {
		return 0
	}
	values, ok := s.Label.Value().([]float32)
	if !ok || len(values) == 0 {
		return 0
	}
	return values[0]
}
