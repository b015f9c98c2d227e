//go:build gocv

// OpenCV-backed decoder. It needs OpenCV installed, so it is only compiled
// with `-tags gocv`.

package datasets

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// CVDecoder reads images with OpenCV, matching imread(IMREAD_COLOR).
type CVDecoder struct{}

// Decode implements Decoder. The returned image is in RGB order: Mat.ToImage
// swaps the BGR channels of a 3-channel mat.
func (CVDecoder) Decode(path string) (image.Image, error) {
	bgr := gocv.IMRead(path, gocv.IMReadColor)
	defer bgr.Close()
	if bgr.Empty() {
		return nil, errors.Errorf("opencv could not read image %s", path)
	}

	img, err := bgr.ToImage()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to convert %s", path)
	}
	return img, nil
}
