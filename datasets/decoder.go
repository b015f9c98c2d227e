package datasets

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decoder turns an image file into a decoded image.
type Decoder interface {
	Decode(path string) (image.Image, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(path string) (image.Image, error)

// Decode implements Decoder.
func (f DecoderFunc) Decode(path string) (image.Image, error) { return f(path) }

// FileDecoder decodes any format registered with the image package: JPEG,
// PNG and GIF from the standard library, BMP, TIFF and WebP from x/image.
// The EXIF orientation of JPEG files is applied, as OpenCV's imread does.
type FileDecoder struct{}

// Decode implements Decoder. The file is always closed before returning.
func (FileDecoder) Decode(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", path)
	}
	return img, nil
}
