package datasets

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// Transform processes one decoded RGB image. Implementations are called from
// multiple goroutines when a loader fetches items concurrently.
type Transform interface {
	Apply(img image.Image) (image.Image, error)
}

// TransformFunc adapts a function to the Transform interface.
type TransformFunc func(img image.Image) (image.Image, error)

// Apply implements Transform.
func (f TransformFunc) Apply(img image.Image) (image.Image, error) { return f(img) }

type identity struct{}

func (identity) Apply(img image.Image) (image.Image, error) { return img, nil }

// Identity returns the transform that leaves images untouched.
func Identity() Transform { return identity{} }

// Compose chains transforms, applying them in order.
func Compose(ts ...Transform) Transform {
	return TransformFunc(func(img image.Image) (image.Image, error) {
		var err error
		for _, t := range ts {
			if img, err = t.Apply(img); err != nil {
				return nil, err
			}
		}
		return img, nil
	})
}

// Resize scales images to exactly width x height.
func Resize(width, height int) Transform {
	return TransformFunc(func(img image.Image) (image.Image, error) {
		if width <= 0 || height <= 0 {
			return nil, errors.Errorf("invalid resize target %dx%d", width, height)
		}
		return imaging.Resize(img, width, height, imaging.Lanczos), nil
	})
}

// ResizeWithPadding scales images to fit width x height without changing the
// aspect ratio, centering them on a transparent background.
func ResizeWithPadding(width, height int) Transform {
	return TransformFunc(func(img image.Image) (image.Image, error) {
		if width <= 0 || height <= 0 {
			return nil, errors.Errorf("invalid resize target %dx%d", width, height)
		}
		size := img.Bounds().Size()
		if size.X == 0 || size.Y == 0 {
			return nil, errors.New("cannot resize an empty image")
		}
		wRatio := float64(width) / float64(size.X)
		hRatio := float64(height) / float64(size.Y)

		adjustedWidth, adjustedHeight := width, height
		if wRatio < hRatio {
			adjustedHeight = int(wRatio * float64(size.Y))
		} else if hRatio < wRatio {
			adjustedWidth = int(hRatio * float64(size.X))
		}
		img = imaging.Resize(img, adjustedWidth, adjustedHeight, imaging.Lanczos)
		if adjustedWidth != width || adjustedHeight != height {
			bg := image.NewNRGBA(image.Rect(0, 0, width, height))
			img = imaging.PasteCenter(bg, img)
		}
		return img, nil
	})
}

// Grayscale converts images to gray while keeping three color channels.
func Grayscale() Transform {
	return TransformFunc(func(img image.Image) (image.Image, error) {
		return imaging.Grayscale(img), nil
	})
}

// CropTop drops the top rows of every image, usually sky above the horizon.
func CropTop(rows int) Transform {
	return TransformFunc(func(img image.Image) (image.Image, error) {
		b := img.Bounds()
		if rows < 0 || rows >= b.Dy() {
			return nil, errors.Errorf("cannot crop %d rows from an image %d rows high", rows, b.Dy())
		}
		return imaging.Crop(img, image.Rect(b.Min.X, b.Min.Y+rows, b.Max.X, b.Max.Y)), nil
	})
}
