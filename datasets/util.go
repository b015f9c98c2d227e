package datasets

import (
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// parseAngle parses a decimal label. Values too large for a float64 become
// ±Inf. Hexadecimal floats are rejected.
func parseAngle(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty string")
	}
	digits := strings.TrimLeft(s, "+-")
	if len(digits) > 1 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		return 0, errors.Errorf("hexadecimal value %q", s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, err
	}
	return v, nil
}

// toRGB copies img into an opaque 8-bit RGB buffer. The alpha channel is
// dropped and the straight (non-premultiplied) color values are kept.
func toRGB(img image.Image) *image.NRGBA {
	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}

// blankImage returns an opaque black width x height image.
func blankImage(width, height int) *image.NRGBA {
	return imaging.New(width, height, color.NRGBA{A: 255})
}
