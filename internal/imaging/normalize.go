// Package imaging re-encodes photos into the archive format and computes perceptual hashes.
package imaging

import (
	"bytes"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"math"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/totegamma/familyone/internal/domain"
)

// Decode decodes any registered image format. Failures are ImageDecodeError.
func Decode(raw []byte) (image.Image, error) {
	if len(raw) == 0 {
		return nil, domain.ImageDecodeError{Err: errors.New("empty payload")}
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, domain.ImageDecodeError{Err: err}
	}
	return img, nil
}

// FitWithin scales (width, height) down so the longer edge is at most maxEdge,
// keeping the aspect ratio. Images already within bounds are left as they are.
func FitWithin(width, height, maxEdge int) (int, int) {
	longest := max(width, height)
	if maxEdge <= 0 || longest <= maxEdge {
		return width, height
	}
	ratio := float64(maxEdge) / float64(longest)
	w := max(1, int(math.Round(float64(width)*ratio)))
	h := max(1, int(math.Round(float64(height)*ratio)))
	return w, h
}

// Normalize decodes raw, bounds it to maxEdge and re-encodes it as JPEG.
// quality is on a 0..1 scale. The output depends only on the decoded pixels,
// so the same source always produces the same bytes.
func Normalize(raw []byte, maxEdge int, quality float64) ([]byte, error) {
	src, err := Decode(raw)
	if err != nil {
		return nil, err
	}

	sb := src.Bounds()
	w, h := FitWithin(sb.Dx(), sb.Dy(), maxEdge)
	if w <= 0 || h <= 0 {
		return nil, domain.ImageDecodeError{Err: errors.New("image has no pixels")}
	}

	// JPEG has no alpha channel, so composite onto white.
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	if w == sb.Dx() && h == sb.Dy() {
		draw.Draw(dst, dst.Bounds(), src, sb.Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Over, nil)
	}

	var buf bytes.Buffer
	err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality(quality)})
	if err != nil {
		return nil, errors.Wrap(err, "jpeg encode")
	}
	return buf.Bytes(), nil
}

func jpegQuality(q float64) int {
	v := int(math.Round(q * 100))
	if v < 1 {
		return 1
	}
	if v > 100 {
		return 100
	}
	return v
}

// Validate fully decodes raw and reports whether it is a usable image.
func Validate(raw []byte) (image.Image, error) {
	img, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	if img.Bounds().Empty() {
		return nil, domain.ImageDecodeError{Err: errors.New("image has no pixels")}
	}
	return img, nil
}
