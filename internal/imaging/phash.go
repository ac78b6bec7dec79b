package imaging

import (
	"image"
	"strings"

	"golang.org/x/image/draw"
)

const hashGrid = 8

// PerceptualHashLength is the length of the bit string PerceptualHash returns.
const PerceptualHashLength = hashGrid * hashGrid

// PerceptualHash downsamples raw to an 8x8 grid and emits one bit per cell in raster order:
// 1 when the cell's mean channel brightness is at least the grid mean, 0 otherwise.
func PerceptualHash(raw []byte) (string, error) {
	src, err := Decode(raw)
	if err != nil {
		return "", err
	}
	return PerceptualHashImage(src), nil
}

// PerceptualHashImage hashes an already decoded image.
func PerceptualHashImage(src image.Image) string {
	grid := image.NewNRGBA(image.Rect(0, 0, hashGrid, hashGrid))
	draw.ApproxBiLinear.Scale(grid, grid.Bounds(), src, src.Bounds(), draw.Src, nil)

	brightness := make([]int, 0, PerceptualHashLength)
	total := 0
	for i := 0; i < len(grid.Pix); i += 4 {
		v := (int(grid.Pix[i]) + int(grid.Pix[i+1]) + int(grid.Pix[i+2])) / 3
		brightness = append(brightness, v)
		total += v
	}

	avg := float64(total) / PerceptualHashLength
	var sb strings.Builder
	sb.Grow(PerceptualHashLength)
	for _, v := range brightness {
		if float64(v) >= avg {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// IsPerceptualHash reports whether s looks like a value produced by PerceptualHash.
func IsPerceptualHash(s string) bool {
	if len(s) != PerceptualHashLength {
		return false
	}
	return strings.Trim(s, "01") == ""
}
