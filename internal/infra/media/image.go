package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"math"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const jpegQuality = 85

// NormalizeImage returns image bytes no larger than maxBytes. Payloads already
// under the limit pass through untouched; oversized ones are decoded,
// downscaled and re-encoded as JPEG, halving dimensions until they fit.
func NormalizeImage(data []byte, maxBytes int) ([]byte, error) {
	if maxBytes <= 0 || len(data) <= maxBytes {
		return data, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	// First guess: scale area proportionally to the byte overshoot.
	factor := math.Sqrt(float64(maxBytes) / float64(len(data)))
	if factor > 0.9 {
		factor = 0.9
	}

	for {
		w := int(float64(img.Bounds().Dx()) * factor)
		h := int(float64(img.Bounds().Dy()) * factor)
		if w < 64 || h < 64 {
			return nil, fmt.Errorf("image cannot be reduced under %d bytes", maxBytes)
		}

		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, fmt.Errorf("encode image: %w", err)
		}
		if buf.Len() <= maxBytes {
			return buf.Bytes(), nil
		}
		factor *= 0.7
	}
}
