package services

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/webp" // register WebP decoding
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// ValidateImage enforces the MIME allow-list by sniffing the actual content.
// Size is not rejected here; oversized images are handled by compression.
func ValidateImage(data []byte) error {
	contentType := http.DetectContentType(data)
	if !allowedImageTypes[contentType] {
		return fmt.Errorf("unsupported image type %q", contentType)
	}
	return nil
}

type CompressOptions struct {
	MaxWidth  int
	MaxHeight int
	Quality   int // JPEG quality factor, 1-100
}

// CompressImage scales the image down proportionally if either dimension
// exceeds the configured maximum (width checked first, then height) and
// re-encodes it at the configured quality. This is a single-pass best-effort
// compression: it guarantees a dimension ceiling, not a byte-size ceiling.
//
// PNG input stays PNG; JPEG and WebP come back as JPEG since Go has no WebP
// encoder. The returned content type reflects the actual encoding.
func CompressImage(data []byte, opts CompressOptions) ([]byte, string, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	width, height := FitDimensions(
		src.Bounds().Dx(), src.Bounds().Dy(),
		opts.MaxWidth, opts.MaxHeight)

	if width != src.Bounds().Dx() || height != src.Bounds().Dy() {
		scaled := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, src.Bounds(), draw.Over, nil)
		src = scaled
	}

	var buf bytes.Buffer
	if format == "png" {
		if err := png.Encode(&buf, src); err != nil {
			return nil, "", fmt.Errorf("failed to encode image: %w", err)
		}
		return buf.Bytes(), "image/png", nil
	}

	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = jpeg.DefaultQuality
	}
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: quality}); err != nil {
		return nil, "", fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}

// FitDimensions shrinks (w, h) to fit within (maxW, maxH) preserving aspect
// ratio. Width is capped first, then the height is re-checked, matching how
// the editor preview scales. Images already within bounds are unchanged.
func FitDimensions(w, h, maxW, maxH int) (int, int) {
	if maxW > 0 && w > maxW {
		h = h * maxW / w
		w = maxW
	}
	if maxH > 0 && h > maxH {
		w = w * maxH / h
		h = maxH
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}
