package provider

import (
	"bytes"
	"fmt"
	"image"
	"net/http"

	"github.com/aussiebroadwan/verity/pkg/cryptox"
	"github.com/disintegration/imaging"
)

const (
	// MaxImageDimension bounds the longest edge of images sent to providers.
	MaxImageDimension = 2048

	// MaxImagePixels bounds the decoded size of an upload. The header is
	// checked before any pixel data is decoded.
	MaxImagePixels = 50_000_000
)

// DecodeImage validates an uploaded capture and bounds its size. Oversized
// images are scaled down and re-encoded as JPEG.
func DecodeImage(data []byte) (Image, error) {
	contentType := http.DetectContentType(data)
	format, err := imaging.FormatFromExtension(extensionFor(contentType))
	if err != nil {
		return Image{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, contentType)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return Image{}, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	b := img.Bounds()
	if b.Dx() > MaxImageDimension || b.Dy() > MaxImageDimension {
		img = imaging.Fit(img, MaxImageDimension, MaxImageDimension, imaging.Lanczos)

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.JPEG); err != nil {
			return Image{}, fmt.Errorf("re-encode image: %w", err)
		}
		data = buf.Bytes()
		contentType = "image/jpeg"
		b = img.Bounds()
	} else if format != imaging.JPEG && format != imaging.PNG {
		// providers only accept jpeg/png
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return Image{}, fmt.Errorf("re-encode image: %w", err)
		}
		data = buf.Bytes()
		contentType = "image/png"
	}

	return Image{
		Data:        data,
		ContentType: contentType,
		Width:       b.Dx(),
		Height:      b.Dy(),
		Digest:      cryptox.Digest(data),
	}, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/bmp":
		return ".bmp"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
