package processing

import (
	"encoding/base64"
	"fmt"
	"image"
	"image/gif"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/menta2k/ui-analyzer/pkg/types"
)

// Processor handles image loading, encoding and saving.
type Processor struct{}

// NewProcessor creates a new image processor
func NewProcessor() *Processor {
	return &Processor{}
}

// mediaTypes maps lower-cased file extensions (without dot) to the MIME
// type sent to the model. Unknown extensions default to JPEG.
var mediaTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// MediaTypeForPath infers the MIME type of an image file from its
// extension, defaulting to image/jpeg when unrecognized.
func MediaTypeForPath(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if mt, ok := mediaTypes[ext]; ok {
		return mt
	}
	return "image/jpeg"
}

// EncodeImageFile reads an image file and returns its base64-encoded
// bytes together with the inferred media type. The file contents are
// passed through untouched; no re-encoding happens here.
func (p *Processor) EncodeImageFile(path string) (types.EncodedImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.EncodedImage{}, fmt.Errorf("failed to read image file: %w", err)
	}
	return types.EncodedImage{
		MediaType: MediaTypeForPath(path),
		Data:      base64.StdEncoding.EncodeToString(data),
	}, nil
}

// LoadImage loads an image from a file path with WebP support
func (p *Processor) LoadImage(path string) (image.Image, error) {
	// Try imaging.Open (registered decoders)
	if img, err := imaging.Open(path); err == nil {
		return img, nil
	}

	// Fallback: explicit WebP decode
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".webp") {
		if img, err := webp.Decode(f); err == nil {
			return img, nil
		}
	}
	if _, err := f.Seek(0, 0); err == nil {
		if img, _, err := image.Decode(f); err == nil {
			return img, nil
		}
	}
	return nil, fmt.Errorf("image: unknown format for %s", path)
}

// SaveImage saves an image, choosing the encoder from the destination
// extension (jpg/jpeg, png, gif, webp).
func (p *Processor) SaveImage(img image.Image, path string) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "webp":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return webp.Encode(f, img, &webp.Options{Quality: 90})
	case "gif":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return gif.Encode(f, img, nil)
	case "png":
		return imaging.Save(img, path)
	case "jpg", "jpeg":
		return imaging.Save(img, path, imaging.JPEGQuality(90))
	default:
		return fmt.Errorf("unsupported output format: %s", ext)
	}
}
