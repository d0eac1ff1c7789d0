package compositor

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"statcard/internal/card"
)

const (
	maxImageBytes  = 20 << 20
	maxImagePixels = 24_000_000
)

var (
	ErrNotImage      = errors.New("file is not a supported image")
	ErrImageTooLarge = errors.New("image too large")
	ErrBadDataURI    = errors.New("malformed image data URI")
)

// LoadImage reads a user-supplied file into a background image held as a
// data URI.
func LoadImage(path string) (card.BackgroundImage, error) {
	info, err := os.Stat(path)
	if err != nil {
		return card.BackgroundImage{}, err
	}
	if info.IsDir() {
		return card.BackgroundImage{}, fmt.Errorf("%s: %w", path, ErrNotImage)
	}
	if info.Size() > maxImageBytes {
		return card.BackgroundImage{}, fmt.Errorf("%s is %d bytes: %w", path, info.Size(), ErrImageTooLarge)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return card.BackgroundImage{}, err
	}
	return ImportImage(data)
}

// ImportImage validates data as an image and wraps it in a data URI.
func ImportImage(data []byte) (card.BackgroundImage, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return card.BackgroundImage{}, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	if px := int64(cfg.Width) * int64(cfg.Height); px > maxImagePixels {
		return card.BackgroundImage{}, fmt.Errorf("%dx%d pixels: %w", cfg.Width, cfg.Height, ErrImageTooLarge)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return card.BackgroundImage{}, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	b := img.Bounds()
	if b.Empty() {
		return card.BackgroundImage{}, fmt.Errorf("%w: empty bounds", ErrNotImage)
	}
	return card.BackgroundImage{
		DataURI: "data:image/" + format + ";base64," + base64.StdEncoding.EncodeToString(data),
		Width:   b.Dx(),
		Height:  b.Dy(),
	}, nil
}

// DecodeDataURI turns a base64 image data URI back into pixels.
func DecodeDataURI(uri string) (image.Image, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, ErrBadDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, ErrBadDataURI
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDataURI, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}
