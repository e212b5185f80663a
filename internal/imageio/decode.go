// Package imageio decodes slideshow items into images.
package imageio

import (
	"bufio"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/shuheykoyama/tnap/internal/errors"
	"github.com/shuheykoyama/tnap/internal/slides"
)

// Decode reads and decodes item. Any failure is a DecodeFailed render error
// carrying the item path.
func Decode(item slides.Item) (image.Image, error) {
	f, err := os.Open(item.Path())
	if err != nil {
		return nil, errors.NewRenderError("open image", item.Path(), errors.DecodeFailed, err)
	}
	defer f.Close()

	img, _, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, errors.NewRenderError("decode image", item.Path(), errors.DecodeFailed, err)
	}
	return img, nil
}

// DecodeConfig returns the dimensions of item without decoding pixel data.
func DecodeConfig(item slides.Item) (image.Config, string, error) {
	f, err := os.Open(item.Path())
	if err != nil {
		return image.Config{}, "", errors.NewRenderError("open image", item.Path(), errors.DecodeFailed, err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(bufio.NewReader(f))
	if err != nil {
		return image.Config{}, "", errors.NewRenderError("decode image header", item.Path(), errors.DecodeFailed, err)
	}
	return cfg, format, nil
}
