// Package ascii converts raster images to coloured character art.
package ascii

import (
	"fmt"
	"image"
	"math"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"github.com/nfnt/resize"
	"golang.org/x/term"

	"github.com/shuheykoyama/tnap/internal/errors"
	"github.com/shuheykoyama/tnap/internal/imageio"
	"github.com/shuheykoyama/tnap/internal/slides"
)

// RowScale compensates for character cells being about twice as tall as
// they are wide.
const RowScale = 0.380025

// DefaultRamp orders glyphs from darkest to brightest.
const DefaultRamp = " .:-=+*#%@"

// Converter turns images into text blocks. It holds no per-image state.
type Converter struct {
	profile termenv.Profile
	ramp    []rune
	filter  resize.InterpolationFunction
	size    func() (int, int, error)
}

// Option configures a Converter.
type Option func(*Converter)

// WithProfile sets the colour profile. termenv.Ascii disables colour.
func WithProfile(p termenv.Profile) Option {
	return func(c *Converter) { c.profile = p }
}

// WithRamp replaces the glyph ramp.
func WithRamp(ramp string) Option {
	return func(c *Converter) {
		if r := []rune(ramp); len(r) > 0 {
			c.ramp = r
		}
	}
}

// WithFilter sets the resampling filter.
func WithFilter(f resize.InterpolationFunction) Option {
	return func(c *Converter) { c.filter = f }
}

// NewConverter returns a converter using the terminal's colour profile.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		profile: termenv.ColorProfile(),
		ramp:    []rune(DefaultRamp),
		filter:  resize.Lanczos3,
		size: func() (int, int, error) {
			return term.GetSize(int(os.Stdout.Fd()))
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TargetSize returns the character grid used for an imgW×imgH image in a
// cols×rows terminal area. The width is twice the shorter side of the area,
// the height follows the aspect ratio scaled by RowScale, and both are clamped
// to the area.
func TargetSize(imgW, imgH, cols, rows int) (int, int) {
	if imgW <= 0 || imgH <= 0 || cols <= 0 || rows <= 0 {
		return 0, 0
	}
	ratio := float64(imgH) / float64(imgW) * RowScale

	width := min(cols, rows) * 2
	if width > cols {
		width = cols
	}
	height := int(math.Round(float64(width) * ratio))
	if height > rows {
		height = rows
		width = int(math.Round(float64(height) / ratio))
		if width > cols {
			width = cols
		}
	}
	return max(width, 1), max(height, 1)
}

// Convert decodes item and renders it into at most cols×rows characters.
// A non-positive area falls back to the size of the controlling terminal.
func (c *Converter) Convert(item slides.Item, cols, rows int) (string, error) {
	if cols <= 0 || rows <= 0 {
		w, h, err := c.size()
		if err != nil {
			return "", errors.NewRenderError("query terminal size", item.Path(), errors.ConversionFailed, err)
		}
		cols, rows = w, h
	}

	img, err := imageio.Decode(item)
	if err != nil {
		return "", err
	}
	out, err := c.ConvertImage(img, cols, rows)
	if err != nil {
		return "", errors.NewRenderError("convert to ascii", item.Path(), errors.ConversionFailed, err)
	}
	return out, nil
}

// ConvertImage renders an already decoded image.
func (c *Converter) ConvertImage(img image.Image, cols, rows int) (string, error) {
	b := img.Bounds()
	width, height := TargetSize(b.Dx(), b.Dy(), cols, rows)
	if width == 0 || height == 0 {
		return "", fmt.Errorf("cannot fit %dx%d image into %dx%d cells", b.Dx(), b.Dy(), cols, rows)
	}

	scaled := resize.Resize(uint(width), uint(height), img, c.filter)
	sb := scaled.Bounds()

	var out strings.Builder
	out.Grow(width * height * 2)
	for y := sb.Min.Y; y < sb.Max.Y; y++ {
		if y > sb.Min.Y {
			out.WriteByte('\n')
		}
		for x := sb.Min.X; x < sb.Max.X; x++ {
			r, g, bl, _ := scaled.At(x, y).RGBA()
			glyph := string(c.glyph(r, g, bl))
			if c.profile == termenv.Ascii {
				out.WriteString(glyph)
				continue
			}
			hex := fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, bl>>8)
			out.WriteString(c.profile.String(glyph).Foreground(c.profile.Color(hex)).String())
		}
	}
	return out.String(), nil
}

func (c *Converter) glyph(r, g, b uint32) rune {
	lum := (0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)) / 0xffff
	idx := int(math.Round(lum * float64(len(c.ramp)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(c.ramp) {
		idx = len(c.ramp) - 1
	}
	return c.ramp[idx]
}
