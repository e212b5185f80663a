// Package render draws images with the terminal's native graphics protocol.
//
// The protocol is negotiated once at startup; the chosen ImageRenderer then
// prepares each item as it is selected and draws it fitted to the area it is
// given.
package render

import (
	"strings"

	"github.com/blacktop/go-termimg"

	"github.com/shuheykoyama/tnap/internal/errors"
	"github.com/shuheykoyama/tnap/internal/imageio"
	"github.com/shuheykoyama/tnap/internal/slides"
)

// Area is a rectangle of terminal cells.
type Area struct {
	Width  int
	Height int
}

// Empty reports whether a holds no cells.
func (a Area) Empty() bool {
	return a.Width <= 0 || a.Height <= 0
}

// Handle is a prepared item. It remembers the last drawn area so redrawing
// the same item into the same area is free.
type Handle struct {
	item   slides.Item
	width  int
	height int
	draw   func(cols, rows int) (string, error)

	lastArea Area
	last     string
	drawn    bool
}

// NewHandle returns a handle for an item of width×height pixels that draw
// renders at a given cell size.
func NewHandle(item slides.Item, width, height int, draw func(cols, rows int) (string, error)) *Handle {
	return &Handle{item: item, width: width, height: height, draw: draw}
}

// Item returns the prepared item.
func (h *Handle) Item() slides.Item {
	return h.item
}

// Bounds returns the source image size in pixels.
func (h *Handle) Bounds() (width, height int) {
	return h.width, h.height
}

// ImageRenderer prepares and draws items for one terminal protocol.
type ImageRenderer interface {
	Name() string
	Prepare(item slides.Item) (*Handle, error)
	Draw(h *Handle, area Area) (string, error)
	// Clear returns the sequence that removes graphics placed by earlier
	// draws. Text written over the cells does not remove them.
	Clear() string
}

// Fit returns the cell size that fits an imgW×imgH image inside cols×rows
// while keeping its aspect ratio. Cells are taken to be twice as tall as they
// are wide. go-termimg places kitty images into exactly the cells it is given,
// so the box has to be fitted before it is handed over.
func Fit(imgW, imgH, cols, rows int) (int, int) {
	if imgW <= 0 || imgH <= 0 || cols <= 0 || rows <= 0 {
		return 0, 0
	}
	aspect := float64(imgH) / float64(imgW) / 2

	w := cols
	h := int(float64(w)*aspect + 0.5)
	if h > rows {
		h = rows
		w = int(float64(h)/aspect + 0.5)
	}
	return min(max(w, 1), cols), min(max(h, 1), rows)
}

// TermimgRenderer renders through go-termimg.
type TermimgRenderer struct {
	name     string
	protocol termimg.Protocol
}

var protocols = map[string]termimg.Protocol{
	"auto":       termimg.Auto,
	"kitty":      termimg.Kitty,
	"sixel":      termimg.Sixel,
	"iterm2":     termimg.ITerm2,
	"halfblocks": termimg.Halfblocks,
}

// Protocols lists the accepted protocol names.
func Protocols() []string {
	return []string{"auto", "kitty", "sixel", "iterm2", "halfblocks"}
}

// Negotiate returns the renderer for a protocol name. An empty name means
// "auto", which lets go-termimg detect the terminal's best protocol.
func Negotiate(name string) (*TermimgRenderer, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "auto"
	}
	p, ok := protocols[name]
	if !ok {
		return nil, errors.NewConfigError(
			"unknown image protocol "+name+" (want one of "+strings.Join(Protocols(), ", ")+")",
			"protocol", errors.InvalidConfig, nil)
	}
	return &TermimgRenderer{name: name, protocol: p}, nil
}

// Name returns the protocol name.
func (r *TermimgRenderer) Name() string {
	return r.name
}

// Prepare reads the item's header and opens it for drawing.
func (r *TermimgRenderer) Prepare(item slides.Item) (*Handle, error) {
	cfg, _, err := imageio.DecodeConfig(item)
	if err != nil {
		return nil, err
	}
	img, err := termimg.Open(item.Path())
	if err != nil {
		return nil, errors.NewRenderError("open image for terminal", item.Path(), errors.DecodeFailed, err)
	}
	return NewHandle(item, cfg.Width, cfg.Height, func(cols, rows int) (string, error) {
		return img.Scale(termimg.ScaleFit).Width(cols).Height(rows).Protocol(r.protocol).Render()
	}), nil
}

// Clear deletes every kitty placement. Halfblocks output is plain text and
// needs no clearing; sixel and iTerm2 terminals ignore the sequence.
func (r *TermimgRenderer) Clear() string {
	if r.protocol == termimg.Halfblocks {
		return ""
	}
	return clearGraphics()
}

// clearGraphics returns go-termimg's delete-all command with a complete
// string terminator.
func clearGraphics() string {
	s := termimg.ClearAllString()
	// v0.1.24 ends the APC with a bare ESC.
	if !strings.HasSuffix(s, stringTerminator) {
		s += `\`
	}
	return s
}

const stringTerminator = "\x1b\\"

// Draw renders h fitted into area.
func (r *TermimgRenderer) Draw(h *Handle, area Area) (string, error) {
	return h.Render(area)
}

// Render draws the handle fitted into area, reusing the previous output when
// area is unchanged.
func (h *Handle) Render(area Area) (string, error) {
	if h.drawn && h.lastArea == area {
		return h.last, nil
	}
	if area.Empty() {
		return "", errors.NewRenderError("draw into empty area", h.item.Path(), errors.ConversionFailed, nil)
	}
	w, ht := Fit(h.width, h.height, area.Width, area.Height)
	out, err := h.draw(w, ht)
	if err != nil {
		return "", errors.NewRenderError("render image", h.item.Path(), errors.ConversionFailed, err)
	}
	h.lastArea, h.last, h.drawn = area, out, true
	return out, nil
}
