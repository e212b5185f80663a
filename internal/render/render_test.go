package render

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shuheykoyama/tnap/internal/errors"
	"github.com/shuheykoyama/tnap/internal/slides"
	"github.com/shuheykoyama/tnap/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name                   string
		imgW, imgH, cols, rows int
		wantW, wantH           int
	}{
		{"square in wide area is height bound", 100, 100, 80, 24, 48, 24},
		{"landscape fills width", 400, 100, 80, 24, 80, 10},
		{"portrait in tall area", 100, 200, 20, 60, 20, 20},
		{"empty area", 100, 100, 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := Fit(tt.imgW, tt.imgH, tt.cols, tt.rows)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestNegotiate(t *testing.T) {
	for _, name := range Protocols() {
		r, err := Negotiate(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, r.Name())
	}

	r, err := Negotiate("  Kitty ")
	require.NoError(t, err)
	assert.Equal(t, "kitty", r.Name())

	r, err = Negotiate("")
	require.NoError(t, err)
	assert.Equal(t, "auto", r.Name())

	_, err = Negotiate("vt100")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidConfig(err))
}

func TestDrawCachesPerArea(t *testing.T) {
	calls := 0
	h := &Handle{
		item:   "a.png",
		width:  100,
		height: 100,
		draw: func(cols, rows int) (string, error) {
			calls++
			return fmt.Sprintf("%dx%d", cols, rows), nil
		},
	}
	r := &TermimgRenderer{name: "halfblocks"}

	out, err := r.Draw(h, Area{Width: 80, Height: 24})
	require.NoError(t, err)
	assert.Equal(t, "48x24", out)

	out, err = r.Draw(h, Area{Width: 80, Height: 24})
	require.NoError(t, err)
	assert.Equal(t, "48x24", out)
	assert.Equal(t, 1, calls)

	out, err = r.Draw(h, Area{Width: 40, Height: 40})
	require.NoError(t, err)
	assert.Equal(t, "40x20", out)
	assert.Equal(t, 2, calls)

	_, err = r.Draw(h, Area{})
	assert.Equal(t, errors.ConversionFailed, errors.KindOf(err))
}

func TestDrawFailure(t *testing.T) {
	h := &Handle{
		item:  "a.png",
		width: 10, height: 10,
		draw: func(int, int) (string, error) { return "", fmt.Errorf("protocol unsupported") },
	}
	_, err := (&TermimgRenderer{}).Draw(h, Area{Width: 10, Height: 10})
	require.Error(t, err)
	assert.True(t, errors.IsRenderError(err))
	assert.False(t, h.drawn)
}

func TestPrepare(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WritePNG(t, dir, "a.png", 32, 16)

	r, err := Negotiate("halfblocks")
	require.NoError(t, err)

	h, err := r.Prepare(slides.Item(path))
	require.NoError(t, err)
	assert.Equal(t, slides.Item(path), h.Item())
	w, ht := h.Bounds()
	assert.Equal(t, 32, w)
	assert.Equal(t, 16, ht)

	_, err = r.Prepare(slides.Item(filepath.Join(dir, "missing.png")))
	assert.Equal(t, errors.DecodeFailed, errors.KindOf(err))
}

func TestClear(t *testing.T) {
	t.Setenv("TMUX", "")
	t.Setenv("TERM_PROGRAM", "")

	r, err := Negotiate("halfblocks")
	require.NoError(t, err)
	assert.Empty(t, r.Clear(), "halfblocks draw plain text")

	for _, name := range []string{"auto", "kitty", "sixel", "iterm2"} {
		r, err := Negotiate(name)
		require.NoError(t, err)
		seq := r.Clear()
		assert.True(t, strings.HasPrefix(seq, "\x1b_G"), name)
		assert.Contains(t, seq, "a=d", name)
		assert.True(t, strings.HasSuffix(seq, "\x1b\\"), "%s: terminated with ST", name)
	}
}
