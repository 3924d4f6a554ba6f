package tui

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // JPEG decoder.
	_ "image/png"  // PNG decoder.
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const upperHalfBlock = "▀"

var errNoPicture = errors.New("tui: no picture")

// pictureCache keeps the last rendered picture; decoding and downsampling
// are too slow to repeat on every frame.
type pictureCache struct {
	data []byte
	cols int
	out  string
	err  error
}

func (c *pictureCache) render(data []byte, cols int) (string, error) {
	if len(data) == 0 {
		return "", errNoPicture
	}
	if c.cols == cols && len(c.data) == len(data) && &c.data[0] == &data[0] {
		return c.out, c.err
	}
	out, err := renderHalfBlocks(data, cols)
	*c = pictureCache{data: data, cols: cols, out: out, err: err}
	return out, err
}

// renderHalfBlocks draws an encoded image cols cells wide. Each cell shows
// two stacked pixels: the foreground paints the top one and the background
// the bottom one.
func renderHalfBlocks(data []byte, cols int) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode picture: %w", err)
	}
	bounds := img.Bounds()
	if bounds.Empty() || cols <= 0 {
		return "", errNoPicture
	}
	cols = min(cols, bounds.Dx())
	rows := max(1, int(math.Round(float64(cols)*float64(bounds.Dy())/float64(bounds.Dx())/2)))
	pixelRows := rows * 2

	var b strings.Builder
	for y := 0; y < rows; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < cols; x++ {
			top := averageColor(img, cellRect(bounds, x, 2*y, cols, pixelRows))
			bottom := averageColor(img, cellRect(bounds, x, 2*y+1, cols, pixelRows))
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(hexColor(top))).
				Background(lipgloss.Color(hexColor(bottom))).
				Render(upperHalfBlock))
		}
	}
	return b.String(), nil
}

func cellRect(bounds image.Rectangle, x, y, cols, rows int) image.Rectangle {
	w, h := bounds.Dx(), bounds.Dy()
	r := image.Rect(
		bounds.Min.X+x*w/cols, bounds.Min.Y+y*h/rows,
		bounds.Min.X+(x+1)*w/cols, bounds.Min.Y+(y+1)*h/rows,
	)
	if r.Dx() == 0 {
		r.Max.X = r.Min.X + 1
	}
	if r.Dy() == 0 {
		r.Max.Y = r.Min.Y + 1
	}
	return r.Intersect(bounds)
}

// averageColor samples at most 4x4 points of r.
func averageColor(img image.Image, r image.Rectangle) color.RGBA {
	stepX := max(1, r.Dx()/4)
	stepY := max(1, r.Dy()/4)
	var sr, sg, sb, n uint64
	for y := r.Min.Y; y < r.Max.Y; y += stepY {
		for x := r.Min.X; x < r.Max.X; x += stepX {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			sr += uint64(cr >> 8)
			sg += uint64(cg >> 8)
			sb += uint64(cb >> 8)
			n++
		}
	}
	if n == 0 {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{R: uint8(sr / n), G: uint8(sg / n), B: uint8(sb / n), A: 0xff}
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
