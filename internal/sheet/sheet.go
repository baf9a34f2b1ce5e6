// Package sheet renders a frame placement into a single contact-sheet
// image: the reference frame centered on its own top row, the grid
// below it, captions underneath each cell.
package sheet

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/cwbudde/framegrid/internal/frame"
)

// CaptionHeight is the pixel height of the caption bar under each cell.
const CaptionHeight = 18

var (
	background  = color.RGBA{R: 24, G: 24, B: 24, A: 255}
	captionBack = color.RGBA{A: 180}
	captionText = color.White
)

// Options control contact-sheet geometry.
type Options struct {
	CellSize int  // square pixel area per frame
	Captions bool // draw index/loss captions under each cell
}

// DefaultOptions returns the geometry used by the CLI.
func DefaultOptions() Options {
	return Options{CellSize: 256, Captions: true}
}

func (o Options) cellHeight() int {
	if o.Captions {
		return o.CellSize + CaptionHeight
	}
	return o.CellSize
}

// Render draws a placement into an RGBA contact sheet. The reference
// occupies the centered cell of the top row; blank grid cells are left
// as background, matching the placement contract.
func Render(p *frame.Placement, opts Options) *image.RGBA {
	if opts.CellSize <= 0 {
		opts.CellSize = DefaultOptions().CellSize
	}

	cellH := opts.cellHeight()
	w := p.Cols * opts.CellSize
	h := (p.Rows + 1) * cellH

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{background}, image.Point{}, draw.Src)

	// Reference row: same column convention the original viewer used.
	refCol := p.Cols / 2
	drawCell(dst, p.Reference.Image, frame.ReferenceCaption, refCol*opts.CellSize, 0, opts)

	for _, c := range p.Cells {
		if c.Frame == nil {
			continue
		}
		x := c.Col * opts.CellSize
		y := (c.Row + 1) * cellH
		drawCell(dst, c.Frame.Image, c.Frame.Caption(), x, y, opts)
	}

	return dst
}

// drawCell scales img to fit the cell, centers it, and draws the
// caption bar underneath.
func drawCell(dst *image.RGBA, img image.Image, caption string, x, y int, opts Options) {
	size := opts.CellSize
	sb := img.Bounds()

	// Fit inside the cell preserving aspect ratio.
	tw, th := size, size
	if sb.Dx() >= sb.Dy() {
		th = sb.Dy() * size / sb.Dx()
	} else {
		tw = sb.Dx() * size / sb.Dy()
	}
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}

	ox := x + (size-tw)/2
	oy := y + (size-th)/2
	target := image.Rect(ox, oy, ox+tw, oy+th)
	xdraw.ApproxBiLinear.Scale(dst, target, img, sb, xdraw.Over, nil)

	if opts.Captions {
		drawCaption(dst, caption, x, y+size, size)
	}
}

// drawCaption draws a centered, truncated caption on a dark bar.
func drawCaption(dst *image.RGBA, text string, x, y, width int) {
	bar := image.Rect(x, y, x+width, y+CaptionHeight)
	draw.Draw(dst, bar, &image.Uniform{captionBack}, image.Point{}, draw.Over)

	face := basicfont.Face7x13
	maxWidth := width - 10
	if font.MeasureString(face, text).Ceil() > maxWidth {
		text = truncateText(text, face, maxWidth)
	}

	tw := font.MeasureString(face, text).Ceil()
	tx := x + (width-tw)/2
	ty := y + (CaptionHeight+face.Metrics().Ascent.Ceil())/2 - 1

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(captionText),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(tx * 64), Y: fixed.Int26_6(ty * 64)},
	}
	d.DrawString(text)
}

func truncateText(text string, face font.Face, maxWidth int) string {
	ellipsis := "..."
	ellipsisWidth := font.MeasureString(face, ellipsis).Ceil()
	if ellipsisWidth > maxWidth {
		return ""
	}

	for len(text) > 0 {
		if font.MeasureString(face, text).Ceil()+ellipsisWidth <= maxWidth {
			return text + ellipsis
		}
		text = text[:len(text)-1]
	}
	return ellipsis
}
