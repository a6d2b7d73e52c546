// Package raster paints interpreted runs onto an image, one monospace cell
// per column.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/ddmoney420/moji/render"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	// basicfont.Face7x13 cell size.
	CellWidth  = 7
	CellHeight = 13

	tabStop = 8

	// Faint text is blended this far toward its background.
	faintBlend = 0.4

	DefaultMaxCols = 320
	DefaultMaxRows = 1000
)

var ErrTooLarge = errors.New("raster: image too large")

type Options struct {
	// Background and Foreground are CSS hex colors used where the text sets
	// none.
	Background string
	Foreground string
	// Padding around the text, in pixels.
	Padding int
	// Grid limits in cells. Zero means unbounded.
	MaxCols int
	MaxRows int
}

func DefaultOptions() Options {
	return Options{
		Background: "#0d1117",
		Foreground: "#e6edf3",
		Padding:    20,
		MaxCols:    DefaultMaxCols,
		MaxRows:    DefaultMaxRows,
	}
}

func (opt Options) fits(cols, rows int) error {
	if opt.MaxCols > 0 && cols > opt.MaxCols || opt.MaxRows > 0 && rows > opt.MaxRows {
		return fmt.Errorf("%w: %vx%v cells, limit %vx%v", ErrTooLarge, cols, rows, opt.MaxCols, opt.MaxRows)
	}
	return nil
}

// Size returns the grid size of runs in cells.
func Size(runs []render.Run) (cols, rows int) {
	col := 0
	rows = 1
	for _, r := range runs {
		for _, ru := range r.Text {
			if ru == '\n' {
				rows++
				col = 0
				continue
			}
			col = advance(col, ru)
			if col > cols {
				cols = col
			}
		}
	}
	return cols, rows
}

func advance(col int, ru rune) int {
	if ru == '\t' {
		return (col/tabStop + 1) * tabStop
	}
	return col + runewidth.RuneWidth(ru)
}

// Paint draws runs onto a new image. It fails with ErrTooLarge, before
// allocating anything, when the text exceeds the limits of opt.
func Paint(runs []render.Run, opt Options) (*image.RGBA, error) {
	cols, rows := Size(runs)
	if err := opt.fits(cols, rows); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, cols*CellWidth+opt.Padding*2, rows*CellHeight+opt.Padding*2))

	defBg := parseHex(opt.Background, colorful.Color{})
	defFg := parseHex(opt.Foreground, colorful.Color{R: 0.8, G: 0.8, B: 0.8})
	draw.Draw(img, img.Bounds(), image.NewUniform(toRGBA(defBg)), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	ascent := face.Metrics().Ascent.Ceil()

	col, row := 0, 0
	for _, r := range runs {
		fgHex, bgHex := render.ResolveColors(r.Style)
		fg := parseHex(fgHex, defFg)
		bg := parseHex(bgHex, defBg)
		if r.Style.Faint {
			fg = fg.BlendRgb(bg, faintBlend)
		}
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(toRGBA(fg)),
			Face: face,
		}

		for _, ru := range r.Text {
			if ru == '\n' {
				row++
				col = 0
				continue
			}
			next := advance(col, ru)
			if next == col {
				continue
			}
			x := opt.Padding + col*CellWidth
			y := opt.Padding + row*CellHeight
			cell := image.Rect(x, y, opt.Padding+next*CellWidth, y+CellHeight)

			if bgHex != "" {
				draw.Draw(img, cell, image.NewUniform(toRGBA(bg)), image.Point{}, draw.Src)
			}
			if ru != '\t' && ru != ' ' {
				drawGlyph(d, x, y+ascent, ru)
				if r.Style.Bold {
					drawGlyph(d, x+1, y+ascent, ru)
				}
			}
			if r.Style.Underline {
				hline(img, cell.Min.X, cell.Max.X, y+ascent+1, d.Src)
			}
			if r.Style.Strikethrough {
				hline(img, cell.Min.X, cell.Max.X, y+CellHeight/2, d.Src)
			}
			col = next
		}
	}
	return img, nil
}

// EncodePNG paints runs and writes the image as PNG.
func EncodePNG(w io.Writer, runs []render.Run, opt Options) error {
	img, err := Paint(runs, opt)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

func drawGlyph(d *font.Drawer, x, baseline int, ru rune) {
	d.Dot = fixed.Point26_6{
		X: fixed.I(x),
		Y: fixed.I(baseline),
	}
	d.DrawString(string(ru))
}

func hline(img *image.RGBA, x0, x1, y int, src image.Image) {
	draw.Draw(img, image.Rect(x0, y, x1, y+1), src, image.Point{}, draw.Src)
}

func parseHex(hex string, def colorful.Color) colorful.Color {
	if hex == "" {
		return def
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return def
	}
	return c
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
