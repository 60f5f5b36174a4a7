package assets

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/fzipp/bmfont"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/spaghettifunk/lumen/engine/core"
)

/**
 * @brief A single rasterized character.
 */
type Glyph struct {
	/** @brief The rune the glyph was rasterized for. */
	Rune rune
	/** @brief The bitmap width in pixels. */
	Width uint32
	/** @brief The bitmap height in pixels. */
	Height uint32
	/** @brief Horizontal distance from the pen position to the left edge of the bitmap. */
	Left int32
	/** @brief Vertical distance from the baseline up to the top edge of the bitmap. */
	Top int32
	/** @brief How far the pen moves after this glyph, in 1/64 pixel units. */
	Advance fixed.Int26_6
	/** @brief Width*Height coverage values, rows top to bottom. */
	Coverage []uint8
}

// GlyphRasterizer turns runes into coverage bitmaps at a fixed pixel size.
type GlyphRasterizer interface {
	Rasterize(ch rune) (*Glyph, error)
	PixelSize() uint32
	Close() error
}

// TrueTypeRasterizer rasterizes TrueType and OpenType outlines on demand.
type TrueTypeRasterizer struct {
	face font.Face
	size uint32
}

// NewTrueTypeRasterizer parses font data at the given pixel size. Nil data selects the
// built-in Go Regular face.
func NewTrueTypeRasterizer(data []byte, pixelSize uint32) (*TrueTypeRasterizer, error) {
	if data == nil {
		data = goregular.TTF
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	// at 72 DPI one point is one pixel
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(pixelSize),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return &TrueTypeRasterizer{face: face, size: pixelSize}, nil
}

func LoadTrueTypeRasterizer(path string, pixelSize uint32) (*TrueTypeRasterizer, error) {
	if path == "" {
		return NewTrueTypeRasterizer(nil, pixelSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		core.LogError("could not load font: %s", path)
		return nil, err
	}
	return NewTrueTypeRasterizer(data, pixelSize)
}

func (t *TrueTypeRasterizer) Rasterize(ch rune) (*Glyph, error) {
	dr, mask, maskp, advance, ok := t.face.Glyph(fixed.Point26_6{}, ch)
	if !ok {
		return nil, fmt.Errorf("'%c': %w", ch, core.ErrGlyphNotFound)
	}
	g := &Glyph{
		Rune:    ch,
		Width:   uint32(dr.Dx()),
		Height:  uint32(dr.Dy()),
		Left:    int32(dr.Min.X),
		Top:     int32(-dr.Min.Y),
		Advance: advance,
	}
	g.Coverage = coverage(mask, maskp, dr.Dx(), dr.Dy())
	return g, nil
}

func (t *TrueTypeRasterizer) PixelSize() uint32 {
	return t.size
}

func (t *TrueTypeRasterizer) Close() error {
	return t.face.Close()
}

// coverage copies a width x height window of mask alpha starting at origin.
func coverage(mask image.Image, origin image.Point, width, height int) []uint8 {
	out := make([]uint8, width*height)
	if width == 0 || height == 0 || mask == nil {
		return out
	}
	if alpha, ok := mask.(*image.Alpha); ok {
		for y := 0; y < height; y++ {
			start := alpha.PixOffset(origin.X, origin.Y+y)
			copy(out[y*width:(y+1)*width], alpha.Pix[start:start+width])
		}
		return out
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			_, _, _, a := mask.At(origin.X+x, origin.Y+y).RGBA()
			out[y*width+x] = uint8(a >> 8)
		}
	}
	return out
}

type bitmapChar struct {
	x, y, width, height int
	xOffset, yOffset    int
	xAdvance            int
	page                int
}

// BitmapFontRasterizer crops pre-rendered glyphs out of AngelCode BMFont page sheets.
type BitmapFontRasterizer struct {
	chars map[rune]bitmapChar
	pages map[int]*image.NRGBA
	base  int
	size  uint32
}

func LoadBitmapFontRasterizer(path string) (*BitmapFontRasterizer, error) {
	f, err := bmfont.Load(path)
	if err != nil {
		core.LogError("could not load bitmap font: %s", path)
		return nil, err
	}
	d := f.Descriptor
	// a negative size means the size matches the cell height
	size := int(d.Info.Size)
	if size < 0 {
		size = -size
	}
	r := &BitmapFontRasterizer{
		chars: make(map[rune]bitmapChar, len(d.Chars)),
		pages: make(map[int]*image.NRGBA, len(d.Pages)),
		base:  int(d.Common.Base),
		size:  uint32(size),
	}
	for _, c := range d.Chars {
		r.chars[rune(c.ID)] = bitmapChar{
			x:        int(c.X),
			y:        int(c.Y),
			width:    int(c.Width),
			height:   int(c.Height),
			xOffset:  int(c.XOffset),
			yOffset:  int(c.YOffset),
			xAdvance: int(c.XAdvance),
			page:     int(c.Page),
		}
	}
	dir := filepath.Dir(path)
	for _, p := range d.Pages {
		sheet, err := loadPageSheet(filepath.Join(dir, p.File))
		if err != nil {
			core.LogError("could not load bitmap font page %s: %s", p.File, err)
			return nil, err
		}
		r.pages[int(p.ID)] = sheet
	}
	return r, nil
}

func loadPageSheet(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	b := src.Bounds()
	sheet := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(sheet, sheet.Bounds(), src, b.Min, draw.Src)
	return sheet, nil
}

func (r *BitmapFontRasterizer) Rasterize(ch rune) (*Glyph, error) {
	c, ok := r.chars[ch]
	if !ok {
		return nil, fmt.Errorf("'%c': %w", ch, core.ErrGlyphNotFound)
	}
	sheet, ok := r.pages[c.page]
	if !ok {
		return nil, fmt.Errorf("'%c' lives on missing page %d: %w", ch, c.page, core.ErrGlyphNotFound)
	}
	g := &Glyph{
		Rune:     ch,
		Width:    uint32(c.width),
		Height:   uint32(c.height),
		Left:     int32(c.xOffset),
		Top:      int32(r.base - c.yOffset),
		Advance:  fixed.I(c.xAdvance),
		Coverage: make([]uint8, c.width*c.height),
	}
	opaque := sheet.Opaque()
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			px := sheet.NRGBAAt(c.x+x, c.y+y)
			// sheets exported without alpha store coverage as luminance
			if opaque {
				g.Coverage[y*c.width+x] = px.R
			} else {
				g.Coverage[y*c.width+x] = px.A
			}
		}
	}
	return g, nil
}

func (r *BitmapFontRasterizer) PixelSize() uint32 {
	return r.size
}

func (r *BitmapFontRasterizer) Close() error {
	return nil
}
