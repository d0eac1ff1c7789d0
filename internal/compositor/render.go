package compositor

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"statcard/internal/card"
)

// ExportScale is the pixel density of exported cards.
const ExportScale = 2.0

var ErrRender = errors.New("failed to rasterize card")

var (
	backdropTop    = color.RGBA{0x1d, 0x42, 0x8a, 0xff}
	backdropBottom = color.RGBA{0x0b, 0x0f, 0x1e, 0xff}
	shadow         = color.RGBA{0, 0, 0, 0x99}

	inkFor = map[card.ElementID]color.Color{
		card.PlayerName: color.White,
		card.GameInfo:   color.RGBA{0xd8, 0xde, 0xe9, 0xff},
		card.StatBlock:  color.RGBA{0xfd, 0xb9, 0x27, 0xff},
	}
)

// Render rasterizes c at scale times its canvas size. Panics inside the
// drawing code are returned as errors.
func Render(c *card.Card, scale float64) (img image.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = fmt.Errorf("%w: %v", ErrRender, r)
		}
	}()
	if scale <= 0 {
		return nil, fmt.Errorf("%w: scale %v", ErrRender, scale)
	}

	l := c.Layout()
	b := l.Bounds()
	w := int(float64(b.W) * scale)
	h := int(float64(b.H) * scale)

	dc := gg.NewContext(w, h)
	grad := gg.NewLinearGradient(0, 0, 0, float64(h))
	grad.AddColorStop(0, backdropTop)
	grad.AddColorStop(1, backdropBottom)
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	dc.Fill()

	dc.Scale(scale, scale)
	for _, id := range l.ZOrder() {
		if id == card.Background {
			bg, _ := l.Background()
			if err := drawBackground(dc, bg, scale); err != nil {
				return nil, fmt.Errorf("%w: background: %v", ErrRender, err)
			}
			continue
		}
		e, _ := l.Element(id)
		if err := drawElement(dc, e, scale); err != nil {
			return nil, fmt.Errorf("%w: %v: %v", ErrRender, id, err)
		}
	}
	return dc.Image(), nil
}

// drawBackground resamples only the part of the scaled background that
// lands on the canvas.
func drawBackground(dc *gg.Context, bg card.BackgroundImage, scale float64) error {
	src, err := DecodeDataURI(bg.DataURI)
	if err != nil {
		return err
	}
	sb := src.Bounds()
	size := bg.Size()
	sw := float64(size.W) * scale
	sh := float64(size.H) * scale
	if sw < 1 || sh < 1 || sb.Empty() {
		return nil
	}
	ox := float64(bg.Offset.X) * scale
	oy := float64(bg.Offset.Y) * scale
	placed := image.Rect(int(math.Floor(ox)), int(math.Floor(oy)), int(math.Ceil(ox+sw)), int(math.Ceil(oy+sh)))
	visible := placed.Intersect(image.Rect(0, 0, dc.Width(), dc.Height()))
	if visible.Empty() {
		return nil
	}

	kx := sw / float64(sb.Dx())
	ky := sh / float64(sb.Dy())
	s2d := f64.Aff3{
		kx, 0, ox - float64(visible.Min.X) - kx*float64(sb.Min.X),
		0, ky, oy - float64(visible.Min.Y) - ky*float64(sb.Min.Y),
	}
	dst := image.NewRGBA(image.Rect(0, 0, visible.Dx(), visible.Dy()))
	xdraw.CatmullRom.Transform(dst, s2d, src, sb, xdraw.Over, nil)

	// The resampled tile is already at device resolution.
	dc.Push()
	dc.Identity()
	dc.DrawImage(dst, visible.Min.X, visible.Min.Y)
	dc.Pop()
	return nil
}

func drawElement(dc *gg.Context, e card.Element, scale float64) error {
	face, err := Face(e.Style, scale)
	if err != nil {
		return err
	}
	defer face.Close()
	dc.SetFontFace(face)

	lh := e.Style.FontSize * lineSpacing
	ascent := float64(face.Metrics().Ascent.Ceil()) / scale
	for i, line := range e.VisibleLines() {
		x := float64(e.Pos.X)
		y := float64(e.Pos.Y) + float64(i)*lh + ascent
		dc.SetColor(shadow)
		dc.DrawString(line, x+2, y+2)
		dc.SetColor(inkFor[e.ID])
		dc.DrawString(line, x, y)
	}
	return nil
}
