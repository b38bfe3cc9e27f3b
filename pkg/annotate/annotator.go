package annotate

import (
	"VisionAgent/internal/entity"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	DefaultStrokeWidth = 5
	DefaultMargin      = 10
)

var (
	DefaultBoxColor    = color.NRGBA{R: 0x48, G: 0x92, B: 0xEA, A: 0xFF}
	DefaultTextColor   = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	DefaultStatusColor = color.NRGBA{R: 0xFF, G: 0xD7, B: 0x00, A: 0xFF}
	StatusOrigin       = image.Pt(10, 10)
)

type Annotator struct {
	strokeWidth int
	margin      int
	boxColor    color.NRGBA
	textColor   color.NRGBA
	statusColor color.NRGBA
	face        font.Face
}

type Option func(*Annotator)

func WithStrokeWidth(w int) Option {
	return func(a *Annotator) {
		a.strokeWidth = w
	}
}

func WithColors(box, text, status color.NRGBA) Option {
	return func(a *Annotator) {
		a.boxColor = box
		a.textColor = text
		a.statusColor = status
	}
}

func New(opts ...Option) *Annotator {
	a := &Annotator{
		strokeWidth: DefaultStrokeWidth,
		margin:      DefaultMargin,
		boxColor:    DefaultBoxColor,
		textColor:   DefaultTextColor,
		statusColor: DefaultStatusColor,
		face:        basicfont.Face7x13,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Annotate draws the status line and every detection of res onto img, in
// response order, and returns img.
func (a *Annotator) Annotate(img *image.NRGBA, dataset string, res *entity.InferenceResult) *image.NRGBA {
	if img == nil || res == nil {
		return img
	}

	a.drawText(img, StatusOrigin, fmt.Sprintf("%s | model %s", dataset, res.ModelID), a.statusColor)

	for _, det := range res.Detections {
		switch shape := det.Shape.(type) {
		case entity.Box:
			a.drawBox(img, shape)
		case entity.Polygon:
			a.drawPolyline(img, shape.Points)
		default:
			continue
		}
		a.drawLabel(img, det.Shape.TopLeft(), det.Class)
	}

	return img
}

// LabelSize is the size of the button drawn for text.
func (a *Annotator) LabelSize(text string) image.Point {
	w := font.MeasureString(a.face, text).Ceil()
	h := a.face.Metrics().Height.Ceil()
	return image.Pt(w+2*a.margin, h+2*a.margin)
}

func (a *Annotator) drawLabel(img *image.NRGBA, at image.Point, text string) {
	size := a.LabelSize(text)
	button := imaging.New(size.X, size.Y, a.boxColor)
	a.drawText(button, image.Pt(a.margin, a.margin), text, a.textColor)

	draw.Draw(img, image.Rectangle{Min: at, Max: at.Add(size)}, button, image.Point{}, draw.Over)
}

// drawText renders text with its top-left corner at origin.
func (a *Annotator) drawText(dst draw.Image, origin image.Point, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: a.face,
		Dot:  fixed.P(origin.X, origin.Y+a.face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}
