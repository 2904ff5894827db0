package cloud

import (
	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"
)

const (
	Width  = 3840
	Height = 2160

	// fontScale is tuned so the most frequent word roughly fills the canvas.
	fontScale = 8000

	angleStep  = 0.2
	radiusStep = 0.5

	background = "#171717"
	foreground = "#e5e5e5"
)

// Placement is one word's computed position and size on the canvas.
// X and Y are the top-left corner of the bounding box.
type Placement struct {
	Word     string
	X        float64
	Y        float64
	Width    float64
	Height   float64
	FontSize float64
}

// Renderer lays out and draws word clouds on a fixed-size canvas using a
// monospace face. It holds no state between calls.
type Renderer struct {
	font   *truetype.Font
	width  int
	height int
}

func NewRenderer(width, height int) (*Renderer, error) {
	f, err := truetype.Parse(gomono.TTF)
	if nil != err {
		return nil, errors.Wrap(err, "unable to parse font")
	}
	return &Renderer{font: f, width: width, height: height}, nil
}

func (r *Renderer) face(size float64) font.Face {
	return truetype.NewFace(r.font, &truetype.Options{Size: size})
}

// measure returns the rendered bounding box of the word at the given size.
func (r *Renderer) measure(word string, size float64) (width, height float64) {
	face := r.face(size)
	defer face.Close()
	metrics := face.Metrics()
	return fixedToFloat(font.MeasureString(face, word)),
		fixedToFloat(metrics.Ascent + metrics.Descent)
}

func (r *Renderer) ascent(size float64) float64 {
	face := r.face(size)
	defer face.Close()
	return fixedToFloat(face.Metrics().Ascent)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
