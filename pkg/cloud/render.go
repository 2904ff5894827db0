package cloud

import (
	"bytes"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"

	"github.com/webHikari/telegram-word-cloud/pkg/data"
)

// Render draws the placements onto a fresh canvas and encodes it as PNG.
func (r *Renderer) Render(placed []Placement) ([]byte, error) {
	if len(placed) == 0 {
		return nil, errors.New("nothing to draw")
	}

	dc := gg.NewContext(r.width, r.height)
	dc.SetHexColor(background)
	dc.Clear()

	dc.SetHexColor(foreground)
	for _, p := range placed {
		face := r.face(p.FontSize)
		dc.SetFontFace(face)
		dc.DrawString(p.Word, p.X, p.Y+r.ascent(p.FontSize))
		face.Close()
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); nil != err {
		return nil, errors.Wrap(err, "unable to encode png")
	}
	return buf.Bytes(), nil
}

// CloudPNG lays out and renders the ranked words in one call.
func (r *Renderer) CloudPNG(words []data.WordCount) ([]byte, error) {
	return r.Render(r.Layout(words))
}
