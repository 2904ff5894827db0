package cloud

import (
	"math"
	"sort"

	"github.com/webHikari/telegram-word-cloud/pkg/data"
)

// Layout places the words on the canvas without overlap, walking an
// Archimedean spiral outward from the center for each word until a free
// position is found. Words are processed most frequent first, equal
// frequencies keep their input order. A word whose spiral search runs past
// the canvas bound is skipped rather than forced onto a saturated canvas.
func (r *Renderer) Layout(words []data.WordCount) []Placement {
	total := 0
	for _, wc := range words {
		total += wc.Freq
	}
	if total <= 0 {
		return nil
	}

	ranked := make([]data.WordCount, len(words))
	copy(ranked, words)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Freq > ranked[j].Freq
	})

	bound := math.Max(float64(r.width), float64(r.height))
	centerX := float64(r.width) / 2
	centerY := float64(r.height) / 2

	placed := make([]Placement, 0, len(ranked))
	for _, wc := range ranked {
		size := float64(wc.Freq) / float64(total) * fontScale
		if size > float64(r.height) {
			// a single dominant word would otherwise produce a box that
			// can never be placed
			size = float64(r.height)
		}
		width, height := r.measure(wc.Word, size)

		angle, radius := 0.0, 0.0
		for {
			x := centerX + radius*math.Cos(angle) - width/2
			y := centerY + radius*math.Sin(angle) - height/2
			if !intersects(placed, x, y, width, height) {
				placed = append(placed, Placement{
					Word:     wc.Word,
					X:        x,
					Y:        y,
					Width:    width,
					Height:   height,
					FontSize: size,
				})
				break
			}
			angle += angleStep
			radius += radiusStep
			if radius > bound {
				break
			}
		}
	}
	return placed
}

func intersects(placed []Placement, x, y, width, height float64) bool {
	for _, p := range placed {
		if x < p.X+p.Width &&
			x+width > p.X &&
			y < p.Y+p.Height &&
			y+height > p.Y {
			return true
		}
	}
	return false
}
