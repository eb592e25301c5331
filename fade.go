package visage

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// loadFadeDuration is how long a freshly loaded avatar fades in.
const loadFadeDuration = 0.4

// loadFade ramps the composited frame's opacity when an avatar finishes
// loading or replaces a previous one, so swaps dissolve instead of popping.
type loadFade struct {
	tween *gween.Tween
	alpha float64
}

func newLoadFade() *loadFade {
	return &loadFade{
		tween: gween.New(0, 1, loadFadeDuration, ease.OutQuad),
	}
}

// Update advances the fade by dt seconds and returns the current alpha.
func (f *loadFade) Update(dt float64) float64 {
	if f == nil {
		return 1
	}
	if f.tween != nil {
		v, done := f.tween.Update(float32(dt))
		f.alpha = float64(v)
		if done {
			f.tween = nil
		}
	}
	return f.alpha
}

// Alpha returns the current opacity without advancing.
func (f *loadFade) Alpha() float64 {
	if f == nil {
		return 1
	}
	return f.alpha
}
