package visage

import "github.com/hajimehoshi/ebiten/v2"

// IdleSource is a playing idle-loop media source, polled by the anchor
// resolver and compositor. The engine never blocks on it: when Ready
// reports false, region resolution and base drawing silently fall back to
// the static manifest data.
//
// Video decoding is outside this engine; implementations wrap whatever
// decoder the host application uses. ImageSequence is provided for tests
// and for avatar packs shipping pre-extracted idle frames.
type IdleSource interface {
	// Ready reports whether a current frame is available.
	Ready() bool
	// CurrentTime returns the playback position in seconds.
	CurrentTime() float64
	// Frame returns the current frame image. Only valid while Ready.
	Frame() *ebiten.Image
	// Size returns the source's own pixel dimensions.
	Size() (w, h int)
}

// ImageSequence is an IdleSource over a looping list of frames at a fixed
// frame rate, advanced explicitly by the caller each tick.
type ImageSequence struct {
	frames  []*ebiten.Image
	fps     float64
	elapsed float64
	w, h    int
}

// NewImageSequence creates a looping idle source from pre-decoded frames.
// Returns nil if frames is empty or fps is not positive.
func NewImageSequence(frames []*ebiten.Image, fps float64) *ImageSequence {
	if len(frames) == 0 || fps <= 0 {
		return nil
	}
	b := frames[0].Bounds()
	return &ImageSequence{frames: frames, fps: fps, w: b.Dx(), h: b.Dy()}
}

// Advance moves playback forward by dt seconds, wrapping at the loop end.
func (s *ImageSequence) Advance(dt float64) {
	s.elapsed += dt
	loop := float64(len(s.frames)) / s.fps
	for s.elapsed >= loop {
		s.elapsed -= loop
	}
}

// Ready always reports true; the frames are already decoded.
func (s *ImageSequence) Ready() bool { return true }

// CurrentTime returns the position within the current loop in seconds.
func (s *ImageSequence) CurrentTime() float64 { return s.elapsed }

// Frame returns the frame at the current playback position.
func (s *ImageSequence) Frame() *ebiten.Image {
	idx := int(s.elapsed*s.fps) % len(s.frames)
	return s.frames[idx]
}

// Size returns the frame dimensions.
func (s *ImageSequence) Size() (int, int) { return s.w, s.h }
