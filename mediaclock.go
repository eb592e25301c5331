package visage

// MediaClock reports the playback position driving the animation. The
// engine itself is caller-driven (Session.Update takes a timestamp); this
// abstraction exists for drivers that poll a media source each display
// frame. The audioclock subpackage provides an implementation backed by
// real audio playback.
type MediaClock interface {
	// PositionMs returns the current playback position in milliseconds.
	PositionMs() float64
	// Playing reports whether media is actively advancing.
	Playing() bool
}

// ManualClock is a MediaClock advanced explicitly. Used by tests and by
// hosts that derive time from their own frame loop.
type ManualClock struct {
	pos     float64
	playing bool
}

// Play starts the clock advancing.
func (c *ManualClock) Play() { c.playing = true }

// Pause stops the clock.
func (c *ManualClock) Pause() { c.playing = false }

// Seek jumps to a position in milliseconds.
func (c *ManualClock) Seek(ms float64) { c.pos = ms }

// Advance moves the clock forward by dt seconds while playing.
func (c *ManualClock) Advance(dt float64) {
	if c.playing {
		c.pos += dt * 1000
	}
}

// PositionMs returns the current position in milliseconds.
func (c *ManualClock) PositionMs() float64 { return c.pos }

// Playing reports whether the clock is advancing.
func (c *ManualClock) Playing() bool { return c.playing }
