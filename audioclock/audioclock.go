// Package audioclock provides a visage.MediaClock backed by real audio
// playback through the beep speaker. Lip-sync cue timestamps are relative
// to the start of the rendered audio, so polling the playback position of
// that same audio is what keeps mouth motion glued to the sound.
package audioclock

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// speaker.Init may only run once per process; remember the rate it was
// given so a second clock with a different format is resampled.
var (
	initOnce sync.Once
	initRate beep.SampleRate
	initErr  error
)

const speakerBufferLen = 100 * time.Millisecond

// Clock plays an audio stream and reports its playback position. It is safe
// to poll from the frame loop while the speaker mixes on its own goroutine;
// position reads take the speaker lock.
type Clock struct {
	mu      sync.Mutex
	stream  beep.StreamSeeker
	format  beep.Format
	ctrl    *beep.Ctrl
	started bool
	done    bool
}

// New wraps a decoded audio stream (for example from the beep wav or mp3
// decoders) in a Clock. Playback does not begin until Start.
func New(stream beep.StreamSeeker, format beep.Format) *Clock {
	return &Clock{stream: stream, format: format}
}

// Start initializes the speaker on first use and begins playback. The
// stream plays once; Playing reports false after it drains.
func (c *Clock) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return nil
	}

	initOnce.Do(func() {
		initRate = c.format.SampleRate
		initErr = speaker.Init(initRate, initRate.N(speakerBufferLen))
	})
	if initErr != nil {
		return fmt.Errorf("audioclock: speaker init: %w", initErr)
	}

	var src beep.Streamer = c.stream
	if c.format.SampleRate != initRate {
		src = beep.Resample(4, c.format.SampleRate, initRate, src)
	}
	c.ctrl = &beep.Ctrl{Streamer: src}
	c.started = true

	speaker.Play(beep.Seq(c.ctrl, beep.Callback(func() {
		c.mu.Lock()
		c.done = true
		c.mu.Unlock()
	})))
	return nil
}

// Pause suspends playback without losing position.
func (c *Clock) Pause() {
	c.setPaused(true)
}

// Resume continues a paused clock.
func (c *Clock) Resume() {
	c.setPaused(false)
}

func (c *Clock) setPaused(paused bool) {
	c.mu.Lock()
	ctrl := c.ctrl
	c.mu.Unlock()
	if ctrl == nil {
		return
	}
	speaker.Lock()
	ctrl.Paused = paused
	speaker.Unlock()
}

// Stop halts playback and rewinds to the start.
func (c *Clock) Stop() {
	c.mu.Lock()
	ctrl := c.ctrl
	stream := c.stream
	c.done = false
	c.started = false
	c.ctrl = nil
	c.mu.Unlock()

	if ctrl != nil {
		speaker.Lock()
		ctrl.Streamer = nil
		speaker.Unlock()
	}
	speaker.Lock()
	_ = stream.Seek(0)
	speaker.Unlock()
}

// PositionMs returns the playback position in milliseconds.
func (c *Clock) PositionMs() float64 {
	speaker.Lock()
	pos := c.stream.Position()
	speaker.Unlock()
	return float64(c.format.SampleRate.D(pos)) / float64(time.Millisecond)
}

// Playing reports whether audio is actively advancing.
func (c *Clock) Playing() bool {
	c.mu.Lock()
	started, done, ctrl := c.started, c.done, c.ctrl
	c.mu.Unlock()
	if !started || done || ctrl == nil {
		return false
	}
	speaker.Lock()
	paused := ctrl.Paused
	speaker.Unlock()
	return !paused
}
