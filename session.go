package visage

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Session owns one rendered avatar: the loaded assets, the single mutable
// AnimState, and the compositor. All methods are intended to be called from
// one goroutine, once per display frame (the ebiten update/draw loop); the
// per-tick write order is fixed (sample, interpolate, micro-motion) and the
// render path only reads.
type Session struct {
	src      AssetSource
	store    CalibrationStore
	openIdle IdleOpener

	avatar      *LoadedAvatar
	state       *AnimState
	resolver    *AnchorResolver
	comp        *Compositor
	calibration *Calibration
	fade        *loadFade

	loading bool
	loadErr error
	loadCh  chan loadResult

	idleClockMs float64

	calibrationOverlay bool
	trackingOverlay    bool

	// frame is the offscreen the avatar composites into before the fade
	// alpha is applied; overlays draw directly on the destination.
	frame *ebiten.Image
}

type loadResult struct {
	avatarID string
	avatar   *LoadedAvatar
	err      error
}

// NewSession creates a session reading avatar packs from src and
// calibration deltas from store. A nil store falls back to an in-memory
// one. openIdle may be nil when the host cannot supply idle-loop playback.
func NewSession(src AssetSource, store CalibrationStore, openIdle IdleOpener) *Session {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Session{src: src, store: store, openIdle: openIdle}
}

// LoadAvatar runs the load phase synchronously, replacing the current
// avatar on success. It blocks until every required asset is decoded or the
// load fails. Returns whether the avatar is now loaded.
func (s *Session) LoadAvatar(avatarID string) bool {
	s.loading = true
	s.loadErr = nil
	av, err := Load(s.src, avatarID, s.openIdle)
	s.finishLoad(loadResult{avatarID: avatarID, avatar: av, err: err})
	return err == nil
}

// BeginLoad starts the load phase on a background goroutine. The session
// keeps rendering its placeholder (or the previous avatar) until the load
// completes; the swap happens inside Update/Render on the frame goroutine,
// so the per-frame path never sees a half-loaded avatar. No-op while a load
// is already in flight.
func (s *Session) BeginLoad(avatarID string) {
	if s.loading {
		return
	}
	s.loading = true
	s.loadErr = nil
	ch := make(chan loadResult, 1)
	s.loadCh = ch
	go func() {
		av, err := Load(s.src, avatarID, s.openIdle)
		ch <- loadResult{avatarID: avatarID, avatar: av, err: err}
	}()
}

// pumpLoad applies a finished background load, if any.
func (s *Session) pumpLoad() {
	if s.loadCh == nil {
		return
	}
	select {
	case res := <-s.loadCh:
		s.loadCh = nil
		s.finishLoad(res)
	default:
	}
}

func (s *Session) finishLoad(res loadResult) {
	s.loading = false
	if res.err != nil {
		s.loadErr = res.err
		debugf("load %q failed: %v", res.avatarID, res.err)
		return
	}

	stored, err := s.store.Get(res.avatarID)
	if err != nil {
		// Persistence failures never block a load; the session just starts
		// from zero adjustments.
		debugf("calibration read for %q failed: %v", res.avatarID, err)
		stored = nil
	}

	s.avatar = res.avatar
	s.calibration = NewCalibration(res.avatarID, stored)
	s.state = NewAnimState()
	s.resolver = NewAnchorResolver(res.avatar.Manifest, res.avatar.Timeline, res.avatar.Idle, s.calibration)
	s.comp = NewCompositor(res.avatar, s.resolver)
	s.fade = newLoadFade()
	s.idleClockMs = 0
}

// Loaded reports whether an avatar is ready to animate.
func (s *Session) Loaded() bool {
	return s.avatar != nil
}

// Loading reports whether a load phase is in flight.
func (s *Session) Loading() bool {
	return s.loading
}

// LoadError returns the failure from the most recent load attempt, or nil.
func (s *Session) LoadError() error {
	return s.loadErr
}

// Avatar returns the currently loaded avatar, or nil.
func (s *Session) Avatar() *LoadedAvatar {
	return s.avatar
}

// State exposes the animation state for inspection. Mutate it only through
// Update and Reset.
func (s *Session) State() *AnimState {
	return s.state
}

// idleAdvancer is implemented by idle sources that are driven by the frame
// loop rather than a real media clock.
type idleAdvancer interface {
	Advance(dt float64)
}

// Update advances one animation tick. timeMs is the current playback
// position, cues and events the ordered timelines, dt the elapsed real time
// since the previous tick in seconds. All four are pure inputs supplied by
// the caller. No-op until an avatar is loaded.
func (s *Session) Update(timeMs float64, cues []MouthCue, events []EyeEvent, dt float64) {
	s.pumpLoad()
	if s.avatar == nil {
		return
	}
	m := s.avatar.Manifest

	viseme := SampleMouth(timeMs, cues, m)
	eyes := SampleEyes(timeMs, events, m)
	s.state.SetTargets(viseme, eyes)
	s.state.Tick()
	AdvanceMicroMotion(s.state, m.MicroMotion, dt)

	s.fade.Update(dt)
	if adv, ok := s.avatar.Idle.(idleAdvancer); ok {
		adv.Advance(dt)
	}
}

// UpdateIdle advances one tick in idle mode: no media clock, no cue or
// event timelines, just micro-motion and decay back to rest. The idle clock
// restarts from zero on Reset.
func (s *Session) UpdateIdle(dt float64) {
	s.idleClockMs += dt * 1000
	s.Update(s.idleClockMs, nil, nil, dt)
}

// Render draws the current state onto dst. While no avatar is loaded it
// renders an explicit placeholder rather than partial content. Overlays are
// drawn after the composite in raw canvas coordinates, unaffected by the
// micro-motion transform.
func (s *Session) Render(dst *ebiten.Image) {
	s.pumpLoad()
	if s.avatar == nil {
		status := "loading avatar..."
		if s.loadErr != nil {
			status = "avatar failed to load"
		}
		drawPlaceholder(dst, status)
		return
	}

	b := dst.Bounds()
	if s.frame == nil || s.frame.Bounds().Dx() != b.Dx() || s.frame.Bounds().Dy() != b.Dy() {
		if s.frame != nil {
			s.frame.Deallocate()
		}
		s.frame = ebiten.NewImage(b.Dx(), b.Dy())
	}

	s.comp.RenderFrame(s.frame, s.state)

	dst.Clear()
	var op ebiten.DrawImageOptions
	op.ColorScale.ScaleAlpha(float32(clamp01(s.fade.Alpha())))
	dst.DrawImage(s.frame, &op)

	if s.calibrationOverlay {
		s.comp.DrawCalibrationOverlay(dst, s.calibration)
	}
	if s.trackingOverlay {
		s.comp.DrawTrackingOverlay(dst)
	}
}

// Reset synchronously returns the animation state to defaults, used on
// playback stop or restart.
func (s *Session) Reset() {
	if s.state != nil {
		s.state.Reset()
	}
	s.idleClockMs = 0
}

// AdjustAnchor nudges the calibration delta for a region and writes the
// result through to the store. Store failures are logged and ignored; the
// in-memory adjustment keeps applying for the rest of the session.
func (s *Session) AdjustAnchor(region Region, dx, dy, dw, dh float64) {
	if s.calibration == nil {
		return
	}
	s.calibration.Nudge(region, dx, dy, dw, dh)
	if err := s.store.Set(s.calibration.AvatarID, s.calibration.Export()); err != nil {
		debugf("calibration write for %q failed: %v", s.calibration.AvatarID, err)
	}
}

// TrackingEnabled reports whether tracked anchors loaded for this avatar.
// Diagnostic; tracking silently degrades to static anchors when inactive.
func (s *Session) TrackingEnabled() bool {
	return s.resolver != nil && s.resolver.TrackingEnabled()
}

// SetCalibrationOverlay toggles the calibration overlay.
func (s *Session) SetCalibrationOverlay(enabled bool) { s.calibrationOverlay = enabled }

// CalibrationOverlay reports whether the calibration overlay is on.
func (s *Session) CalibrationOverlay() bool { return s.calibrationOverlay }

// SetTrackingOverlay toggles the tracking overlay.
func (s *Session) SetTrackingOverlay(enabled bool) { s.trackingOverlay = enabled }

// TrackingOverlay reports whether the tracking overlay is on.
func (s *Session) TrackingOverlay() bool { return s.trackingOverlay }
