package visage

// Per-tick smoothing factors. Openness and pupils chase their targets
// exponentially; the viseme blend is a progress counter (see advanceBlend).
const (
	opennessFactor = 0.25
	pupilFactor    = 0.2
	blendStep      = 0.15
)

// AnimState is the mutable animation state for one rendered avatar. One
// instance exists per session; the sampler and interpolator write it in a
// fixed order each tick, after which the resolver and compositor only read
// it. Created with defaults at avatar-load time, reset on playback stop,
// discarded when the avatar is unloaded.
type AnimState struct {
	// Viseme cross-fade.
	CurrentViseme string
	TargetViseme  string
	Blend         float64 // progress 0..1 while CurrentViseme != TargetViseme

	// Eyes. Current values may transiently interpolate outside [0,1];
	// display-affecting reads clamp.
	Openness       float64
	OpennessTarget float64
	PupilX         float64
	PupilXTarget   float64
	PupilY         float64
	PupilYTarget   float64

	// Micro-motion outputs, written by AdvanceMicroMotion.
	IdleTime    float64 // accumulated seconds
	HeadOffset  Vec2
	HeadTilt    float64 // radians
	BreathScale float64
}

// NewAnimState returns a state at rest: REST viseme, eyes open, pupils
// centered, no micro-motion.
func NewAnimState() *AnimState {
	s := &AnimState{}
	s.Reset()
	return s
}

// Reset returns the state to its defaults synchronously.
func (s *AnimState) Reset() {
	*s = AnimState{
		CurrentViseme:  RestViseme,
		TargetViseme:   RestViseme,
		Openness:       1,
		OpennessTarget: 1,
		BreathScale:    1,
	}
}

// SetTargets installs the sampled targets for this tick.
func (s *AnimState) SetTargets(viseme string, eyes EyeSample) {
	s.TargetViseme = viseme
	s.OpennessTarget = eyes.Openness
	s.PupilXTarget = eyes.PupilDX
	s.PupilYTarget = eyes.PupilDY
}

// Tick advances every animated channel one step toward its target. It runs
// once per animation tick whether or not any target changed; that is what
// guarantees convergence back to defaults after an event window ends.
func (s *AnimState) Tick() {
	s.Openness += (s.OpennessTarget - s.Openness) * opennessFactor
	s.PupilX += (s.PupilXTarget - s.PupilX) * pupilFactor
	s.PupilY += (s.PupilYTarget - s.PupilY) * pupilFactor
	s.advanceBlend()
}

// advanceBlend runs the viseme cross-fade as a fixed-increment progress
// counter: while current and target differ, progress accumulates by
// blendStep per tick; at >= 1 the current viseme snaps to the target and
// progress resets. The increment is per tick, not per second, so the fade
// spans a fixed ~7 ticks regardless of display refresh rate. Kept that way
// deliberately to match the behavior this engine reproduces.
func (s *AnimState) advanceBlend() {
	if s.CurrentViseme == s.TargetViseme {
		s.Blend = 0
		return
	}
	s.Blend += blendStep
	if s.Blend >= 1 {
		s.CurrentViseme = s.TargetViseme
		s.Blend = 0
	}
}

// DisplayOpenness returns the openness clamped to [0,1] for frame selection.
func (s *AnimState) DisplayOpenness() float64 {
	return clamp01(s.Openness)
}

// CrossFading reports whether the mouth is mid-dissolve between two visemes.
func (s *AnimState) CrossFading() bool {
	return s.Blend > 0 && s.CurrentViseme != s.TargetViseme
}
