package visage

import "math"

// AdvanceMicroMotion accumulates idle time and recomputes the head offset,
// tilt, and breathing scale on the state. Runs only while the manifest marks
// micro-motion enabled; otherwise the outputs hold their rest defaults.
//
// The X offset uses half the Y amplitude and half the angular rate, so the
// head wanders on a Lissajous-like path instead of bobbing on a line. The
// tilt runs at 0.7x the bob rate for the same reason.
func AdvanceMicroMotion(s *AnimState, p MicroMotionParams, dt float64) {
	if !p.Enabled {
		s.HeadOffset = Vec2{}
		s.HeadTilt = 0
		s.BreathScale = 1
		return
	}
	s.IdleTime += dt
	t := s.IdleTime

	s.HeadOffset.Y = math.Sin(t*p.HeadBobFrequency*2*math.Pi) * p.HeadBobAmplitude
	s.HeadOffset.X = math.Cos(t*p.HeadBobFrequency*math.Pi) * p.HeadBobAmplitude * 0.5
	s.HeadTilt = math.Sin(t*p.HeadBobFrequency*math.Pi*0.7) * p.HeadTiltAmplitude * (math.Pi / 180)
	s.BreathScale = 1 + math.Sin(t*p.BreathingFrequency*2*math.Pi)*p.BreathingScale
}
