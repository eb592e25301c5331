package visage

import "math"

// SampleMouth returns the viseme name active at timeMs. The active cue is
// the last cue whose timestamp is at or before timeMs (hold-until-next; the
// sampler never interpolates). Cue names are remapped through the manifest's
// mapping table; names without an entry pass through literally. With no cue
// at or before timeMs (including an empty list) the mouth stays at rest.
func SampleMouth(timeMs float64, cues []MouthCue, m *Manifest) string {
	active := ""
	for _, cue := range cues {
		if cue.TMs > timeMs {
			break
		}
		active = cue.Viseme
	}
	if active == "" {
		return RestViseme
	}
	return m.RemapViseme(active)
}

// EyeSample holds the eye targets produced for one timestamp.
type EyeSample struct {
	Openness float64
	PupilDX  float64
	PupilDY  float64
}

// SampleEyes returns the eye targets active at timeMs. Every event whose
// window contains timeMs is evaluated in list order, each overwriting the
// target it affects; when events overlap, the last one in list order wins
// per target. With no qualifying event a target stays at its default
// (openness 1, pupils 0); decay from a previous frame's value back to the
// default is the interpolator's job, not the sampler's.
//
// Saccades mutate the pupil targets only when the manifest marks pupil
// animation enabled; blinks apply regardless.
func SampleEyes(timeMs float64, events []EyeEvent, m *Manifest) EyeSample {
	s := EyeSample{Openness: 1}
	for _, ev := range events {
		if ev.DurationMs <= 0 {
			continue
		}
		if timeMs < ev.TMs || timeMs > ev.TMs+ev.DurationMs {
			continue
		}
		p := (timeMs - ev.TMs) / ev.DurationMs
		switch ev.Type {
		case EventBlink:
			// Triangular profile: closes over the first half, reopens over
			// the second, continuous at p=0.5.
			if p < 0.5 {
				s.Openness = 1 - 2*p
			} else {
				s.Openness = 2 * (p - 0.5)
			}
		case EventSaccade:
			if !m.Eyes.Pupil.Enabled {
				continue
			}
			mag := math.Sin(p * math.Pi)
			switch ev.Direction {
			case "left":
				s.PupilDX = -m.Eyes.Pupil.MaxOffsetX * mag
			case "right":
				s.PupilDX = m.Eyes.Pupil.MaxOffsetX * mag
			case "up":
				s.PupilDY = -m.Eyes.Pupil.MaxOffsetY * mag
			case "down":
				s.PupilDY = m.Eyes.Pupil.MaxOffsetY * mag
			default:
				// Unspecified or unrecognized direction: documented default
				// of a half-magnitude positive X drift, not an error.
				s.PupilDX = m.Eyes.Pupil.MaxOffsetX * mag * 0.5
			}
		}
	}
	return s
}
