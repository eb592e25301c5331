package visage

import (
	"encoding/json"
	"fmt"
)

// Default micro-motion parameters, used when the manifest block is present
// but individual knobs are zero. Values mirror the ones avatar packs ship.
const (
	defaultHeadBobAmplitude   = 2.0   // pixels
	defaultHeadBobFrequency   = 0.5   // Hz
	defaultHeadTiltAmplitude  = 0.8   // degrees
	defaultBreathingScale     = 0.003 // scale delta
	defaultBreathingFrequency = 0.25  // Hz
)

// Anchor is a rectangle in base-image coordinates defining where an overlay
// region is drawn. Cx/Cy carry the tracked center point when present.
type Anchor struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	W  float64 `json:"w"`
	H  float64 `json:"h"`
	Cx float64 `json:"cx,omitempty"`
	Cy float64 `json:"cy,omitempty"`
}

// Rect returns the anchor as a Rect.
func (a Anchor) Rect() Rect {
	return Rect{X: a.X, Y: a.Y, Width: a.W, Height: a.H}
}

// BaseLayer describes the avatar's base face layer.
type BaseLayer struct {
	Type      string `json:"type"` // "image" (default) or "video"
	Src       string `json:"src"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	IdleVideo string `json:"idleVideo,omitempty"`
}

// MouthLayer describes the mouth spritesheet and where it is drawn.
// The spritesheet lays frames out horizontally; frame index equals the
// position of the viseme name in Visemes.
type MouthLayer struct {
	Spritesheet string   `json:"spritesheet"`
	Mask        string   `json:"mask"`
	FrameWidth  int      `json:"frameWidth"`
	FrameHeight int      `json:"frameHeight"`
	Visemes     []string `json:"visemes"`
	Anchor      Anchor   `json:"anchor"`
	FeatherPx   int      `json:"featherPx,omitempty"`
	Blend       string   `json:"blendMode,omitempty"`
}

// PupilParams bounds pupil (saccade) movement. When Enabled is false,
// saccade events never mutate the pupil targets.
type PupilParams struct {
	Enabled    bool    `json:"enabled"`
	MaxOffsetX float64 `json:"maxOffsetX"`
	MaxOffsetY float64 `json:"maxOffsetY"`
}

// EyeFrames names the three discrete eye images selected by openness.
type EyeFrames struct {
	Open   string `json:"open"`
	Half   string `json:"half"`
	Closed string `json:"closed"`
}

// EyesLayer describes the eye frame images and where they are drawn.
type EyesLayer struct {
	Frames    EyeFrames   `json:"frames"`
	Mask      string      `json:"mask"`
	Anchor    Anchor      `json:"anchor"`
	Pupil     PupilParams `json:"pupil"`
	FeatherPx int         `json:"featherPx,omitempty"`
	Blend     string      `json:"blendMode,omitempty"`
}

// MicroMotionParams configures idle head bob, tilt, and breathing.
// All motion is disabled unless Enabled is true.
type MicroMotionParams struct {
	Enabled            bool    `json:"enabled"`
	HeadBobAmplitude   float64 `json:"headBobAmplitude"`   // pixels
	HeadBobFrequency   float64 `json:"headBobFrequency"`   // Hz
	HeadTiltAmplitude  float64 `json:"headTiltAmplitude"`  // degrees
	BreathingScale     float64 `json:"breathingScale"`     // scale delta around 1.0
	BreathingFrequency float64 `json:"breathingFrequency"` // Hz
}

// Manifest is the immutable per-avatar configuration, loaded once per avatar.
type Manifest struct {
	ID          string            `json:"id"`
	DisplayName string            `json:"displayName,omitempty"`
	Version     string            `json:"version,omitempty"`
	Description string            `json:"description,omitempty"`
	Base        BaseLayer         `json:"base"`
	Mouth       MouthLayer        `json:"mouth"`
	Eyes        EyesLayer         `json:"eyes"`
	Mapping     map[string]string `json:"mapping,omitempty"`
	MicroMotion MicroMotionParams `json:"microMotion"`
}

// ParseManifest parses a manifest JSON document, applies defaults for every
// optional knob, and validates the fields the compositor cannot run without.
func ParseManifest(jsonData []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(jsonData, &m); err != nil {
		return nil, fmt.Errorf("visage: failed to parse manifest: %w", err)
	}
	m.applyDefaults()
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) applyDefaults() {
	if m.Base.Type == "" {
		m.Base.Type = "image"
	}
	if m.MicroMotion.Enabled {
		if m.MicroMotion.HeadBobAmplitude == 0 {
			m.MicroMotion.HeadBobAmplitude = defaultHeadBobAmplitude
		}
		if m.MicroMotion.HeadBobFrequency == 0 {
			m.MicroMotion.HeadBobFrequency = defaultHeadBobFrequency
		}
		if m.MicroMotion.HeadTiltAmplitude == 0 {
			m.MicroMotion.HeadTiltAmplitude = defaultHeadTiltAmplitude
		}
		if m.MicroMotion.BreathingScale == 0 {
			m.MicroMotion.BreathingScale = defaultBreathingScale
		}
		if m.MicroMotion.BreathingFrequency == 0 {
			m.MicroMotion.BreathingFrequency = defaultBreathingFrequency
		}
	}
}

func (m *Manifest) validate() error {
	if m.ID == "" {
		return fmt.Errorf("visage: manifest missing id")
	}
	if m.Base.Src == "" {
		return fmt.Errorf("visage: manifest %q missing base.src", m.ID)
	}
	if m.Base.Width <= 0 || m.Base.Height <= 0 {
		return fmt.Errorf("visage: manifest %q has invalid base dimensions %dx%d",
			m.ID, m.Base.Width, m.Base.Height)
	}
	if m.Mouth.Spritesheet == "" || m.Mouth.Mask == "" {
		return fmt.Errorf("visage: manifest %q missing mouth spritesheet or mask", m.ID)
	}
	if m.Mouth.FrameWidth <= 0 || m.Mouth.FrameHeight <= 0 {
		return fmt.Errorf("visage: manifest %q has invalid mouth frame dimensions %dx%d",
			m.ID, m.Mouth.FrameWidth, m.Mouth.FrameHeight)
	}
	if len(m.Mouth.Visemes) == 0 {
		return fmt.Errorf("visage: manifest %q declares no visemes", m.ID)
	}
	if m.Eyes.Frames.Open == "" || m.Eyes.Frames.Half == "" || m.Eyes.Frames.Closed == "" {
		return fmt.Errorf("visage: manifest %q missing eye frame images", m.ID)
	}
	if m.Eyes.Mask == "" {
		return fmt.Errorf("visage: manifest %q missing eyes mask", m.ID)
	}
	return nil
}

// VisemeIndex returns the spritesheet frame index for a viseme name.
// The second return value is false when the name is not in the list; the
// caller skips the mouth layer in that case rather than treating it as an
// error.
func (m *Manifest) VisemeIndex(name string) (int, bool) {
	for i, v := range m.Mouth.Visemes {
		if v == name {
			return i, true
		}
	}
	return 0, false
}

// RemapViseme translates an external cue vocabulary name through the
// manifest's mapping table. Names without an entry pass through literally.
func (m *Manifest) RemapViseme(name string) string {
	if mapped, ok := m.Mapping[name]; ok {
		return mapped
	}
	return name
}

// StaticAnchor returns the manifest's static anchor rectangle for a region.
func (m *Manifest) StaticAnchor(region Region) Rect {
	if region == RegionEyes {
		return m.Eyes.Anchor.Rect()
	}
	return m.Mouth.Anchor.Rect()
}

// LayerBlend parses a layer's declared blend mode name. Unknown or empty
// names fall back to BlendNormal.
func LayerBlend(name string) BlendMode {
	switch name {
	case "add", "lighter":
		return BlendAdd
	case "multiply":
		return BlendMultiply
	case "screen":
		return BlendScreen
	default:
		return BlendNormal
	}
}
