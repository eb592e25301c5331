package visage

import "testing"

const fullManifestJSON = `{
	"id": "realistic_female_v1",
	"displayName": "Realistic Female V1",
	"version": "1.0.0",
	"description": "Generated from Capture Studio",
	"base": {
		"type": "image",
		"src": "base_face.png",
		"width": 512,
		"height": 640,
		"idleVideo": "idle.webm"
	},
	"mouth": {
		"spritesheet": "mouth_sprites.png",
		"mask": "mouth_mask.png",
		"frameWidth": 160,
		"frameHeight": 120,
		"visemes": ["REST", "AA", "EE", "OH", "OO", "FF", "TH"],
		"anchor": {"x": 176, "y": 400, "w": 160, "h": 120},
		"featherPx": 12,
		"blendMode": "normal"
	},
	"eyes": {
		"frames": {"open": "eyes_open.png", "half": "eyes_half.png", "closed": "eyes_closed.png"},
		"mask": "eyes_mask.png",
		"anchor": {"x": 96, "y": 240, "w": 320, "h": 120},
		"pupil": {"enabled": true, "maxOffsetX": 8, "maxOffsetY": 6},
		"featherPx": 8,
		"blendMode": "normal"
	},
	"mapping": {"A": "AA", "X": "REST"},
	"microMotion": {
		"enabled": true,
		"headBobAmplitude": 2,
		"headBobFrequency": 0.5,
		"headTiltAmplitude": 0.8,
		"breathingScale": 0.003,
		"breathingFrequency": 0.25
	}
}`

func TestParseManifestFull(t *testing.T) {
	m, err := ParseManifest([]byte(fullManifestJSON))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if m.ID != "realistic_female_v1" {
		t.Errorf("id = %q", m.ID)
	}
	if m.Base.Width != 512 || m.Base.Height != 640 || m.Base.IdleVideo != "idle.webm" {
		t.Errorf("base = %+v", m.Base)
	}
	if m.Mouth.FrameWidth != 160 || len(m.Mouth.Visemes) != 7 {
		t.Errorf("mouth = %+v", m.Mouth)
	}
	if m.Mouth.Anchor.X != 176 || m.Mouth.Anchor.H != 120 {
		t.Errorf("mouth anchor = %+v", m.Mouth.Anchor)
	}
	if !m.Eyes.Pupil.Enabled || m.Eyes.Pupil.MaxOffsetX != 8 {
		t.Errorf("pupil = %+v", m.Eyes.Pupil)
	}
	if !m.MicroMotion.Enabled || m.MicroMotion.BreathingScale != 0.003 {
		t.Errorf("microMotion = %+v", m.MicroMotion)
	}
	if m.RemapViseme("A") != "AA" {
		t.Error("mapping not parsed")
	}
}

func TestParseManifestMicroMotionDefaults(t *testing.T) {
	m, err := ParseManifest([]byte(`{
		"id": "a",
		"base": {"src": "b.png", "width": 512, "height": 640},
		"mouth": {"spritesheet": "m.png", "mask": "mm.png", "frameWidth": 160, "frameHeight": 120,
			"visemes": ["REST"], "anchor": {"x": 0, "y": 0, "w": 160, "h": 120}},
		"eyes": {"frames": {"open": "o.png", "half": "h.png", "closed": "c.png"}, "mask": "em.png",
			"anchor": {"x": 0, "y": 0, "w": 320, "h": 120}},
		"microMotion": {"enabled": true}
	}`))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	mm := m.MicroMotion
	if mm.HeadBobAmplitude != defaultHeadBobAmplitude ||
		mm.HeadBobFrequency != defaultHeadBobFrequency ||
		mm.HeadTiltAmplitude != defaultHeadTiltAmplitude ||
		mm.BreathingScale != defaultBreathingScale ||
		mm.BreathingFrequency != defaultBreathingFrequency {
		t.Errorf("defaults not applied: %+v", mm)
	}
	if m.Base.Type != "image" {
		t.Errorf("base type default = %q, want image", m.Base.Type)
	}
}

func TestParseManifestMicroMotionDisabledByDefault(t *testing.T) {
	m := testManifest()
	if m.MicroMotion.Enabled {
		t.Fatal("test manifest should have micro-motion off")
	}
}

func TestParseManifestValidation(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{`},
		{"missing id", `{"base":{"src":"b.png","width":1,"height":1}}`},
		{"missing base src", `{"id":"a","base":{"width":1,"height":1}}`},
		{"zero base dims", `{"id":"a","base":{"src":"b.png","width":0,"height":640}}`},
		{"missing mouth assets", `{"id":"a","base":{"src":"b.png","width":512,"height":640},
			"mouth":{"frameWidth":160,"frameHeight":120,"visemes":["REST"]}}`},
		{"no visemes", `{"id":"a","base":{"src":"b.png","width":512,"height":640},
			"mouth":{"spritesheet":"m.png","mask":"mm.png","frameWidth":160,"frameHeight":120}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseManifest([]byte(tt.data)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestVisemeIndex(t *testing.T) {
	m := testManifest()
	if idx, ok := m.VisemeIndex("REST"); !ok || idx != 0 {
		t.Errorf("VisemeIndex(REST) = %d, %v", idx, ok)
	}
	if idx, ok := m.VisemeIndex("TH"); !ok || idx != 6 {
		t.Errorf("VisemeIndex(TH) = %d, %v", idx, ok)
	}
	if _, ok := m.VisemeIndex("ZZ"); ok {
		t.Error("VisemeIndex(ZZ) should not be found")
	}
}

func TestStaticAnchor(t *testing.T) {
	m := testManifest()
	mouth := m.StaticAnchor(RegionMouth)
	if mouth != (Rect{X: 176, Y: 400, Width: 160, Height: 120}) {
		t.Errorf("mouth anchor = %+v", mouth)
	}
	eyes := m.StaticAnchor(RegionEyes)
	if eyes != (Rect{X: 96, Y: 240, Width: 320, Height: 120}) {
		t.Errorf("eyes anchor = %+v", eyes)
	}
}

func TestLayerBlend(t *testing.T) {
	tests := []struct {
		name   string
		expect BlendMode
	}{
		{"normal", BlendNormal},
		{"", BlendNormal},
		{"add", BlendAdd},
		{"lighter", BlendAdd},
		{"multiply", BlendMultiply},
		{"screen", BlendScreen},
		{"garbage", BlendNormal},
	}
	for _, tt := range tests {
		if got := LayerBlend(tt.name); got != tt.expect {
			t.Errorf("LayerBlend(%q) = %v, want %v", tt.name, got, tt.expect)
		}
	}
}
