package visage

import (
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- computeFit ---

func TestComputeFit(t *testing.T) {
	tests := []struct {
		name                   string
		srcW, srcH, dstW, dstH float64
		scale, offX, offY      float64
	}{
		{"exact", 512, 640, 512, 640, 1, 0, 0},
		{"half", 512, 640, 256, 320, 0.5, 0, 0},
		{"letterboxed wide canvas", 512, 640, 1024, 640, 1, 256, 0},
		{"pillarboxed tall canvas", 512, 640, 512, 1280, 1, 0, 320},
		{"degenerate source", 0, 640, 512, 640, 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := computeFit(tt.srcW, tt.srcH, tt.dstW, tt.dstH)
			if math.Abs(f.Scale-tt.scale) > 1e-9 ||
				math.Abs(f.OffsetX-tt.offX) > 1e-9 ||
				math.Abs(f.OffsetY-tt.offY) > 1e-9 {
				t.Errorf("computeFit = %+v, want scale %v offset (%v, %v)",
					f, tt.scale, tt.offX, tt.offY)
			}
		})
	}
}

func TestRectToCanvas(t *testing.T) {
	f := canvasFit{Scale: 0.5, OffsetX: 10, OffsetY: 20}
	got := f.RectToCanvas(Rect{X: 100, Y: 200, Width: 160, Height: 120})
	want := Rect{X: 60, Y: 120, Width: 80, Height: 60}
	if got != want {
		t.Errorf("RectToCanvas = %+v, want %+v", got, want)
	}
}

// --- micro-motion transform ---

func TestMicroMotionGeoMIdentityAtRest(t *testing.T) {
	s := NewAnimState()
	g := microMotionGeoM(s, 512, 640)
	x, y := g.Apply(123, 456)
	if math.Abs(x-123) > 1e-9 || math.Abs(y-456) > 1e-9 {
		t.Errorf("rest transform moved point to (%v, %v)", x, y)
	}
}

func TestMicroMotionGeoMTranslates(t *testing.T) {
	s := NewAnimState()
	s.HeadOffset = Vec2{X: 3, Y: -2}
	g := microMotionGeoM(s, 512, 640)
	x, y := g.Apply(100, 100)
	if math.Abs(x-103) > 1e-9 || math.Abs(y-98) > 1e-9 {
		t.Errorf("offset transform = (%v, %v), want (103, 98)", x, y)
	}
}

func TestMicroMotionGeoMPivotsOnCenter(t *testing.T) {
	s := NewAnimState()
	s.HeadTilt = math.Pi / 2
	s.BreathScale = 2
	g := microMotionGeoM(s, 512, 640)

	// The canvas center is the fixed point of rotation and scale.
	cx, cy := 256.0, 320.0
	x, y := g.Apply(cx, cy)
	if math.Abs(x-cx) > 1e-9 || math.Abs(y-cy) > 1e-9 {
		t.Errorf("center moved to (%v, %v)", x, y)
	}

	// A point right of center rotates below it (positive rotation is
	// clockwise in screen coordinates) and scales out by the breath factor.
	x, y = g.Apply(cx+10, cy)
	if math.Abs(x-cx) > 1e-6 || math.Abs(y-(cy+20)) > 1e-6 {
		t.Errorf("rotated point = (%v, %v), want (%v, %v)", x, y, cx, cy+20)
	}
}

// --- mask blend semantics ---

func TestMaskBlendIsDestinationIn(t *testing.T) {
	// Destination-in: keep destination only where the (mask) source is
	// opaque; contribute no source color.
	want := ebiten.Blend{
		BlendFactorSourceRGB:        ebiten.BlendFactorZero,
		BlendFactorSourceAlpha:      ebiten.BlendFactorZero,
		BlendFactorDestinationRGB:   ebiten.BlendFactorSourceAlpha,
		BlendFactorDestinationAlpha: ebiten.BlendFactorSourceAlpha,
		BlendOperationRGB:           ebiten.BlendOperationAdd,
		BlendOperationAlpha:         ebiten.BlendOperationAdd,
	}
	if got := BlendMask.EbitenBlend(); got != want {
		t.Errorf("BlendMask = %+v, want destination-in", got)
	}
}

// --- avatar frame selection ---

func testLoadedAvatar(m *Manifest) *LoadedAvatar {
	sheet := ebiten.NewImage(m.Mouth.FrameWidth*len(m.Mouth.Visemes), m.Mouth.FrameHeight)
	return &LoadedAvatar{
		Manifest:   m,
		Base:       ebiten.NewImage(m.Base.Width, m.Base.Height),
		MouthSheet: sheet,
		MouthMask:  ebiten.NewImage(m.Mouth.FrameWidth, m.Mouth.FrameHeight),
		EyesOpen:   ebiten.NewImage(320, 120),
		EyesHalf:   ebiten.NewImage(320, 120),
		EyesClosed: ebiten.NewImage(320, 120),
		EyesMask:   ebiten.NewImage(320, 120),
	}
}

func TestEyeFrameThresholds(t *testing.T) {
	av := testLoadedAvatar(testManifest())
	tests := []struct {
		openness float64
		want     *ebiten.Image
		name     string
	}{
		{1.0, av.EyesOpen, "fully open"},
		{0.67, av.EyesOpen, "just above open threshold"},
		{0.66, av.EyesHalf, "at open threshold"},
		{0.5, av.EyesHalf, "half"},
		{0.34, av.EyesHalf, "just above half threshold"},
		{0.33, av.EyesClosed, "at half threshold"},
		{0.0, av.EyesClosed, "closed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := av.EyeFrame(tt.openness); got != tt.want {
				t.Errorf("EyeFrame(%v) picked the wrong image", tt.openness)
			}
		})
	}
}

func TestMouthFrameExtractsColumn(t *testing.T) {
	m := testManifest()
	av := testLoadedAvatar(m)

	frame := av.MouthFrame(2)
	b := frame.Bounds()
	if b.Min.X != 320 || b.Max.X != 480 || b.Dy() != 120 {
		t.Errorf("frame 2 bounds = %v, want x [320,480) h 120", b)
	}
}

// --- render pipeline (structural) ---

func newTestCompositor(m *Manifest) (*Compositor, *AnimState) {
	av := testLoadedAvatar(m)
	r := NewAnchorResolver(m, nil, nil, NewCalibration(m.ID, nil))
	return NewCompositor(av, r), NewAnimState()
}

func TestRenderFrameDefaultState(t *testing.T) {
	c, s := newTestCompositor(testManifest())
	dst := ebiten.NewImage(256, 320)

	c.RenderFrame(dst, s)

	// The fit used by the frame matches the base-image-to-canvas mapping,
	// which overlays reuse.
	want := computeFit(512, 640, 256, 320)
	if c.LastFit() != want {
		t.Errorf("LastFit = %+v, want %+v", c.LastFit(), want)
	}
}

func TestRenderFrameUnknownVisemeSkipsMouth(t *testing.T) {
	c, s := newTestCompositor(testManifest())
	s.CurrentViseme = "ZZ"
	s.TargetViseme = "ZZ"
	dst := ebiten.NewImage(256, 320)

	// Must not panic and must not try to index the spritesheet.
	c.RenderFrame(dst, s)
}

func TestRenderFrameCrossFade(t *testing.T) {
	c, s := newTestCompositor(testManifest())
	s.TargetViseme = "AA"
	s.Tick() // blend 0.15, cross-fading
	if !s.CrossFading() {
		t.Fatal("expected cross-fade in progress")
	}
	dst := ebiten.NewImage(256, 320)
	c.RenderFrame(dst, s)

	// Cross-fade toward an unknown target draws only the current frame.
	s.TargetViseme = "ZZ"
	s.Blend = 0.5
	c.RenderFrame(dst, s)
}

func TestRenderFrameWithMicroMotion(t *testing.T) {
	m := testManifest()
	m.MicroMotion = enabledMotion()
	c, s := newTestCompositor(m)
	AdvanceMicroMotion(s, m.MicroMotion, 0.37)

	dst := ebiten.NewImage(256, 320)
	c.RenderFrame(dst, s)
}

func TestDrawMaskedDegenerateRect(t *testing.T) {
	c, _ := newTestCompositor(testManifest())
	dst := ebiten.NewImage(64, 64)
	src := ebiten.NewImage(8, 8)
	mask := ebiten.NewImage(8, 8)

	// Zero-sized destination rects are a silent no-op.
	c.drawMasked(dst, src, mask, Rect{X: 10, Y: 10}, Vec2{}, 1, BlendNormal, ebiten.GeoM{})
}

func TestOverlaysDrawWithoutTracking(t *testing.T) {
	m := testManifest()
	av := testLoadedAvatar(m)
	cal := NewCalibration(m.ID, nil)
	r := NewAnchorResolver(m, nil, nil, cal)
	c := NewCompositor(av, r)
	dst := ebiten.NewImage(256, 320)

	c.RenderFrame(dst, NewAnimState())
	c.DrawCalibrationOverlay(dst, cal)
	c.DrawTrackingOverlay(dst) // inactive tracking: no-op, no panic
}
