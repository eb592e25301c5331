package visage

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// canvasFit maps base-image coordinates into destination-canvas coordinates:
// a uniform scale that fits the source within the canvas, centered.
type canvasFit struct {
	Scale            float64
	OffsetX, OffsetY float64
}

// computeFit derives the uniform scale and centering offset for a source of
// (srcW, srcH) drawn into a canvas of (dstW, dstH), preserving aspect ratio.
func computeFit(srcW, srcH, dstW, dstH float64) canvasFit {
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return canvasFit{Scale: 1}
	}
	scale := math.Min(dstW/srcW, dstH/srcH)
	return canvasFit{
		Scale:   scale,
		OffsetX: (dstW - srcW*scale) / 2,
		OffsetY: (dstH - srcH*scale) / 2,
	}
}

// RectToCanvas converts a base-image rectangle to canvas space.
func (f canvasFit) RectToCanvas(r Rect) Rect {
	return Rect{
		X:      r.X*f.Scale + f.OffsetX,
		Y:      r.Y*f.Scale + f.OffsetY,
		Width:  r.Width * f.Scale,
		Height: r.Height * f.Scale,
	}
}

// Compositor draws one avatar frame from the current animation state. It is
// a pure function of the state, the loaded avatar, and the destination; it
// holds only reusable offscreen buffers between frames.
type Compositor struct {
	avatar   *LoadedAvatar
	resolver *AnchorResolver
	rtPool   renderTexturePool

	mouthBlend BlendMode
	eyesBlend  BlendMode

	// lastFit caches the base mapping of the most recent frame so overlays
	// can be drawn in the same canvas space after the transform is undone.
	lastFit canvasFit
}

// NewCompositor creates a compositor for a loaded avatar.
func NewCompositor(av *LoadedAvatar, resolver *AnchorResolver) *Compositor {
	return &Compositor{
		avatar:     av,
		resolver:   resolver,
		mouthBlend: LayerBlend(av.Manifest.Mouth.Blend),
		eyesBlend:  LayerBlend(av.Manifest.Eyes.Blend),
	}
}

// LastFit returns the base-to-canvas mapping used by the most recent
// RenderFrame call. Overlay drawing uses it to place rectangles in raw
// canvas coordinates.
func (c *Compositor) LastFit() canvasFit {
	return c.lastFit
}

// RenderFrame composites the avatar onto dst: base layer (idle frame when
// the tracked source is ready, static image otherwise), then masked eyes,
// then masked mouth with an optional cross-fade overlay. The whole stack
// shares one combined micro-motion transform pivoting on the canvas center;
// overlays drawn afterwards are unaffected by it.
func (c *Compositor) RenderFrame(dst *ebiten.Image, s *AnimState) {
	dst.Clear()

	bounds := dst.Bounds()
	cw := float64(bounds.Dx())
	ch := float64(bounds.Dy())

	base, srcW, srcH := c.baseSource()
	fit := computeFit(srcW, srcH, cw, ch)
	c.lastFit = fit

	world := microMotionGeoM(s, cw, ch)

	// Base layer.
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(fit.Scale*srcW/float64(base.Bounds().Dx()), fit.Scale*srcH/float64(base.Bounds().Dy()))
	op.GeoM.Translate(fit.OffsetX, fit.OffsetY)
	op.GeoM.Concat(world)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(base, &op)

	c.drawEyes(dst, s, fit, world)
	c.drawMouth(dst, s, fit, world)
}

// baseSource picks the base layer image and the source dimensions the fit
// is computed from: the idle video frame when a tracked source is ready,
// else the static base image, falling back to manifest dimensions when the
// source reports none.
func (c *Compositor) baseSource() (*ebiten.Image, float64, float64) {
	m := c.avatar.Manifest
	if c.avatar.Idle != nil && c.avatar.Idle.Ready() {
		w, h := c.avatar.Idle.Size()
		if w > 0 && h > 0 {
			return c.avatar.Idle.Frame(), float64(w), float64(h)
		}
	}
	b := c.avatar.Base.Bounds()
	if b.Dx() > 0 && b.Dy() > 0 {
		return c.avatar.Base, float64(b.Dx()), float64(b.Dy())
	}
	return c.avatar.Base, float64(m.Base.Width), float64(m.Base.Height)
}

// microMotionGeoM builds the combined head-offset/tilt/breathing transform,
// recentered around the canvas center so rotation and scale pivot there.
func microMotionGeoM(s *AnimState, cw, ch float64) ebiten.GeoM {
	cx := cw / 2
	cy := ch / 2
	var g ebiten.GeoM
	g.Translate(-cx, -cy)
	g.Rotate(s.HeadTilt)
	g.Scale(s.BreathScale, s.BreathScale)
	g.Translate(cx+s.HeadOffset.X, cy+s.HeadOffset.Y)
	return g
}

func (c *Compositor) drawEyes(dst *ebiten.Image, s *AnimState, fit canvasFit, world ebiten.GeoM) {
	rect := fit.RectToCanvas(c.resolver.Resolve(RegionEyes))
	frame := c.avatar.EyeFrame(s.DisplayOpenness())
	offset := Vec2{X: s.PupilX * fit.Scale, Y: s.PupilY * fit.Scale}
	c.drawMasked(dst, frame, c.avatar.EyesMask, rect, offset, 1, c.eyesBlend, world)
}

func (c *Compositor) drawMouth(dst *ebiten.Image, s *AnimState, fit canvasFit, world ebiten.GeoM) {
	m := c.avatar.Manifest
	idx, ok := m.VisemeIndex(s.CurrentViseme)
	if !ok {
		// Unknown viseme: the mouth layer is simply absent this frame.
		return
	}
	rect := fit.RectToCanvas(c.resolver.Resolve(RegionMouth))
	c.drawMasked(dst, c.avatar.MouthFrame(idx), c.avatar.MouthMask, rect, Vec2{}, 1, c.mouthBlend, world)

	if s.CrossFading() {
		if tIdx, ok := m.VisemeIndex(s.TargetViseme); ok {
			c.drawMasked(dst, c.avatar.MouthFrame(tIdx), c.avatar.MouthMask, rect, Vec2{}, s.Blend, c.mouthBlend, world)
		}
	}
}

// drawMasked composites src through mask into the destination rectangle.
// Direct alpha blending cannot apply an external mask to an arbitrary
// source, so the source is first drawn into an offscreen buffer sized to
// the rect, the mask is applied with destination-in blending, and the
// buffer is then drawn onto dst under the shared world transform.
func (c *Compositor) drawMasked(dst *ebiten.Image, src, mask *ebiten.Image, rect Rect, offset Vec2, alpha float64, blend BlendMode, world ebiten.GeoM) {
	w := int(math.Ceil(rect.Width))
	h := int(math.Ceil(rect.Height))
	if w <= 0 || h <= 0 {
		return
	}

	rt := c.rtPool.Acquire(w, h)

	var srcOp ebiten.DrawImageOptions
	sb := src.Bounds()
	srcOp.GeoM.Scale(rect.Width/float64(sb.Dx()), rect.Height/float64(sb.Dy()))
	srcOp.Filter = ebiten.FilterLinear
	rt.DrawImage(src, &srcOp)

	var maskOp ebiten.DrawImageOptions
	mb := mask.Bounds()
	maskOp.GeoM.Scale(rect.Width/float64(mb.Dx()), rect.Height/float64(mb.Dy()))
	maskOp.Filter = ebiten.FilterLinear
	maskOp.Blend = BlendMask.EbitenBlend()
	rt.DrawImage(mask, &maskOp)

	var op ebiten.DrawImageOptions
	op.GeoM.Translate(rect.X+offset.X, rect.Y+offset.Y)
	op.GeoM.Concat(world)
	op.ColorScale.ScaleAlpha(float32(clamp01(alpha)))
	op.Blend = blend.EbitenBlend()
	sub := rt.SubImage(image.Rect(0, 0, w, h)).(*ebiten.Image)
	dst.DrawImage(sub, &op)

	c.rtPool.Release(rt)
}
