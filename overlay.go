package visage

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lucasb-eyer/go-colorful"
)

// Overlay hues. Calibration handles are fixed; the tracking overlay ramps
// its hue by how far the nearest tracked frame sits from the playback
// position, so stale tracking data is visible at a glance.
var (
	calibrationMouthColor = mustHex("#ff4fa0")
	calibrationEyesColor  = mustHex("#4fd0ff")
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic("visage: bad overlay hex " + s)
	}
	return c
}

func toNRGBA(c colorful.Color) color.NRGBA {
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// trackingRampColor maps a tracked-frame distance (in source frames) to a
// hue ramp: green at an exact hit through yellow to red at the scan limit.
func trackingRampColor(frameDistance int) color.NRGBA {
	t := float64(frameDistance) / float64(nearestScanLimit)
	if t > 1 {
		t = 1
	}
	fresh := colorful.Hsv(130, 0.85, 0.95)
	stale := colorful.Hsv(0, 0.85, 0.95)
	return toNRGBA(fresh.BlendHsv(stale, t))
}

// DrawCalibrationOverlay outlines the resolved anchor rectangles and labels
// them with their calibration deltas. Drawn in raw canvas coordinates,
// unaffected by the micro-motion transform.
func (c *Compositor) DrawCalibrationOverlay(dst *ebiten.Image, cal *Calibration) {
	fit := c.lastFit
	regions := []struct {
		region Region
		col    colorful.Color
	}{
		{RegionMouth, calibrationMouthColor},
		{RegionEyes, calibrationEyesColor},
	}
	for _, entry := range regions {
		rect := fit.RectToCanvas(c.resolver.Resolve(entry.region))
		strokeRect(dst, rect, toNRGBA(entry.col))
		a := cal.Get(entry.region)
		label := fmt.Sprintf("%s %+.0f,%+.0f %+.0fx%+.0f", entry.region, a.DX, a.DY, a.DW, a.DH)
		ebitenutil.DebugPrintAt(dst, label, int(rect.X), int(rect.Y)-14)
	}
}

// DrawTrackingOverlay outlines the tracked anchor rectangles for the
// current playback position. No-op while tracking is inactive.
func (c *Compositor) DrawTrackingOverlay(dst *ebiten.Image) {
	if !c.resolver.TrackingActive() {
		return
	}
	tl := c.resolver.timeline
	seconds := c.resolver.idle.CurrentTime()
	target := int(seconds * tl.Source.FPS)
	frame := tl.NearestFrame(target)
	if frame == nil {
		return
	}
	col := trackingRampColor(absInt(frame.Frame - target))

	fit := c.lastFit
	for _, a := range []*Anchor{frame.Mouth, frame.Eyes} {
		if a == nil {
			continue
		}
		strokeRect(dst, fit.RectToCanvas(a.Rect()), col)
	}
	ebitenutil.DebugPrintAt(dst, fmt.Sprintf("track f%d", frame.Frame), 4, dst.Bounds().Dy()-18)
}

func strokeRect(dst *ebiten.Image, r Rect, col color.NRGBA) {
	vector.StrokeRect(dst, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), 1, col, false)
}

// drawPlaceholder fills the canvas with a dark backdrop and a status line,
// shown while the load phase is in flight or has failed.
func drawPlaceholder(dst *ebiten.Image, status string) {
	dst.Fill(color.RGBA{R: 18, G: 18, B: 24, A: 255})
	b := dst.Bounds()
	ebitenutil.DebugPrintAt(dst, status, b.Dx()/2-len(status)*3, b.Dy()/2)
}
