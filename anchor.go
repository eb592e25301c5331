package visage

// AnchorResolver selects the pixel rectangle each region is drawn into.
// Priority: tracked timeline anchor (when tracking is on and the idle
// source is ready), else the static manifest anchor, with the calibration
// delta added on top of whichever was selected. Resolution is total: absence of
// data degrades to the static anchor and a zero delta, never an error.
type AnchorResolver struct {
	manifest    *Manifest
	timeline    *AnchorTimeline
	idle        IdleSource
	calibration *Calibration
	tracking    bool
}

// NewAnchorResolver builds a resolver. timeline and idle may be nil;
// tracking only activates when both are present.
func NewAnchorResolver(m *Manifest, tl *AnchorTimeline, idle IdleSource, cal *Calibration) *AnchorResolver {
	return &AnchorResolver{
		manifest:    m,
		timeline:    tl,
		idle:        idle,
		calibration: cal,
		tracking:    tl != nil && idle != nil,
	}
}

// TrackingEnabled reports whether tracked anchors are configured at all,
// regardless of whether the idle source is currently ready. Diagnostic.
func (r *AnchorResolver) TrackingEnabled() bool {
	return r.tracking
}

// TrackingActive reports whether the next Resolve call would consult the
// tracked timeline.
func (r *AnchorResolver) TrackingActive() bool {
	return r.tracking && r.idle.Ready()
}

// Resolve returns the anchor rectangle for a region in base-image pixel
// space, calibration included.
func (r *AnchorResolver) Resolve(region Region) Rect {
	rect := r.manifest.StaticAnchor(region)
	if r.TrackingActive() {
		if tracked, ok := r.trackedAnchor(region); ok {
			rect = tracked
		}
	}
	return r.calibration.Get(region).add(rect)
}

// trackedAnchor looks up the timeline frame nearest the idle source's
// current playback position and returns its sub-rect for the region, when
// that frame carries one.
func (r *AnchorResolver) trackedAnchor(region Region) (Rect, bool) {
	frame := r.timeline.FrameAtTime(r.idle.CurrentTime())
	if frame == nil {
		return Rect{}, false
	}
	var a *Anchor
	if region == RegionEyes {
		a = frame.Eyes
	} else {
		a = frame.Mouth
	}
	if a == nil {
		return Rect{}, false
	}
	return a.Rect(), true
}
