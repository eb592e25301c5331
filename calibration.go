package visage

// Adjust is a user calibration delta applied additively atop whichever
// anchor rectangle was selected for a region.
type Adjust struct {
	DX, DY, DW, DH float64
}

// add returns the rectangle with the delta applied.
func (a Adjust) add(r Rect) Rect {
	return Rect{
		X:      r.X + a.DX,
		Y:      r.Y + a.DY,
		Width:  r.Width + a.DW,
		Height: r.Height + a.DH,
	}
}

// CalibrationStore persists per-avatar calibration deltas keyed by region
// name. Absence of an entry is equivalent to all-zero adjustments. There
// are no transactional requirements; store failures are non-fatal to the
// session.
type CalibrationStore interface {
	Get(avatarID string) (map[string]Adjust, error)
	Set(avatarID string, adjustments map[string]Adjust) error
}

// Calibration is the in-memory calibration view for one loaded avatar. It
// keeps functioning for the session even when the backing store fails.
type Calibration struct {
	AvatarID string
	regions  map[Region]Adjust
}

// NewCalibration builds the in-memory view from a store snapshot. A nil
// snapshot means no recorded adjustments.
func NewCalibration(avatarID string, stored map[string]Adjust) *Calibration {
	c := &Calibration{AvatarID: avatarID, regions: make(map[Region]Adjust, 2)}
	for _, region := range []Region{RegionMouth, RegionEyes} {
		if a, ok := stored[region.String()]; ok {
			c.regions[region] = a
		}
	}
	return c
}

// Get returns the current delta for a region (zero if none recorded).
func (c *Calibration) Get(region Region) Adjust {
	if c == nil {
		return Adjust{}
	}
	return c.regions[region]
}

// Nudge adds the given deltas onto the region's current adjustment and
// returns the result.
func (c *Calibration) Nudge(region Region, dx, dy, dw, dh float64) Adjust {
	a := c.regions[region]
	a.DX += dx
	a.DY += dy
	a.DW += dw
	a.DH += dh
	c.regions[region] = a
	return a
}

// Export returns the store representation of the current adjustments.
func (c *Calibration) Export() map[string]Adjust {
	out := make(map[string]Adjust, len(c.regions))
	for region, a := range c.regions {
		out[region.String()] = a
	}
	return out
}

// MemoryStore is a CalibrationStore backed by a map. Useful for tests and
// for sessions that do not persist calibration across runs. Not safe for
// concurrent use; the engine is single-threaded by design.
type MemoryStore struct {
	entries map[string]map[string]Adjust
}

// NewMemoryStore creates an empty in-memory calibration store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]map[string]Adjust)}
}

// Get returns the stored adjustments for an avatar, or nil when absent.
func (s *MemoryStore) Get(avatarID string) (map[string]Adjust, error) {
	stored, ok := s.entries[avatarID]
	if !ok {
		return nil, nil
	}
	out := make(map[string]Adjust, len(stored))
	for k, v := range stored {
		out[k] = v
	}
	return out, nil
}

// Set replaces the stored adjustments for an avatar.
func (s *MemoryStore) Set(avatarID string, adjustments map[string]Adjust) error {
	stored := make(map[string]Adjust, len(adjustments))
	for k, v := range adjustments {
		stored[k] = v
	}
	s.entries[avatarID] = stored
	return nil
}
