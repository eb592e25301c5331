package visage

import "testing"

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()

	got, err := store.Get("missing")
	if err != nil || got != nil {
		t.Fatalf("Get(missing) = %v, %v; want nil, nil", got, err)
	}

	in := map[string]Adjust{
		"mouth": {DX: 3, DY: -2},
		"eyes":  {DW: 10, DH: 4},
	}
	if err := store.Set("ava", in); err != nil {
		t.Fatalf("Set: %v", err)
	}
	out, err := store.Get("ava")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out["mouth"] != (Adjust{DX: 3, DY: -2}) || out["eyes"] != (Adjust{DW: 10, DH: 4}) {
		t.Errorf("round trip = %+v", out)
	}

	// Mutating the returned map must not affect the store.
	out["mouth"] = Adjust{DX: 999}
	again, _ := store.Get("ava")
	if again["mouth"].DX != 3 {
		t.Error("store should return a copy")
	}
}

func TestCalibrationFromStoredSnapshot(t *testing.T) {
	c := NewCalibration("ava", map[string]Adjust{
		"mouth": {DX: 1, DY: 2},
	})
	if c.Get(RegionMouth) != (Adjust{DX: 1, DY: 2}) {
		t.Errorf("mouth = %+v", c.Get(RegionMouth))
	}
	if c.Get(RegionEyes) != (Adjust{}) {
		t.Errorf("absent region should be zero, got %+v", c.Get(RegionEyes))
	}
}

func TestCalibrationNudgeAccumulates(t *testing.T) {
	c := NewCalibration("ava", nil)
	c.Nudge(RegionMouth, 1, 0, 0, 0)
	c.Nudge(RegionMouth, 2, -1, 5, 0)
	if got := c.Get(RegionMouth); got != (Adjust{DX: 3, DY: -1, DW: 5}) {
		t.Errorf("accumulated = %+v", got)
	}
}

func TestCalibrationExport(t *testing.T) {
	c := NewCalibration("ava", nil)
	c.Nudge(RegionEyes, 0, 4, 0, 0)
	out := c.Export()
	if out["eyes"] != (Adjust{DY: 4}) {
		t.Errorf("export = %+v", out)
	}
	if _, ok := out["mouth"]; ok {
		t.Error("untouched regions should not export")
	}
}

func TestAdjustAdd(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 50}
	a := Adjust{DX: 1, DY: -2, DW: 3, DH: 4}
	got := a.add(r)
	want := Rect{X: 11, Y: 18, Width: 103, Height: 54}
	if got != want {
		t.Errorf("add = %+v, want %+v", got, want)
	}
}

func TestNilCalibrationGetIsZero(t *testing.T) {
	var c *Calibration
	if c.Get(RegionMouth) != (Adjust{}) {
		t.Error("nil calibration should read as zero")
	}
}
