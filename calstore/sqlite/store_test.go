package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/phanxgames/visage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "calibration.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for blank path")
	}
}

func TestGetUnknownAvatar(t *testing.T) {
	s := openTestStore(t)
	got, err := s.Get("nobody")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil map for unknown avatar, got %v", got)
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	s := openTestStore(t)
	in := map[string]visage.Adjust{
		"mouth": {DX: 4, DY: -2, DW: 1, DH: 0},
		"eyes":  {DX: -1, DY: 3},
	}
	if err := s.Set("ava", in); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := s.Get("ava")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d regions, want 2", len(got))
	}
	if got["mouth"] != in["mouth"] || got["eyes"] != in["eyes"] {
		t.Errorf("round trip mismatch: %v != %v", got, in)
	}
}

func TestSetUpserts(t *testing.T) {
	s := openTestStore(t)
	if err := s.Set("ava", map[string]visage.Adjust{"mouth": {DX: 1}}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set("ava", map[string]visage.Adjust{"mouth": {DX: 7, DH: 2}}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := s.Get("ava")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if a := got["mouth"]; a.DX != 7 || a.DH != 2 {
		t.Errorf("mouth adjust = %+v, want dx 7 dh 2", a)
	}
}

func TestAvatarsIsolated(t *testing.T) {
	s := openTestStore(t)
	if err := s.Set("a", map[string]visage.Adjust{"mouth": {DX: 1}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Set("b", map[string]visage.Adjust{"mouth": {DX: 2}}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get("a")
	if err != nil {
		t.Fatal(err)
	}
	if got["mouth"].DX != 1 {
		t.Errorf("avatar a mouth dx = %v, want 1", got["mouth"].DX)
	}
}

func TestCloseNil(t *testing.T) {
	var s *Store
	if err := s.Close(); err != nil {
		t.Errorf("nil close: %v", err)
	}
}
