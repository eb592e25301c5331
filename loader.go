package visage

import (
	"bytes"
	"fmt"
	"image"
	"io/fs"
	"path"

	_ "image/jpeg"
	_ "image/png"

	"github.com/hajimehoshi/ebiten/v2"
)

// Well-known file names within an avatar pack.
const (
	manifestFile = "manifest.json"
	timelineFile = "anchors_timeline.json"
)

// AssetSource supplies avatar pack bytes. How the bytes arrive (disk, bundle,
// a completed network fetch) is the host application's concern; the loader
// only reads.
type AssetSource interface {
	// Manifest returns the manifest JSON for an avatar.
	Manifest(avatarID string) ([]byte, error)
	// Asset returns a named file from the avatar's pack.
	Asset(avatarID, name string) ([]byte, error)
}

// fsSource serves avatar packs laid out as <avatarID>/<file> in an fs.FS.
type fsSource struct {
	fsys fs.FS
}

// NewFSSource creates an AssetSource over a filesystem where each avatar
// occupies a directory named by its id.
func NewFSSource(fsys fs.FS) AssetSource {
	return fsSource{fsys: fsys}
}

func (s fsSource) Manifest(avatarID string) ([]byte, error) {
	return fs.ReadFile(s.fsys, path.Join(avatarID, manifestFile))
}

func (s fsSource) Asset(avatarID, name string) ([]byte, error) {
	return fs.ReadFile(s.fsys, path.Join(avatarID, name))
}

// IdleOpener turns a manifest's idle-video declaration into a playing
// IdleSource. Hosts supply one when they can decode the format; without
// one, or when opening fails, tracking degrades to static anchors.
type IdleOpener func(avatarID, filename string) (IdleSource, error)

// LoadedAvatar is the immutable product of the load phase. Every required
// image is decoded before the first animated render; the render/update
// phase only ever reads from it.
type LoadedAvatar struct {
	Manifest *Manifest

	Base       *ebiten.Image
	MouthSheet *ebiten.Image
	MouthMask  *ebiten.Image
	EyesOpen   *ebiten.Image
	EyesHalf   *ebiten.Image
	EyesClosed *ebiten.Image
	EyesMask   *ebiten.Image

	// Optional tracked-idle inputs. Both nil when the avatar pack ships
	// without them or when loading them failed (non-fatal).
	Timeline *AnchorTimeline
	Idle     IdleSource
}

// Tracking reports whether the optional tracked-anchor inputs loaded.
func (a *LoadedAvatar) Tracking() bool {
	return a.Timeline != nil && a.Idle != nil
}

// EyeFrame returns the discrete eye image for a clamped openness value:
// open above 0.66, half above 0.33, closed otherwise.
func (a *LoadedAvatar) EyeFrame(openness float64) *ebiten.Image {
	switch {
	case openness > 0.66:
		return a.EyesOpen
	case openness > 0.33:
		return a.EyesHalf
	default:
		return a.EyesClosed
	}
}

// MouthFrame returns the spritesheet sub-image for a viseme frame index.
// Frames are laid out horizontally at fixed dimensions.
func (a *LoadedAvatar) MouthFrame(index int) *ebiten.Image {
	fw := a.Manifest.Mouth.FrameWidth
	fh := a.Manifest.Mouth.FrameHeight
	r := image.Rect(index*fw, 0, (index+1)*fw, fh)
	return a.MouthSheet.SubImage(r).(*ebiten.Image)
}

// Load fetches and decodes an avatar pack into an immutable LoadedAvatar.
// Failure of the manifest or any required image aborts the load; failure of
// the optional anchor timeline or idle video only disables tracking.
// openIdle may be nil.
func Load(src AssetSource, avatarID string, openIdle IdleOpener) (*LoadedAvatar, error) {
	raw, err := src.Manifest(avatarID)
	if err != nil {
		return nil, fmt.Errorf("visage: fetch manifest for %q: %w", avatarID, err)
	}
	m, err := ParseManifest(raw)
	if err != nil {
		return nil, err
	}

	av := &LoadedAvatar{Manifest: m}

	required := []struct {
		name string
		dst  **ebiten.Image
	}{
		{m.Base.Src, &av.Base},
		{m.Mouth.Spritesheet, &av.MouthSheet},
		{m.Mouth.Mask, &av.MouthMask},
		{m.Eyes.Frames.Open, &av.EyesOpen},
		{m.Eyes.Frames.Half, &av.EyesHalf},
		{m.Eyes.Frames.Closed, &av.EyesClosed},
		{m.Eyes.Mask, &av.EyesMask},
	}
	for _, req := range required {
		img, err := loadImage(src, avatarID, req.name)
		if err != nil {
			return nil, err
		}
		*req.dst = img
	}

	// Optional tracked-anchor inputs: degrade silently, keep the flag
	// observable through Tracking().
	if data, err := src.Asset(avatarID, timelineFile); err == nil {
		tl, err := ParseAnchorTimeline(data)
		if err != nil {
			debugf("avatar %q: invalid anchor timeline, tracking disabled: %v", avatarID, err)
		} else {
			av.Timeline = tl
		}
	}
	if m.Base.IdleVideo != "" && openIdle != nil {
		idle, err := openIdle(avatarID, m.Base.IdleVideo)
		if err != nil {
			debugf("avatar %q: idle source %q unavailable, tracking disabled: %v",
				avatarID, m.Base.IdleVideo, err)
		} else {
			av.Idle = idle
		}
	}

	return av, nil
}

func loadImage(src AssetSource, avatarID, name string) (*ebiten.Image, error) {
	data, err := src.Asset(avatarID, name)
	if err != nil {
		return nil, fmt.Errorf("visage: fetch asset %q for %q: %w", name, avatarID, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("visage: decode asset %q for %q: %w", name, avatarID, err)
	}
	return ebiten.NewImageFromImage(img), nil
}
