// Package visage is a 2D talking-avatar compositor engine for [Ebitengine].
//
// Visage renders an avatar by compositing independently animated face-region
// layers (base face, eyes, mouth) driven by a timestamped animation timeline
// of viseme cues, blink events, and saccade events synchronized to media
// playback. Feed it the current playback position and the cue/event lists
// each frame; it converts those sparse discrete events into continuously
// interpolated layer parameters and draws masked, cross-faded layers onto
// any *ebiten.Image.
//
// # Quick start
//
//	src := visage.NewFSSource(os.DirFS("avatars"))
//	session := visage.NewSession(src, nil, nil)
//	session.BeginLoad("my_avatar")
//
//	// Inside your ebiten game loop:
//	func (g *Game) Update() error {
//		g.session.Update(g.clock.PositionMs(), g.cues, g.events, 1.0/float64(ebiten.TPS()))
//		return nil
//	}
//	func (g *Game) Draw(screen *ebiten.Image) {
//		g.session.Render(screen)
//	}
//
// # Lifecycle
//
// Loading is a strict two-phase affair: [Load] (or [Session.BeginLoad])
// fetches the manifest and decodes every required asset into an immutable
// [LoadedAvatar]; the synchronous update/render phase only ever reads from
// it. While loading, [Session.Render] shows a placeholder rather than
// partial content. The optional inputs (anchor timeline, idle video) degrade
// silently to static anchors and the static base image.
//
// Nothing in the per-frame path can fail: unknown visemes skip the mouth
// layer, missing tracked anchors fall back to the manifest's static ones,
// and calibration store failures are logged and ignored.
//
// # Subpackages
//
// audioclock implements [MediaClock] over real audio playback via beep.
// calstore/sqlite persists calibration adjustments across runs.
//
// [Ebitengine]: https://ebitengine.org
package visage
