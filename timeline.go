package visage

import (
	"encoding/json"
	"fmt"
)

// EventType identifies a kind of eye event.
const (
	EventBlink   = "blink"
	EventSaccade = "saccade"
)

// MouthCue is a timestamped instruction selecting the active viseme from
// TMs onward until superseded by a later cue. Weight is advisory; timeline
// visualizations consume it, the sampler does not.
type MouthCue struct {
	TMs    float64 `json:"t_ms"`
	Viseme string  `json:"viseme"`
	Weight float64 `json:"weight,omitempty"`
}

// EyeEvent is a blink or saccade spanning [TMs, TMs+DurationMs].
// Direction applies to saccades only: "left", "right", "up", "down".
type EyeEvent struct {
	TMs        float64 `json:"t_ms"`
	Type       string  `json:"event_type"`
	DurationMs float64 `json:"duration_ms"`
	Direction  string  `json:"direction,omitempty"`
}

// TimelineFrame is one sampled anchor position from the idle video.
// Mouth and Eyes are nil for frames where that region was not detected.
type TimelineFrame struct {
	Frame  int     `json:"frame"`
	TimeMs int     `json:"time_ms"`
	Mouth  *Anchor `json:"mouth,omitempty"`
	Eyes   *Anchor `json:"eyes,omitempty"`
}

// TimelineSource records properties of the video the timeline was sampled
// from. FPS is required to map playback time back to frame indices.
type TimelineSource struct {
	Video       string  `json:"video"`
	FPS         float64 `json:"fps"`
	FrameCount  int     `json:"frame_count"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	SampleEvery int     `json:"sample_every_n_frames"`
}

// AnchorTimeline holds landmark-tracked anchor rectangles sampled from an
// avatar's idle video, used in place of the static manifest anchors while
// the idle source is playing.
type AnchorTimeline struct {
	Version int             `json:"version"`
	Source  TimelineSource  `json:"source"`
	Frames  []TimelineFrame `json:"frames"`
}

// ParseAnchorTimeline parses an anchor timeline JSON document.
func ParseAnchorTimeline(jsonData []byte) (*AnchorTimeline, error) {
	var tl AnchorTimeline
	if err := json.Unmarshal(jsonData, &tl); err != nil {
		return nil, fmt.Errorf("visage: failed to parse anchor timeline: %w", err)
	}
	if tl.Source.FPS <= 0 {
		return nil, fmt.Errorf("visage: anchor timeline has invalid source fps %v", tl.Source.FPS)
	}
	if len(tl.Frames) == 0 {
		return nil, fmt.Errorf("visage: anchor timeline has no frames")
	}
	return &tl, nil
}

// nearestScanLimit bounds the linear scan in NearestFrame: once a timeline
// frame is more than this many frames past the target, no later frame can
// be closer.
const nearestScanLimit = 10

// NearestFrame returns the timeline frame whose index is closest to target.
// Ties favor the earlier frame. The scan early-terminates once frames are
// more than nearestScanLimit past the target.
func (tl *AnchorTimeline) NearestFrame(target int) *TimelineFrame {
	if len(tl.Frames) == 0 {
		return nil
	}
	best := &tl.Frames[0]
	bestDist := absInt(tl.Frames[0].Frame - target)
	for i := 1; i < len(tl.Frames); i++ {
		f := &tl.Frames[i]
		if f.Frame > target+nearestScanLimit {
			break
		}
		d := absInt(f.Frame - target)
		if d < bestDist {
			best = f
			bestDist = d
		}
	}
	return best
}

// FrameAtTime returns the timeline frame nearest to the given playback time
// in seconds.
func (tl *AnchorTimeline) FrameAtTime(seconds float64) *TimelineFrame {
	return tl.NearestFrame(int(seconds * tl.Source.FPS))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
