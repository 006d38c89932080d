package types

// Technique selects how the loop is synthesized.
type Technique string

const (
	TechniqueReverse   Technique = "reverse"
	TechniqueCrossfade Technique = "crossfade"
)

// ParseTechnique maps a user-supplied technique name to a known value.
// Unrecognized values fall back to reverse rather than failing; every
// deployment of this system has behaved that way and callers rely on it.
func ParseTechnique(s string) Technique {
	if Technique(s) == TechniqueCrossfade {
		return TechniqueCrossfade
	}
	return TechniqueReverse
}

// VideoInfo is the probe result for a source asset.
type VideoInfo struct {
	DurationSeconds float64
	FrameRate       float64
}

// LoopRequest describes one synthesis invocation. FadeDuration and
// StartSecond are meaningful only for the crossfade technique.
type LoopRequest struct {
	Technique    Technique
	FadeDuration float64
	StartSecond  float64
}

type SegmentRole string

const (
	RoleMainBody           SegmentRole = "main_body"
	RoleSegmentBeforeStart SegmentRole = "segment_before_start"
	RoleSegmentAfterStart  SegmentRole = "segment_after_start"
	RoleCrossfadeBlend     SegmentRole = "crossfade_blend"
	RoleFullCopy           SegmentRole = "full_copy"
)

// SegmentSpec is one entry of a segment plan. SourceStart/SourceDuration
// address the source asset in seconds; SourceDuration is always > 0 —
// the planner omits empty segments instead of emitting them.
type SegmentSpec struct {
	Role           SegmentRole
	SourceStart    float64
	SourceDuration float64
	Reencode       bool
}

// SourceEnd returns the exclusive end of the segment's source range.
func (s SegmentSpec) SourceEnd() float64 { return s.SourceStart + s.SourceDuration }

// SegmentPlan is an ordered list of segments; slice order is playback order
// in the final output.
type SegmentPlan []SegmentSpec
