// Package plan computes the ordered source segments needed to assemble a
// crossfade loop. It is pure arithmetic: no I/O, no media tool calls.
package plan

import (
	"fmt"

	"github.com/sebastiangraz/videolooper/internal/types"
)

// Build returns the playback-ordered segments for a crossfade loop over a
// source of the given duration. The reverse technique needs no plan.
//
// With fade == 0 the loop is a pure reorder: play from startSecond to the
// end, then from the beginning up to startSecond, all stream-copied. With
// fade > 0 the tail [duration-fade, duration) is blended into the head
// [0, fade) so the seam lands exactly on the loop boundary; the remaining
// content flanks the blend. Segments whose computed duration is not positive
// are omitted, never emitted zero-padded.
func Build(duration, fade, start float64) (types.SegmentPlan, error) {
	if duration <= 0 {
		return nil, &types.ValidationError{Reason: fmt.Sprintf("duration must be > 0, got %g", duration)}
	}
	if fade < 0 {
		return nil, &types.ValidationError{Reason: fmt.Sprintf("fade duration must be >= 0, got %g", fade)}
	}
	if start < 0 || start >= duration {
		return nil, &types.ValidationError{Reason: fmt.Sprintf("start second %g outside [0, %g)", start, duration)}
	}
	if fade > 0 && fade >= duration/2 {
		return nil, &types.ValidationError{Reason: fmt.Sprintf("fade %gs too long relative to %gs clip", fade, duration)}
	}

	if fade == 0 {
		if start == 0 {
			return types.SegmentPlan{
				{Role: types.RoleFullCopy, SourceStart: 0, SourceDuration: duration},
			}, nil
		}
		return types.SegmentPlan{
			{Role: types.RoleSegmentAfterStart, SourceStart: start, SourceDuration: duration - start},
			{Role: types.RoleSegmentBeforeStart, SourceStart: 0, SourceDuration: start},
		}, nil
	}

	// The blend consumes both boundary windows: [duration-fade, duration)
	// fading into [0, fade). Its spec records the tail range; the blend step
	// derives the head range from the same fade length.
	blend := types.SegmentSpec{
		Role:           types.RoleCrossfadeBlend,
		SourceStart:    duration - fade,
		SourceDuration: fade,
		Reencode:       true,
	}

	if start == 0 {
		return types.SegmentPlan{
			{Role: types.RoleMainBody, SourceStart: fade, SourceDuration: duration - 2*fade, Reencode: true},
			blend,
		}, nil
	}

	var out types.SegmentPlan
	if d := (duration - fade) - start; d > 0 {
		out = append(out, types.SegmentSpec{
			Role:           types.RoleSegmentAfterStart,
			SourceStart:    start,
			SourceDuration: d,
			Reencode:       true,
		})
	}
	out = append(out, blend)
	if d := start - fade; d > 0 {
		out = append(out, types.SegmentSpec{
			Role:           types.RoleSegmentBeforeStart,
			SourceStart:    fade,
			SourceDuration: d,
			Reencode:       true,
		})
	}
	return out, nil
}
