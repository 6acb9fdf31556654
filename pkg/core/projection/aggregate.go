package projection

import (
	"business_planner/pkg/core/assumption"
)

// TotalVolume sums the resolved volume of all segments at a 0-indexed month.
// Negative segment volumes are clamped to 0 before summing.
func TotalVolume(segments []assumption.Segment, month int, d Defaults) float64 {
	total := 0.0
	for _, seg := range segments {
		v := ResolveVolume(seg, month, d).Value
		if v > 0 {
			total += v
		}
	}
	return total
}

// SegmentVolumes returns each segment's clamped volume at a month, keyed by segment ID.
func SegmentVolumes(segments []assumption.Segment, month int, d Defaults) map[string]float64 {
	out := make(map[string]float64, len(segments))
	for _, seg := range segments {
		v := ResolveVolume(seg, month, d).Value
		if v < 0 {
			v = 0
		}
		out[seg.ID] += v
	}
	return out
}
