package gradial

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
)

// NormalizeAngle maps an atan2 result in [-π, π] onto [0, 2π).
func NormalizeAngle(angle float32) float32 {
	if angle < 0 {
		angle += tau
	}
	if angle >= tau {
		// Tiny negative angles round up to 2π in float32.
		angle = 0
	}
	return angle
}

// SlotWidth returns the angular width of each of the segments slots.
func SlotWidth(segments int) float32 {
	return tau / float32(segments)
}

// SegmentIndex returns the slot containing the normalized angle.
func SegmentIndex(angle float32, segments int) int {
	idx := int(math32.Floor(angle / SlotWidth(segments)))
	return min(max(idx, 0), segments-1)
}

// InGap reports whether the normalized angle lies in the trailing gap of its
// slot. The visible arc is [start, start+slot-gap), the gap edge itself is rejected.
func InGap(angle float32, segments int, gap float32) bool {
	slot := SlotWidth(segments)
	idx := SegmentIndex(angle, segments)
	return angle-float32(idx)*slot >= slot-gap
}

// SegmentMidAngle returns the angle at the center of segment idx's visible arc.
func SegmentMidAngle(idx, segments int, gap float32) float32 {
	slot := SlotWidth(segments)
	return float32(idx)*slot + (slot-gap)/2
}

// HoverSegment returns the segment under pointer for a menu centered at center
// or [NoSegment] when the pointer rests inside the inner cutout. Gaps are not
// considered so that the selection never flickers while sweeping.
func HoverSegment(u *Uniforms, center, pointer ms2.Vec) int {
	dx := pointer.X - center.X
	dy := pointer.Y - center.Y
	if math32.Hypot(dx, dy) <= u.InnerRadius {
		return NoSegment
	}
	angle := NormalizeAngle(math32.Atan2(dy, dx))
	return SegmentIndex(angle, int(u.Segments))
}

// PulseRadius returns the outer boundary of the active segment at u.Time.
func PulseRadius(u *Uniforms) float32 {
	return u.Radius + u.PulseAmplitude*math32.Sin(u.Time*u.PulseSpeed)
}
