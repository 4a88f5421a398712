// Package paint implements the projected-decal painting pipeline: a depth
// prepass from the nozzle, decal accumulation into a per-stroke buffer and
// a ping-pong composite onto the persistent paint map.
package paint

import (
	"github.com/Faultbox/airbrush/internal/engine/brush"
	"github.com/Faultbox/airbrush/pkg/math"
)

// DefaultDepthTolerance is the bias a fragment may sit behind the stored
// nozzle depth and still count as visible.
const DefaultDepthTolerance = 2e-5

// ProjectorCoords maps a projector clip-space position to depth-map
// texture coordinates and window depth. ok is false behind the nozzle or
// outside the unit circle of the nozzle footprint.
func ProjectorCoords(clip math.Vec4) (uv math.Vec2, depth float32, ok bool) {
	if clip[3] <= 0 {
		return math.Vec2{}, 0, false
	}
	ndcX := clip[0] / clip[3]
	ndcY := clip[1] / clip[3]
	ndcZ := clip[2] / clip[3]
	if ndcX*ndcX+ndcY*ndcY > 1 {
		return math.Vec2{}, 0, false
	}
	return math.Vec2{X: ndcX*0.5 + 0.5, Y: ndcY*0.5 + 0.5}, ndcZ*0.5 + 0.5, true
}

// DecalCoverage is the per-fragment decal law. world is the fragment
// position, clip its projector clip position and stored the depth-map
// value at ProjectorCoords(clip). It returns the deposited intensity and
// whether the fragment is kept at all.
func DecalCoverage(world math.Vec3, clip math.Vec4, stored float32, nozzle math.Vec3,
	b brush.Brush, deltaMs, tolerance float32) (float32, bool) {
	_, depth, ok := ProjectorCoords(clip)
	if !ok {
		return 0, false
	}
	if depth > stored+tolerance {
		return 0, false // occluded
	}
	return brush.Intensity(world, nozzle, b, deltaMs), true
}

// Over composites one stroke's accumulated paint onto the previous paint
// map value. Alpha follows source-over; color moves toward the paint by
// the share of the new alpha the stroke contributed.
func Over(prev, paint math.Vec4) math.Vec4 {
	pa, sa := prev[3], paint[3]
	a := math.Clamp(pa+sa*(1-pa), 0, 1)

	var m float32
	if denom := pa*(1-sa) + sa; denom != 0 {
		m = sa / denom
	}
	m = math.Clamp(m, 0, 1)

	return math.Vec4{
		prev[0] + (paint[0]-prev[0])*m,
		prev[1] + (paint[1]-prev[1])*m,
		prev[2] + (paint[2]-prev[2])*m,
		a,
	}
}
