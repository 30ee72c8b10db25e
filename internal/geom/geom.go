// Package geom provides pure-math geometry primitives shared across the
// world generator's tower landmark stage and the mesher's vertex and
// micro-grid box output.
package geom

import "github.com/go-gl/mathgl/mgl32"

// Vec3 is a 3-component float vector, aliasing mgl32's representation so it
// interoperates with any external renderer without a conversion step.
type Vec3 = mgl32.Vec3

// AABB is an axis-aligned bounding box, inclusive of Min and exclusive of Max.
type AABB struct {
	Min Vec3
	Max Vec3
}

// NewAABB builds a box from two corners, normalizing so Min <= Max per axis.
func NewAABB(a, b Vec3) AABB {
	return AABB{
		Min: Vec3{minF(a[0], b[0]), minF(a[1], b[1]), minF(a[2], b[2])},
		Max: Vec3{maxF(a[0], b[0]), maxF(a[1], b[1]), maxF(a[2], b[2])},
	}
}

// Intersects reports whether two boxes overlap on all three axes.
func (b AABB) Intersects(o AABB) bool {
	return b.Min[0] < o.Max[0] && b.Max[0] > o.Min[0] &&
		b.Min[1] < o.Max[1] && b.Max[1] > o.Min[1] &&
		b.Min[2] < o.Max[2] && b.Max[2] > o.Min[2]
}

// Translated returns the box shifted by d.
func (b AABB) Translated(d Vec3) AABB {
	return AABB{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

// Contains reports whether p lies within the box.
func (b AABB) Contains(p Vec3) bool {
	return p[0] >= b.Min[0] && p[0] < b.Max[0] &&
		p[1] >= b.Min[1] && p[1] < b.Max[1] &&
		p[2] >= b.Min[2] && p[2] < b.Max[2]
}

func minF(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
