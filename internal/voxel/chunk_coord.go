// Package voxel hosts the chunk coordinate system, the dense chunk buffer,
// and the procedural world generator pipeline.
package voxel

// ChunkCoord addresses one chunk in chunk-grid units.
type ChunkCoord struct {
	CX, CY, CZ int32
}

// Offset returns the coordinate shifted by (dx,dy,dz).
func (c ChunkCoord) Offset(dx, dy, dz int32) ChunkCoord {
	return ChunkCoord{CX: c.CX + dx, CY: c.CY + dy, CZ: c.CZ + dz}
}

// DistanceSq returns the squared Euclidean distance to other, in chunk
// units.
func (c ChunkCoord) DistanceSq(other ChunkCoord) int64 {
	dx := int64(c.CX - other.CX)
	dy := int64(c.CY - other.CY)
	dz := int64(c.CZ - other.CZ)
	return dx*dx + dy*dy + dz*dz
}
