package voxel

// GenerateChunkBuffer runs the full staged pipeline over every voxel in
// coord's footprint, producing a freshly filled ChunkBuf. Callers
// generating many chunks concurrently should each hold their own pooled
// GenCtx (internal/runtime) rather than sharing one across goroutines.
func GenerateChunkBuffer(w *World, ctx *GenCtx, coord ChunkCoord, sx, sy, sz int) *ChunkBuf {
	ctx.Rebind(w.Params())
	buf := NewChunkBuf(coord, sx, sy, sz)
	baseX, baseY, baseZ := buf.Base()

	w.PrepareHeightTile(ctx, baseX, baseZ, sx, sz)

	for ly := 0; ly < sy; ly++ {
		wy := baseY + int32(ly)
		for lz := 0; lz < sz; lz++ {
			wz := baseZ + int32(lz)
			for lx := 0; lx < sx; lx++ {
				wx := baseX + int32(lx)
				b := w.sampleColumn(ctx, wx, wy, wz)
				buf.SetLocal(lx, ly, lz, b)
			}
		}
	}
	return buf
}
