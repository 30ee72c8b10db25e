package voxel

import "math/rand"

// improvedNoise3D is a classic-Perlin-noise lattice generator: 256-entry
// permutation table (duplicated to 512 to avoid wraparound checks) plus the
// 16-entry 3D/2D gradient tables, matching the well-known "improved noise"
// formulation (fade curve 6t^5-15t^4+10t^3, gradient dot products at lattice
// corners). One instance backs one octave of an octaveNoise stack.
type improvedNoise3D struct {
	perm       [512]int
	ox, oy, oz float64
}

var (
	grad3X = [16]float64{1, -1, 1, -1, 1, -1, 1, -1, 0, 0, 0, 0, 1, 0, -1, 0}
	grad3Y = [16]float64{1, 1, -1, -1, 0, 0, 0, 0, 1, -1, 1, -1, 1, -1, 1, -1}
	grad3Z = [16]float64{0, 0, 0, 0, 1, 1, -1, -1, 1, 1, -1, -1, 0, 1, 0, -1}
)

func newImprovedNoise3D(rnd *rand.Rand) *improvedNoise3D {
	n := &improvedNoise3D{
		ox: rnd.Float64() * 256.0,
		oy: rnd.Float64() * 256.0,
		oz: rnd.Float64() * 256.0,
	}
	for i := 0; i < 256; i++ {
		n.perm[i] = i
	}
	for i := 0; i < 256; i++ {
		j := rnd.Intn(256-i) + i
		n.perm[i], n.perm[j] = n.perm[j], n.perm[i]
		n.perm[i+256] = n.perm[i]
	}
	return n
}

func lerp(t, a, b float64) float64 { return a + t*(b-a) }

func fade(t float64) float64 { return t * t * t * (t*(t*6.0-15.0) + 10.0) }

func floorToInt(d float64) int {
	i := int(d)
	if d < float64(i) {
		i--
	}
	return i
}

func (n *improvedNoise3D) grad3(hash int, x, y, z float64) float64 {
	i := hash & 15
	return grad3X[i]*x + grad3Y[i]*y + grad3Z[i]*z
}

func (n *improvedNoise3D) grad2(hash int, x, z float64) float64 {
	i := hash & 15
	return grad3X[i]*x + grad3Z[i]*z
}

// accumulate adds one octave's contribution into out, a flat (xSize x ySize
// x zSize) array in x-major, then z, then y order (y varies fastest).
// ySize==1 takes the 2D fast path, which ignores yOff (used by Sample2D for
// column-wise fields). noiseScale divides the raw lattice value, matching
// the original octave-weighting convention: Sample3D passes each layer's
// amp as both frequency factor and noiseScale, so each successive octave is
// sampled at half the frequency and contributes at double the amplitude.
func (n *improvedNoise3D) accumulate(out []float64, xOff, yOff, zOff float64, xSize, ySize, zSize int, xScale, yScale, zScale, noiseScale float64) {
	invScale := 1.0 / noiseScale

	if ySize == 1 {
		idx := 0
		for ix := 0; ix < xSize; ix++ {
			fx := xOff + float64(ix)*xScale + n.ox
			flx := floorToInt(fx)
			px := flx & 255
			fx -= float64(flx)
			fadeX := fade(fx)

			for iz := 0; iz < zSize; iz++ {
				fz := zOff + float64(iz)*zScale + n.oz
				flz := floorToInt(fz)
				pz := flz & 255
				fz -= float64(flz)
				fadeZ := fade(fz)

				a := n.perm[px]
				b := n.perm[a] + pz
				c := n.perm[px+1]
				d := n.perm[c] + pz

				lo := lerp(fadeX, n.grad2(n.perm[b], fx, fz), n.grad3(n.perm[d], fx-1.0, 0.0, fz))
				hi := lerp(fadeX, n.grad3(n.perm[b+1], fx, 0.0, fz-1.0), n.grad3(n.perm[d+1], fx-1.0, 0.0, fz-1.0))
				out[idx] += lerp(fadeZ, lo, hi) * invScale
				idx++
			}
		}
		return
	}

	idx := 0
	prevPY := -1
	var d1, d2, d3, d4 float64
	var a, b, c, d, e, f int

	for ix := 0; ix < xSize; ix++ {
		fx := xOff + float64(ix)*xScale + n.ox
		flx := floorToInt(fx)
		px := flx & 255
		fx -= float64(flx)
		fadeX := fade(fx)

		for iz := 0; iz < zSize; iz++ {
			fz := zOff + float64(iz)*zScale + n.oz
			flz := floorToInt(fz)
			pz := flz & 255
			fz -= float64(flz)
			fadeZ := fade(fz)

			for iy := 0; iy < ySize; iy++ {
				fy := yOff + float64(iy)*yScale + n.oy
				fly := floorToInt(fy)
				py := fly & 255
				fy -= float64(fly)
				fadeY := fade(fy)

				if iy == 0 || py != prevPY {
					prevPY = py
					a = n.perm[px] + py
					b = n.perm[a] + pz
					c = n.perm[a+1] + pz
					d = n.perm[px+1] + py
					e = n.perm[d] + pz
					f = n.perm[d+1] + pz

					d1 = lerp(fadeX, n.grad3(n.perm[b], fx, fy, fz), n.grad3(n.perm[e], fx-1.0, fy, fz))
					d2 = lerp(fadeX, n.grad3(n.perm[c], fx, fy-1.0, fz), n.grad3(n.perm[f], fx-1.0, fy-1.0, fz))
					d3 = lerp(fadeX, n.grad3(n.perm[b+1], fx, fy, fz-1.0), n.grad3(n.perm[e+1], fx-1.0, fy, fz-1.0))
					d4 = lerp(fadeX, n.grad3(n.perm[c+1], fx, fy-1.0, fz-1.0), n.grad3(n.perm[f+1], fx-1.0, fy-1.0, fz-1.0))
				}

				lo := lerp(fadeY, d1, d2)
				hi := lerp(fadeY, d3, d4)
				out[idx] += lerp(fadeZ, lo, hi) * invScale
				idx++
			}
		}
	}
}

// octaveNoise stacks several lattice generators; each successive layer is
// sampled at half the frequency and double the amplitude of the one before,
// so the finest octave weighs least.
type octaveNoise struct {
	layers []*improvedNoise3D
}

func newOctaveNoise(rnd *rand.Rand, octaves int) *octaveNoise {
	o := &octaveNoise{layers: make([]*improvedNoise3D, octaves)}
	for i := range o.layers {
		o.layers[i] = newImprovedNoise3D(rnd)
	}
	return o
}

// coordWrap keeps the accumulated sample offset within a range where
// float64 precision doesn't erode the lattice lookup at large world
// coordinates, mirroring the 16777216-period wrap used by the reference
// noise field this is ported from.
const coordWrapPeriod = 16777216

func wrapCoord(v float64) float64 {
	whole := int64(v)
	frac := v - float64(whole)
	whole %= coordWrapPeriod
	return frac + float64(whole)
}

// Sample3D fills (or allocates) a flat xSize*ySize*zSize array with the
// combined octave noise at the given integer offset and per-axis frequency
// scale. With ySize == 1 it takes the 2D column-plane path, which ignores
// yOff.
func (o *octaveNoise) Sample3D(out []float64, xOff, yOff, zOff int, xSize, ySize, zSize int, xScale, yScale, zScale float64) []float64 {
	if out == nil {
		out = make([]float64, xSize*ySize*zSize)
	} else {
		for i := range out {
			out[i] = 0
		}
	}

	amp := 1.0
	for _, layer := range o.layers {
		x0 := wrapCoord(float64(xOff) * amp * xScale)
		y0 := float64(yOff) * amp * yScale
		z0 := wrapCoord(float64(zOff) * amp * zScale)
		layer.accumulate(out, x0, y0, z0, xSize, ySize, zSize, xScale*amp, yScale*amp, zScale*amp, amp)
		amp /= 2.0
	}
	return out
}

// Sample2D is Sample3D restricted to a single Y plane, used for height and
// other column-wise noise fields.
func (o *octaveNoise) Sample2D(out []float64, xOff, zOff int, xSize, zSize int, xScale, zScale float64) []float64 {
	return o.Sample3D(out, xOff, 10, zOff, xSize, 1, zSize, xScale, 1.0, zScale)
}
