package noise

import "math"

// Field is a 2D scalar field with values in [0, 1].
type Field struct {
	Width, Height int
	values        []float64
}

// NewField allocates a zeroed field.
func NewField(width, height int) *Field {
	return &Field{Width: width, Height: height, values: make([]float64, width*height)}
}

// At returns the value at (x, z).
func (f *Field) At(x, z int) float64 {
	return f.values[z*f.Width+x]
}

// Set stores v at (x, z).
func (f *Field) Set(x, z int, v float64) {
	f.values[z*f.Width+x] = v
}

// Sample returns the bilinearly interpolated value at fractional coordinates.
func (f *Field) Sample(x, z float64) float64 {
	x = clamp(x, 0, float64(f.Width-1))
	z = clamp(z, 0, float64(f.Height-1))
	x0, z0 := int(x), int(z)
	x1, z1 := x0+1, z0+1
	if x1 >= f.Width {
		x1 = f.Width - 1
	}
	if z1 >= f.Height {
		z1 = f.Height - 1
	}
	fx, fz := x-float64(x0), z-float64(z0)
	top := f.At(x0, z0)*(1-fx) + f.At(x1, z0)*fx
	bot := f.At(x0, z1)*(1-fx) + f.At(x1, z1)*fx
	return top*(1-fz) + bot*fz
}

// FractalMap generates a fractal value-noise field normalized to [0, 1].
// Values below cutoff are floored to 0, carving out flat lowlands.
func (g *Generator) FractalMap(width, height, octaves int, cutoff float64) *Field {
	f := NewField(width, height)

	amplitude := 1.0
	frequency := 8.0
	totalAmp := 0.0
	for oct := 0; oct < octaves; oct++ {
		lattice := g.lattice(int(frequency)+2, int(frequency)+2)
		for z := 0; z < height; z++ {
			for x := 0; x < width; x++ {
				lx := float64(x) / float64(width-1) * frequency
				lz := float64(z) / float64(height-1) * frequency
				f.values[z*width+x] += lattice.Sample(lx, lz) * amplitude
			}
		}
		totalAmp += amplitude
		amplitude *= 0.5
		frequency *= 2
	}

	// Normalize to [0,1] then apply the cutoff floor.
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range f.values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	for i, v := range f.values {
		n := (v - lo) / span
		if n < cutoff {
			n = 0
		}
		f.values[i] = n
	}
	return f
}

// lattice builds a grid of random values with smoothstep sampling.
func (g *Generator) lattice(width, height int) *Field {
	f := NewField(width, height)
	for i := range f.values {
		f.values[i] = g.Float()
	}
	return f
}

// IslandMask generates a radial falloff mask perturbed by noise, forcing the
// playable terrain into an island surrounded by sea.
func (g *Generator) IslandMask(width, height int) *Field {
	perturb := g.FractalMap(width, height, 3, 0)
	f := NewField(width, height)
	cx, cz := float64(width-1)/2, float64(height-1)/2
	maxDist := math.Min(cx, cz)
	for z := 0; z < height; z++ {
		for x := 0; x < width; x++ {
			dx, dz := (float64(x)-cx)/maxDist, (float64(z)-cz)/maxDist
			d := math.Sqrt(dx*dx + dz*dz)
			// Noise bends the shoreline so the island is not a disk.
			d += (perturb.At(x, z) - 0.5) * 0.7
			v := 1 - smoothstep(0.55, 1.0, d)
			f.Set(x, z, v)
		}
	}
	return f
}

func smoothstep(edge0, edge1, x float64) float64 {
	t := clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
