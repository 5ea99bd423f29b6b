package geom

// Shape is a closed region on the map plane. Zone placement and terrain
// synthesis only ever query regions through this interface, so non-circular
// zone footprints can be added without touching the placement algorithm.
type Shape interface {
	// Occupies reports whether p lies inside the shape.
	Occupies(p Vec2) bool
	// DistanceToBoundary returns the signed distance from p to the shape
	// boundary: negative inside, positive outside.
	DistanceToBoundary(p Vec2) float64
	// Bounds returns the axis-aligned bounding box as (min, max).
	Bounds() (Vec2, Vec2)
}

// Circle is a disk-shaped region.
type Circle struct {
	Center Vec2
	Radius float64
}

// Occupies reports whether p lies inside the disk.
func (c Circle) Occupies(p Vec2) bool {
	return c.Center.Distance(p) <= c.Radius
}

// DistanceToBoundary returns the signed distance from p to the circle edge.
func (c Circle) DistanceToBoundary(p Vec2) float64 {
	return c.Center.Distance(p) - c.Radius
}

// Bounds returns the bounding box of the disk.
func (c Circle) Bounds() (Vec2, Vec2) {
	r := Vec2{c.Radius, c.Radius}
	return c.Center.Sub(r), c.Center.Add(r)
}

// Overlaps reports whether two disks overlap when each is grown by clearance/2.
func (c Circle) Overlaps(other Circle, clearance float64) bool {
	return c.Center.Distance(other.Center) < c.Radius+other.Radius+clearance
}

// Rect is an axis-aligned rectangular region.
type Rect struct {
	Min, Max Vec2
}

// Occupies reports whether p lies inside the rectangle.
func (r Rect) Occupies(p Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Z >= r.Min.Z && p.Z <= r.Max.Z
}

// DistanceToBoundary returns the signed distance from p to the rectangle edge.
func (r Rect) DistanceToBoundary(p Vec2) float64 {
	dx := max3(r.Min.X-p.X, 0, p.X-r.Max.X)
	dz := max3(r.Min.Z-p.Z, 0, p.Z-r.Max.Z)
	if dx > 0 || dz > 0 {
		return Vec2{dx, dz}.Length()
	}
	// Inside: negative distance to the nearest edge.
	inner := min4(p.X-r.Min.X, r.Max.X-p.X, p.Z-r.Min.Z, r.Max.Z-p.Z)
	return -inner
}

// Bounds returns the rectangle itself.
func (r Rect) Bounds() (Vec2, Vec2) {
	return r.Min, r.Max
}

// Width returns the extent along X.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the extent along Z.
func (r Rect) Height() float64 { return r.Max.Z - r.Min.Z }

func max3(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func min4(a, b, c, d float64) float64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	if d < m {
		m = d
	}
	return m
}
