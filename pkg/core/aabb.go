package core

import "math"

// AABB represents an axis-aligned bounding box. It only ever grows through
// IncludeBox and IncludePoint.
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// NewEmptyAABB returns an inverted box that any include turns valid
func NewEmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: NewVec3(inf, inf, inf),
		Max: NewVec3(-inf, -inf, -inf),
	}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	box := NewEmptyAABB()
	for _, point := range points {
		box.IncludePoint(point)
	}
	return box
}

// IncludePoint grows the box to contain point
func (aabb *AABB) IncludePoint(point Vec3) {
	aabb.Min = Vec3{
		X: math.Min(aabb.Min.X, point.X),
		Y: math.Min(aabb.Min.Y, point.Y),
		Z: math.Min(aabb.Min.Z, point.Z),
	}
	aabb.Max = Vec3{
		X: math.Max(aabb.Max.X, point.X),
		Y: math.Max(aabb.Max.Y, point.Y),
		Z: math.Max(aabb.Max.Z, point.Z),
	}
}

// IncludeBox grows the box to contain other. Invalid boxes are ignored.
func (aabb *AABB) IncludeBox(other AABB) {
	if !other.IsValid() {
		return
	}
	aabb.IncludePoint(other.Min)
	aabb.IncludePoint(other.Max)
}

// Trace tests the ray against the box with the slab method over [0, ray.MaxT].
// It returns whether the ray enters the box and the entry distance, which is
// zero when the origin is already inside.
func (aabb AABB) Trace(ray Ray) (bool, float64) {
	return aabb.Hit(ray, 0, ray.Limit())
}

// Hit runs the slab test within [tMin, tMax] and reports the entry distance
func (aabb AABB) Hit(ray Ray, tMin, tMax float64) (bool, float64) {
	for axis := 0; axis < 3; axis++ {
		min := aabb.Min.Axis(axis)
		max := aabb.Max.Axis(axis)
		origin := ray.Origin.Axis(axis)
		direction := ray.Direction.Axis(axis)

		// Handle parallel rays (direction near zero)
		if math.Abs(direction) < 1e-12 {
			if origin < min || origin > max {
				return false, 0
			}
			continue
		}

		invDirection := 1.0 / direction
		t1 := (min - origin) * invDirection
		t2 := (max - origin) * invDirection
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return false, 0
		}
	}

	return true, tMin
}

// Overlaps reports whether the two boxes share volume on every axis. The
// comparison is strict, so boxes that only touch at a face do not overlap.
func (aabb AABB) Overlaps(other AABB) bool {
	for axis := 0; axis < 3; axis++ {
		if !(aabb.Min.Axis(axis) < other.Max.Axis(axis) && other.Min.Axis(axis) < aabb.Max.Axis(axis)) {
			return false
		}
	}
	return true
}

// Contains reports whether point lies inside the box, boundary included
func (aabb AABB) Contains(point Vec3) bool {
	for axis := 0; axis < 3; axis++ {
		p := point.Axis(axis)
		if p < aabb.Min.Axis(axis) || p > aabb.Max.Axis(axis) {
			return false
		}
	}
	return true
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	result := aabb
	result.IncludeBox(other)
	return result
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent
func (aabb AABB) LongestAxis() int {
	size := aabb.Size()
	if size.X > size.Y && size.X > size.Z {
		return 0
	}
	if size.Y > size.Z {
		return 1
	}
	return 2
}

// IsValid returns true if this is a valid AABB (min <= max for all axes)
func (aabb AABB) IsValid() bool {
	return aabb.Min.X <= aabb.Max.X &&
		aabb.Min.Y <= aabb.Max.Y &&
		aabb.Min.Z <= aabb.Max.Z
}

// Expand returns an AABB expanded by the given amount in all directions
func (aabb AABB) Expand(amount float64) AABB {
	expansion := NewVec3(amount, amount, amount)
	return AABB{
		Min: aabb.Min.Subtract(expansion),
		Max: aabb.Max.Add(expansion),
	}
}

// Octants splits the box into its eight equal octants. Bit 0 of the index
// selects the far half along X, bit 1 along Y, bit 2 along Z.
func (aabb AABB) Octants() [8]AABB {
	center := aabb.Center()
	var octants [8]AABB
	for i := range octants {
		lo, hi := aabb.Min, center
		if i&1 != 0 {
			lo.X, hi.X = center.X, aabb.Max.X
		}
		if i&2 != 0 {
			lo.Y, hi.Y = center.Y, aabb.Max.Y
		}
		if i&4 != 0 {
			lo.Z, hi.Z = center.Z, aabb.Max.Z
		}
		octants[i] = AABB{Min: lo, Max: hi}
	}
	return octants
}
