package core

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestReflect(t *testing.T) {
	normal := NewVec3(0, 1, 0)
	incoming := NewVec3(1, -1, 0).Normalize()

	reflected := Reflect(incoming, normal)
	test.That(t, reflected.X, test.ShouldAlmostEqual, incoming.X, 1e-12)
	test.That(t, reflected.Y, test.ShouldAlmostEqual, -incoming.Y, 1e-12)
	test.That(t, reflected.Length(), test.ShouldAlmostEqual, 1.0, 1e-12)

	// The normal's orientation does not matter
	test.That(t, Reflect(incoming, normal.Negate()), test.ShouldResemble, reflected)
}

func TestRefract(t *testing.T) {
	tests := []struct {
		name      string
		incoming  Vec3
		normal    Vec3
		sourceIOR float64
		targetIOR float64
	}{
		{"Entering glass", NewVec3(1, -1, 0), NewVec3(0, 1, 0), 1.0, 1.5},
		{"Normal facing away", NewVec3(1, -1, 0), NewVec3(0, -1, 0), 1.0, 1.5},
		{"Leaving glass", NewVec3(0.3, -1, 0), NewVec3(0, 1, 0), 1.5, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refracted := Refract(tt.incoming, tt.normal, tt.sourceIOR, tt.targetIOR)
			test.That(t, refracted.Length(), test.ShouldAlmostEqual, 1.0, 1e-9)
			test.That(t, refracted.Y, test.ShouldBeLessThan, 0)

			// Snell's law: n1 sin(theta1) = n2 sin(theta2)
			sinI := math.Abs(tt.incoming.Normalize().X)
			sinT := math.Abs(refracted.X)
			test.That(t, tt.sourceIOR*sinI, test.ShouldAlmostEqual, tt.targetIOR*sinT, 1e-9)
		})
	}
}

func TestRefractTotalInternalReflection(t *testing.T) {
	incoming := NewVec3(1, -0.2, 0).Normalize()
	normal := NewVec3(0, 1, 0)

	refracted := Refract(incoming, normal, 1.5, 1.0)
	test.That(t, refracted.Y, test.ShouldBeGreaterThan, 0)
	test.That(t, refracted.X, test.ShouldAlmostEqual, incoming.X, 1e-9)
}

func TestRayLimit(t *testing.T) {
	test.That(t, math.IsInf(NewRay(Vec3{}, NewVec3(1, 0, 0)).Limit(), 1), test.ShouldBeTrue)
	test.That(t, math.IsInf(Ray{Direction: NewVec3(1, 0, 0)}.Limit(), 1), test.ShouldBeTrue)
	test.That(t, NewSegment(Vec3{}, NewVec3(1, 0, 0), 2).Limit(), test.ShouldEqual, 2.0)
	test.That(t, NewRay(NewVec3(1, 1, 1), NewVec3(0, 0, 2)).At(1.5), test.ShouldResemble, NewVec3(1, 1, 4))
}

func TestVec3_Helpers(t *testing.T) {
	v := NewVec3(2, -4, 8)
	test.That(t, v.MaxComponent(), test.ShouldEqual, 8.0)
	test.That(t, v.Axis(0), test.ShouldEqual, 2.0)
	test.That(t, v.Axis(1), test.ShouldEqual, -4.0)
	test.That(t, v.Axis(2), test.ShouldEqual, 8.0)
	test.That(t, v.DivideVec(NewVec3(2, 0, 4)), test.ShouldResemble, NewVec3(1, 0, 2))
	test.That(t, Vec3{}.IsZero(), test.ShouldBeTrue)
	test.That(t, NewVec3(math.NaN(), 0, 0).IsFinite(), test.ShouldBeFalse)
	test.That(t, NewVec3(1, 1, 1).Luminance(), test.ShouldAlmostEqual, 1.0, 1e-12)
}
