package core

import (
	"math"
	"math/rand"
)

// Sampler hands out uniform random numbers in [0, 1). Renderers take one
// explicitly so tests and parallel workers control their own sequences.
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
}

// RandomSampler draws from a math/rand generator. It is not safe for
// concurrent use; give each goroutine its own.
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler wraps random
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own generator seeded with seed
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns one number in [0, 1)
func (rs *RandomSampler) Get1D() float64 {
	return rs.random.Float64()
}

// Get2D returns a pair of numbers in [0, 1)
func (rs *RandomSampler) Get2D() Vec2 {
	u := rs.random.Float64()
	return NewVec2(u, rs.random.Float64())
}

// OrthonormalBasis returns two unit tangents that complete normal to a right-handed frame
func OrthonormalBasis(normal Vec3) (Vec3, Vec3) {
	helper := NewVec3(1, 0, 0)
	if math.Abs(normal.X) > 0.1 {
		helper = NewVec3(0, 1, 0)
	}
	tangent := helper.Cross(normal).Normalize()
	return tangent, normal.Cross(tangent)
}

// SampleCosineHemisphere maps sample to a direction around normal with
// density proportional to the cosine of the angle to normal
func SampleCosineHemisphere(normal Vec3, sample Vec2) Vec3 {
	phi := 2 * math.Pi * sample.X
	sinTheta := math.Sqrt(sample.Y)
	cosTheta := math.Sqrt(1 - sample.Y)

	tangent, bitangent := OrthonormalBasis(normal)
	local := tangent.Multiply(sinTheta * math.Cos(phi)).
		Add(bitangent.Multiply(sinTheta * math.Sin(phi))).
		Add(normal.Multiply(cosTheta))
	return local.Normalize()
}

// SampleOnUnitSphere maps sample to a uniformly distributed unit vector
func SampleOnUnitSphere(sample Vec2) Vec3 {
	cosTheta := 1 - 2*sample.X
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * sample.Y
	return NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
}
