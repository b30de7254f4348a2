package integrator

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/test"

	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/lights"
)

func TestPhotonOptions_Validate(t *testing.T) {
	test.That(t, DefaultPhotonOptions().Validate(), test.ShouldBeNil)

	bad := PhotonOptions{
		DiffusePhotons: -1,
		DiffuseRadius:  0,
		SpecularRadius: 0.1,
		CausticPolicy:  CausticPolicy(9),
		Workers:        0,
	}
	err := bad.Validate()
	test.That(t, errors.Is(err, ErrInvalidOptions), test.ShouldBeTrue)
	test.That(t, multierr.Errors(err), test.ShouldHaveLength, 4)
}

func TestCausticPolicy(t *testing.T) {
	for _, policy := range []CausticPolicy{CausticPureSpecular, CausticAnySpecular, CausticDisabled} {
		parsed, err := ParseCausticPolicy(policy.String())
		test.That(t, err, test.ShouldBeNil)
		test.That(t, parsed, test.ShouldEqual, policy)
	}
	_, err := ParseCausticPolicy("sometimes")
	test.That(t, errors.Is(err, ErrInvalidOptions), test.ShouldBeTrue)

	testCases := []struct {
		policy                          CausticPolicy
		diffuseBounces, specularBounces int
		expected                        bool
	}{
		{CausticPureSpecular, 0, 1, true},
		{CausticPureSpecular, 1, 1, false},
		{CausticPureSpecular, 0, 0, false},
		{CausticAnySpecular, 2, 1, true},
		{CausticAnySpecular, 2, 0, false},
		{CausticDisabled, 0, 3, false},
	}
	for _, tc := range testCases {
		test.That(t, tc.policy.stores(tc.diffuseBounces, tc.specularBounces), test.ShouldEqual, tc.expected)
	}
}

func TestPlanEmission_ConservesPower(t *testing.T) {
	dim := lights.NewPointLight(core.Vec3{}, core.NewVec3(1, 1, 1))
	bright := lights.NewPointLight(core.Vec3{}, core.NewVec3(2, 2, 2))
	dark := lights.NewPointLight(core.Vec3{}, core.Vec3{})

	plan, err := planEmission([]core.Light{dim, bright, dark}, 900)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, plan, test.ShouldHaveLength, 2)
	test.That(t, plan[0].count, test.ShouldEqual, 300)
	test.That(t, plan[1].count, test.ShouldEqual, 600)

	for _, e := range plan {
		total := e.power.Multiply(float64(e.count))
		color := e.light.LightColor()
		test.That(t, total.X, test.ShouldAlmostEqual, color.X, 1e-12)
		test.That(t, total.Y, test.ShouldAlmostEqual, color.Y, 1e-12)
		test.That(t, total.Z, test.ShouldAlmostEqual, color.Z, 1e-12)
	}
}

func TestPlanEmission_NoIntensity(t *testing.T) {
	_, err := planEmission(nil, 100)
	test.That(t, errors.Is(err, ErrNoLightIntensity), test.ShouldBeTrue)

	_, err = planEmission([]core.Light{lights.NewPointLight(core.Vec3{}, core.Vec3{})}, 100)
	test.That(t, errors.Is(err, ErrNoLightIntensity), test.ShouldBeTrue)
}

func TestShare(t *testing.T) {
	for _, count := range []int{0, 1, 7, 100, 1001} {
		for _, workers := range []int{1, 3, 8} {
			total := 0
			for w := 0; w < workers; w++ {
				n := share(count, w, workers)
				test.That(t, math.Abs(float64(n-count/workers)), test.ShouldBeLessThanOrEqualTo, 1)
				total += n
			}
			test.That(t, total, test.ShouldEqual, count)
		}
	}
}
