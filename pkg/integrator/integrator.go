// Package integrator turns traced camera rays into colors, either from
// direct lighting alone or with photon-mapped indirect light on top.
package integrator

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/df07/go-photon-raytracer/pkg/core"
)

var (
	// ErrNoLightIntensity is returned when the scene's lights carry no power
	ErrNoLightIntensity = errors.New("scene has no light intensity")
	// ErrNotInitialized is the panic value for shading before Initialize
	ErrNotInitialized = errors.New("renderer is not initialized")
	// ErrInvalidOptions is returned when photon options are out of range
	ErrInvalidOptions = errors.New("invalid photon options")
)

// Renderer computes the color seen along a camera ray
type Renderer interface {
	// Initialize prepares the renderer. It must complete before any call
	// to ComputeSampleColor.
	Initialize(ctx context.Context) error
	// ComputeSampleColor shades the hit recorded in state, including the
	// reflection and refraction children Scene.Trace spawned into it.
	ComputeSampleColor(state *core.IntersectionState, fromCamera core.Ray, sampler core.Sampler) core.Vec3
}

// CausticPolicy decides which stored photons also go into the caustic map
type CausticPolicy int

const (
	// CausticPureSpecular stores photons whose every bounce since the light was specular
	CausticPureSpecular CausticPolicy = iota
	// CausticAnySpecular stores photons that bounced specularly at least once
	CausticAnySpecular
	// CausticDisabled leaves the caustic map empty
	CausticDisabled
)

// String returns the policy name
func (p CausticPolicy) String() string {
	switch p {
	case CausticPureSpecular:
		return "pure-specular"
	case CausticAnySpecular:
		return "any-specular"
	case CausticDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// ParseCausticPolicy converts a policy name into a CausticPolicy
func ParseCausticPolicy(name string) (CausticPolicy, error) {
	for _, p := range []CausticPolicy{CausticPureSpecular, CausticAnySpecular, CausticDisabled} {
		if p.String() == name {
			return p, nil
		}
	}
	return 0, errors.Wrapf(ErrInvalidOptions, "unknown caustic policy %q", name)
}

// stores reports whether a photon with the given bounce history belongs in the caustic map
func (p CausticPolicy) stores(diffuseBounces, specularBounces int) bool {
	switch p {
	case CausticPureSpecular:
		return specularBounces > 0 && diffuseBounces == 0
	case CausticAnySpecular:
		return specularBounces > 0
	default:
		return false
	}
}

// PhotonOptions contains photon mapping configuration
type PhotonOptions struct {
	DiffusePhotons           int     // Photons emitted by the generic pass
	SpecularPhotons          int     // Photons emitted toward specular objects, 0 disables the pass
	MaxPhotonBounces         int     // Bounce limit per photon path
	DiffuseRadius            float64 // Gather radius in the diffuse map
	SpecularRadius           float64 // Gather radius in the caustic map
	DiffuseGatherMultiplier  float64 // Scale on the diffuse estimate
	SpecularGatherMultiplier float64 // Scale on the caustic estimate
	CausticPolicy            CausticPolicy
	Workers                  int   // Parallel emission workers
	Seed                     int64 // Worker w draws from Seed+w
}

// DefaultPhotonOptions returns the photon mapping settings used by the Cornell box
func DefaultPhotonOptions() PhotonOptions {
	return PhotonOptions{
		DiffusePhotons:           1000000,
		MaxPhotonBounces:         1000,
		DiffuseRadius:            0.03,
		SpecularRadius:           0.03,
		DiffuseGatherMultiplier:  4.0,
		SpecularGatherMultiplier: 4.0,
		CausticPolicy:            CausticPureSpecular,
		Workers:                  runtime.NumCPU(),
		Seed:                     1,
	}
}

// Validate checks that the options are usable, reporting every problem found
func (o PhotonOptions) Validate() error {
	var err error
	if o.DiffusePhotons < 0 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidOptions, "diffuse photons must not be negative, got %d", o.DiffusePhotons))
	}
	if o.SpecularPhotons < 0 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidOptions, "specular photons must not be negative, got %d", o.SpecularPhotons))
	}
	if o.MaxPhotonBounces < 0 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidOptions, "max photon bounces must not be negative, got %d", o.MaxPhotonBounces))
	}
	if o.DiffuseRadius <= 0 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidOptions, "diffuse radius must be positive, got %g", o.DiffuseRadius))
	}
	if o.SpecularRadius <= 0 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidOptions, "specular radius must be positive, got %g", o.SpecularRadius))
	}
	if o.DiffuseGatherMultiplier < 0 || o.SpecularGatherMultiplier < 0 {
		err = multierr.Append(err, errors.Wrap(ErrInvalidOptions, "gather multipliers must not be negative"))
	}
	if o.CausticPolicy < CausticPureSpecular || o.CausticPolicy > CausticDisabled {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidOptions, "unknown caustic policy %d", o.CausticPolicy))
	}
	if o.Workers < 1 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidOptions, "workers must be at least 1, got %d", o.Workers))
	}
	return err
}
