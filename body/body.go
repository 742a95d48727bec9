// Package body dispatches a named celestial body and a Julian date to
// whichever evaluator — SPK kernel, Kepler approximation, or analytical
// moon series — actually covers that body and date, in the provider chain
// order callers configure. It implements the Moon-by-copy fallback
// between the accurate and approximate Earth-Moon providers.
package body

import (
	"errors"
	"fmt"

	"github.com/mward-astro/ephemkit/frame"
	"github.com/mward-astro/ephemkit/kepler"
	"github.com/mward-astro/ephemkit/moonseries"
	"github.com/mward-astro/ephemkit/spk"
	"github.com/mward-astro/ephemkit/timescale"
	"github.com/mward-astro/ephemkit/vector3"
)

// ErrUnknownBody is returned when no configured provider serves the
// requested body name.
var ErrUnknownBody = errors.New("body: unknown body name")

// ErrDateOutOfRange is returned when a provider serves the requested body
// but none of its providers cover the requested date.
var ErrDateOutOfRange = errors.New("body: date out of range")

// siderealMonthDays is the Moon's sidereal orbital period, used by
// moonByCopy to find the nearest in-window repetition of its relative
// geometry around Earth.
const siderealMonthDays = 27.321582

// Provider evaluates the position and velocity of a fixed set of named
// bodies over some validity window.
type Provider interface {
	// Serves reports whether this provider has data for the given body
	// name at all (independent of date).
	Serves(name string) bool
	// Covers reports whether this provider's data covers the given
	// Julian date (independent of body name).
	Covers(jd float64) bool
	// PositionVelocity returns the body's heliocentric ecliptic-J2000
	// position (meters) and velocity (meters/second) at jd.
	PositionVelocity(name string, jd float64) (pos, vel vector3.Vec, err error)
}

// SPKProvider serves bodies directly out of a DAF/SPK kernel, evaluated
// relative to a fixed observer (typically the solar system barycenter) and
// rotated from the kernel's equatorial J2000 frame into ecliptic J2000.
type SPKProvider struct {
	Kernel   *spk.SPK
	Names    map[string]int // body name -> NAIF ID
	Observer int
	StartJD  float64
	EndJD    float64
}

func (p *SPKProvider) Serves(name string) bool {
	_, ok := p.Names[name]
	return ok
}

func (p *SPKProvider) Covers(jd float64) bool {
	return jd >= p.StartJD && jd <= p.EndJD
}

func (p *SPKProvider) PositionVelocity(name string, jd float64) (pos, vel vector3.Vec, err error) {
	id, ok := p.Names[name]
	if !ok {
		return vector3.Vec{}, vector3.Vec{}, fmt.Errorf("body: SPKProvider does not serve %q", name)
	}
	et := timescale.SecondsPastJ2000(jd)
	p64, v64, err := p.Kernel.Evaluate(et, id, p.Observer)
	if err != nil {
		return vector3.Vec{}, vector3.Vec{}, err
	}
	return frame.EquatorialToEcliptic(vector3.FromArray(p64)), frame.EquatorialToEcliptic(vector3.FromArray(v64)), nil
}

// KeplerProvider serves bodies from tabulated Keplerian orbital elements
// (optionally with secular century rates), used as the low-precision
// fallback for planets and minor bodies outside any SPK kernel's window.
type KeplerProvider struct {
	Orbits  map[string]*kepler.Orbit
	StartJD float64
	EndJD   float64
}

func (p *KeplerProvider) Serves(name string) bool {
	_, ok := p.Orbits[name]
	return ok
}

func (p *KeplerProvider) Covers(jd float64) bool {
	return jd >= p.StartJD && jd <= p.EndJD
}

func (p *KeplerProvider) PositionVelocity(name string, jd float64) (pos, vel vector3.Vec, err error) {
	orbit, ok := p.Orbits[name]
	if !ok {
		return vector3.Vec{}, vector3.Vec{}, fmt.Errorf("body: KeplerProvider does not serve %q", name)
	}
	posKm, velKm := orbit.PositionVelocityKm(jd)
	const kmToM = 1000.0
	pos = vector3.New(posKm[0]*kmToM, posKm[1]*kmToM, posKm[2]*kmToM)
	vel = vector3.New(velKm[0]*kmToM, velKm[1]*kmToM, velKm[2]*kmToM)
	return pos, vel, nil
}

// ResolveFunc looks up a named body's position/velocity, typically by
// delegating back into the owning Dispatcher. TritonProvider and
// SaturnMoonProvider use it to add their planet-relative series output to
// the planet's own position, without needing the full Provider interface
// (Serves/Covers don't apply to "whatever the dispatcher resolves").
type ResolveFunc func(name string, jd float64) (pos, vel vector3.Vec, err error)

// TritonProvider serves Neptune's moon Triton via the Emelyanov–Samorodov
// analytical series, added to a Neptune position supplied by Resolve
// (Triton's series gives a Neptune-relative vector).
type TritonProvider struct {
	Resolve ResolveFunc
	StartJD float64
	EndJD   float64
}

func (p *TritonProvider) Serves(name string) bool { return name == "Triton" }
func (p *TritonProvider) Covers(jd float64) bool   { return jd >= p.StartJD && jd <= p.EndJD }

func (p *TritonProvider) PositionVelocity(name string, jd float64) (pos, vel vector3.Vec, err error) {
	if name != "Triton" {
		return vector3.Vec{}, vector3.Vec{}, fmt.Errorf("body: TritonProvider does not serve %q", name)
	}
	relPos, relVel := moonseries.TritonPosition(jd)
	if p.Resolve == nil {
		return relPos, relVel, nil
	}
	nepPos, nepVel, err := p.Resolve("Neptune", jd)
	if err != nil {
		return vector3.Vec{}, vector3.Vec{}, fmt.Errorf("body: TritonProvider resolving Neptune: %w", err)
	}
	return nepPos.Plus(relPos), nepVel.Plus(relVel), nil
}

// SaturnMoonProvider serves the TASS1.6-covered Saturnian moons, added to
// a Saturn position supplied by Resolve.
type SaturnMoonProvider struct {
	Table   *moonseries.TASSTable
	Resolve ResolveFunc
	Moons   map[string]int // name -> TASS1.6 index
	StartJD float64
	EndJD   float64
}

func (p *SaturnMoonProvider) Serves(name string) bool {
	_, ok := p.Moons[name]
	return ok
}

func (p *SaturnMoonProvider) Covers(jd float64) bool {
	return jd >= p.StartJD && jd <= p.EndJD
}

func (p *SaturnMoonProvider) PositionVelocity(name string, jd float64) (pos, vel vector3.Vec, err error) {
	idx, ok := p.Moons[name]
	if !ok {
		return vector3.Vec{}, vector3.Vec{}, fmt.Errorf("body: SaturnMoonProvider does not serve %q", name)
	}
	relPos, relVel, err := moonseries.SaturnMoonPosition(p.Table, idx, jd)
	if err != nil {
		return vector3.Vec{}, vector3.Vec{}, err
	}
	if p.Resolve == nil {
		return relPos, relVel, nil
	}
	satPos, satVel, err := p.Resolve("Saturn", jd)
	if err != nil {
		return vector3.Vec{}, vector3.Vec{}, fmt.Errorf("body: SaturnMoonProvider resolving Saturn: %w", err)
	}
	return satPos.Plus(relPos), satVel.Plus(relVel), nil
}

// Dispatcher routes (name, jd) queries to the first provider, in
// registration order, that both serves the body and covers the date. If a
// "Moon" query falls outside every accurate provider's window but inside
// an approximate provider's window, it falls back to Moon-by-copy against
// AccurateMoon/ApproximateMoon/AccurateEarth/ApproximateEarth, when
// configured.
type Dispatcher struct {
	Providers []Provider

	// Moon-by-copy fallback inputs; all four must be set for the
	// fallback to activate. AccurateMoon and AccurateEarth should share
	// the same validity window, likewise ApproximateMoon/ApproximateEarth.
	AccurateMoon     Provider
	ApproximateMoon  Provider
	AccurateEarth    Provider
	ApproximateEarth Provider
}

// PositionVelocity dispatches name/jd to the first covering provider.
func (d *Dispatcher) PositionVelocity(name string, jd float64) (pos, vel vector3.Vec, err error) {
	served := false
	for _, p := range d.Providers {
		if !p.Serves(name) {
			continue
		}
		served = true
		if p.Covers(jd) {
			return p.PositionVelocity(name, jd)
		}
	}

	if name == "Moon" {
		if pos, vel, ok := d.tryMoonByCopy(jd); ok {
			return pos, vel, nil
		}
	}

	if !served {
		return vector3.Vec{}, vector3.Vec{}, fmt.Errorf("%w: %q", ErrUnknownBody, name)
	}
	return vector3.Vec{}, vector3.Vec{}, fmt.Errorf("%w: %q at JD %.5f", ErrDateOutOfRange, name, jd)
}

func (d *Dispatcher) tryMoonByCopy(jd float64) (pos, vel vector3.Vec, ok bool) {
	if d.AccurateMoon == nil || d.ApproximateMoon == nil || d.AccurateEarth == nil || d.ApproximateEarth == nil {
		return vector3.Vec{}, vector3.Vec{}, false
	}
	if !d.ApproximateMoon.Covers(jd) || !d.ApproximateEarth.Covers(jd) {
		return vector3.Vec{}, vector3.Vec{}, false
	}
	p, v, err := moonByCopy(d.AccurateMoon, d.AccurateEarth, d.ApproximateEarth, jd)
	if err != nil {
		return vector3.Vec{}, vector3.Vec{}, false
	}
	return p, v, true
}

// moonByCopy approximates the Moon's position at jd (a date outside
// accurateMoon/accurateEarth's window) by taking the accurate Earth-Moon
// relative vector at the nearest date within the accurate window that is
// an integer number of sidereal months away from jd, and adding it to
// approximateEarth's position at jd — preserving the Moon's relative
// geometry around Earth across epochs the accurate ephemeris doesn't
// cover. The search steps outward from jd one sidereal month at a time, up
// to maxMonthSteps months in either direction.
func moonByCopy(accurateMoon, accurateEarth, approximateEarth Provider, jd float64) (pos, vel vector3.Vec, err error) {
	const maxMonthSteps = 1000000
	sampleJD, found := jd, accurateMoon.Covers(jd) && accurateEarth.Covers(jd)
	for k := 1; !found && k <= maxMonthSteps; k++ {
		for _, cand := range [2]float64{jd + float64(k)*siderealMonthDays, jd - float64(k)*siderealMonthDays} {
			if !found && accurateMoon.Covers(cand) && accurateEarth.Covers(cand) {
				sampleJD, found = cand, true
			}
		}
	}
	if !found {
		return vector3.Vec{}, vector3.Vec{}, fmt.Errorf("body: moonByCopy found no accurate-ephemeris sample near JD %.5f", jd)
	}

	moonPos, moonVel, err := accurateMoon.PositionVelocity("Moon", sampleJD)
	if err != nil {
		return vector3.Vec{}, vector3.Vec{}, err
	}
	earthPosAtSample, _, err := accurateEarth.PositionVelocity("Earth", sampleJD)
	if err != nil {
		return vector3.Vec{}, vector3.Vec{}, err
	}
	relPos := moonPos.Minus(earthPosAtSample)
	relVel := moonVel // velocity carried as-is; the fallback only needs geometry

	approxEarthPos, approxEarthVel, err := approximateEarth.PositionVelocity("Earth", jd)
	if err != nil {
		return vector3.Vec{}, vector3.Vec{}, err
	}
	return approxEarthPos.Plus(relPos), approxEarthVel.Plus(relVel), nil
}
