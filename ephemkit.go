// Package ephemkit computes the Cartesian position and velocity of solar
// system bodies, in the J2000 ecliptic frame, for a given Julian Date.
//
// A Kernel wires together whichever SPK kernels, TASS1.6 tables, and
// Keplerian orbital elements the caller has on hand into a single
// dispatcher, then answers BodyPosition/BodyVelocity/
// BodyPositionVelocity queries by name.
package ephemkit

import (
	"fmt"

	"github.com/mward-astro/ephemkit/body"
	"github.com/mward-astro/ephemkit/elements"
	"github.com/mward-astro/ephemkit/kepler"
	"github.com/mward-astro/ephemkit/moonseries"
	"github.com/mward-astro/ephemkit/spk"
	"github.com/mward-astro/ephemkit/timescale"
	"github.com/mward-astro/ephemkit/vector3"
)

// Kernel is a configured set of body providers, built with NewKernel. It
// holds no mutable state after construction and is safe for concurrent
// queries, the same contract spk.SPK itself gives.
type Kernel struct {
	dispatcher *body.Dispatcher
	names      []string
	firstValid timescale.Calendar
	lastValid  timescale.Calendar
}

// Option configures a Kernel under construction. See WithSPKFile,
// WithKeplerOrbits, WithKeplerOrbitTable, WithTritonSeries,
// WithSaturnMoons, and WithValidityWindow.
type Option func(*kernelBuilder) error

type kernelBuilder struct {
	providers  []body.Provider
	names      map[string]bool
	tritonProv *body.TritonProvider
	saturnProv *body.SaturnMoonProvider
	firstValid timescale.Calendar
	lastValid  timescale.Calendar
	windowSet  bool
}

// NewKernel builds a Kernel from the given options, in the order
// provided; a body name's provider chain follows registration order; the
// first provider that both serves the name and covers the requested date
// wins (body.Dispatcher's first-match selection).
func NewKernel(opts ...Option) (*Kernel, error) {
	b := &kernelBuilder{names: map[string]bool{}}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	if !b.windowSet {
		return nil, fmt.Errorf("ephemkit: NewKernel requires WithValidityWindow")
	}

	names := make([]string, 0, len(b.names))
	for n := range b.names {
		names = append(names, n)
	}

	dispatcher := &body.Dispatcher{Providers: b.providers}
	if b.tritonProv != nil {
		b.tritonProv.Resolve = dispatcher.PositionVelocity
	}
	if b.saturnProv != nil {
		b.saturnProv.Resolve = dispatcher.PositionVelocity
	}

	return &Kernel{
		dispatcher: dispatcher,
		names:      names,
		firstValid: b.firstValid,
		lastValid:  b.lastValid,
	}, nil
}

// WithSPKFile opens the SPK kernel at path and registers it as a provider
// for the given body names (name -> NAIF ID), evaluated relative to
// observer (usually spk.SSB) over [startJD, endJD].
func WithSPKFile(path string, names map[string]int, observer int, startJD, endJD float64) Option {
	return func(b *kernelBuilder) error {
		kernel, err := spk.Open(path)
		if err != nil {
			return fmt.Errorf("ephemkit: loading SPK file %q: %w", path, err)
		}
		p := &body.SPKProvider{Kernel: kernel, Names: names, Observer: observer, StartJD: startJD, EndJD: endJD}
		b.providers = append(b.providers, p)
		for n := range names {
			b.names[n] = true
		}
		return nil
	}
}

// WithKeplerOrbits registers a set of named Keplerian orbits (with or
// without secular century rates) as a fallback provider over
// [startJD, endJD].
func WithKeplerOrbits(orbits map[string]*kepler.Orbit, startJD, endJD float64) Option {
	return func(b *kernelBuilder) error {
		p := &body.KeplerProvider{Orbits: orbits, StartJD: startJD, EndJD: endJD}
		b.providers = append(b.providers, p)
		for n := range orbits {
			b.names[n] = true
		}
		return nil
	}
}

// WithKeplerOrbitTable loads a plain-text orbital parameter table (spec
// §6 "Orbital parameter tables": one body per row, the six classical
// elements plus their six per-century secular rates) from path and
// registers the resulting orbits the same way WithKeplerOrbits does.
func WithKeplerOrbitTable(path string, startJD, endJD float64) Option {
	return func(b *kernelBuilder) error {
		orbits, err := elements.LoadOrbitTable(path)
		if err != nil {
			return fmt.Errorf("ephemkit: loading orbit table %q: %w", path, err)
		}
		p := &body.KeplerProvider{Orbits: orbits, StartJD: startJD, EndJD: endJD}
		b.providers = append(b.providers, p)
		for n := range orbits {
			b.names[n] = true
		}
		return nil
	}
}

// WithTritonSeries registers Neptune's moon Triton, computed via the
// analytical moon series and added to whatever provider already resolves
// "Neptune" in this Kernel.
func WithTritonSeries(startJD, endJD float64) Option {
	return func(b *kernelBuilder) error {
		p := &body.TritonProvider{StartJD: startJD, EndJD: endJD}
		b.tritonProv = p
		b.providers = append(b.providers, p)
		b.names["Triton"] = true
		return nil
	}
}

// WithSaturnMoons registers the TASS1.6-covered Saturnian moons (table
// loaded from path) against a name->index map, added to whatever provider
// already resolves "Saturn" in this Kernel.
func WithSaturnMoons(path string, moons map[string]int, startJD, endJD float64) Option {
	return func(b *kernelBuilder) error {
		table, err := moonseries.LoadTASSTable(path)
		if err != nil {
			return fmt.Errorf("ephemkit: loading TASS1.6 table %q: %w", path, err)
		}
		p := &body.SaturnMoonProvider{Table: table, Moons: moons, StartJD: startJD, EndJD: endJD}
		b.saturnProv = p
		b.providers = append(b.providers, p)
		for n := range moons {
			b.names[n] = true
		}
		return nil
	}
}

// WithValidityWindow sets the overall date range FirstValidDate/
// LastValidDate report. Required.
func WithValidityWindow(first, last timescale.Calendar) Option {
	return func(b *kernelBuilder) error {
		b.firstValid = first
		b.lastValid = last
		b.windowSet = true
		return nil
	}
}

// FirstValidDate returns the earliest civil date this Kernel can be
// queried for.
func (k *Kernel) FirstValidDate() timescale.Calendar { return k.firstValid }

// LastValidDate returns the latest civil date this Kernel can be queried
// for.
func (k *Kernel) LastValidDate() timescale.Calendar { return k.lastValid }

// Bodies lists the names this Kernel has at least one provider for.
func (k *Kernel) Bodies() []string {
	out := make([]string, len(k.names))
	copy(out, k.names)
	return out
}

// BodyPosition returns name's heliocentric ecliptic-J2000 position
// (meters) at the given Julian date.
func (k *Kernel) BodyPosition(name string, jd float64) (vector3.Vec, error) {
	pos, _, err := k.dispatcher.PositionVelocity(name, jd)
	return pos, err
}

// BodyVelocity returns name's heliocentric ecliptic-J2000 velocity
// (meters/second) at the given Julian date.
func (k *Kernel) BodyVelocity(name string, jd float64) (vector3.Vec, error) {
	_, vel, err := k.dispatcher.PositionVelocity(name, jd)
	return vel, err
}

// BodyPositionVelocity returns name's heliocentric ecliptic-J2000
// position (meters) and velocity (meters/second) at the given Julian
// date.
func (k *Kernel) BodyPositionVelocity(name string, jd float64) (pos, vel vector3.Vec, err error) {
	return k.dispatcher.PositionVelocity(name, jd)
}

// OsculatingElements evaluates name's state vector at jd (the same way
// BodyPositionVelocity does) and converts it to the instantaneous
// Keplerian orbital elements that describe the osculating orbit at that
// moment — a diagnostic view of whatever SPK, Kepler, or series provider
// actually answered the query, independent of which one it was. muKm3s2
// is the gravitational parameter of the body's center in km³/s²; pass
// elements.GMSunKm3S2 for heliocentric bodies.
func (k *Kernel) OsculatingElements(name string, jd float64, muKm3s2 float64) (elements.OsculatingElements, error) {
	pos, vel, err := k.dispatcher.PositionVelocity(name, jd)
	if err != nil {
		return elements.OsculatingElements{}, err
	}
	posKm := pos.Scale(1.0 / 1000.0).Array()
	velKmPerSec := vel.Scale(1.0 / 1000.0).Array()
	return elements.FromStateVector(posKm, velKmPerSec, muKm3s2), nil
}
