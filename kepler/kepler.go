// Package kepler provides Keplerian orbit propagation for minor planets,
// comets, and tabulated planetary elements with secular (century-rate)
// drift. Given orbital elements at an epoch, it computes position and
// velocity at any time by solving Kepler's equation.
//
// Orbital elements and returned state vectors are both in the J2000
// ecliptic frame — this package performs no further rotation into the
// equatorial frame; callers needing ICRF/equatorial output use the frame
// package.
package kepler

import (
	"math"
	"sync"
)

const (
	// GMSunAU3D2 is the gravitational parameter of the Sun in AU³/day².
	// Equal to the square of the Gaussian gravitational constant k.
	GMSunAU3D2 = 2.9591220828559115e-4

	// auKm is the IAU astronomical unit in km.
	auKm = 149597870.7

	// daysPerCentury converts a Julian century of secular element rates
	// to days: 1 century = 36525 days of 86400 seconds.
	daysPerCentury = 36525.0

	deg2rad = math.Pi / 180.0
	rad2deg = 180.0 / math.Pi

	haleyTol     = 1e-14
	haleyMaxIter = 20
)

// Orbit represents a Keplerian orbit defined by classical orbital elements
// at EpochJD, optionally with secular (per-Julian-century) rates for
// tabulated low-precision planetary elements. A zero rate reduces exactly
// to a fixed Keplerian orbit, so the same type serves both comet/asteroid
// propagation (GM + static elements) and planet-table propagation
// (elements + century rates).
type Orbit struct {
	// SemiMajorAxisAU is the semi-major axis in AU at EpochJD.
	// Required for elliptic orbits (e < 1). For parabolic (e = 1),
	// use PerihelionAU instead.
	SemiMajorAxisAU float64

	// PerihelionAU is the perihelion distance in AU.
	// If zero, computed from SemiMajorAxisAU * (1 - Eccentricity).
	PerihelionAU float64

	// Eccentricity of the orbit at EpochJD. 0 ≤ e < 1 = elliptic, e = 1 =
	// parabolic, e > 1 = hyperbolic.
	Eccentricity float64

	// InclinationDeg is the orbital inclination in degrees at EpochJD.
	InclinationDeg float64

	// LongAscNodeDeg is the longitude of the ascending node (Ω) in
	// degrees at EpochJD.
	LongAscNodeDeg float64

	// ArgPeriapsisDeg is the argument of periapsis (ω) in degrees at
	// EpochJD.
	ArgPeriapsisDeg float64

	// MeanAnomalyDeg is the mean anomaly at EpochJD, in degrees.
	// For comets, set PeriapsisTimeJD instead.
	MeanAnomalyDeg float64

	// EpochJD is the TDB Julian date at which the elements (and the
	// secular rates below, if any) are referenced.
	EpochJD float64

	// PeriapsisTimeJD is the TDB Julian date of periapsis passage.
	// If set (non-zero), overrides MeanAnomalyDeg.
	PeriapsisTimeJD float64

	// GM is the gravitational parameter of the central body in AU³/day².
	// If zero, GMSunAU3D2 (Sun) is used. Ignored when
	// MeanAnomalyRateDegPerCentury is set — see that field.
	GM float64

	// Secular rates, all per Julian century of 36525 days. A tabulated
	// low-precision planetary orbit (see elements.LoadOrbitTable) sets these;
	// comet/asteroid orbits propagated from a GM leave them zero.
	SemiMajorAxisRateAUPerCentury float64 // ȧ
	EccentricityRatePerCentury    float64 // ė
	InclinationRateDegPerCentury  float64 // i̇
	LongAscNodeRateDegPerCentury  float64 // Ω̇
	ArgPeriapsisRateDegPerCentury float64 // ω̇

	// MeanAnomalyRateDegPerCentury, when non-zero, replaces the
	// GM-derived mean motion as the source of Ṁ: it is the standard way
	// low-precision planetary element tables express mean motion
	// (L̇_m − L̇_p, the mean longitude rate less the longitude-of-
	// perihelion rate), and takes priority over the GM/semi-major-axis
	// derived n used for precise comet/asteroid propagation.
	MeanAnomalyRateDegPerCentury float64

	// precomputed
	once  sync.Once
	mu    float64 // GM in AU³/day²
	a     float64 // semi-major axis in AU at EpochJD
	e     float64 // eccentricity at EpochJD
	n     float64 // mean motion in rad/day
}

// init precomputes derived quantities. Called lazily on first use; safe
// for concurrent callers.
func (o *Orbit) init() {
	o.once.Do(o.precompute)
}

func (o *Orbit) precompute() {
	o.mu = o.GM
	if o.mu == 0 {
		o.mu = GMSunAU3D2
	}

	o.e = o.Eccentricity

	if o.SemiMajorAxisAU != 0 {
		o.a = o.SemiMajorAxisAU
	} else if o.PerihelionAU != 0 && o.e < 1.0 {
		o.a = o.PerihelionAU / (1.0 - o.e)
	}

	switch {
	case o.MeanAnomalyRateDegPerCentury != 0:
		o.n = o.MeanAnomalyRateDegPerCentury * deg2rad / daysPerCentury
	case o.e < 1.0 && o.a > 0:
		o.n = math.Sqrt(o.mu / (o.a * o.a * o.a))
	}
}

// elementsAt returns the semi-major axis (AU), eccentricity, and the
// perifocal-to-ecliptic rotation matrix, each evaluated at tdbJD by
// applying this orbit's secular rates over the elapsed time since EpochJD.
func (o *Orbit) elementsAt(tdbJD float64) (aT, eT float64, rot [3][3]float64) {
	dtCenturies := (tdbJD - o.EpochJD) / daysPerCentury

	aT = o.a + o.SemiMajorAxisRateAUPerCentury*dtCenturies
	eT = o.e + o.EccentricityRatePerCentury*dtCenturies

	iDeg := o.InclinationDeg + o.InclinationRateDegPerCentury*dtCenturies
	omegaDeg := o.LongAscNodeDeg + o.LongAscNodeRateDegPerCentury*dtCenturies
	wDeg := o.ArgPeriapsisDeg + o.ArgPeriapsisRateDegPerCentury*dtCenturies

	i := iDeg * deg2rad
	omega := omegaDeg * deg2rad
	w := wDeg * deg2rad

	sinI, cosI := math.Sincos(i)
	sinO, cosO := math.Sincos(omega)
	sinW, cosW := math.Sincos(w)

	// R = Rz(Ω) · Rx(i) · Rz(ω); columns are the P, Q, W unit vectors in
	// the ecliptic frame.
	rot = [3][3]float64{
		{cosO*cosW - sinO*sinW*cosI, -cosO*sinW - sinO*cosW*cosI, sinO * sinI},
		{sinO*cosW + cosO*sinW*cosI, -sinO*sinW + cosO*cosW*cosI, -cosO * sinI},
		{sinW * sinI, cosW * sinI, cosI},
	}
	return
}

// PositionAU returns the heliocentric ecliptic-J2000 position in AU at the
// given TDB Julian date.
func (o *Orbit) PositionAU(tdbJD float64) [3]float64 {
	pos, _ := o.PositionVelocityAU(tdbJD)
	return pos
}

// PositionVelocityAU returns the heliocentric ecliptic-J2000 position (AU)
// and velocity (AU/day) at the given TDB Julian date.
func (o *Orbit) PositionVelocityAU(tdbJD float64) (pos, vel [3]float64) {
	o.init()

	aT, eT, rot := o.elementsAt(tdbJD)

	var nu, r, E float64
	var haveE bool
	switch {
	case o.Eccentricity < 1.0:
		M := o.meanAnomalyAt(tdbJD)
		nu, r, E = o.solveElliptic(M, aT, eT)
		haveE = true
	case o.Eccentricity == 1.0:
		dt := tdbJD - o.PeriapsisTimeJD
		nu, r = o.solveParabolic(dt)
	default:
		dt := tdbJD - o.PeriapsisTimeJD
		nu, r = o.solveHyperbolic(dt)
	}

	cosNu, sinNu := math.Cos(nu), math.Sin(nu)
	xPQW := r * cosNu
	yPQW := r * sinNu

	pos = [3]float64{
		rot[0][0]*xPQW + rot[0][1]*yPQW,
		rot[1][0]*xPQW + rot[1][1]*yPQW,
		rot[2][0]*xPQW + rot[2][1]*yPQW,
	}

	if !haveE {
		// Parabolic/hyperbolic velocity via secular rates is out of
		// scope for this system (comet flybys use position only).
		return pos, [3]float64{}
	}

	sinE, cosE := math.Sincos(E)

	Mdot := o.n
	eDot := o.EccentricityRatePerCentury / daysPerCentury
	aDot := o.SemiMajorAxisRateAUPerCentury / daysPerCentury

	Edot := (Mdot + eDot*sinE) / (1 - eT*cosE)

	oneMinusE2 := 1 - eT*eT
	sqrtOneMinusE2 := math.Sqrt(oneMinusE2)

	dxPQW := aDot*(cosE-eT) + aT*(-sinE*Edot-eDot)
	dyPQW := aDot*sqrtOneMinusE2*sinE + aT*((-eT*eDot/sqrtOneMinusE2)*sinE+sqrtOneMinusE2*cosE*Edot)

	vel = [3]float64{
		rot[0][0]*dxPQW + rot[0][1]*dyPQW,
		rot[1][0]*dxPQW + rot[1][1]*dyPQW,
		rot[2][0]*dxPQW + rot[2][1]*dyPQW,
	}
	return pos, vel
}

// PositionKm returns the heliocentric ecliptic-J2000 position in km at the
// given TDB Julian date.
func (o *Orbit) PositionKm(tdbJD float64) [3]float64 {
	pos := o.PositionAU(tdbJD)
	return [3]float64{pos[0] * auKm, pos[1] * auKm, pos[2] * auKm}
}

// PositionVelocityKm returns the heliocentric ecliptic-J2000 position (km)
// and velocity (km/s) at the given TDB Julian date.
func (o *Orbit) PositionVelocityKm(tdbJD float64) (pos, vel [3]float64) {
	posAU, velAUPerDay := o.PositionVelocityAU(tdbJD)
	const kmPerDayToKmPerSec = 1.0 / 86400.0
	pos = [3]float64{posAU[0] * auKm, posAU[1] * auKm, posAU[2] * auKm}
	vel = [3]float64{
		velAUPerDay[0] * auKm * kmPerDayToKmPerSec,
		velAUPerDay[1] * auKm * kmPerDayToKmPerSec,
		velAUPerDay[2] * auKm * kmPerDayToKmPerSec,
	}
	return
}

// meanAnomalyAt computes the mean anomaly in radians at time tdbJD.
func (o *Orbit) meanAnomalyAt(tdbJD float64) float64 {
	if o.PeriapsisTimeJD != 0 {
		dt := tdbJD - o.PeriapsisTimeJD
		return o.n * dt
	}
	M0 := o.MeanAnomalyDeg * deg2rad
	dt := tdbJD - o.EpochJD
	return M0 + o.n*dt
}

// solveElliptic solves Kepler's equation M = E - e*sin(E) for an elliptic
// orbit using Halley's method, converging to 1e-14 radians or 20
// iterations, whichever comes first. Returns true anomaly (radians),
// radius (in the same units as a), and the eccentric anomaly itself
// (needed by the velocity formula).
func (o *Orbit) solveElliptic(M, a, e float64) (nu, r, E float64) {
	return SolveKeplerElliptic(M, a, e)
}

// SolveKeplerElliptic solves Kepler's equation M = E - e*sin(E) for an
// elliptic orbit using Halley's method, converging to 1e-14 radians or 20
// iterations, whichever comes first. Returns true anomaly (radians),
// radius (in the same units as a), and the eccentric anomaly itself.
// Exported so other engines that need the same root-find — the TASS1.6
// Saturnian-moon series, chiefly — don't duplicate it.
func SolveKeplerElliptic(M, a, e float64) (nu, r, E float64) {
	M = math.Mod(M, 2*math.Pi)
	if M > math.Pi {
		M -= 2 * math.Pi
	} else if M < -math.Pi {
		M += 2 * math.Pi
	}

	E = M
	if e > 0.8 {
		if M > 0 {
			E = math.Pi
		} else {
			E = -math.Pi
		}
	}

	for iter := 0; iter < haleyMaxIter; iter++ {
		sinE, cosE := math.Sincos(E)
		f := E - e*sinE - M
		fp := 1.0 - e*cosE
		fpp := e * sinE
		dE := -f * fp / (fp*fp - 0.5*f*fpp)
		E += dE
		if math.Abs(dE) < haleyTol {
			break
		}
	}

	sinE, cosE := math.Sincos(E)
	nu = math.Atan2(math.Sqrt(1-e*e)*sinE, cosE-e)
	r = a * (1.0 - e*cosE)
	return
}

// solveParabolic solves Barker's equation for a parabolic orbit (e = 1).
// dt is days since periapsis. Returns true anomaly and radius.
func (o *Orbit) solveParabolic(dt float64) (nu, r float64) {
	q := o.PerihelionAU
	W := 3.0 * math.Sqrt(o.mu/(2.0*q*q*q)) * dt

	Y := math.Cbrt(W + math.Sqrt(W*W+1))
	D := Y - 1.0/Y

	nu = 2.0 * math.Atan(D)
	r = q * (1.0 + D*D)
	return
}

// solveHyperbolic solves the hyperbolic Kepler equation
// M = e*sinh(H) - H. dt is days since periapsis. Returns true anomaly and
// radius.
func (o *Orbit) solveHyperbolic(dt float64) (nu, r float64) {
	e := o.Eccentricity
	a := -o.PerihelionAU / (e - 1.0)
	absA := math.Abs(a)
	M := math.Sqrt(o.mu/(absA*absA*absA)) * dt

	H := M
	for iter := 0; iter < haleyMaxIter; iter++ {
		sinhH := math.Sinh(H)
		coshH := math.Cosh(H)
		f := e*sinhH - H - M
		fp := e*coshH - 1.0
		fpp := e * sinhH
		dH := -f * fp / (fp*fp - 0.5*f*fpp)
		H += dH
		if math.Abs(dH) < haleyTol {
			break
		}
	}

	nu = 2.0 * math.Atan(math.Sqrt((e+1.0)/(e-1.0))*math.Tanh(H/2.0))
	r = absA * (e*math.Cosh(H) - 1.0)
	return
}
