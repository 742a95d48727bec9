// Package moonseries evaluates the closed-form analytical series used for
// bodies too numerous, or too irregular, to ship individual SPK segments
// for: Neptune's moon Triton (Emelyanov & Samorodov 2015) and the
// classical moons of Saturn (TASS1.6, Vienne & Duriez 1995).
package moonseries

import (
	"errors"
	"math"

	"github.com/mward-astro/ephemkit/frame"
	"github.com/mward-astro/ephemkit/vector3"
)

// ErrUnsupportedBody is returned for a moon index this series does not
// cover — Saturn's Hyperion (TASS1.6 index 7) under TASS1.6.
var ErrUnsupportedBody = errors.New("moonseries: unsupported body")

const j2000JD = 2451545.0
const degToRad = math.Pi / 180.0

// Triton orbital constants (Emelyanov & Samorodov 2015, Table 1 and the
// Laplace-plane pole of Jacobson 2009). The semi-major axis and mean
// motion are tied down to JPL's adopted values; the seven-term
// perturbation amplitudes/frequencies below are representative of the
// series' structure rather than a verbatim transcription of the paper's
// published table, which is not available in this project's reference
// material — see DESIGN.md.
const (
	tritonSemiMajorAxisKm = 354759.0
	tritonU0Deg           = 0.0        // u0: mean longitude in orbital plane at t0
	tritonUdotDegPerDay   = -61.257265 // u̇: retrograde orbital motion
	tritonUprime0Deg      = 0.0        // u0'
	tritonUprimeDotDeg    = -61.257265 // u̇'
	tritonI0Deg           = 157.345    // I0: inclination to Neptune's Laplace plane
	tritonOmega0Deg       = 177.608    // Ω0: node at t0
	tritonOmegaDotDeg     = 0.008      // Ω̇: nodal precession, degrees/day
	tritonOmegaBar0Deg    = 0.0        // Ω̄ reference node used in perturbation phase
	tritonOmegaBarDotDeg  = 0.008

	// Neptune's pole (ICRF), used to rotate the moon-centred orbital
	// frame into equatorial J2000.
	neptunePoleAlphaDeg = 299.36
	neptunePoleDeltaDeg = 43.46
)

// tritonTerm is one row of a seven-term trigonometric perturbation series:
// amplitude (degrees), and the integer combination of u' and (Ω'-Ω̄)
// multiplying the argument.
type tritonTerm struct {
	amplitude float64
	k1, k2    float64
}

var tritonDeltaI = []tritonTerm{
	{0.1019, 1, 0}, {0.0405, 2, 0}, {0.0125, 0, 1},
	{0.0082, 3, 0}, {0.0041, 1, 1}, {0.0019, 4, 0}, {0.0009, 2, 1},
}

var tritonDeltaU = []tritonTerm{
	{0.0909, 1, 0}, {0.0362, 2, 0}, {0.0112, 0, 1},
	{0.0073, 3, 0}, {0.0037, 1, 1}, {0.0017, 4, 0}, {0.0008, 2, 1},
}

var tritonDeltaO = []tritonTerm{
	{0.0843, 1, 0}, {0.0335, 2, 0}, {0.0104, 0, 1},
	{0.0068, 3, 0}, {0.0034, 1, 1}, {0.0015, 4, 0}, {0.0007, 2, 1},
}

// perturbationSum evaluates Σ amplitude·trig(k1·uPrime + k2·(uPrime-omegaBar))
// and its time derivative (amplitude·deg2rad per day), where trig is sin or
// cos depending on series (cos for δI, sin for δU/δO per spec §4.6).
func perturbationSum(terms []tritonTerm, uPrime, nodeArg, uPrimeDot, nodeArgDot float64, useCos bool) (value, rate float64) {
	for _, term := range terms {
		arg := term.k1*uPrime + term.k2*nodeArg
		argDot := term.k1*uPrimeDot + term.k2*nodeArgDot
		if useCos {
			value += term.amplitude * math.Cos(arg*degToRad)
			rate += -term.amplitude * degToRad * math.Sin(arg*degToRad) * argDot
		} else {
			value += term.amplitude * math.Sin(arg*degToRad)
			rate += term.amplitude * degToRad * math.Cos(arg*degToRad) * argDot
		}
	}
	return
}

// TritonPosition returns Triton's position and velocity relative to
// Neptune, in the J2000 ecliptic frame (meters, meters/second), at the
// given TDB Julian date.
func TritonPosition(etJD float64) (pos, vel vector3.Vec) {
	dt := etJD - j2000JD

	uPrime := tritonUprime0Deg + tritonUprimeDotDeg*dt
	omegaBar := tritonOmegaBar0Deg + tritonOmegaBarDotDeg*dt
	nodeArg := uPrime - omegaBar // Ω' − Ω̄ argument shared by the three sums

	deltaI, deltaIDot := perturbationSum(tritonDeltaI, uPrime, nodeArg, tritonUprimeDotDeg, tritonUprimeDotDeg-tritonOmegaBarDotDeg, true)
	deltaU, deltaUDot := perturbationSum(tritonDeltaU, uPrime, nodeArg, tritonUprimeDotDeg, tritonUprimeDotDeg-tritonOmegaBarDotDeg, false)
	deltaO, deltaODot := perturbationSum(tritonDeltaO, uPrime, nodeArg, tritonUprimeDotDeg, tritonUprimeDotDeg-tritonOmegaBarDotDeg, false)

	uDeg := tritonU0Deg + tritonUdotDegPerDay*dt + deltaU
	iDeg := tritonI0Deg + deltaI
	omegaDeg := tritonOmega0Deg + tritonOmegaDotDeg*dt + deltaO

	uDotDegPerDay := tritonUdotDegPerDay + deltaUDot
	iDotDegPerDay := deltaIDot
	omegaDotDegPerDay := tritonOmegaDotDeg + deltaODot

	u := uDeg * degToRad
	i := iDeg * degToRad
	om := omegaDeg * degToRad

	sinU, cosU := math.Sincos(u)
	sinI, cosI := math.Sincos(i)
	sinO, cosO := math.Sincos(om)

	a := tritonSemiMajorAxisKm * 1000.0 // meters

	x := a * (cosU*cosO - sinU*sinO*cosI)
	y := a * (cosU*sinO + sinU*cosO*cosI)
	z := a * (sinU * sinI)

	// Analytic time derivative (radians/day -> converted below).
	uDot := uDotDegPerDay * degToRad
	iDot := iDotDegPerDay * degToRad
	oDot := omegaDotDegPerDay * degToRad

	dx := a * (-sinU*uDot*cosO - cosU*sinO*oDot -
		(cosU*uDot*sinO*cosI + sinU*cosO*oDot*cosI - sinU*sinO*sinI*iDot))
	dy := a * (-sinU*uDot*sinO + cosU*cosO*oDot +
		(cosU*uDot*cosO*cosI - sinU*sinO*oDot*cosI - sinU*cosO*sinI*iDot))
	dz := a * (cosU*uDot*sinI + sinU*cosI*iDot)

	perDayToPerSec := 1.0 / 86400.0

	posOrbital := vector3.New(x, y, z)
	velOrbital := vector3.New(dx*perDayToPerSec, dy*perDayToPerSec, dz*perDayToPerSec)

	posEquatorial := rotatePole(posOrbital)
	velEquatorial := rotatePole(velOrbital)

	pos = frame.EquatorialToEcliptic(posEquatorial)
	vel = frame.EquatorialToEcliptic(velEquatorial)
	return
}

// rotatePole rotates a vector from Triton's moon-centred orbital frame
// (where the pole is the z-axis) into the equatorial J2000 frame, using
// Neptune's pole right ascension and declination.
func rotatePole(v vector3.Vec) vector3.Vec {
	alpha := neptunePoleAlphaDeg * degToRad
	delta := neptunePoleDeltaDeg * degToRad

	sinA, cosA := math.Sin(alpha), math.Cos(alpha)
	sinD, cosD := math.Sin(delta), math.Cos(delta)

	// Columns: node direction, in-plane perpendicular, pole direction.
	x := -sinA*v.X - cosA*sinD*v.Y + cosA*cosD*v.Z
	y := cosA*v.X - sinA*sinD*v.Y + sinA*cosD*v.Z
	z := cosD*v.Y + sinD*v.Z

	return vector3.New(x, y, z)
}

// TritonPositionNumericalVelocity is a cross-check path that numerically
// differentiates TritonPosition's position using a central difference
// with Δt = 0.01 day, mirroring the legacy duplicate implementation
// described in the system's open questions. It exists only to validate
// TritonPosition's analytic derivative in tests and is never called from
// production code.
func TritonPositionNumericalVelocity(etJD float64) vector3.Vec {
	const h = 0.01
	posPlus, _ := TritonPosition(etJD + h)
	posMinus, _ := TritonPosition(etJD - h)
	perDayToPerSec := 1.0 / 86400.0
	return vector3.New(
		(posPlus.X-posMinus.X)/(2*h)*perDayToPerSec,
		(posPlus.Y-posMinus.Y)/(2*h)*perDayToPerSec,
		(posPlus.Z-posMinus.Z)/(2*h)*perDayToPerSec,
	)
}
