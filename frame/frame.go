// Package frame implements the reference-frame rotations needed to move
// state vectors between the ICRF/equatorial frame SPK kernels are stored in,
// the ecliptic-of-J2000 frame the Kepler and moon-series engines work in,
// and the B1950 frame some older spacecraft kernels use.
package frame

import (
	"math"

	"github.com/mward-astro/ephemkit/vector3"
)

// obliquitySin/obliquityCos fix the mean obliquity of the ecliptic at J2000
// to the exact value this system standardizes on. This is deliberately not
// the IAU 1979/Lieske constant the teacher's kepler package used
// (0.3977771559319137062) — the spec pins sin(eps) = -0.397776995 exactly.
const obliquitySin = -0.397776995

var obliquityCos = math.Sqrt(1 - obliquitySin*obliquitySin)

// EclipticToEquatorial rotates a vector from the ecliptic-of-J2000 frame
// into the mean-equatorial-of-J2000 (ICRF-aligned) frame by rotating about
// the X axis by the mean obliquity of the ecliptic.
func EclipticToEquatorial(v vector3.Vec) vector3.Vec {
	return vector3.New(
		v.X,
		v.Y*obliquityCos+v.Z*obliquitySin,
		-v.Y*obliquitySin+v.Z*obliquityCos,
	)
}

// EquatorialToEcliptic is the inverse rotation of EclipticToEquatorial.
func EquatorialToEcliptic(v vector3.Vec) vector3.Vec {
	return vector3.New(
		v.X,
		v.Y*obliquityCos-v.Z*obliquitySin,
		v.Y*obliquitySin+v.Z*obliquityCos,
	)
}

// B1950Matrix is the IAU 1976 precession matrix rotating a B1950.0
// mean-equatorial vector into J2000.0 mean-equatorial. Copied verbatim from
// the teacher's coord/frames.go: this is a fixed numeric constant table
// (not logic), and reproducing it by derivation would only reintroduce
// rounding error the teacher's table already avoids.
var B1950Matrix = [3][3]float64{
	{0.9999256794956877, -0.0111814832204662, -0.0048590037723143},
	{0.0111814832391717, 0.9999374848933135, -0.0000271625947142},
	{0.0048590037170295, -0.0000271702937440, 0.9999881946023742},
}

// B1950ToJ2000 rotates an equatorial B1950 vector into equatorial J2000
// using B1950Matrix.
func B1950ToJ2000(v vector3.Vec) vector3.Vec {
	return applyMatrix(B1950Matrix, v)
}

// J2000ToB1950 applies the transpose of B1950Matrix (an orthogonal rotation
// matrix, so its transpose is its inverse) to undo B1950ToJ2000.
func J2000ToB1950(v vector3.Vec) vector3.Vec {
	t := transpose(B1950Matrix)
	return applyMatrix(t, v)
}

func applyMatrix(m [3][3]float64, v vector3.Vec) vector3.Vec {
	return vector3.New(
		m[0][0]*v.X+m[0][1]*v.Y+m[0][2]*v.Z,
		m[1][0]*v.X+m[1][1]*v.Y+m[1][2]*v.Z,
		m[2][0]*v.X+m[2][1]*v.Y+m[2][2]*v.Z,
	)
}

func transpose(m [3][3]float64) [3][3]float64 {
	var t [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			t[j][i] = m[i][j]
		}
	}
	return t
}
