package moonseries

import (
	"math"
	"testing"
)

func TestTritonPosition_Magnitude(t *testing.T) {
	// Triton's orbit around Neptune is nearly circular, so its distance at
	// any date should stay close to its semi-major axis regardless of the
	// perturbation terms' exact phase.
	pos, _ := TritonPosition(2451497.5)
	dist := pos.Norm()
	want := tritonSemiMajorAxisKm * 1000.0
	if math.Abs(dist-want) > want*0.01 {
		t.Errorf("Triton distance = %.0f m, want ~%.0f m (within 1%%)", dist, want)
	}
}

func TestTritonPosition_AnalyticVelocityMatchesNumerical(t *testing.T) {
	etJD := 2451500.0
	_, velAnalytic := TritonPosition(etJD)
	velNumeric := TritonPositionNumericalVelocity(etJD)

	speed := velAnalytic.Norm()
	tol := math.Max(speed*0.01, 1.0)

	for _, pair := range []struct {
		name          string
		analyt, numer float64
	}{
		{"x", velAnalytic.X, velNumeric.X},
		{"y", velAnalytic.Y, velNumeric.Y},
		{"z", velAnalytic.Z, velNumeric.Z},
	} {
		if math.Abs(pair.analyt-pair.numer) > tol {
			t.Errorf("%s: analytic=%.6f m/s, numeric=%.6f m/s (tol %.6f)", pair.name, pair.analyt, pair.numer, tol)
		}
	}
}

func TestTritonPosition_Periodicity(t *testing.T) {
	// Triton's orbital period is about 5.877 days (360 / |u̇|).
	period := 360.0 / math.Abs(tritonUdotDegPerDay)
	etJD := 2451545.0

	pos0, _ := TritonPosition(etJD)
	pos1, _ := TritonPosition(etJD + period)

	dist0 := pos0.Norm()
	dist1 := pos1.Norm()
	if math.Abs(dist0-dist1) > dist0*0.01 {
		t.Errorf("distance not periodic: t0=%.0f m, t0+period=%.0f m", dist0, dist1)
	}
}
