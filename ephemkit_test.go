package ephemkit

import (
	"errors"
	"math"
	"os"
	"testing"

	"github.com/mward-astro/ephemkit/body"
	"github.com/mward-astro/ephemkit/elements"
	"github.com/mward-astro/ephemkit/kepler"
	"github.com/mward-astro/ephemkit/timescale"
)

func testWindow() (timescale.Calendar, timescale.Calendar) {
	return timescale.Calendar{Year: 1950, Month: 1, Day: 1},
		timescale.Calendar{Year: 2050, Month: 1, Day: 1}
}

func TestNewKernel_RequiresValidityWindow(t *testing.T) {
	_, err := NewKernel(WithKeplerOrbits(map[string]*kepler.Orbit{}, 0, 1))
	if err == nil {
		t.Fatal("expected error when WithValidityWindow is omitted")
	}
}

func TestKernel_BodyPositionVelocity_Kepler(t *testing.T) {
	first, last := testWindow()
	firstJD, _ := timescale.CivilToJD(first)
	lastJD, _ := timescale.CivilToJD(last)

	orbits := map[string]*kepler.Orbit{
		"Mars": {
			SemiMajorAxisAU: 1.523679,
			Eccentricity:    0.093315,
			InclinationDeg:  1.850,
			LongAscNodeDeg:  49.558,
			ArgPeriapsisDeg: 286.502,
			MeanAnomalyDeg:  19.373,
			EpochJD:         timescale.J2000,
		},
	}

	k, err := NewKernel(
		WithKeplerOrbits(orbits, firstJD, lastJD),
		WithValidityWindow(first, last),
	)
	if err != nil {
		t.Fatalf("NewKernel: %v", err)
	}

	pos, vel, err := k.BodyPositionVelocity("Mars", timescale.J2000)
	if err != nil {
		t.Fatalf("BodyPositionVelocity: %v", err)
	}
	if pos.Norm() == 0 {
		t.Error("expected non-zero Mars position")
	}
	if vel.Norm() == 0 {
		t.Error("expected non-zero Mars velocity")
	}

	posOnly, err := k.BodyPosition("Mars", timescale.J2000)
	if err != nil {
		t.Fatalf("BodyPosition: %v", err)
	}
	if posOnly.Minus(pos).Norm() > 1e-6 {
		t.Errorf("BodyPosition/BodyPositionVelocity disagree: %v vs %v", posOnly, pos)
	}

	velOnly, err := k.BodyVelocity("Mars", timescale.J2000)
	if err != nil {
		t.Fatalf("BodyVelocity: %v", err)
	}
	if velOnly.Minus(vel).Norm() > 1e-9 {
		t.Errorf("BodyVelocity/BodyPositionVelocity disagree: %v vs %v", velOnly, vel)
	}
}

func TestKernel_UnknownBody(t *testing.T) {
	first, last := testWindow()
	k, err := NewKernel(WithValidityWindow(first, last))
	if err != nil {
		t.Fatalf("NewKernel: %v", err)
	}
	_, err = k.BodyPosition("Arrakis", timescale.J2000)
	if !errors.Is(err, body.ErrUnknownBody) {
		t.Fatalf("expected ErrUnknownBody, got %v", err)
	}
}

func TestKernel_Bodies(t *testing.T) {
	first, last := testWindow()
	firstJD, _ := timescale.CivilToJD(first)
	lastJD, _ := timescale.CivilToJD(last)

	orbits := map[string]*kepler.Orbit{
		"Mars":    {SemiMajorAxisAU: 1.52, EpochJD: timescale.J2000},
		"Jupiter": {SemiMajorAxisAU: 5.20, EpochJD: timescale.J2000},
	}
	k, err := NewKernel(
		WithKeplerOrbits(orbits, firstJD, lastJD),
		WithValidityWindow(first, last),
	)
	if err != nil {
		t.Fatalf("NewKernel: %v", err)
	}

	names := k.Bodies()
	if len(names) != 2 {
		t.Fatalf("Bodies() = %v, want 2 entries", names)
	}
}

func TestKernel_FirstLastValidDate(t *testing.T) {
	first, last := testWindow()
	k, err := NewKernel(WithValidityWindow(first, last))
	if err != nil {
		t.Fatalf("NewKernel: %v", err)
	}
	if k.FirstValidDate() != first {
		t.Errorf("FirstValidDate() = %v, want %v", k.FirstValidDate(), first)
	}
	if k.LastValidDate() != last {
		t.Errorf("LastValidDate() = %v, want %v", k.LastValidDate(), last)
	}
}

func TestWithKeplerOrbitTable(t *testing.T) {
	f, err := os.CreateTemp("", "orbits*.txt")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())
	const row = "Mars 1.52367934 0.09339410 1.84969142 49.55953891 286.50210865 19.37302400 " +
		"-0.00001881 0.00007882 -0.00813131 -0.29257343 0.26837457 19140.30268499\n"
	if _, err := f.WriteString(row); err != nil {
		t.Fatal(err)
	}
	f.Close()

	first, last := testWindow()
	firstJD, _ := timescale.CivilToJD(first)
	lastJD, _ := timescale.CivilToJD(last)

	k, err := NewKernel(
		WithKeplerOrbitTable(f.Name(), firstJD, lastJD),
		WithValidityWindow(first, last),
	)
	if err != nil {
		t.Fatalf("NewKernel: %v", err)
	}

	pos, _, err := k.BodyPositionVelocity("Mars", timescale.J2000)
	if err != nil {
		t.Fatalf("BodyPositionVelocity: %v", err)
	}
	if pos.Norm() == 0 {
		t.Error("expected non-zero Mars position from loaded orbit table")
	}
}

func TestWithKeplerOrbitTable_MissingFile(t *testing.T) {
	first, last := testWindow()
	_, err := NewKernel(
		WithKeplerOrbitTable("/nonexistent/orbits.txt", 0, 1),
		WithValidityWindow(first, last),
	)
	if err == nil {
		t.Fatal("expected error loading a nonexistent orbit table")
	}
}

func TestKernel_OsculatingElements(t *testing.T) {
	first, last := testWindow()
	firstJD, _ := timescale.CivilToJD(first)
	lastJD, _ := timescale.CivilToJD(last)

	orbits := map[string]*kepler.Orbit{
		"Mars": {
			SemiMajorAxisAU: 1.523679,
			Eccentricity:    0.093315,
			InclinationDeg:  1.850,
			LongAscNodeDeg:  49.558,
			ArgPeriapsisDeg: 286.502,
			MeanAnomalyDeg:  19.373,
			EpochJD:         timescale.J2000,
		},
	}
	k, err := NewKernel(
		WithKeplerOrbits(orbits, firstJD, lastJD),
		WithValidityWindow(first, last),
	)
	if err != nil {
		t.Fatalf("NewKernel: %v", err)
	}

	el, err := k.OsculatingElements("Mars", timescale.J2000, elements.GMSunKm3S2)
	if err != nil {
		t.Fatalf("OsculatingElements: %v", err)
	}

	// The recovered elements should round-trip the orbit this Kernel was
	// seeded with, to within the precision of the Kepler solver and the
	// AU/km unit conversion.
	wantAKm := orbits["Mars"].SemiMajorAxisAU * 149597870.7
	if math.Abs(el.SemiMajorAxisKm-wantAKm)/wantAKm > 1e-6 {
		t.Errorf("recovered a = %v km, want ~%v km", el.SemiMajorAxisKm, wantAKm)
	}
	if math.Abs(el.Eccentricity-orbits["Mars"].Eccentricity) > 1e-6 {
		t.Errorf("recovered e = %v, want ~%v", el.Eccentricity, orbits["Mars"].Eccentricity)
	}
	if math.Abs(el.InclinationDeg-orbits["Mars"].InclinationDeg) > 1e-6 {
		t.Errorf("recovered inclination = %v, want ~%v", el.InclinationDeg, orbits["Mars"].InclinationDeg)
	}
}
