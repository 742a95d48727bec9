package elements

import (
	"strings"
	"testing"

	"github.com/mward-astro/ephemkit/timescale"
)

func TestParseOrbitTable(t *testing.T) {
	const table = `
# Approximate planetary elements, J2000.0 epoch, JPL convention.
Mercury  0.38709927  0.20563593  7.00497902  48.33076593  77.45779628  252.25032350   0.00000037  0.00001906 -0.00594749 -0.12534081  0.16047689 149472.67411175
Venus    0.72333566  0.00677672  3.39467605  76.67984255 131.60246718 181.97909950   0.00000390 -0.00004107 -0.00078890 -0.27769418  0.00268329  58517.81538729
`
	orbits, err := parseOrbitTable(strings.NewReader(table))
	if err != nil {
		t.Fatalf("parseOrbitTable: %v", err)
	}
	if len(orbits) != 2 {
		t.Fatalf("got %d orbits, want 2", len(orbits))
	}

	mercury, ok := orbits["Mercury"]
	if !ok {
		t.Fatal("missing Mercury")
	}
	if mercury.SemiMajorAxisAU != 0.38709927 {
		t.Errorf("Mercury a = %v, want 0.38709927", mercury.SemiMajorAxisAU)
	}
	if mercury.EpochJD != timescale.J2000 {
		t.Errorf("Mercury epoch = %v, want J2000 (%v)", mercury.EpochJD, timescale.J2000)
	}
	if mercury.MeanAnomalyRateDegPerCentury != 149472.67411175 {
		t.Errorf("Mercury Mdot = %v, want 149472.67411175", mercury.MeanAnomalyRateDegPerCentury)
	}
	if mercury.ArgPeriapsisRateDegPerCentury != 0.16047689 {
		t.Errorf("Mercury argp rate = %v, want 0.16047689", mercury.ArgPeriapsisRateDegPerCentury)
	}

	venus := orbits["Venus"]
	if venus.InclinationRateDegPerCentury != -0.00078890 {
		t.Errorf("Venus inc rate = %v, want -0.00078890", venus.InclinationRateDegPerCentury)
	}
}

func TestParseOrbitTable_MalformedRow(t *testing.T) {
	_, err := parseOrbitTable(strings.NewReader("Mercury 1 2 3\n"))
	if err == nil {
		t.Fatal("expected error for a row with fewer than 12 doubles")
	}
}

func TestParseOrbitTable_NonNumericField(t *testing.T) {
	bad := "Mercury x 0.2 7.0 48.3 77.4 252.2 0 0 0 0 0 0\n"
	_, err := parseOrbitTable(strings.NewReader(bad))
	if err == nil {
		t.Fatal("expected error for a non-numeric field")
	}
}

func TestLoadOrbitTable_MissingFile(t *testing.T) {
	_, err := LoadOrbitTable("/nonexistent/path/to/table.txt")
	if err == nil {
		t.Fatal("expected error opening a nonexistent file")
	}
}
