package elements

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mward-astro/ephemkit/kepler"
	"github.com/mward-astro/ephemkit/timescale"
)

// GMSunKm3S2 is the heliocentric gravitational parameter in km³/s², the
// standard μ for FromStateVector when the orbit being diagnosed is
// heliocentric (the common case for the bodies this package's table
// format describes).
const GMSunKm3S2 = 132712440041.94

// LoadOrbitTable reads a plain-text orbital parameter table (spec §6
// "Orbital parameter tables") and returns one kepler.Orbit per body name.
//
// Each non-blank, non-comment ("#") line holds a body name followed by 12
// whitespace-separated doubles: the six classical elements at the table's
// reference epoch (semi-major axis in AU, eccentricity, inclination,
// longitude of ascending node, argument of periapsis, mean anomaly — the
// last four in degrees) followed by their six per-Julian-century secular
// rates, in the same order and units per century. This is the JPL
// "approximate positions of the major planets" convention: one shared
// epoch for the whole table (J2000.0) rather than a per-row epoch column,
// which is why the row carries 12 numbers rather than 13. The fifth and
// sixth columns and their rates are used directly as argument of
// periapsis and mean anomaly; rows that tabulate longitude of perihelion
// and mean longitude there (as the JPL table, and the example below, do)
// are not converted.
//
//	Mercury  0.38709927  0.20563593  7.00497902  48.33076593  77.45779628  252.25032350   0.00000037  0.00001906 -0.00594749 -0.12534081  0.16047689 149472.67411175
func LoadOrbitTable(path string) (map[string]*kepler.Orbit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("elements: opening orbit table: %w", err)
	}
	defer f.Close()
	return parseOrbitTable(f)
}

func parseOrbitTable(r io.Reader) (map[string]*kepler.Orbit, error) {
	orbits := map[string]*kepler.Orbit{}
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 13 {
			return nil, fmt.Errorf("elements: malformed orbit table row %q: want name + 12 doubles", line)
		}

		vals := make([]float64, 12)
		for i := 0; i < 12; i++ {
			v, err := strconv.ParseFloat(fields[1+i], 64)
			if err != nil {
				return nil, fmt.Errorf("elements: non-numeric orbit table field in row %q: %w", line, err)
			}
			vals[i] = v
		}

		orbits[fields[0]] = &kepler.Orbit{
			SemiMajorAxisAU:               vals[0],
			Eccentricity:                  vals[1],
			InclinationDeg:                vals[2],
			LongAscNodeDeg:                vals[3],
			ArgPeriapsisDeg:               vals[4],
			MeanAnomalyDeg:                vals[5],
			EpochJD:                       timescale.J2000,
			SemiMajorAxisRateAUPerCentury: vals[6],
			EccentricityRatePerCentury:    vals[7],
			InclinationRateDegPerCentury:  vals[8],
			LongAscNodeRateDegPerCentury:  vals[9],
			ArgPeriapsisRateDegPerCentury: vals[10],
			MeanAnomalyRateDegPerCentury:  vals[11],
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("elements: reading orbit table: %w", err)
	}
	return orbits, nil
}
