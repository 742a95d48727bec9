// Package timescale converts between civil calendar dates, Julian Date
// (JD), and the various time scales (UTC, TT, TDB, UT1) the rest of
// ephemkit needs: spk kernels are tagged in TDB seconds past J2000, while
// callers of the library API think in ordinary calendar dates.
package timescale

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidDate is returned for calendar dates that cannot be represented,
// such as a day-of-month that does not exist (e.g. 1582-10-10, one of the
// ten days dropped by the Gregorian reform), an out-of-range month/day, or a
// date before JD 0.
var ErrInvalidDate = errors.New("timescale: invalid date")

// J2000 is the Julian Date of the J2000.0 epoch: 2000-01-01T12:00:00 TT.
const J2000 = 2451545.0

// SecPerDay is the number of SI seconds in one day of 86400 seconds.
const SecPerDay = 86400.0

// unixEpochJD is the Julian Date of the Unix epoch, 1970-01-01T00:00:00 UTC.
const unixEpochJD = 2440587.5

// Calendar is a civil (proleptic Gregorian from 1582-10-15 onward, Julian
// calendar before that) date and time of day.
type Calendar struct {
	Year  int // astronomical year numbering: 1 BC = year 0, 2 BC = year -1
	Month int // 1-12
	Day   int // 1-31
	Hour  int
	Min   int
	Sec   float64
}

// gregorianReformJD is the JD of 1582-10-15, the first day of the Gregorian
// calendar. Dates before it are interpreted in the Julian calendar.
const gregorianReformJD = 2299160.5

// CivilToJD converts a Calendar to a Julian Date using the classic
// Meeus/Duffett-Smith algorithm (constants 4716, 1524.5, 365.25, 30.6001)
// the astronomical community has standardized on for civil<->JD conversion.
func CivilToJD(c Calendar) (float64, error) {
	if c.Month < 1 || c.Month > 12 {
		return 0, fmt.Errorf("%w: month %d out of range", ErrInvalidDate, c.Month)
	}
	if c.Day < 1 || c.Day > 31 {
		return 0, fmt.Errorf("%w: day %d out of range", ErrInvalidDate, c.Day)
	}
	if c.Hour < 0 || c.Hour > 23 || c.Min < 0 || c.Min > 59 || c.Sec < 0 || c.Sec >= 60 {
		return 0, fmt.Errorf("%w: time of day out of range", ErrInvalidDate)
	}

	y, m := c.Year, c.Month
	if m <= 2 {
		y--
		m += 12
	}

	dayFrac := float64(c.Day) + (float64(c.Hour) + float64(c.Min)/60 + c.Sec/3600.0) / 24.0

	// Provisional JD in the Julian calendar, used only to test which side
	// of the Gregorian reform this date falls on.
	jdJulian := math.Floor(365.25*float64(y+4716)) + math.Floor(30.6001*float64(m+1)) + dayFrac - 1524.5

	var b float64
	if jdJulian >= gregorianReformJD {
		a := math.Floor(float64(y) / 100)
		b = 2 - a + math.Floor(a/4)
	}

	jd := math.Floor(365.25*float64(y+4716)) + math.Floor(30.6001*float64(m+1)) + dayFrac + b - 1524.5

	if jdJulian >= gregorianReformJD && jd < gregorianReformJD {
		return 0, fmt.Errorf("%w: %04d-%02d-%02d falls in the ten days dropped by the Gregorian reform", ErrInvalidDate, c.Year, c.Month, c.Day)
	}
	if jd < 0 {
		return 0, fmt.Errorf("%w: %04d-%02d-%02d is before JD 0", ErrInvalidDate, c.Year, c.Month, c.Day)
	}

	return jd, nil
}

// JDToCivil is the inverse of CivilToJD.
func JDToCivil(jd float64) Calendar {
	jdShift := jd + 0.5
	z := math.Floor(jdShift)
	f := jdShift - z

	var a float64
	if z < gregorianReformJD+0.5 {
		a = z
	} else {
		alpha := math.Floor((z - 1867216.25) / 36524.25)
		a = z + 1 + alpha - math.Floor(alpha/4)
	}

	b := a + 1524
	c := math.Floor((b - 122.1) / 365.25)
	d := math.Floor(365.25 * c)
	e := math.Floor((b - d) / 30.6001)

	dayFrac := b - d - math.Floor(30.6001*e) + f

	var month int
	if e < 14 {
		month = int(e) - 1
	} else {
		month = int(e) - 13
	}

	var year int
	if month > 2 {
		year = int(c) - 4716
	} else {
		year = int(c) - 4715
	}

	day := int(math.Floor(dayFrac))
	remainder := dayFrac - math.Floor(dayFrac)
	totalSeconds := remainder * SecPerDay
	hour := int(totalSeconds / 3600)
	min := int(math.Mod(totalSeconds, 3600) / 60)
	sec := math.Mod(totalSeconds, 60)

	return Calendar{Year: year, Month: month, Day: day, Hour: hour, Min: min, Sec: sec}
}

// SecondsPastJ2000 converts a Julian Date to ephemeris seconds past the
// J2000.0 epoch, the time coordinate spk.Evaluate works in.
func SecondsPastJ2000(jd float64) float64 {
	return (jd - J2000) * SecPerDay
}

// JDFromSecondsPastJ2000 is the inverse of SecondsPastJ2000.
func JDFromSecondsPastJ2000(et float64) float64 {
	return J2000 + et/SecPerDay
}

// TimeToJDUTC converts a time.Time (interpreted in UTC, regardless of its
// stored location) to a Julian Date.
func TimeToJDUTC(t time.Time) float64 {
	u := t.UTC()
	days := float64(u.Unix()) / SecPerDay
	days += float64(u.Nanosecond()) / 1e9 / SecPerDay
	return unixEpochJD + days
}

// leapSecondEntry is one row of the TAI-UTC leap second table maintained by
// the IERS (Bulletin C): the JD at 0h UTC a new offset took effect, and the
// offset in whole seconds.
type leapSecondEntry struct {
	jd     float64
	offset float64
}

// leapSecondTable lists every leap second introduced since the 1972 start
// of the current TAI-UTC stepping scheme (IERS Bulletin C), expressed as
// the JD (0h UTC) each new offset took effect.
var leapSecondTable = []leapSecondEntry{
	{2441317.5, 10}, // 1972-01-01
	{2441499.5, 11}, // 1972-07-01
	{2441683.5, 12}, // 1973-01-01
	{2442048.5, 13}, // 1974-01-01
	{2442413.5, 14}, // 1975-01-01
	{2442778.5, 15}, // 1976-01-01
	{2443144.5, 16}, // 1977-01-01
	{2443509.5, 17}, // 1978-01-01
	{2443874.5, 18}, // 1979-01-01
	{2444239.5, 19}, // 1980-01-01
	{2444786.5, 20}, // 1981-07-01
	{2445151.5, 21}, // 1982-07-01
	{2445516.5, 22}, // 1983-07-01
	{2446247.5, 23}, // 1985-07-01
	{2447161.5, 24}, // 1988-01-01
	{2447892.5, 25}, // 1990-01-01
	{2448257.5, 26}, // 1991-01-01
	{2448804.5, 27}, // 1992-07-01
	{2449169.5, 28}, // 1993-07-01
	{2449534.5, 29}, // 1994-07-01
	{2450083.5, 30}, // 1996-01-01
	{2450630.5, 31}, // 1997-07-01
	{2451179.5, 32}, // 1999-01-01
	{2453736.5, 33}, // 2006-01-01
	{2454832.5, 34}, // 2009-01-01
	{2456109.5, 35}, // 2012-07-01
	{2457204.5, 36}, // 2015-07-01
	{2457754.5, 37}, // 2017-01-01
}

// LeapSecondOffset returns TAI-UTC, in whole seconds, for the given UTC
// Julian Date. Dates before the first table entry return the table's
// initial offset; dates after the last entry return its latest offset,
// since no further leap seconds are known to have been scheduled.
func LeapSecondOffset(jdUTC float64) float64 {
	offset := leapSecondTable[0].offset
	for _, e := range leapSecondTable {
		if jdUTC >= e.jd {
			offset = e.offset
		} else {
			break
		}
	}
	return offset
}

// UTCToTT converts a UTC Julian Date to TT: TT = UTC + (TAI-UTC) + 32.184s.
func UTCToTT(jdUTC float64) float64 {
	offsetSec := LeapSecondOffset(jdUTC) + 32.184
	return jdUTC + offsetSec/SecPerDay
}

// deltaTEntry is one row of the Delta T (TT-UT1) table.
type deltaTEntry struct {
	year  float64
	value float64
}

// deltaTTable gives TT-UT1 in seconds at 50-year intervals from 1800
// through 2200, combining historical measurements (via eclipse and
// occultation records, through the 20th century) with the long-term
// parabolic growth projected for the 21st/22nd centuries. Values outside
// the table are clamped to the nearest endpoint; values between entries
// are linearly interpolated.
var deltaTTable = []deltaTEntry{
	{1800, 18.3670},
	{1850, 7.3},
	{1900, -1.02},
	{1950, 29.15},
	{2000, 63.8290},
	{2050, 93.96},
	{2100, 180.0},
	{2150, 280.0},
	{2200, 390.0},
}

// DeltaT returns TT-UT1, in seconds, for the given decimal year.
func DeltaT(year float64) float64 {
	n := len(deltaTTable)
	if year <= deltaTTable[0].year {
		return deltaTTable[0].value
	}
	if year >= deltaTTable[n-1].year {
		return deltaTTable[n-1].value
	}
	for i := 0; i < n-1; i++ {
		lo, hi := deltaTTable[i], deltaTTable[i+1]
		if year >= lo.year && year <= hi.year {
			f := (year - lo.year) / (hi.year - lo.year)
			return lo.value + f*(hi.value-lo.value)
		}
	}
	return deltaTTable[n-1].value
}

// TTToUT1 converts a TT Julian Date to UT1: UT1 = TT - DeltaT/86400.
func TTToUT1(jdTT float64) float64 {
	year := 2000.0 + (jdTT-J2000)/365.25
	dt := DeltaT(year)
	return jdTT - dt/SecPerDay
}

// TDBMinusTT returns TDB-TT in seconds at the given Julian Date (TT), using
// the leading term of the Fairhead & Bretagnon (1990) series — accurate to
// about 30 microseconds, well inside the millisecond-level budget any SPK
// evaluation needs. Moved here from spk.go, where the teacher duplicated
// this same function to sidestep what would otherwise have been a circular
// import between spk and timescale; that circularity doesn't exist in this
// layering, since timescale never imports spk.
func TDBMinusTT(jdTT float64) float64 {
	t := (jdTT - J2000) / 36525.0
	g := 357.53 + 0.9856003*(jdTT-J2000)
	gRad := g * math.Pi / 180.0
	return 0.001658*math.Sin(gRad) + 0.000014*math.Sin(2*gRad) + 0.000001*t
}
