package body

import (
	"errors"
	"testing"

	"github.com/mward-astro/ephemkit/vector3"
)

// fakeProvider is a minimal in-memory Provider for dispatcher tests.
type fakeProvider struct {
	names          map[string]bool
	startJD, endJD float64
	posFunc        func(name string, jd float64) (vector3.Vec, vector3.Vec, error)
}

func (f *fakeProvider) Serves(name string) bool { return f.names[name] }
func (f *fakeProvider) Covers(jd float64) bool  { return jd >= f.startJD && jd <= f.endJD }
func (f *fakeProvider) PositionVelocity(name string, jd float64) (vector3.Vec, vector3.Vec, error) {
	return f.posFunc(name, jd)
}

func constPos(x, y, z float64) func(string, float64) (vector3.Vec, vector3.Vec, error) {
	return func(string, float64) (vector3.Vec, vector3.Vec, error) {
		return vector3.New(x, y, z), vector3.New(0, 0, 0), nil
	}
}

func TestDispatcher_UnknownBody(t *testing.T) {
	d := &Dispatcher{}
	_, _, err := d.PositionVelocity("Ceres", 2451545.0)
	if !errors.Is(err, ErrUnknownBody) {
		t.Fatalf("expected ErrUnknownBody, got %v", err)
	}
}

func TestDispatcher_DateOutOfRange(t *testing.T) {
	p := &fakeProvider{names: map[string]bool{"Mars": true}, startJD: 0, endJD: 100, posFunc: constPos(1, 2, 3)}
	d := &Dispatcher{Providers: []Provider{p}}
	_, _, err := d.PositionVelocity("Mars", 5000.0)
	if !errors.Is(err, ErrDateOutOfRange) {
		t.Fatalf("expected ErrDateOutOfRange, got %v", err)
	}
}

func TestDispatcher_FirstMatchSelection(t *testing.T) {
	accurate := &fakeProvider{names: map[string]bool{"Mars": true}, startJD: 2451000, endJD: 2452000, posFunc: constPos(10, 20, 30)}
	approx := &fakeProvider{names: map[string]bool{"Mars": true}, startJD: 0, endJD: 1e7, posFunc: constPos(100, 200, 300)}
	d := &Dispatcher{Providers: []Provider{accurate, approx}}

	pos, _, err := d.PositionVelocity("Mars", 2451500)
	if err != nil {
		t.Fatalf("PositionVelocity: %v", err)
	}
	if pos.X != 10 {
		t.Errorf("expected the first (accurate) provider to win inside its window, got %v", pos)
	}

	pos, _, err = d.PositionVelocity("Mars", 2460000)
	if err != nil {
		t.Fatalf("PositionVelocity fallback: %v", err)
	}
	if pos.X != 100 {
		t.Errorf("expected the second (approximate) provider to serve outside the first's window, got %v", pos)
	}
}

func TestMoonByCopy(t *testing.T) {
	accurateMoon := &fakeProvider{
		names: map[string]bool{"Moon": true}, startJD: 2451000, endJD: 2452000,
		posFunc: func(name string, jd float64) (vector3.Vec, vector3.Vec, error) {
			return vector3.New(1000, 0, 0), vector3.New(0, 1, 0), nil
		},
	}
	accurateEarth := &fakeProvider{
		names: map[string]bool{"Earth": true}, startJD: 2451000, endJD: 2452000,
		posFunc: func(name string, jd float64) (vector3.Vec, vector3.Vec, error) {
			return vector3.New(100, 0, 0), vector3.New(0, 0, 0), nil
		},
	}
	approximateEarth := &fakeProvider{
		names: map[string]bool{"Earth": true}, startJD: 0, endJD: 1e7,
		posFunc: func(name string, jd float64) (vector3.Vec, vector3.Vec, error) {
			return vector3.New(5000, 0, 0), vector3.New(1, 0, 0), nil
		},
	}
	approximateMoon := &fakeProvider{
		names: map[string]bool{"Moon": true}, startJD: 0, endJD: 1e7,
		posFunc: constPos(0, 0, 0),
	}

	d := &Dispatcher{
		AccurateMoon:     accurateMoon,
		ApproximateMoon:  approximateMoon,
		AccurateEarth:    accurateEarth,
		ApproximateEarth: approximateEarth,
	}

	// Outside the accurate window but inside the approximate window.
	jd := 2460000.0
	pos, _, err := d.PositionVelocity("Moon", jd)
	if err != nil {
		t.Fatalf("PositionVelocity Moon-by-copy: %v", err)
	}

	// relative vector = (1000,0,0) - (100,0,0) = (900,0,0); approximate
	// Earth position is (5000,0,0): result should be (5900,0,0).
	want := vector3.New(5900, 0, 0)
	if pos.Minus(want).Norm() > 1e-9 {
		t.Errorf("moon-by-copy position = %v, want %v", pos, want)
	}
}
