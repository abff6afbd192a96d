package clock

import (
	"math"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

func approx(t *testing.T, name string, got, exp float32) {
	t.Helper()
	if math.Abs(float64(got-exp)) > 1e-4 {
		t.Errorf("%s: got %v, expected %v", name, got, exp)
	}
}

func TestInterpolate(t *testing.T) {
	tests := map[string]struct {
		from float32
		to   float32
		frac float64
		exp  float32
	}{
		"start":                 {from: 10, to: 14, frac: 0, exp: 10},
		"end":                   {from: 10, to: 14, frac: 1, exp: 14},
		"middle":                {from: 10, to: 14, frac: 0.5, exp: 12},
		"across midnight":       {from: 23.5, to: 0.5, frac: 0.5, exp: 0},
		"across midnight start": {from: 23.5, to: 0.5, frac: 0, exp: 23.5},
		"across midnight end":   {from: 23.5, to: 0.5, frac: 1, exp: 0.5},
		"long way forward":      {from: 10, to: 2, frac: 0.5, exp: 18},
		"forward not backward":  {from: 1, to: 23, frac: 0.5, exp: 12},
		"past one clamps":       {from: 3, to: 5, frac: 1.7, exp: 5},
		"below zero clamps":     {from: 3, to: 5, frac: -1, exp: 3},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			approx(t, "hour", Interpolate(tt.from, tt.to, tt.frac), tt.exp)
		})
	}
}

func TestInterpolate_EndpointsForAllHours(t *testing.T) {
	for from := float32(0); from < 24; from += 0.75 {
		for to := float32(0); to < 24; to += 1.25 {
			testutil.AssertEqual(t, "start", Interpolate(from, to, 0), from)
			testutil.AssertEqual(t, "end", Interpolate(from, to, 1), to)
		}
	}
}

func TestTimeModel_Advance(t *testing.T) {
	tests := map[string]struct {
		model TimeModel
		d     time.Duration
		exp   TimeModel
	}{
		"one second at scale 20": {
			model: TimeModel{Day: 3, Month: 4, Year: 201, Time: 12, TimeScale: 20},
			d:     time.Second,
			exp:   TimeModel{Day: 3, Month: 4, Year: 201, Time: 12 + 20.0/3600, TimeScale: 20},
		},
		"rolls day": {
			model: TimeModel{Day: 3, Month: 4, Year: 201, Time: 23.5, TimeScale: 3600},
			d:     time.Hour / 3600,
			exp:   TimeModel{Day: 4, Month: 4, Year: 201, Time: 0.5, TimeScale: 3600},
		},
		"rolls month": {
			model: TimeModel{Day: 31, Month: 0, Year: 201, Time: 23, TimeScale: 3600},
			d:     2 * time.Second,
			exp:   TimeModel{Day: 1, Month: 1, Year: 201, Time: 1, TimeScale: 3600},
		},
		"rolls year": {
			model: TimeModel{Day: 31, Month: 11, Year: 201, Time: 23, TimeScale: 3600},
			d:     2 * time.Second,
			exp:   TimeModel{Day: 1, Month: 0, Year: 202, Time: 1, TimeScale: 3600},
		},
		"zero scale is frozen": {
			model: TimeModel{Day: 1, Time: 5},
			d:     time.Minute,
			exp:   TimeModel{Day: 1, Time: 5},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m := tt.model
			m.Advance(tt.d)
			testutil.AssertEqual(t, "day", m.Day, tt.exp.Day)
			testutil.AssertEqual(t, "month", m.Month, tt.exp.Month)
			testutil.AssertEqual(t, "year", m.Year, tt.exp.Year)
			approx(t, "time", m.Time, tt.exp.Time)
		})
	}
}

func TestDaysIn(t *testing.T) {
	testutil.AssertEqual(t, "feb leap", daysIn(1, 2024), int32(29))
	testutil.AssertEqual(t, "feb century", daysIn(1, 1900), int32(28))
	testutil.AssertEqual(t, "feb 400", daysIn(1, 2000), int32(29))
	testutil.AssertEqual(t, "april", daysIn(3, 2023), int32(30))
}
