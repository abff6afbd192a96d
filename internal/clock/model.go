package clock

import (
	"math"
	"time"
)

const hoursPerDay = 24

// TimeModel is a calendar clock. Month is zero-based; Day starts at 1.
type TimeModel struct {
	Day       int32
	Month     int32
	Year      int32
	Time      float32
	TimeScale float32
}

var monthDays = [12]int32{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func daysIn(month, year int32) int32 {
	if month == 1 && year%4 == 0 && (year%100 != 0 || year%400 == 0) {
		return 29
	}
	return monthDays[month%12]
}

// Advance moves the model forward by d of real time scaled by TimeScale, rolling
// the calendar over midnight.
func (m *TimeModel) Advance(d time.Duration) {
	if d <= 0 || m.TimeScale <= 0 {
		return
	}
	hours := float64(m.Time) + d.Seconds()*float64(m.TimeScale)/3600
	for hours >= hoursPerDay {
		hours -= hoursPerDay
		m.nextDay()
	}
	m.Time = float32(hours)
}

func (m *TimeModel) nextDay() {
	if m.Day < 1 {
		m.Day = 1
	}
	m.Day++
	if m.Day <= daysIn(m.Month, m.Year) {
		return
	}
	m.Day = 1
	m.Month++
	if m.Month > 11 {
		m.Month = 0
		m.Year++
	}
}

// DaysPassed is the fractional day count the engine keeps alongside the hour.
func (m TimeModel) DaysPassed() float32 {
	return m.Time/hoursPerDay + float32(m.Day)
}

// WrapHour folds h into [0, 24).
func WrapHour(h float64) float64 {
	h = math.Mod(h, hoursPerDay)
	if h < 0 {
		h += hoursPerDay
	}
	return h
}

// Interpolate blends two hours of day, always moving forward. When to is earlier
// than from the blend runs through midnight, so 10 to 2 passes 18 rather than 6.
func Interpolate(from, to float32, frac float64) float32 {
	switch {
	case frac <= 0:
		return from
	case frac >= 1:
		return to
	}
	if to < from {
		d := float64(to) - float64(from) + hoursPerDay
		return float32(WrapHour(float64(from) + d*frac))
	}
	return float32(float64(from) + (float64(to)-float64(from))*frac)
}
