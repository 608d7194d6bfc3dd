package driver

import "time"

// Period buckets a time of day into one of the teacher's six demand
// periods (jwmdev-brt08/backend/data/data.go), used by ScaleDepartures to
// scale a baseline departure count for a given hour —
// generalized from a fixed BRT corridor's passenger arrival rate to a
// generic per-period trip-count multiplier applicable to any scenario.
type Period int

const (
	PeriodEarlyMorning Period = iota + 1
	PeriodMorningPeak
	PeriodMidday
	PeriodAfternoon
	PeriodEveningPeak
	PeriodNight
)

// timePeriodMultiplier mirrors the teacher's data.TimePeriodMultiplier
// table verbatim: relative demand intensity per period, used to scale a
// baseline departure count rather than to model any particular corridor.
var timePeriodMultiplier = map[Period]float64{
	PeriodEarlyMorning: 0.3,
	PeriodMorningPeak:  1.6,
	PeriodMidday:       0.9,
	PeriodAfternoon:    0.8,
	PeriodEveningPeak:  1.4,
	PeriodNight:        0.5,
}

// PeriodOf buckets a clock hour into one of the six periods, matching the
// teacher's period boundaries.
func PeriodOf(t time.Time) Period {
	switch h := t.Hour(); {
	case h >= 5 && h < 7:
		return PeriodEarlyMorning
	case h >= 7 && h < 9:
		return PeriodMorningPeak
	case h >= 9 && h < 15:
		return PeriodMidday
	case h >= 15 && h < 17:
		return PeriodAfternoon
	case h >= 17 && h < 19:
		return PeriodEveningPeak
	default:
		return PeriodNight
	}
}

// Multiplier returns the relative demand scale for t's period.
func Multiplier(t time.Time) float64 {
	return timePeriodMultiplier[PeriodOf(t)]
}

// ScaleDepartures scales a baseline departure count by the demand
// multiplier for the given hour, rounding down — used by a scenario
// generator that wants more departures during peak periods without
// hand-authoring a distinct count per hour.
func ScaleDepartures(baseline int, at time.Time) int {
	return int(float64(baseline) * Multiplier(at))
}
