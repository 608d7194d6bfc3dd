package driver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriodOf_BucketsTheDay(t *testing.T) {
	cases := []struct {
		hour   int
		period Period
	}{
		{5, PeriodEarlyMorning},
		{8, PeriodMorningPeak},
		{12, PeriodMidday},
		{16, PeriodAfternoon},
		{18, PeriodEveningPeak},
		{23, PeriodNight},
		{2, PeriodNight},
	}
	for _, c := range cases {
		at := time.Date(2026, 1, 1, c.hour, 0, 0, 0, time.UTC)
		assert.Equal(t, c.period, PeriodOf(at), "hour %d", c.hour)
	}
}

func TestScaleDepartures_AppliesPeriodMultiplier(t *testing.T) {
	peak := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	night := time.Date(2026, 1, 1, 23, 0, 0, 0, time.UTC)

	assert.Equal(t, 160, ScaleDepartures(100, peak))
	assert.Equal(t, 50, ScaleDepartures(100, night))
}
