package dasha

import (
	"time"

	"github.com/rabank/astro-calculator/internal/config"
	"github.com/rabank/astro-calculator/internal/zodiac"
)

// segment is a lord with the number of years it rules.
type segment struct {
	lord  zodiac.Body
	years float64
}

// partition chains segments end to end from origin. Every boundary is derived
// from the cumulative age rather than by summing rounded durations, and each
// period starts at exactly the instant the previous one ends.
func partition(origin time.Time, ageOrigin float64, segs []segment) []Period {
	periods := make([]Period, 0, len(segs))
	start := origin
	age := ageOrigin
	elapsed := 0.0

	for _, s := range segs {
		elapsed += s.years
		end := origin.Add(yearsToDuration(elapsed))
		periods = append(periods, Period{
			Lord:     s.lord,
			Start:    start,
			End:      end,
			AgeStart: age,
			AgeEnd:   ageOrigin + elapsed,
			Years:    s.years,
		})
		start = end
		age = ageOrigin + elapsed
	}
	return periods
}

func yearsToDuration(years float64) time.Duration {
	return time.Duration(years * config.DaysPerYear * float64(24*time.Hour))
}
