// Package dasha generates the Vimshottari planetary-period timeline: a chain
// of Mahadashas anchored to the Moon's nakshatra at birth, each split into
// nine Antardashas.
package dasha

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabank/astro-calculator/internal/config"
	"github.com/rabank/astro-calculator/internal/zodiac"
)

// CycleYears is the length of one full Vimshottari cycle.
const CycleYears = 120.0

// allotments holds the Mahadasha years of each lord, aligned with zodiac.LordCycle
// (Ketu, Venus, Sun, Moon, Mars, Rahu, Jupiter, Saturn, Mercury).
var allotments = [zodiac.LordCycleLength]float64{7, 20, 6, 10, 7, 18, 16, 19, 17}

// ErrHorizon is returned for a horizon that is not a positive, supported number of years.
var ErrHorizon = errors.New(config.ErrHorizonInvalid)

// Years returns the full Mahadasha allotment of lord, or 0 for a body outside
// the cycle.
func Years(lord zodiac.Body) float64 {
	i := zodiac.CycleIndex(lord)
	if i < 0 {
		return 0
	}
	return allotments[i]
}

// Period is one Mahadasha or Antardasha.
type Period struct {
	Lord     zodiac.Body
	Start    time.Time
	End      time.Time
	AgeStart float64 // years since birth
	AgeEnd   float64
	Years    float64

	// Sub holds the Antardashas of a Mahadasha; it is nil for an Antardasha.
	Sub []Period
}

// Contains reports whether t falls in [Start, End).
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// Timeline is the ordered, contiguous sequence of Mahadashas from birth until
// the horizon is reached. The last Mahadasha runs to its natural end, which may
// lie past the horizon.
type Timeline struct {
	Birth        time.Time
	HorizonYears float64
	StartLord    zodiac.Body

	// Elapsed is the share of the birth nakshatra already traversed by the
	// Moon, which is also the share of the first Mahadasha consumed before birth.
	Elapsed float64

	Periods []Period
}

// Generate builds the timeline for a Moon at the given sidereal longitude.
func Generate(moonSidereal float64, birth time.Time, horizonYears float64) (Timeline, error) {
	if err := config.ValidateHorizon(horizonYears); err != nil {
		return Timeline{}, fmt.Errorf("%w: %w", ErrHorizon, err)
	}

	nak, _ := zodiac.NakshatraOf(moonSidereal)
	elapsed := zodiac.NakshatraFraction(moonSidereal)
	start := nak.LordIndex()

	// First Mahadasha is truncated by the part of the nakshatra already traversed.
	segs := []segment{{lord: zodiac.LordAt(start), years: allotments[start] * (1 - elapsed)}}
	total := segs[0].years
	for i := start + 1; total < horizonYears; i++ {
		lord := zodiac.LordAt(i)
		segs = append(segs, segment{lord: lord, years: Years(lord)})
		total += Years(lord)
	}

	periods := partition(birth, 0, segs)
	for i := range periods {
		periods[i].Sub = antardashas(periods[i])
	}

	slog.Debug(config.MsgDashaGenerated,
		config.LogKeyComponent, config.CompDasha,
		config.LogKeyLord, zodiac.LordAt(start).String(),
		config.LogKeyHorizon, horizonYears,
		config.LogKeyPeriods, len(periods),
	)

	return Timeline{
		Birth:        birth,
		HorizonYears: horizonYears,
		StartLord:    zodiac.LordAt(start),
		Elapsed:      elapsed,
		Periods:      periods,
	}, nil
}

// antardashas splits a Mahadasha into one pass of the nine lords, starting
// from its own lord, weighted by their allotments.
func antardashas(maha Period) []Period {
	first := zodiac.CycleIndex(maha.Lord)
	segs := make([]segment, 0, zodiac.LordCycleLength)
	for i := 0; i < zodiac.LordCycleLength; i++ {
		lord := zodiac.LordAt(first + i)
		segs = append(segs, segment{lord: lord, years: maha.Years * Years(lord) / CycleYears})
	}

	subs := partition(maha.Start, maha.AgeStart, segs)
	// The allotments sum to 120, so the pass fills the parent; pin the last
	// boundary so float rounding cannot leave a sliver.
	last := &subs[len(subs)-1]
	last.End = maha.End
	last.AgeEnd = maha.AgeEnd
	return subs
}

// At returns the Mahadasha and Antardasha running at t.
func (tl Timeline) At(t time.Time) (maha, antar Period, ok bool) {
	for _, p := range tl.Periods {
		if !p.Contains(t) {
			continue
		}
		for _, s := range p.Sub {
			if s.Contains(t) {
				return p, s, true
			}
		}
		return p, Period{}, false
	}
	return Period{}, Period{}, false
}

// End is the end of the last generated Mahadasha.
func (tl Timeline) End() time.Time {
	if len(tl.Periods) == 0 {
		return tl.Birth
	}
	return tl.Periods[len(tl.Periods)-1].End
}
