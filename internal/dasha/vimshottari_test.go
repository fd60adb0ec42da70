package dasha_test

import (
	"testing"
	"time"

	"github.com/rabank/astro-calculator/internal/dasha"
	"github.com/rabank/astro-calculator/internal/zodiac"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var birth = time.Date(1990, 6, 15, 5, 30, 0, 0, time.UTC)

func TestAllotments_SumToCycle(t *testing.T) {
	total := 0.0
	for _, lord := range zodiac.LordCycle {
		total += dasha.Years(lord)
	}
	assert.Equal(t, dasha.CycleYears, total)
	assert.Equal(t, 0.0, dasha.Years(zodiac.Body(99)))
	assert.Equal(t, 18.0, dasha.Years(zodiac.Rahu))
}

func TestGenerate_Rohini(t *testing.T) {
	// Moon at 45° sits 37.5% into Rohini, ruled by the Moon.
	tl, err := dasha.Generate(45, birth, 120)
	require.NoError(t, err)

	assert.Equal(t, zodiac.Moon, tl.StartLord)
	assert.InDelta(t, 0.375, tl.Elapsed, 1e-9)

	wantLords := []zodiac.Body{
		zodiac.Moon, zodiac.Mars, zodiac.Rahu, zodiac.Jupiter, zodiac.Saturn,
		zodiac.Mercury, zodiac.Ketu, zodiac.Venus, zodiac.Sun, zodiac.Moon,
	}
	require.Len(t, tl.Periods, len(wantLords))
	for i, p := range tl.Periods {
		assert.Equal(t, wantLords[i], p.Lord, "period %d", i)
	}

	first := tl.Periods[0]
	assert.Equal(t, birth, first.Start)
	assert.InDelta(t, 6.25, first.Years, 1e-9)
	assert.InDelta(t, 0.0, first.AgeStart, 1e-12)
	assert.InDelta(t, 6.25, first.AgeEnd, 1e-9)

	// The last Mahadasha runs to its natural end past the horizon.
	last := tl.Periods[len(tl.Periods)-1]
	assert.InDelta(t, 126.25, last.AgeEnd, 1e-9)
	assert.InDelta(t, 10.0, last.Years, 1e-9)
	assert.Equal(t, last.End, tl.End())
}

func TestGenerate_StartOfNakshatra(t *testing.T) {
	tl, err := dasha.Generate(0, birth, 7)
	require.NoError(t, err)

	require.Len(t, tl.Periods, 1, "a full Ketu period already reaches a 7 year horizon")
	assert.Equal(t, zodiac.Ketu, tl.Periods[0].Lord)
	assert.InDelta(t, 7.0, tl.Periods[0].Years, 1e-9)
}

func TestGenerate_Contiguous(t *testing.T) {
	for _, moon := range []float64{0, 13.3, 45, 123.456, 200, 359.99} {
		tl, err := dasha.Generate(moon, birth, 120)
		require.NoError(t, err)

		assert.Equal(t, birth, tl.Periods[0].Start)
		assert.GreaterOrEqual(t, tl.Periods[len(tl.Periods)-1].AgeEnd, 120.0)

		for i, p := range tl.Periods {
			if i > 0 {
				prev := tl.Periods[i-1]
				assert.Equal(t, prev.End, p.Start, "mahadasha gap at %d for moon %v", i, moon)
				assert.Equal(t, prev.AgeEnd, p.AgeStart)
			}
			// Horizon is reached only by the last period.
			if i < len(tl.Periods)-1 {
				assert.Less(t, p.AgeEnd, 120.0)
			}

			require.Len(t, p.Sub, 9)
			assert.Equal(t, p.Lord, p.Sub[0].Lord, "first antardasha belongs to the mahadasha lord")
			assert.Equal(t, p.Start, p.Sub[0].Start)
			assert.Equal(t, p.End, p.Sub[8].End)

			subYears := 0.0
			for j, s := range p.Sub {
				subYears += s.Years
				assert.Nil(t, s.Sub)
				if j > 0 {
					assert.Equal(t, p.Sub[j-1].End, s.Start, "antardasha gap at %d/%d", i, j)
				}
			}
			assert.InDelta(t, p.Years, subYears, 1e-9)
		}
	}
}

func TestGenerate_AntardashaWeights(t *testing.T) {
	tl, err := dasha.Generate(45, birth, 120)
	require.NoError(t, err)

	// Second Mahadasha is a full Mars period of 7 years.
	mars := tl.Periods[1]
	require.Equal(t, zodiac.Mars, mars.Lord)

	wantLords := []zodiac.Body{
		zodiac.Mars, zodiac.Rahu, zodiac.Jupiter, zodiac.Saturn, zodiac.Mercury,
		zodiac.Ketu, zodiac.Venus, zodiac.Sun, zodiac.Moon,
	}
	for i, s := range mars.Sub {
		assert.Equal(t, wantLords[i], s.Lord)
		assert.InDelta(t, 7*dasha.Years(s.Lord)/120, s.Years, 1e-12)
	}
	assert.InDelta(t, mars.AgeStart, mars.Sub[0].AgeStart, 1e-12)
	assert.InDelta(t, mars.AgeEnd, mars.Sub[8].AgeEnd, 1e-12)
}

func TestGenerate_InvalidHorizon(t *testing.T) {
	for _, h := range []float64{0, -5, 10000} {
		_, err := dasha.Generate(45, birth, h)
		assert.ErrorIs(t, err, dasha.ErrHorizon, "horizon %v", h)
	}
}

func TestTimeline_At(t *testing.T) {
	tl, err := dasha.Generate(45, birth, 120)
	require.NoError(t, err)

	tests := []struct {
		name      string
		at        time.Time
		wantMaha  zodiac.Body
		wantAntar zodiac.Body
	}{
		{"birth instant", birth, zodiac.Moon, zodiac.Moon},
		// Moon 0.52y + Mars 0.36y elapse before the Rahu antardasha.
		{"one year", birth.AddDate(1, 0, 0), zodiac.Moon, zodiac.Rahu},
		{"age ten", birth.AddDate(10, 0, 0), zodiac.Mars, zodiac.Mercury},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			maha, antar, ok := tl.At(tt.at)
			require.True(t, ok)
			assert.Equal(t, tt.wantMaha, maha.Lord)
			assert.Equal(t, tt.wantAntar, antar.Lord)
		})
	}

	_, _, ok := tl.At(birth.Add(-time.Hour))
	assert.False(t, ok, "before birth nothing is running")

	_, _, ok = tl.At(tl.End())
	assert.False(t, ok, "end bound is exclusive")
}
