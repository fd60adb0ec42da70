// Package engine derives a sidereal chart from raw tropical positions: the
// placements of the nine bodies, the ascendant and Arudha Lagna, the Chara
// Karakas, the Panchanga, the Navamsa chart and the Vimshottari timeline.
//
// Every derivation is a pure function of its explicit inputs, so charts for
// different ayanamsha variants may be computed concurrently.
package engine

import (
	"fmt"

	"github.com/rabank/astro-calculator/internal/config"
	"github.com/rabank/astro-calculator/internal/dasha"
	"github.com/rabank/astro-calculator/internal/ephemeris"
	"github.com/rabank/astro-calculator/internal/zodiac"
)

// Options tunes the parts of a chart that are not fixed by the input.
type Options struct {
	HorizonYears float64
}

// DefaultOptions covers one full Vimshottari cycle.
func DefaultOptions() Options {
	return Options{HorizonYears: config.DefaultHorizonYears}
}

// Placement is a body in the sidereal zodiac.
type Placement struct {
	Body       zodiac.Body
	Longitude  float64
	Speed      float64
	Sign       zodiac.Sign
	Nakshatra  zodiac.Nakshatra
	Pada       int
	Retrograde bool
	Karaka     Karaka
}

// Ascendant is the rising point. It carries no nakshatra or pada.
type Ascendant struct {
	Longitude float64
	Sign      zodiac.Sign
}

// Settings echoes the configuration a chart was computed with.
type Settings struct {
	Ayanamsha        ephemeris.Variant
	AyanamshaDegrees float64
	Node             ephemeris.NodeModel
}

// Chart is the derived chart. It has no identity beyond the input that
// produced it.
type Chart struct {
	Ascendant Ascendant
	Planets   []Placement // Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Rahu, Ketu

	// ArudhaLagna is nil when the ascendant's ruler has no placement.
	ArudhaLagna *zodiac.Sign

	Panchanga Panchanga
	Navamsa   Navamsa
	Dasha     dasha.Timeline
	Settings  Settings
}

// Planet returns the placement of b.
func (c *Chart) Planet(b zodiac.Body) (Placement, bool) {
	for _, p := range c.Planets {
		if p.Body == b {
			return p, true
		}
	}
	return Placement{}, false
}

// Place converts a tropical position and classifies it.
func Place(body zodiac.Body, tropical, speed, ayanamsha float64) Placement {
	return placeSidereal(body, zodiac.ToSidereal(tropical, ayanamsha), speed)
}

func placeSidereal(body zodiac.Body, lon, speed float64) Placement {
	nak, pada := zodiac.NakshatraOf(lon)
	return Placement{
		Body:       body,
		Longitude:  lon,
		Speed:      speed,
		Sign:       zodiac.SignOf(lon),
		Nakshatra:  nak,
		Pada:       pada,
		Retrograde: speed < 0,
	}
}

// Compute derives the chart for in.
func Compute(in Input, opts Options) (*Chart, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if opts.HorizonYears == 0 {
		opts = DefaultOptions()
	}

	node := in.Node()
	raw := make(map[ephemeris.BodyID]RawBody, len(in.Bodies))
	for _, b := range in.Bodies {
		raw[b.ID] = b
	}

	planets := make([]Placement, 0, zodiac.BodyCount)
	for _, id := range ephemeris.Planets {
		b := raw[id]
		planets = append(planets, Place(bodyMap[id], b.TropicalLongitude, b.Speed, in.AyanamshaDegrees))
	}

	rahuRaw := raw[node.Body()]
	rahu := Place(zodiac.Rahu, rahuRaw.TropicalLongitude, rahuRaw.Speed, in.AyanamshaDegrees)
	ketu := placeSidereal(zodiac.Ketu, zodiac.Opposite(rahu.Longitude), rahu.Speed)
	planets = append(planets, rahu, ketu)

	roles := RankKarakas(planets)
	for i := range planets {
		planets[i].Karaka = roles[planets[i].Body]
	}

	ascLon := zodiac.ToSidereal(in.AscendantTropical, in.AyanamshaDegrees)
	chart := &Chart{
		Ascendant: Ascendant{Longitude: ascLon, Sign: zodiac.SignOf(ascLon)},
		Planets:   planets,
		Settings: Settings{
			Ayanamsha:        in.Variant,
			AyanamshaDegrees: in.AyanamshaDegrees,
			Node:             node,
		},
	}

	if al, ok := ArudhaLagna(chart.Ascendant.Sign, signsOf(planets)); ok {
		chart.ArudhaLagna = &al
	}

	sun, _ := chart.Planet(zodiac.Sun)
	moon, _ := chart.Planet(zodiac.Moon)
	chart.Panchanga = CalculatePanchanga(sun.Longitude, moon.Longitude, in.BirthLocal.Weekday())
	chart.Navamsa = BuildNavamsa(ascLon, planets)

	timeline, err := dasha.Generate(moon.Longitude, in.BirthUTC.UTC(), opts.HorizonYears)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	chart.Dasha = timeline

	return chart, nil
}
