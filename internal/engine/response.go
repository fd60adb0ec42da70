package engine

import (
	"math"
	"time"

	"github.com/rabank/astro-calculator/internal/config"
	"github.com/rabank/astro-calculator/internal/dasha"
	"github.com/rabank/astro-calculator/internal/zodiac"
)

// Response is the JSON shape of a chart.
type Response struct {
	Ascendant   AscendantJSON `json:"Ascendant"`
	Planets     []PlanetJSON  `json:"Planets"`
	ArudhaLagna *SignJSON     `json:"ArudhaLagna,omitempty"`
	Panchanga   PanchangaJSON `json:"Panchanga"`
	D9          D9JSON        `json:"D9"`
	Vimshottari []MahaJSON    `json:"Vimshottari"`
	Current     *CurrentJSON  `json:"current_dasha,omitempty"`
	Settings    SettingsJSON  `json:"settings"`
}

type AscendantJSON struct {
	Degree float64     `json:"degree"`
	Sign   zodiac.Sign `json:"sign"`
}

type SignJSON struct {
	Sign zodiac.Sign `json:"sign"`
}

type PlanetJSON struct {
	Planet      zodiac.Body      `json:"planet"`
	Longitude   float64          `json:"longitude"`
	Sign        zodiac.Sign      `json:"sign"`
	Nakshatra   zodiac.Nakshatra `json:"nakshatra"`
	Pada        int              `json:"pada"`
	Retrograde  bool             `json:"retrograde"`
	CharaKaraka string           `json:"chara_karaka,omitempty"`
}

type ElementJSON struct {
	Name string      `json:"name"`
	Lord zodiac.Body `json:"lord"`

	// LeftPercent is the share of the element still to run.
	LeftPercent *float64 `json:"left_percent,omitempty"`
}

type PanchangaJSON struct {
	Tithi     ElementJSON `json:"tithi"`
	Vara      ElementJSON `json:"vara"`
	Nakshatra ElementJSON `json:"nakshatra"`
	Yoga      ElementJSON `json:"yoga"`
	Karana    ElementJSON `json:"karana"`
}

type D9PlanetJSON struct {
	Planet     zodiac.Body `json:"planet"`
	Sign       zodiac.Sign `json:"sign"`
	Retrograde bool        `json:"retrograde"`
}

type D9JSON struct {
	Ascendant   SignJSON       `json:"Ascendant"`
	ArudhaLagna *SignJSON      `json:"ArudhaLagna,omitempty"`
	Planets     []D9PlanetJSON `json:"Planets"`
}

type AntarJSON struct {
	Lord  zodiac.Body `json:"lord"`
	Start string      `json:"start"`
	End   string      `json:"end"`
	Years float64     `json:"years"`
}

type MahaJSON struct {
	Lord     zodiac.Body `json:"lord"`
	Start    string      `json:"start"`
	End      string      `json:"end"`
	AgeStart float64     `json:"age_start"`
	AgeEnd   float64     `json:"age_end"`
	Antar    []AntarJSON `json:"antar"`
}

type CurrentJSON struct {
	Maha  zodiac.Body `json:"maha"`
	Antar zodiac.Body `json:"antar"`
}

type SettingsJSON struct {
	Ayanamsha        string  `json:"ayanamsha"`
	AyanamshaDegrees float64 `json:"ayanamsha_degrees"`
	Node             string  `json:"node"`
}

// Response renders the chart for JSON output. Degrees, ages and percentages
// are rounded to two decimals; timestamps are RFC 3339 in UTC.
func (c *Chart) Response() Response {
	r := Response{
		Ascendant: AscendantJSON{Degree: round(c.Ascendant.Longitude), Sign: c.Ascendant.Sign},
		Planets:   make([]PlanetJSON, 0, len(c.Planets)),
		Panchanga: PanchangaJSON{
			Tithi:     element(c.Panchanga.Tithi),
			Vara:      element(c.Panchanga.Vara),
			Nakshatra: element(c.Panchanga.Nakshatra),
			Yoga:      element(c.Panchanga.Yoga),
			Karana:    element(c.Panchanga.Karana),
		},
		D9: D9JSON{
			Ascendant: SignJSON{Sign: c.Navamsa.Ascendant},
			Planets:   make([]D9PlanetJSON, 0, len(c.Navamsa.Planets)),
		},
		Vimshottari: make([]MahaJSON, 0, len(c.Dasha.Periods)),
		Settings: SettingsJSON{
			Ayanamsha:        string(c.Settings.Ayanamsha),
			AyanamshaDegrees: c.Settings.AyanamshaDegrees,
			Node:             string(c.Settings.Node),
		},
	}

	for _, p := range c.Planets {
		r.Planets = append(r.Planets, PlanetJSON{
			Planet:      p.Body,
			Longitude:   round(p.Longitude),
			Sign:        p.Sign,
			Nakshatra:   p.Nakshatra,
			Pada:        p.Pada,
			Retrograde:  p.Retrograde,
			CharaKaraka: p.Karaka.String(),
		})
	}
	if c.ArudhaLagna != nil {
		r.ArudhaLagna = &SignJSON{Sign: *c.ArudhaLagna}
	}

	for _, p := range c.Navamsa.Planets {
		r.D9.Planets = append(r.D9.Planets, D9PlanetJSON{Planet: p.Body, Sign: p.Sign, Retrograde: p.Retrograde})
	}
	if c.Navamsa.ArudhaLagna != nil {
		r.D9.ArudhaLagna = &SignJSON{Sign: *c.Navamsa.ArudhaLagna}
	}

	for _, m := range c.Dasha.Periods {
		mj := MahaJSON{
			Lord:     m.Lord,
			Start:    stamp(m.Start),
			End:      stamp(m.End),
			AgeStart: round(m.AgeStart),
			AgeEnd:   round(m.AgeEnd),
			Antar:    make([]AntarJSON, 0, len(m.Sub)),
		}
		for _, s := range m.Sub {
			mj.Antar = append(mj.Antar, AntarJSON{
				Lord:  s.Lord,
				Start: stamp(s.Start),
				End:   stamp(s.End),
				Years: round(s.Years),
			})
		}
		r.Vimshottari = append(r.Vimshottari, mj)
	}
	return r
}

// WithCurrent attaches the periods running at the calculator's clock.
func (r Response) WithCurrent(maha, antar dasha.Period, ok bool) Response {
	if ok {
		r.Current = &CurrentJSON{Maha: maha.Lord, Antar: antar.Lord}
	}
	return r
}

func element(e Element) ElementJSON {
	j := ElementJSON{Name: e.Name, Lord: e.Lord}
	if e.HasCompletion {
		left := round((1 - e.Completion) * 100)
		j.LeftPercent = &left
	}
	return j
}

func stamp(t time.Time) string {
	return t.UTC().Format(config.TimestampFormat)
}

func round(v float64) float64 {
	scale := math.Pow(10, config.RoundingPlaces)
	return math.Round(v*scale) / scale
}
