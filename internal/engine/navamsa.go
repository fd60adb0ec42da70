package engine

import "github.com/rabank/astro-calculator/internal/zodiac"

const navamsaParts = 9

// navamsaStart is the offset from a sign to the first navamsa of that sign,
// by modality: movable signs start at themselves, fixed signs at the 9th and
// dual signs at the 5th.
var navamsaStart = map[zodiac.Modality]int{
	zodiac.Movable: 0,
	zodiac.Fixed:   8,
	zodiac.Dual:    4,
}

// NavamsaSign maps a sidereal longitude to its sign in the D9 chart.
func NavamsaSign(lon float64) zodiac.Sign {
	sign := zodiac.SignOf(lon)
	part := zodiac.Divide(zodiac.WithinSign(lon), zodiac.SignSpan, navamsaParts)
	return sign.Add(navamsaStart[sign.Modality()] + part)
}

// NavamsaPlacement is a body in the D9 chart. Only the sign is meaningful at
// this resolution.
type NavamsaPlacement struct {
	Body       zodiac.Body
	Sign       zodiac.Sign
	Retrograde bool
}

// Navamsa is the D9 divisional chart.
type Navamsa struct {
	Ascendant   zodiac.Sign
	ArudhaLagna *zodiac.Sign
	Planets     []NavamsaPlacement
}

// BuildNavamsa re-maps the ascendant and every placement into the D9 chart and
// resolves the D9 Arudha Lagna from the D9 signs.
func BuildNavamsa(ascendant float64, placements []Placement) Navamsa {
	d9 := Navamsa{
		Ascendant: NavamsaSign(ascendant),
		Planets:   make([]NavamsaPlacement, 0, len(placements)),
	}

	signs := make(map[zodiac.Body]zodiac.Sign, len(placements))
	for _, p := range placements {
		s := NavamsaSign(p.Longitude)
		signs[p.Body] = s
		d9.Planets = append(d9.Planets, NavamsaPlacement{Body: p.Body, Sign: s, Retrograde: p.Retrograde})
	}

	if al, ok := ArudhaLagna(d9.Ascendant, signs); ok {
		d9.ArudhaLagna = &al
	}
	return d9
}
