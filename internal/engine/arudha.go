package engine

import "github.com/rabank/astro-calculator/internal/zodiac"

// arudhaDeflection is the number of signs added when the projected sign lands
// on the ascendant itself or on its ruler's seat.
const arudhaDeflection = 10

// ArudhaLagna projects the ascendant through its ruler: count the signs from
// the ascendant to the ruler's placement, then count the same distance again
// from the ruler. A projection that falls on the ascendant or on the ruler's
// own sign is moved 10 signs forward.
//
// It reports false when the ruler has no sign in signs.
func ArudhaLagna(asc zodiac.Sign, signs map[zodiac.Body]zodiac.Sign) (zodiac.Sign, bool) {
	lordSign, ok := signs[asc.Ruler()]
	if !ok {
		return 0, false
	}

	d := asc.Distance(lordSign)
	candidate := lordSign.Add(d)
	if candidate == asc || candidate == lordSign {
		candidate = candidate.Add(arudhaDeflection)
	}
	return candidate, true
}

// signsOf indexes placements by body.
func signsOf(placements []Placement) map[zodiac.Body]zodiac.Sign {
	m := make(map[zodiac.Body]zodiac.Sign, len(placements))
	for _, p := range placements {
		m[p.Body] = p.Sign
	}
	return m
}
