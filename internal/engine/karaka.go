package engine

import (
	"sort"

	"github.com/rabank/astro-calculator/internal/zodiac"
)

// Karaka is a Chara Karaka significator role. The zero value means no role.
type Karaka int

const (
	NoKaraka Karaka = iota
	Atmakaraka
	Amatyakaraka
	Bhratrukaraka
	Matrukaraka
	Pitrukaraka
	Putrakaraka
	Gnatikaraka
	Darakaraka
)

// karakaRoles lists the roles from the most significant down.
var karakaRoles = []Karaka{
	Atmakaraka, Amatyakaraka, Bhratrukaraka, Matrukaraka,
	Pitrukaraka, Putrakaraka, Gnatikaraka, Darakaraka,
}

var karakaNames = map[Karaka]string{
	Atmakaraka:    "Atmakaraka",
	Amatyakaraka:  "Amatyakaraka",
	Bhratrukaraka: "Bhratrukaraka",
	Matrukaraka:   "Matrukaraka",
	Pitrukaraka:   "Pitrukaraka",
	Putrakaraka:   "Putrakaraka",
	Gnatikaraka:   "Gnatikaraka",
	Darakaraka:    "Darakaraka",
}

func (k Karaka) String() string {
	return karakaNames[k]
}

// RankKarakas assigns the eight roles to the seven planets and Rahu by the
// degrees they have travelled within their sign. Rahu moves backwards, so its
// degree is counted from the end of the sign. Ketu takes no role. Ties keep
// the order of placements.
func RankKarakas(placements []Placement) map[zodiac.Body]Karaka {
	type candidate struct {
		body   zodiac.Body
		degree float64
	}

	candidates := make([]candidate, 0, len(karakaRoles))
	for _, p := range placements {
		if p.Body == zodiac.Ketu {
			continue
		}
		deg := zodiac.WithinSign(p.Longitude)
		if p.Body == zodiac.Rahu {
			deg = zodiac.SignSpan - deg
		}
		candidates = append(candidates, candidate{body: p.Body, degree: deg})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].degree > candidates[j].degree
	})

	roles := make(map[zodiac.Body]Karaka, len(candidates))
	for i, c := range candidates {
		if i >= len(karakaRoles) {
			break
		}
		roles[c.body] = karakaRoles[i]
	}
	return roles
}
