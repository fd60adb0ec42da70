package engine

import (
	"time"

	"github.com/rabank/astro-calculator/internal/zodiac"
)

const (
	tithiCount  = 30
	yogaCount   = 27
	karanaCount = 60
	weekdays    = 7
	movableTail = 57 // last karana number in the movable run
)

// Element is one of the five Panchanga limbs.
type Element struct {
	// Index is the zero-based position in the element's table; for a karana it
	// is the karana number 1..60.
	Index int
	Name  string
	Lord  zodiac.Body

	// Completion is the share of the current division already elapsed, in [0,1).
	// It is meaningless when HasCompletion is false (Vara).
	Completion    float64
	HasCompletion bool
}

// Panchanga holds the five almanac elements of a moment.
type Panchanga struct {
	Tithi     Element
	Vara      Element
	Nakshatra Element
	Yoga      Element
	Karana    Element
}

var tithiNames = [tithiCount]string{
	"1 waxing", "2 waxing", "3 waxing", "4 waxing", "5 waxing",
	"6 waxing", "7 waxing", "8 waxing", "9 waxing", "10 waxing",
	"11 waxing", "12 waxing", "13 waxing", "14 waxing", "15 Purnima",
	"1 waning", "2 waning", "3 waning", "4 waning", "5 waning",
	"6 waning", "7 waning", "8 waning", "9 waning", "10 waning",
	"11 waning", "12 waning", "13 waning", "14 waning", "15 Amavasya",
}

// tithiLords repeats through the 30 tithis.
var tithiLords = [...]zodiac.Body{
	zodiac.Sun, zodiac.Moon, zodiac.Mars, zodiac.Mercury,
	zodiac.Jupiter, zodiac.Venus, zodiac.Saturn, zodiac.Rahu,
}

// varaNames and varaLords are indexed Monday = 0 through Sunday = 6.
var varaNames = [weekdays]string{
	"Somavara", "Mangalavara", "Budhavara", "Guruvara", "Shukravara", "Shanivara", "Ravivara",
}

var varaLords = [weekdays]zodiac.Body{
	zodiac.Moon, zodiac.Mars, zodiac.Mercury, zodiac.Jupiter, zodiac.Venus, zodiac.Saturn, zodiac.Sun,
}

var yogaNames = [yogaCount]string{
	"Vishkambha", "Priti", "Ayushman", "Saubhagya", "Shobhana", "Atiganda",
	"Sukarma", "Dhriti", "Shula", "Ganda", "Vriddhi", "Dhruva", "Vyaghata",
	"Harshana", "Vajra", "Siddhi", "Vyatipata", "Variyan", "Parigha", "Shiva",
	"Siddha", "Sadhya", "Shubha", "Shukla", "Brahma", "Indra", "Vaidhriti",
}

// yogaLords is the classical table entry by entry. It happens to repeat the
// nakshatra lord order shifted to start at Saturn; it is not derived from it.
var yogaLords = [yogaCount]zodiac.Body{
	zodiac.Saturn, zodiac.Mercury, zodiac.Ketu, zodiac.Venus, zodiac.Sun, zodiac.Moon,
	zodiac.Mars, zodiac.Rahu, zodiac.Jupiter, zodiac.Saturn, zodiac.Mercury, zodiac.Ketu, zodiac.Venus,
	zodiac.Sun, zodiac.Moon, zodiac.Mars, zodiac.Rahu, zodiac.Jupiter, zodiac.Saturn, zodiac.Mercury,
	zodiac.Ketu, zodiac.Venus, zodiac.Sun, zodiac.Moon, zodiac.Mars, zodiac.Rahu, zodiac.Jupiter,
}

const (
	karanaKimstughna  = "Kimstughna"
	karanaShakuni     = "Shakuni"
	karanaChatushpada = "Chatushpada"
	karanaNagava      = "Nagava"
)

var movableKaranas = [...]string{"Bava", "Balava", "Kaulava", "Taitila", "Gara", "Vanija", "Vishti"}

// fixedTail names karana numbers 58, 59 and 60.
var fixedTail = [...]string{karanaShakuni, karanaChatushpada, karanaNagava}

var karanaLords = map[string]zodiac.Body{
	"Bava":            zodiac.Sun,
	"Balava":          zodiac.Moon,
	"Kaulava":         zodiac.Mars,
	"Taitila":         zodiac.Mercury,
	"Gara":            zodiac.Jupiter,
	"Vanija":          zodiac.Venus,
	"Vishti":          zodiac.Saturn,
	karanaShakuni:     zodiac.Rahu,
	karanaChatushpada: zodiac.Rahu,
	karanaNagava:      zodiac.Rahu,
	karanaKimstughna:  zodiac.Rahu,
}

// CalculatePanchanga derives the five elements from the sidereal Sun and Moon
// and the local weekday of the moment.
func CalculatePanchanga(sun, moon float64, weekday time.Weekday) Panchanga {
	elongation := zodiac.Distance(sun, moon)
	sum := zodiac.Normalize(sun + moon)

	return Panchanga{
		Tithi:     Tithi(elongation),
		Vara:      Vara(weekday),
		Nakshatra: NakshatraElement(moon),
		Yoga:      Yoga(sum),
		Karana:    Karana(elongation),
	}
}

// Tithi classifies the Moon-Sun elongation into one of 30 lunar days of 12°.
func Tithi(elongation float64) Element {
	idx := zodiac.DivisionOf(elongation, tithiCount)
	return Element{
		Index:         idx,
		Name:          tithiNames[idx],
		Lord:          tithiLords[idx%len(tithiLords)],
		Completion:    zodiac.Fraction(elongation, tithiCount),
		HasCompletion: true,
	}
}

// Vara maps a weekday to its name and lord.
func Vara(weekday time.Weekday) Element {
	idx := MondayIndex(weekday)
	return Element{Index: idx, Name: varaNames[idx], Lord: varaLords[idx]}
}

// MondayIndex renumbers a weekday so that Monday = 0 and Sunday = 6.
func MondayIndex(weekday time.Weekday) int {
	return (int(weekday) + weekdays - 1) % weekdays
}

// NakshatraElement is the Moon's nakshatra as a Panchanga limb.
func NakshatraElement(moon float64) Element {
	nak, _ := zodiac.NakshatraOf(moon)
	return Element{
		Index:         int(nak),
		Name:          nak.String(),
		Lord:          nak.Lord(),
		Completion:    zodiac.NakshatraFraction(moon),
		HasCompletion: true,
	}
}

// Yoga classifies the Sun+Moon sum into one of 27 yogas.
func Yoga(sum float64) Element {
	idx := zodiac.DivisionOf(sum, yogaCount)
	return Element{
		Index:         idx,
		Name:          yogaNames[idx],
		Lord:          yogaLords[idx],
		Completion:    zodiac.Fraction(sum, yogaCount),
		HasCompletion: true,
	}
}

// Karana classifies the elongation into one of 60 half-tithis. Karana 1 is
// Kimstughna, 2..57 cycle through the seven movable karanas and 58, 59, 60 are
// Shakuni, Chatushpada and Nagava.
func Karana(elongation float64) Element {
	num := zodiac.DivisionOf(elongation, karanaCount) + 1
	name := KaranaName(num)
	return Element{
		Index:         num,
		Name:          name,
		Lord:          karanaLords[name],
		Completion:    zodiac.Fraction(elongation, karanaCount),
		HasCompletion: true,
	}
}

// KaranaName names a karana number, clamped into 1..60.
func KaranaName(num int) string {
	switch {
	case num <= 1:
		return karanaKimstughna
	case num > movableTail:
		if num > karanaCount {
			num = karanaCount
		}
		return fixedTail[num-movableTail-1]
	default:
		return movableKaranas[(num-2)%len(movableKaranas)]
	}
}
