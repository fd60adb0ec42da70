package zodiac

// SignCount is the number of zodiac signs.
const SignCount = 12

// Sign is a zodiac sign index, Aries = 0 through Pisces = 11.
type Sign int

const (
	Aries Sign = iota
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

// Modality is the quality of a sign, which drives divisional chart offsets.
type Modality int

const (
	Movable Modality = iota
	Fixed
	Dual
)

var signNames = [SignCount]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// signRulers is the traditional rulership scheme.
var signRulers = [SignCount]Body{
	Mars, Venus, Mercury, Moon, Sun, Mercury,
	Venus, Mars, Jupiter, Saturn, Saturn, Jupiter,
}

// SignOf classifies a longitude into one of the 12 equal 30° signs.
func SignOf(lon float64) Sign {
	return Sign(DivisionOf(lon, SignCount))
}

func (s Sign) String() string {
	return signNames[s.wrap()]
}

// Add moves n signs forward (or backward for negative n), wrapping at Pisces.
func (s Sign) Add(n int) Sign {
	return Sign(int(s) + n).wrap()
}

// Distance counts the signs from s forward to other, in [0, 12).
func (s Sign) Distance(other Sign) int {
	return int(other.wrap()-s.wrap()+SignCount) % SignCount
}

// Modality returns movable for Aries/Cancer/Libra/Capricorn, fixed for
// Taurus/Leo/Scorpio/Aquarius and dual for the rest.
func (s Sign) Modality() Modality {
	return Modality(int(s.wrap()) % 3)
}

// Ruler is the planet owning the sign.
func (s Sign) Ruler() Body {
	return signRulers[s.wrap()]
}

// MarshalText renders the sign by name.
func (s Sign) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s Sign) wrap() Sign {
	return Sign((int(s)%SignCount + SignCount) % SignCount)
}
