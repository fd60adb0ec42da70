package zodiac

const (
	// NakshatraCount is the number of lunar mansions.
	NakshatraCount = 27

	// PadasPerNakshatra is the number of quarters in one nakshatra.
	PadasPerNakshatra = 4

	// LordCycleLength is the length of the Vimshottari lord sequence.
	LordCycleLength = 9
)

// Nakshatra is a lunar mansion index, Ashwini = 0 through Revati = 26.
type Nakshatra int

var nakshatraNames = [NakshatraCount]string{
	"Ashwini", "Bharani", "Krittika", "Rohini", "Mrigashira", "Ardra",
	"Punarvasu", "Pushya", "Ashlesha", "Magha", "Purva Phalguni",
	"Uttara Phalguni", "Hasta", "Chitra", "Swati", "Vishakha", "Anuradha",
	"Jyeshtha", "Mula", "Purva Ashadha", "Uttara Ashadha", "Shravana",
	"Dhanishta", "Shatabhisha", "Purva Bhadrapada", "Uttara Bhadrapada", "Revati",
}

// LordCycle is the nine-body sequence that rules the nakshatras in turn and
// orders the Vimshottari periods.
var LordCycle = [LordCycleLength]Body{Ketu, Venus, Sun, Moon, Mars, Rahu, Jupiter, Saturn, Mercury}

// NakshatraOf classifies a longitude into its nakshatra and pada (1..4).
func NakshatraOf(lon float64) (Nakshatra, int) {
	quarter := DivisionOf(lon, NakshatraCount*PadasPerNakshatra)
	return Nakshatra(quarter / PadasPerNakshatra), quarter%PadasPerNakshatra + 1
}

// NakshatraFraction returns the elapsed share of the nakshatra holding lon.
func NakshatraFraction(lon float64) float64 {
	return Fraction(lon, NakshatraCount)
}

func (n Nakshatra) String() string {
	if n < 0 || int(n) >= NakshatraCount {
		return "Unknown"
	}
	return nakshatraNames[n]
}

// Lord returns the ruling body of the nakshatra.
func (n Nakshatra) Lord() Body {
	return LordAt(int(n))
}

// LordIndex is the position of the nakshatra's lord in LordCycle.
func (n Nakshatra) LordIndex() int {
	return ((int(n) % LordCycleLength) + LordCycleLength) % LordCycleLength
}

// LordAt indexes LordCycle modulo its length.
func LordAt(i int) Body {
	return LordCycle[((i%LordCycleLength)+LordCycleLength)%LordCycleLength]
}

// CycleIndex returns the position of b in LordCycle, or -1.
func CycleIndex(b Body) int {
	for i, l := range LordCycle {
		if l == b {
			return i
		}
	}
	return -1
}

// MarshalText renders the nakshatra by name.
func (n Nakshatra) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}
