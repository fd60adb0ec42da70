package zodiac

// Body is one of the nine grahas of the chart, in the fixed chart order.
type Body int

const (
	Sun Body = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Rahu
	Ketu
)

// BodyCount is the number of bodies placed in a chart.
const BodyCount = 9

// ChartOrder lists the bodies in the order they appear in a chart.
var ChartOrder = [BodyCount]Body{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Rahu, Ketu}

var bodyNames = [BodyCount]string{
	"Sun", "Moon", "Mercury", "Venus", "Mars", "Jupiter", "Saturn", "Rahu", "Ketu",
}

func (b Body) String() string {
	if b < 0 || int(b) >= BodyCount {
		return "Unknown"
	}
	return bodyNames[b]
}

// Valid reports whether b is one of the nine chart bodies.
func (b Body) Valid() bool {
	return b >= 0 && int(b) < BodyCount
}

// ParseBody resolves an English body name.
func ParseBody(name string) (Body, bool) {
	for i, n := range bodyNames {
		if n == name {
			return Body(i), true
		}
	}
	return 0, false
}

// MarshalText renders the body by name in JSON and YAML output.
func (b Body) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}
