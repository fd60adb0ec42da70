package ephemeris

import "github.com/rabank/astro-calculator/internal/config"

// Variant names an ayanamsha calculation method.
type Variant string

const (
	Lahiri        Variant = "LAHIRI"
	Raman         Variant = "RAMAN"
	Krishnamurti  Variant = "KRISHNAMURTI"
	FaganBradley  Variant = "FAGAN_BRADLEY"
	DeLuce        Variant = "DELUCE"
	DjwhalKhul    Variant = "DJWHAL_KHUL"
	Aldebaran15Ta Variant = "ALDEBARAN_15TAU"
)

// Variants lists the supported ayanamsha variants.
var Variants = []Variant{Lahiri, Raman, Krishnamurti, FaganBradley, DeLuce, DjwhalKhul, Aldebaran15Ta}

var variantAliases = map[string]Variant{
	"KP": Krishnamurti,
}

// ParseVariant resolves a selector case-insensitively. Unknown names fall back
// to Lahiri and report false.
func ParseVariant(name string) (Variant, bool) {
	key := config.NormalizeSelector(name)
	if v, ok := variantAliases[key]; ok {
		return v, true
	}
	for _, v := range Variants {
		if string(v) == key {
			return v, true
		}
	}
	return Lahiri, false
}

// NodeModel selects how the lunar node is evaluated.
type NodeModel string

const (
	MeanNodeModel NodeModel = "MEAN"
	TrueNodeModel NodeModel = "TRUE"
)

// ParseNodeModel returns TrueNodeModel for "TRUE" in any case and MeanNodeModel
// for everything else.
func ParseNodeModel(name string) NodeModel {
	if config.NormalizeSelector(name) == config.NodeModelTrue {
		return TrueNodeModel
	}
	return MeanNodeModel
}

// Body is the ephemeris body evaluated for the node model.
func (m NodeModel) Body() BodyID {
	if m == TrueNodeModel {
		return TrueNode
	}
	return MeanNode
}
