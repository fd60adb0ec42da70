package engine

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rabank/astro-calculator/internal/config"
	"github.com/rabank/astro-calculator/internal/ephemeris"
	"github.com/rabank/astro-calculator/internal/zodiac"
)

// ErrInvalidInput wraps every validation failure of an Input.
var ErrInvalidInput = errors.New(config.ErrInvalidInput)

// RawBody is one body as evaluated by the ephemeris, in tropical degrees.
type RawBody struct {
	ID                ephemeris.BodyID `json:"id"`
	TropicalLongitude float64          `json:"tropical_longitude"`
	Speed             float64          `json:"speed"`
}

// Input is everything a chart is derived from. The ayanamsha is the
// effective offset, calibration included.
type Input struct {
	JulianDayUT       float64             `json:"julian_day_ut"`
	AscendantTropical float64             `json:"ascendant_tropical_longitude"`
	AyanamshaDegrees  float64             `json:"ayanamsha_degrees"`
	Bodies            []RawBody           `json:"bodies"`
	NodeModel         ephemeris.NodeModel `json:"node_model"`
	BirthUTC          time.Time           `json:"birth_utc"`
	BirthLocal        time.Time           `json:"birth_local"` // carries the weekday

	// Variant names the ayanamsha the offset came from; it is only echoed back.
	Variant ephemeris.Variant `json:"ayanamsha,omitempty"`
}

// bodyMap maps ephemeris bodies to chart bodies. Both node models map to Rahu.
var bodyMap = map[ephemeris.BodyID]zodiac.Body{
	ephemeris.Sun:      zodiac.Sun,
	ephemeris.Moon:     zodiac.Moon,
	ephemeris.Mercury:  zodiac.Mercury,
	ephemeris.Venus:    zodiac.Venus,
	ephemeris.Mars:     zodiac.Mars,
	ephemeris.Jupiter:  zodiac.Jupiter,
	ephemeris.Saturn:   zodiac.Saturn,
	ephemeris.MeanNode: zodiac.Rahu,
	ephemeris.TrueNode: zodiac.Rahu,
}

// Node returns the node model, defaulting to the mean node.
func (in Input) Node() ephemeris.NodeModel {
	return ephemeris.ParseNodeModel(string(in.NodeModel))
}

// Validate reports every problem with the input at once.
func (in Input) Validate() error {
	var errs []error

	check := func(name string, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, fmt.Errorf("%s: %s", name, config.ErrNonFinite))
		}
	}
	check("julian_day_ut", in.JulianDayUT)
	check("ascendant_tropical_longitude", in.AscendantTropical)
	check("ayanamsha_degrees", in.AyanamshaDegrees)

	seen := make(map[ephemeris.BodyID]bool, len(in.Bodies))
	for _, b := range in.Bodies {
		if !b.ID.Valid() {
			errs = append(errs, fmt.Errorf("%s: %q", config.ErrUnknownBody, b.ID))
			continue
		}
		if seen[b.ID] {
			errs = append(errs, fmt.Errorf("%s: %s", b.ID, config.ErrDuplicateBody))
		}
		seen[b.ID] = true
		check(string(b.ID), b.TropicalLongitude)
		check(string(b.ID)+" speed", b.Speed)
	}

	required := append([]ephemeris.BodyID{}, ephemeris.Planets...)
	required = append(required, in.Node().Body())
	for _, id := range required {
		if !seen[id] {
			errs = append(errs, fmt.Errorf("%s: %s", id, config.ErrMissingBody))
		}
	}

	if in.BirthUTC.IsZero() {
		errs = append(errs, fmt.Errorf("birth_utc: %s", config.ErrMissingBirth))
	}
	if in.BirthLocal.IsZero() {
		errs = append(errs, fmt.Errorf("birth_local: %s", config.ErrMissingBirth))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}

// Request selects what to ask the ephemeris collaborator for.
type Request struct {
	JulianDayUT float64
	Latitude    float64
	Longitude   float64
	Variant     ephemeris.Variant
	NodeModel   ephemeris.NodeModel
	Offset      float64 // calibration added to the variant's ayanamsha
	BirthUTC    time.Time
	BirthLocal  time.Time
}

// Gather evaluates the collaborator for req and assembles the chart input.
func Gather(p ephemeris.Provider, req Request) (Input, error) {
	ayan, err := p.Ayanamsha(req.JulianDayUT, req.Variant)
	if err != nil {
		return Input{}, fmt.Errorf("%s: %w", config.ErrEphemeris, err)
	}
	asc, err := p.Ascendant(req.JulianDayUT, req.Latitude, req.Longitude)
	if err != nil {
		return Input{}, fmt.Errorf("%s: %w", config.ErrEphemeris, err)
	}

	node := ephemeris.ParseNodeModel(string(req.NodeModel))
	ids := append([]ephemeris.BodyID{}, ephemeris.Planets...)
	ids = append(ids, node.Body())

	bodies := make([]RawBody, 0, len(ids))
	for _, id := range ids {
		pos, err := p.TropicalLongitude(req.JulianDayUT, id)
		if err != nil {
			return Input{}, fmt.Errorf("%s: %w", config.ErrEphemeris, err)
		}
		bodies = append(bodies, RawBody{ID: id, TropicalLongitude: pos.Longitude, Speed: pos.Speed})
	}

	return Input{
		JulianDayUT:       req.JulianDayUT,
		AscendantTropical: asc,
		AyanamshaDegrees:  ayan + req.Offset,
		Bodies:            bodies,
		NodeModel:         node,
		BirthUTC:          req.BirthUTC,
		BirthLocal:        req.BirthLocal,
		Variant:           req.Variant,
	}, nil
}

// SnapshotRequest asks for the moment and place recorded in s, with the
// default variant and node model.
func SnapshotRequest(s *ephemeris.Snapshot) Request {
	utc, local := s.Birth()
	return Request{
		JulianDayUT: s.JulianDayUT,
		Latitude:    s.Latitude,
		Longitude:   s.Longitude,
		Variant:     ephemeris.Lahiri,
		NodeModel:   ephemeris.MeanNodeModel,
		BirthUTC:    utc,
		BirthLocal:  local,
	}
}
