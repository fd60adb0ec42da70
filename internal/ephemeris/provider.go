// Package ephemeris describes the collaborator that evaluates raw planetary
// positions. Evaluating an ephemeris is outside this module: the Provider
// interface is the seam, and Snapshot serves values precomputed elsewhere.
package ephemeris

import (
	"errors"
	"fmt"

	"github.com/rabank/astro-calculator/internal/config"
)

// BodyID identifies a body the ephemeris can evaluate. Ketu is never
// evaluated: it is always derived from the selected node.
type BodyID string

const (
	Sun      BodyID = "SUN"
	Moon     BodyID = "MOON"
	Mercury  BodyID = "MERCURY"
	Venus    BodyID = "VENUS"
	Mars     BodyID = "MARS"
	Jupiter  BodyID = "JUPITER"
	Saturn   BodyID = "SATURN"
	MeanNode BodyID = "MEAN_NODE"
	TrueNode BodyID = "TRUE_NODE"
)

// Planets lists the seven classical planets in chart order.
var Planets = []BodyID{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn}

// Valid reports whether id names a body the ephemeris can evaluate.
func (id BodyID) Valid() bool {
	switch id {
	case Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, MeanNode, TrueNode:
		return true
	}
	return false
}

// IsNode reports whether id is one of the lunar node models.
func (id BodyID) IsNode() bool {
	return id == MeanNode || id == TrueNode
}

// Position is a tropical ecliptic longitude and its daily motion.
type Position struct {
	Longitude float64 `yaml:"longitude" json:"longitude"`
	Speed     float64 `yaml:"speed" json:"speed"`
}

// Provider is the ephemeris collaborator.
type Provider interface {
	// TropicalLongitude returns the tropical longitude (degrees) and speed
	// (degrees per day) of body at julianDay.
	TropicalLongitude(julianDay float64, body BodyID) (Position, error)

	// Ayanamsha returns the sidereal offset of variant at julianDay.
	Ayanamsha(julianDay float64, variant Variant) (float64, error)

	// Ascendant returns the tropical ascendant for a place at julianDay.
	Ascendant(julianDay, latitude, longitude float64) (float64, error)
}

var (
	// ErrUnknownBody is returned for a BodyID the provider cannot evaluate.
	ErrUnknownBody = errors.New(config.ErrUnknownBody)

	// ErrUnknownVariant is returned when a provider has no value for a variant.
	ErrUnknownVariant = errors.New(config.ErrUnknownVariant)

	// ErrSnapshot marks a snapshot that failed validation.
	ErrSnapshot = errors.New(config.ErrSnapshot)

	// ErrMoment is returned when a snapshot is asked about another moment.
	ErrMoment = errors.New(config.ErrSnapshotMoment)
)

func unknownBody(id BodyID) error {
	return fmt.Errorf("%w: %q", ErrUnknownBody, id)
}
