package ephemeris

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/rabank/astro-calculator/internal/config"
	"gopkg.in/yaml.v3"
)

// momentTolerance is how far (in days or degrees) a query may drift from the
// snapshot's recorded moment and place and still be served.
const momentTolerance = 1e-6

// Snapshot is a Provider serving values precomputed for a single moment and
// place. It is decoded from YAML; JSON documents are accepted as well.
type Snapshot struct {
	JulianDayUT       float64             `yaml:"julian_day_ut" json:"julian_day_ut"`
	Latitude          float64             `yaml:"lat" json:"lat"`
	Longitude         float64             `yaml:"lon" json:"lon"`
	BirthUTC          string              `yaml:"birth_utc" json:"birth_utc"`
	BirthLocal        string              `yaml:"birth_local" json:"birth_local"`
	AscendantTropical float64             `yaml:"ascendant" json:"ascendant"`
	Ayanamshas        map[Variant]float64 `yaml:"ayanamsha" json:"ayanamsha"`
	Bodies            map[BodyID]Position `yaml:"bodies" json:"bodies"`

	birthUTC   time.Time
	birthLocal time.Time
}

// LoadSnapshot decodes and validates a snapshot document.
func LoadSnapshot(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSnapshot, err)
	}
	if err := s.prepare(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ReadSnapshotFile loads a snapshot from disk.
func ReadSnapshotFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrSnapshotRead, err)
	}
	// Best effort close. Errors in Close() for read-only files are rarely actionable here.
	defer func() { _ = f.Close() }()

	s, err := LoadSnapshot(f)
	if err != nil {
		return nil, err
	}

	slog.Debug(config.MsgSnapshotLoaded,
		config.LogKeyComponent, config.CompEphemeris,
		config.LogKeyFile, path,
		config.LogKeyJulianDay, s.JulianDayUT,
		config.LogKeyCount, len(s.Bodies),
	)
	return s, nil
}

// prepare canonicalises map keys, parses timestamps and validates values.
func (s *Snapshot) prepare() error {
	ayan := make(map[Variant]float64, len(s.Ayanamshas))
	for name, deg := range s.Ayanamshas {
		v, ok := ParseVariant(string(name))
		if !ok {
			return fmt.Errorf("%w: %s %q", ErrSnapshot, config.ErrUnknownVariant, name)
		}
		ayan[v] = deg
	}
	s.Ayanamshas = ayan

	bodies := make(map[BodyID]Position, len(s.Bodies))
	for id, pos := range s.Bodies {
		canon := BodyID(config.NormalizeSelector(string(id)))
		if !canon.Valid() {
			return fmt.Errorf("%w: %w", ErrSnapshot, unknownBody(id))
		}
		bodies[canon] = pos
	}
	s.Bodies = bodies

	return s.validate()
}

func (s *Snapshot) validate() error {
	var errs []error

	if !finite(s.JulianDayUT) || s.JulianDayUT <= 0 {
		errs = append(errs, fmt.Errorf("julian_day_ut: %s", config.ErrNonFinite))
	}
	if !finite(s.AscendantTropical) {
		errs = append(errs, fmt.Errorf("ascendant: %s", config.ErrNonFinite))
	}
	if !finite(s.Latitude) || !finite(s.Longitude) {
		errs = append(errs, fmt.Errorf("lat/lon: %s", config.ErrNonFinite))
	}
	if len(s.Ayanamshas) == 0 {
		errs = append(errs, errors.New(config.ErrUnknownVariant))
	}
	for v, deg := range s.Ayanamshas {
		if !finite(deg) {
			errs = append(errs, fmt.Errorf("ayanamsha %s: %s", v, config.ErrNonFinite))
		}
	}
	for _, id := range Planets {
		if _, ok := s.Bodies[id]; !ok {
			errs = append(errs, fmt.Errorf("%s: %s", id, config.ErrMissingBody))
		}
	}
	_, mean := s.Bodies[MeanNode]
	_, tru := s.Bodies[TrueNode]
	if !mean && !tru {
		errs = append(errs, fmt.Errorf("%s/%s: %s", MeanNode, TrueNode, config.ErrMissingBody))
	}
	for id, pos := range s.Bodies {
		if !finite(pos.Longitude) || !finite(pos.Speed) {
			errs = append(errs, fmt.Errorf("%s: %s", id, config.ErrNonFinite))
		}
	}

	var err error
	if s.birthUTC, err = time.Parse(config.TimestampFormat, s.BirthUTC); err != nil {
		errs = append(errs, fmt.Errorf("birth_utc: %s: %w", config.ErrTimestampFormat, err))
	}
	if s.birthLocal, err = time.Parse(config.TimestampFormat, s.BirthLocal); err != nil {
		errs = append(errs, fmt.Errorf("birth_local: %s: %w", config.ErrTimestampFormat, err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrSnapshot, errors.Join(errs...))
	}
	return nil
}

// Birth returns the recorded birth moment in UTC and in local wall-clock time.
func (s *Snapshot) Birth() (utc, local time.Time) {
	return s.birthUTC.UTC(), s.birthLocal
}

// TropicalLongitude implements Provider.
func (s *Snapshot) TropicalLongitude(julianDay float64, body BodyID) (Position, error) {
	if err := s.covers(julianDay); err != nil {
		return Position{}, err
	}
	if !body.Valid() {
		return Position{}, unknownBody(body)
	}
	pos, ok := s.Bodies[body]
	if !ok {
		return Position{}, unknownBody(body)
	}
	return pos, nil
}

// Ayanamsha implements Provider.
func (s *Snapshot) Ayanamsha(julianDay float64, variant Variant) (float64, error) {
	if err := s.covers(julianDay); err != nil {
		return 0, err
	}
	deg, ok := s.Ayanamshas[variant]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownVariant, variant)
	}
	return deg, nil
}

// Ascendant implements Provider.
func (s *Snapshot) Ascendant(julianDay, latitude, longitude float64) (float64, error) {
	if err := s.covers(julianDay); err != nil {
		return 0, err
	}
	if math.Abs(latitude-s.Latitude) > momentTolerance || math.Abs(longitude-s.Longitude) > momentTolerance {
		return 0, fmt.Errorf("%w: place %.4f,%.4f", ErrMoment, latitude, longitude)
	}
	return s.AscendantTropical, nil
}

func (s *Snapshot) covers(julianDay float64) error {
	if math.Abs(julianDay-s.JulianDayUT) > momentTolerance {
		return fmt.Errorf("%w: julian day %f", ErrMoment, julianDay)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
