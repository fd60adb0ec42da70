package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Settings is the process configuration that flows into each chart
// computation as explicit parameters.
// Values are populated from vedichart.yaml, environment variables and CLI flags.
type Settings struct {
	Ayanamsha    string  `mapstructure:"ayanamsha"`
	NodeType     string  `mapstructure:"node_type"`
	Offset       float64 `mapstructure:"ayanamsha_offset"`
	HorizonYears float64 `mapstructure:"dasha_horizon_years"`
	Port         string  `mapstructure:"port"`
	Debug        bool    `mapstructure:"debug"`
}

var envBindings = map[string]string{
	KeyAyanamsha: EnvAyanamsha,
	KeyNodeType:  EnvNodeType,
	KeyOffset:    EnvOffset,
	KeyHorizon:   EnvHorizon,
	KeyPort:      EnvPort,
}

var upper = cases.Upper(language.Und)

// Bind registers defaults and environment variable names on v.
func Bind(v *viper.Viper) error {
	v.SetDefault(KeyAyanamsha, DefaultAyanamsha)
	v.SetDefault(KeyNodeType, DefaultNodeModel)
	v.SetDefault(KeyOffset, DefaultOffset)
	v.SetDefault(KeyHorizon, DefaultHorizonYears)
	v.SetDefault(KeyPort, DefaultPort)
	v.SetDefault(KeyDebug, false)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("%s: %w", ErrConfigLoad, err)
		}
	}
	return nil
}

// Load reads configuration from v, applying built-in defaults for any values
// not set by config file, environment, or flags, and validates the result.
func Load(v *viper.Viper) (Settings, error) {
	if err := Bind(v); err != nil {
		return Settings{}, err
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", ErrConfigLoad, err)
	}
	s.Ayanamsha = NormalizeSelector(s.Ayanamsha)
	s.NodeType = NormalizeSelector(s.NodeType)
	if s.Ayanamsha == "" {
		s.Ayanamsha = DefaultAyanamsha
	}
	if s.NodeType == "" {
		s.NodeType = DefaultNodeModel
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks the numeric settings.
func (s Settings) Validate() error {
	if math.IsNaN(s.Offset) || math.IsInf(s.Offset, 0) || math.Abs(s.Offset) > MaxCalibrationOffset {
		return fmt.Errorf("%s: %v", ErrOffsetRange, s.Offset)
	}
	if err := ValidateHorizon(s.HorizonYears); err != nil {
		return err
	}
	return ValidatePort(s.Port)
}

// ValidateHorizon checks a Vimshottari horizon in years.
func ValidateHorizon(years float64) error {
	if math.IsNaN(years) || math.IsInf(years, 0) || years <= 0 {
		return fmt.Errorf("%s: %v", ErrHorizon, years)
	}
	if years > MaxHorizonYears {
		return fmt.Errorf("%s: %v", ErrHorizonTooLarge, years)
	}
	return nil
}

// ValidatePort checks that port is a usable TCP port number.
func ValidatePort(port string) error {
	if port == "" {
		return errors.New(ErrPortRequired)
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrPortNumber, err)
	}
	if n < 1 || n > 65535 {
		return errors.New(ErrPortRange)
	}
	return nil
}

// NormalizeSelector trims and upper-cases a variant or node selector, so that
// "kp", " Lahiri " and "true" match their canonical names.
func NormalizeSelector(s string) string {
	return upper.String(strings.TrimSpace(s))
}
