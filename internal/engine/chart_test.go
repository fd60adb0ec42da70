package engine_test

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/rabank/astro-calculator/internal/dasha"
	"github.com/rabank/astro-calculator/internal/engine"
	"github.com/rabank/astro-calculator/internal/ephemeris"
	"github.com/rabank/astro-calculator/internal/zodiac"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------
// Mocks & Fixtures
// -----------------------------------------------------------------------------

// MockProvider simulates the ephemeris collaborator using `testify/mock`.
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) TropicalLongitude(jd float64, body ephemeris.BodyID) (ephemeris.Position, error) {
	args := m.Called(jd, body)
	return args.Get(0).(ephemeris.Position), args.Error(1)
}

func (m *MockProvider) Ayanamsha(jd float64, variant ephemeris.Variant) (float64, error) {
	args := m.Called(jd, variant)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockProvider) Ascendant(jd, lat, lon float64) (float64, error) {
	args := m.Called(jd, lat, lon)
	return args.Get(0).(float64), args.Error(1)
}

const (
	testJD        = 2448057.7291667
	testAyanamsha = 24.0
)

var (
	testBirthUTC   = time.Date(1990, 6, 15, 5, 30, 0, 0, time.UTC)
	testBirthLocal = testBirthUTC.In(time.FixedZone("EEST", 3*60*60)) // a Friday
)

// siderealFixture holds sidereal longitudes; tropical values are derived by
// adding the test ayanamsha.
var siderealFixture = map[ephemeris.BodyID]float64{
	ephemeris.Sun:      30,
	ephemeris.Moon:     45,
	ephemeris.Mercury:  62,
	ephemeris.Venus:    100,
	ephemeris.Mars:     200,
	ephemeris.Jupiter:  299,
	ephemeris.Saturn:   15.5,
	ephemeris.MeanNode: 355,
}

func tropical(sidereal float64) float64 {
	return zodiac.Normalize(sidereal + testAyanamsha)
}

func fixtureInput() engine.Input {
	in := engine.Input{
		JulianDayUT:       testJD,
		AscendantTropical: tropical(95),
		AyanamshaDegrees:  testAyanamsha,
		NodeModel:         ephemeris.MeanNodeModel,
		BirthUTC:          testBirthUTC,
		BirthLocal:        testBirthLocal,
		Variant:           ephemeris.Lahiri,
	}
	for _, id := range append(append([]ephemeris.BodyID{}, ephemeris.Planets...), ephemeris.MeanNode) {
		speed := 1.0
		if id == ephemeris.MeanNode {
			speed = -0.05
		}
		in.Bodies = append(in.Bodies, engine.RawBody{ID: id, TropicalLongitude: tropical(siderealFixture[id]), Speed: speed})
	}
	return in
}

// -----------------------------------------------------------------------------
// Compute
// -----------------------------------------------------------------------------

func TestCompute_FullChart(t *testing.T) {
	chart, err := engine.Compute(fixtureInput(), engine.DefaultOptions())
	require.NoError(t, err)

	assert.InDelta(t, 95, chart.Ascendant.Longitude, 1e-9)
	assert.Equal(t, zodiac.Cancer, chart.Ascendant.Sign)

	require.Len(t, chart.Planets, zodiac.BodyCount)
	for i, p := range chart.Planets {
		assert.Equal(t, zodiac.ChartOrder[i], p.Body, "chart order")
	}

	moon, ok := chart.Planet(zodiac.Moon)
	require.True(t, ok)
	assert.Equal(t, zodiac.Taurus, moon.Sign)
	assert.Equal(t, "Rohini", moon.Nakshatra.String())
	assert.Equal(t, 2, moon.Pada)

	// The Moon sits ten signs from Cancer; counting ten again from Taurus gives Pisces.
	require.NotNil(t, chart.ArudhaLagna)
	assert.Equal(t, zodiac.Pisces, *chart.ArudhaLagna)

	assert.Equal(t, "2 waxing", chart.Panchanga.Tithi.Name)
	assert.Equal(t, zodiac.Moon, chart.Panchanga.Tithi.Lord)
	assert.Equal(t, "Shukravara", chart.Panchanga.Vara.Name)

	assert.Equal(t, zodiac.Leo, chart.Navamsa.Ascendant)
	assert.Len(t, chart.Navamsa.Planets, zodiac.BodyCount)

	assert.Equal(t, zodiac.Moon, chart.Dasha.StartLord)
	require.NotEmpty(t, chart.Dasha.Periods)
	assert.InDelta(t, 6.25, chart.Dasha.Periods[0].Years, 1e-9)

	assert.Equal(t, ephemeris.Lahiri, chart.Settings.Ayanamsha)
	assert.Equal(t, ephemeris.MeanNodeModel, chart.Settings.Node)
}

func TestCompute_KetuMirrorsRahu(t *testing.T) {
	chart, err := engine.Compute(fixtureInput(), engine.DefaultOptions())
	require.NoError(t, err)

	rahu, _ := chart.Planet(zodiac.Rahu)
	ketu, _ := chart.Planet(zodiac.Ketu)

	assert.InDelta(t, 355, rahu.Longitude, 1e-9)
	assert.InDelta(t, 175, ketu.Longitude, 1e-9)
	assert.Equal(t, rahu.Speed, ketu.Speed)
	assert.True(t, rahu.Retrograde)
	assert.True(t, ketu.Retrograde)
	assert.Equal(t, zodiac.Virgo, ketu.Sign)
}

func TestCompute_Karakas(t *testing.T) {
	chart, err := engine.Compute(fixtureInput(), engine.DefaultOptions())
	require.NoError(t, err)

	want := map[zodiac.Body]engine.Karaka{
		zodiac.Jupiter: engine.Atmakaraka,
		zodiac.Mars:    engine.Amatyakaraka,
		zodiac.Saturn:  engine.Bhratrukaraka,
		zodiac.Moon:    engine.Matrukaraka,
		zodiac.Venus:   engine.Pitrukaraka,
		zodiac.Rahu:    engine.Putrakaraka,
		zodiac.Mercury: engine.Gnatikaraka,
		zodiac.Sun:     engine.Darakaraka,
		zodiac.Ketu:    engine.NoKaraka,
	}
	for _, p := range chart.Planets {
		assert.Equal(t, want[p.Body], p.Karaka, p.Body.String())
	}
}

func TestCompute_MoonInAscendantSign(t *testing.T) {
	in := fixtureInput()
	for i := range in.Bodies {
		if in.Bodies[i].ID == ephemeris.Moon {
			in.Bodies[i].TropicalLongitude = tropical(100)
		}
	}

	chart, err := engine.Compute(in, engine.DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, chart.ArudhaLagna)
	assert.Equal(t, zodiac.Taurus, *chart.ArudhaLagna)
}

func TestCompute_TrueNode(t *testing.T) {
	in := fixtureInput()
	in.NodeModel = ephemeris.TrueNodeModel
	in.Bodies = append(in.Bodies, engine.RawBody{ID: ephemeris.TrueNode, TropicalLongitude: tropical(10), Speed: 0.02})

	chart, err := engine.Compute(in, engine.DefaultOptions())
	require.NoError(t, err)

	rahu, _ := chart.Planet(zodiac.Rahu)
	assert.InDelta(t, 10, rahu.Longitude, 1e-9)
	assert.False(t, rahu.Retrograde)
	assert.Equal(t, ephemeris.TrueNodeModel, chart.Settings.Node)
}

func TestCompute_InvalidHorizon(t *testing.T) {
	_, err := engine.Compute(fixtureInput(), engine.Options{HorizonYears: -1})
	assert.ErrorIs(t, err, engine.ErrInvalidInput)
	assert.ErrorIs(t, err, dasha.ErrHorizon)
}

// -----------------------------------------------------------------------------
// Validate
// -----------------------------------------------------------------------------

func TestInputValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *engine.Input)
		want   string
	}{
		{
			name:   "missing planet",
			mutate: func(in *engine.Input) { in.Bodies = in.Bodies[:6] },
			want:   "SATURN",
		},
		{
			name:   "non-finite longitude",
			mutate: func(in *engine.Input) { in.Bodies[0].TropicalLongitude = math.NaN() },
			want:   "SUN",
		},
		{
			name:   "non-finite ayanamsha",
			mutate: func(in *engine.Input) { in.AyanamshaDegrees = math.Inf(1) },
			want:   "ayanamsha_degrees",
		},
		{
			name:   "duplicate body",
			mutate: func(in *engine.Input) { in.Bodies = append(in.Bodies, in.Bodies[1]) },
			want:   "MOON",
		},
		{
			name: "unknown body",
			mutate: func(in *engine.Input) {
				in.Bodies = append(in.Bodies, engine.RawBody{ID: "PLUTO"})
			},
			want: "PLUTO",
		},
		{
			name:   "true node requested but absent",
			mutate: func(in *engine.Input) { in.NodeModel = ephemeris.TrueNodeModel },
			want:   "TRUE_NODE",
		},
		{
			name:   "no birth time",
			mutate: func(in *engine.Input) { in.BirthLocal = time.Time{} },
			want:   "birth_local",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := fixtureInput()
			tt.mutate(&in)

			err := in.Validate()
			assert.ErrorIs(t, err, engine.ErrInvalidInput)
			assert.ErrorContains(t, err, tt.want)

			_, err = engine.Compute(in, engine.DefaultOptions())
			assert.ErrorIs(t, err, engine.ErrInvalidInput)
		})
	}
}

func TestInputValidate_Fixture(t *testing.T) {
	assert.NoError(t, fixtureInput().Validate())
}

// -----------------------------------------------------------------------------
// Gather
// -----------------------------------------------------------------------------

func expectBodies(p *MockProvider, ids ...ephemeris.BodyID) {
	for _, id := range ids {
		p.On("TropicalLongitude", testJD, id).
			Return(ephemeris.Position{Longitude: tropical(siderealFixture[id]), Speed: 1}, nil)
	}
}

func TestGather_AppliesOffset(t *testing.T) {
	p := new(MockProvider)
	p.On("Ayanamsha", testJD, ephemeris.Raman).Return(23.5, nil)
	p.On("Ascendant", testJD, 42.7, 23.3).Return(tropical(95), nil)
	expectBodies(p, append(append([]ephemeris.BodyID{}, ephemeris.Planets...), ephemeris.MeanNode)...)

	in, err := engine.Gather(p, engine.Request{
		JulianDayUT: testJD,
		Latitude:    42.7,
		Longitude:   23.3,
		Variant:     ephemeris.Raman,
		Offset:      0.5,
		BirthUTC:    testBirthUTC,
		BirthLocal:  testBirthLocal,
	})
	require.NoError(t, err)

	assert.InDelta(t, testAyanamsha, in.AyanamshaDegrees, 1e-9)
	assert.Equal(t, ephemeris.MeanNodeModel, in.NodeModel)
	assert.Equal(t, ephemeris.Raman, in.Variant)
	assert.Len(t, in.Bodies, 8)
	assert.NoError(t, in.Validate())
	p.AssertExpectations(t)
}

func TestGather_TrueNodeOnly(t *testing.T) {
	p := new(MockProvider)
	p.On("Ayanamsha", testJD, ephemeris.Lahiri).Return(testAyanamsha, nil)
	p.On("Ascendant", testJD, 0.0, 0.0).Return(tropical(95), nil)
	expectBodies(p, ephemeris.Planets...)
	p.On("TropicalLongitude", testJD, ephemeris.TrueNode).Return(ephemeris.Position{Longitude: 12, Speed: -0.1}, nil)

	in, err := engine.Gather(p, engine.Request{
		JulianDayUT: testJD,
		Variant:     ephemeris.Lahiri,
		NodeModel:   "true",
		BirthUTC:    testBirthUTC,
		BirthLocal:  testBirthLocal,
	})
	require.NoError(t, err)

	assert.Equal(t, ephemeris.TrueNodeModel, in.NodeModel)
	p.AssertNotCalled(t, "TropicalLongitude", testJD, ephemeris.MeanNode)
}

func TestGather_ProviderError(t *testing.T) {
	p := new(MockProvider)
	p.On("Ayanamsha", testJD, ephemeris.DeLuce).Return(0.0, ephemeris.ErrUnknownVariant)

	_, err := engine.Gather(p, engine.Request{JulianDayUT: testJD, Variant: ephemeris.DeLuce})
	assert.ErrorIs(t, err, ephemeris.ErrUnknownVariant)
	p.AssertNotCalled(t, "Ascendant", mock.Anything, mock.Anything, mock.Anything)
}

// -----------------------------------------------------------------------------
// Calculator
// -----------------------------------------------------------------------------

func TestCalculator_NoProvider(t *testing.T) {
	calc := &engine.Calculator{}
	_, err := calc.Chart(context.Background(), engine.Request{}, engine.DefaultOptions())
	assert.Error(t, err)
}

func TestCalculator_CanceledContext(t *testing.T) {
	calc := &engine.Calculator{Provider: new(MockProvider)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := calc.Chart(ctx, engine.Request{}, engine.DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCalculator_Current(t *testing.T) {
	chart, err := engine.Compute(fixtureInput(), engine.DefaultOptions())
	require.NoError(t, err)

	calc := &engine.Calculator{Clock: engine.FixedClock(testBirthUTC.AddDate(1, 0, 0))}
	maha, antar, ok := calc.Current(chart)
	require.True(t, ok)
	assert.Equal(t, zodiac.Moon, maha.Lord)
	assert.Equal(t, zodiac.Rahu, antar.Lord)

	calc.Clock = engine.FixedClock(testBirthUTC.AddDate(-1, 0, 0))
	_, _, ok = calc.Current(chart)
	assert.False(t, ok, "before birth nothing is running")
}

// -----------------------------------------------------------------------------
// Response
// -----------------------------------------------------------------------------

func TestResponse_JSONShape(t *testing.T) {
	chart, err := engine.Compute(fixtureInput(), engine.DefaultOptions())
	require.NoError(t, err)

	calc := &engine.Calculator{Clock: engine.FixedClock(testBirthUTC.AddDate(1, 0, 0))}
	data, err := json.Marshal(chart.Response().WithCurrent(calc.Current(chart)))
	require.NoError(t, err)

	var doc struct {
		Ascendant struct {
			Degree float64 `json:"degree"`
			Sign   string  `json:"sign"`
		} `json:"Ascendant"`
		Planets []map[string]any `json:"Planets"`
		Arudha  struct {
			Sign string `json:"sign"`
		} `json:"ArudhaLagna"`
		Panchanga map[string]map[string]any `json:"Panchanga"`
		D9        struct {
			Ascendant struct {
				Sign string `json:"sign"`
			} `json:"Ascendant"`
		} `json:"D9"`
		Vimshottari []map[string]any `json:"Vimshottari"`
		Current     map[string]string `json:"current_dasha"`
		Settings    map[string]any    `json:"settings"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, 95.0, doc.Ascendant.Degree)
	assert.Equal(t, "Cancer", doc.Ascendant.Sign)
	assert.Equal(t, "Pisces", doc.Arudha.Sign)
	assert.Equal(t, "Leo", doc.D9.Ascendant.Sign)

	require.Len(t, doc.Planets, zodiac.BodyCount)
	assert.Equal(t, "Sun", doc.Planets[0]["planet"])
	assert.Equal(t, "Taurus", doc.Planets[0]["sign"])
	assert.Equal(t, "Krittika", doc.Planets[0]["nakshatra"])
	assert.Equal(t, "Atmakaraka", doc.Planets[5]["chara_karaka"])
	assert.NotContains(t, doc.Planets[8], "chara_karaka", "Ketu takes no role")

	assert.Equal(t, "2 waxing", doc.Panchanga["tithi"]["name"])
	assert.Equal(t, "Moon", doc.Panchanga["tithi"]["lord"])
	assert.Equal(t, 75.0, doc.Panchanga["tithi"]["left_percent"])
	assert.NotContains(t, doc.Panchanga["vara"], "left_percent")
	assert.Equal(t, "Balava", doc.Panchanga["karana"]["name"])

	require.NotEmpty(t, doc.Vimshottari)
	assert.Equal(t, "Moon", doc.Vimshottari[0]["lord"])
	assert.Equal(t, "1990-06-15T05:30:00Z", doc.Vimshottari[0]["start"])
	assert.Equal(t, 6.25, doc.Vimshottari[0]["age_end"])

	assert.Equal(t, map[string]string{"maha": "Moon", "antar": "Rahu"}, doc.Current)
	assert.Equal(t, "LAHIRI", doc.Settings["ayanamsha"])
	assert.Equal(t, "MEAN", doc.Settings["node"])
}
