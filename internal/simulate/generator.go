package simulate

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Request describes one installation-day to simulate.
type Request struct {
	CapacityKW       float64
	Location         string // registry key, e.g. "NAIROBI"
	Date             time.Time
	InstallationYear int
}

// Reading is one hour of simulated production, the generator's sole output
// unit. Immutable once produced.
type Reading struct {
	Timestamp      time.Time `json:"timestamp"`
	PowerKW        float64   `json:"power_kw"`
	Weather        Condition `json:"weather"`
	SolarElevation float64   `json:"solar_elevation"`
	CellTempC      float64   `json:"cell_temp_c,omitempty"`
	SoilingDays    int       `json:"soiling_days,omitempty"`
}

// Generator produces deterministic synthetic production data. It is
// stateless across invocations: each call derives its own random stream
// from the base seed and the simulated date, so independent generators and
// concurrent calls never share random state.
type Generator struct {
	params Params
	seed   int64
}

// NewGenerator validates the parameter set and returns a generator.
func NewGenerator(params Params, seed int64) (*Generator, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation params: %w", err)
	}
	return &Generator{params: params, seed: seed}, nil
}

// GenerateHourlyProduction simulates one full day and returns exactly 24
// readings in strictly increasing hour order. Every reading satisfies
// 0 <= PowerKW <= CapacityKW.
func (g *Generator) GenerateHourlyProduction(req Request) ([]Reading, error) {
	if req.CapacityKW <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidCapacity, req.CapacityKW)
	}
	profile, err := LookupLocation(req.Location)
	if err != nil {
		return nil, err
	}

	day := startOfDay(req.Date)
	rng := rand.New(rand.NewSource(seedFor(g.seed, day))) //nolint:gosec // reproducibility, not crypto

	years := day.Year() - req.InstallationYear
	if years < 0 {
		years = 0
	}

	// The soiling phase at the start of the window is unknown, so it starts
	// at a random age rather than always clean.
	soiling := SoilingState{DaysSinceClean: rng.Intn(g.params.MaxStartSoilingDays + 1)}

	// ModelBasic keeps the historical day-level weather draw; ModelDetailed
	// samples per hour.
	var dayWeather WeatherSample
	if g.params.Model == ModelBasic {
		dayWeather = sampleWeather(rng)
	}

	readings := make([]Reading, 0, 24)
	for hour := 0; hour < 24; hour++ {
		ts := day.Add(time.Duration(hour) * time.Hour)

		weather := dayWeather
		if g.params.Model == ModelDetailed {
			weather = sampleWeather(rng)
		}

		elevation := Elevation(profile.Latitude, day, hour)
		var factor float64
		switch g.params.Model {
		case ModelBasic:
			factor = IntensityFactor(elevation)
		default:
			factor = ClearSkyFactor(hour)
		}

		in := hourContext{
			capacityKW:        req.CapacityKW,
			theoreticalKW:     req.CapacityKW * factor,
			hour:              hour,
			hourIndex:         ts.Unix() / 3600,
			month:             day.Month(),
			yearsInService:    years,
			weather:           weather,
			seasonalVariation: profile.SeasonalVariation,
		}

		reading := Reading{
			Timestamp:      ts,
			Weather:        weather.Condition,
			SolarElevation: round2(elevation),
		}
		if g.params.Model == ModelBasic {
			reading.PowerKW = round2(applyBasicLosses(g.params, in))
		} else {
			out := applyLosses(g.params, rng, &soiling, in)
			reading.PowerKW = round2(out.powerKW)
			reading.CellTempC = round2(out.cellTempC)
			reading.SoilingDays = soiling.DaysSinceClean
			advanceSoiling(g.params, &soiling, in.hourIndex)
		}

		readings = append(readings, reading)
	}

	return readings, nil
}

// GenerateDateRange simulates a window of consecutive days starting at
// req.Date and returns the flattened readings in date order. Each day's
// soiling phase is initialized independently; there is deliberately no
// soiling continuity across day boundaries.
func (g *Generator) GenerateDateRange(req Request, days int) ([]Reading, error) {
	if days <= 0 {
		return nil, fmt.Errorf("days must be positive, got %d", days)
	}

	all := make([]Reading, 0, 24*days)
	for d := 0; d < days; d++ {
		dayReq := req
		dayReq.Date = startOfDay(req.Date).AddDate(0, 0, d)
		readings, err := g.GenerateHourlyProduction(dayReq)
		if err != nil {
			return nil, err
		}
		all = append(all, readings...)
	}
	return all, nil
}

// DailyTotal simulates one day and returns its total energy in kWh,
// approximating energy as power integrated over unit-hour buckets.
func (g *Generator) DailyTotal(req Request) (float64, error) {
	readings, err := g.GenerateHourlyProduction(req)
	if err != nil {
		return 0, err
	}
	return SumEnergyKWh(readings), nil
}

// SumEnergyKWh sums the power of a reading sequence, rounded to two
// decimals. With hourly readings the sum is the kWh total.
func SumEnergyKWh(readings []Reading) float64 {
	var total float64
	for _, r := range readings {
		total += r.PowerKW
	}
	return round2(total)
}

// startOfDay truncates a timestamp to midnight UTC.
func startOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
