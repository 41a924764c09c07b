package simulate

import (
	"fmt"
	"math"
	"time"
)

// Model selects the geometry strategy and loss chain for a generator.
type Model string

const (
	// ModelBasic uses elevation-derived air-mass intensity with a per-day
	// weather draw and the minimal loss chain.
	ModelBasic Model = "basic"
	// ModelDetailed uses the clear-sky cosine proxy with per-hour weather
	// and the full loss pipeline. Current default.
	ModelDetailed Model = "detailed"
)

// ParseModel validates a model name from configuration.
func ParseModel(s string) (Model, error) {
	switch Model(s) {
	case ModelBasic, ModelDetailed:
		return Model(s), nil
	default:
		return "", fmt.Errorf("unknown geometry model %q", s)
	}
}

// Elevation computes the sun elevation angle in degrees for a latitude,
// date, and integer hour of day. Values below the horizon are reported as 0.
//
// Declination follows the 23.45·sin(2π/365·(doy-81)) approximation; the hour
// angle advances 15° per hour with solar noon at hour 12.
func Elevation(latitudeDeg float64, date time.Time, hour int) float64 {
	dayOfYear := float64(date.YearDay())
	declinationDeg := 23.45 * math.Sin(radians(360.0/365.0*(dayOfYear-81)))
	hourAngleDeg := 15.0 * float64(hour-12)

	sinElevation := math.Sin(radians(latitudeDeg))*math.Sin(radians(declinationDeg)) +
		math.Cos(radians(latitudeDeg))*math.Cos(radians(declinationDeg))*math.Cos(radians(hourAngleDeg))

	elevation := degrees(math.Asin(sinElevation))
	if elevation < 0 {
		return 0
	}
	return elevation
}

// IntensityFactor converts a sun elevation angle to a 0-1 irradiance factor
// using an air-mass attenuation proxy: AM = 1/sin(elevation), factor =
// 0.7^(AM-1). Directly overhead gives 1.0; the factor decays as light passes
// through more atmosphere.
func IntensityFactor(elevationDeg float64) float64 {
	if elevationDeg <= 0 {
		return 0
	}
	airMass := 1 / math.Sin(radians(elevationDeg))
	return math.Pow(0.7, airMass-1)
}

// ClearSkyFactor is the normalized theoretical-maximum multiplier for an
// hour of day: max(0, cos((h-12)·π/12)). 1.0 at solar noon, 0 outside
// roughly 06:00-18:00.
func ClearSkyFactor(hour int) float64 {
	f := math.Cos(float64(hour-12) * math.Pi / 12)
	if f < 0 {
		return 0
	}
	return f
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
