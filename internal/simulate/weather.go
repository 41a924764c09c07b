package simulate

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand"
	"time"
)

// Condition is a categorical weather state affecting panel output.
type Condition string

const (
	Sunny        Condition = "sunny"
	PartlyCloudy Condition = "partly_cloudy"
	Cloudy       Condition = "cloudy"
	Rainy        Condition = "rainy"
)

// WeatherSample is one draw from the weather distribution.
type WeatherSample struct {
	Condition  Condition
	Efficiency float64 // multiplier in (0, 1]
}

// weatherTable is the fixed categorical distribution. Order matters: the
// sampler walks the table accumulating probability mass.
var weatherTable = []struct {
	condition   Condition
	probability float64
	efficiency  float64
}{
	{Sunny, 0.70, 1.0},
	{PartlyCloudy, 0.20, 0.6},
	{Cloudy, 0.08, 0.3},
	{Rainy, 0.02, 0.1},
}

// sampleWeather draws a condition from the fixed distribution using the
// caller's random source. If floating-point rounding leaves the draw
// unmatched, the result defaults to sunny.
func sampleWeather(rng *rand.Rand) WeatherSample {
	draw := rng.Float64()
	cumulative := 0.0
	for _, w := range weatherTable {
		cumulative += w.probability
		if draw <= cumulative {
			return WeatherSample{Condition: w.condition, Efficiency: w.efficiency}
		}
	}
	return WeatherSample{Condition: Sunny, Efficiency: 1.0}
}

// seedFor derives the random stream seed for one simulated day. Hashing
// (seed, calendar date) keeps the same day reproducible under the same base
// seed without touching any shared random state, so concurrent generations
// cannot perturb each other's draws.
func seedFor(seed int64, date time.Time) int64 {
	input := fmt.Sprintf("%d|%s", seed, date.UTC().Format("2006-01-02"))
	sum := sha256.Sum256([]byte(input))
	return int64(binary.BigEndian.Uint64(sum[:8])) //nolint:gosec // wraparound is fine for a seed
}

// isRainySeason reports whether the month falls in one of Kenya's two rainy
// seasons (March-May and October-December).
func isRainySeason(month time.Month) bool {
	switch month {
	case time.March, time.April, time.May,
		time.October, time.November, time.December:
		return true
	default:
		return false
	}
}
