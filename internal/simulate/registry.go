package simulate

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrUnknownLocation is returned when a requested location key is not in
	// the registry. Callers must not retry with the same arguments.
	ErrUnknownLocation = errors.New("unknown location")

	// ErrInvalidCapacity is returned for non-positive system capacities.
	ErrInvalidCapacity = errors.New("capacity must be positive")
)

// LocationProfile holds the baseline solar characteristics of a supported
// site. Profiles are immutable and defined at process start.
type LocationProfile struct {
	// Latitude in degrees, negative south of the equator.
	Latitude float64
	// AvgPeakSunHours is the annual average peak sun hours (kWh/m²/day).
	AvgPeakSunHours float64
	// SeasonalVariation is the fractional swing between dry and rainy
	// seasons, e.g. 0.15 for ±15%.
	SeasonalVariation float64
}

// locations is the static registry of supported Kenyan sites, keyed by
// uppercase city name.
var locations = map[string]LocationProfile{
	"NAIROBI": {Latitude: -1.286389, AvgPeakSunHours: 5.5, SeasonalVariation: 0.15},
	"MOMBASA": {Latitude: -4.043477, AvgPeakSunHours: 5.8, SeasonalVariation: 0.12},
	"KISUMU":  {Latitude: -0.091702, AvgPeakSunHours: 5.3, SeasonalVariation: 0.18},
	"NAKURU":  {Latitude: -0.303099, AvgPeakSunHours: 5.6, SeasonalVariation: 0.14},
}

// LookupLocation returns the profile for an uppercase location key.
func LookupLocation(name string) (LocationProfile, error) {
	profile, ok := locations[name]
	if !ok {
		return LocationProfile{}, fmt.Errorf("%w: %q", ErrUnknownLocation, name)
	}
	return profile, nil
}

// LocationNames returns the registered location keys in sorted order.
func LocationNames() []string {
	names := make([]string, 0, len(locations))
	for name := range locations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
