package simulate

import (
	"math"
	"math/rand"
	"time"
)

// SoilingState tracks dust accumulation across the hours of one simulated
// day. It is owned by a single generation call and never shared.
type SoilingState struct {
	// DaysSinceClean is non-decreasing within a day except at a
	// maintenance-event hour, where it resets to 0.
	DaysSinceClean int
}

// hourContext carries the per-hour inputs of the loss chain.
type hourContext struct {
	capacityKW        float64
	theoreticalKW     float64
	hour              int
	hourIndex         int64 // hours since the Unix epoch
	month             time.Month
	yearsInService    int
	weather           WeatherSample
	seasonalVariation float64
}

// hourOutcome is the loss chain's result for one hour.
type hourOutcome struct {
	powerKW   float64
	cellTempC float64
}

// applyLosses runs the full ordered multiplicative chain (ModelDetailed).
// Later steps operate on the already-derated value, so losses compound
// multiplicatively. The chain itself is total: no step can fail.
func applyLosses(p Params, rng *rand.Rand, soiling *SoilingState, in hourContext) hourOutcome {
	power := in.theoreticalKW * p.SystemEfficiency
	power *= in.weather.Efficiency

	cellTemp := cellTemperature(p, in.hour)
	power *= 1 - math.Max(0, (cellTemp-25)*p.TempCoefficient)

	power *= soilingFactor(p, soiling.DaysSinceClean)
	power *= degradationFactor(p, rng, in.yearsInService)

	if p.EnableFaults {
		switch roll := rng.Float64(); {
		case roll < p.FullOutageProb:
			power = 0
		case roll < p.FullOutageProb+p.PartialFaultProb:
			span := p.PartialDerateMax - p.PartialDerateMin
			power *= p.PartialDerateMin + rng.Float64()*span
		}
	}

	if p.EnableCurtailment && in.hourIndex%int64(p.CurtailmentIntervalHours) == 0 {
		power *= p.CurtailmentFactor
	}

	power *= seasonalFactor(in.month, in.seasonalVariation)

	power *= 1 + rng.NormFloat64()*p.NoiseSigma
	if in.weather.Condition == Cloudy || in.weather.Condition == Rainy || isRainySeason(in.month) {
		power *= 1 + (rng.Float64()*2-1)*p.CloudJitter
	}

	// Second, independent outage roll. Kept separate from the primary fault
	// roll; see Params.EnableSecondaryOutage.
	if p.EnableSecondaryOutage && rng.Float64() < p.SecondaryOutageProb {
		power = 0
	}

	return hourOutcome{
		powerKW:   clamp(power, 0, in.capacityKW),
		cellTempC: cellTemp,
	}
}

// applyBasicLosses runs the minimal historical chain (ModelBasic): system
// efficiency, weather, linear degradation, seasonal adjustment, clamp.
func applyBasicLosses(p Params, in hourContext) float64 {
	power := in.theoreticalKW * p.SystemEfficiency
	power *= in.weather.Efficiency
	power *= math.Max(0, 1-p.DegradationPerYear*float64(in.yearsInService))
	power *= seasonalFactor(in.month, in.seasonalVariation)
	return clamp(power, 0, in.capacityKW)
}

// advanceSoiling updates the accumulator after an hour has been simulated.
// Maintenance fires on absolute-hour multiples of the configured interval.
func advanceSoiling(p Params, soiling *SoilingState, hourIndex int64) {
	if hourIndex%int64(p.MaintenanceIntervalHours) == 0 {
		soiling.DaysSinceClean = 0
		return
	}
	soiling.DaysSinceClean++
}

// cellTemperature models a diurnal bell: NightTempC away from the peak,
// rising linearly to PeakTempC at PeakTempHour.
func cellTemperature(p Params, hour int) float64 {
	distance := math.Abs(float64(hour - p.PeakTempHour))
	shape := math.Max(0, 1-distance/p.TempSpreadHours)
	return p.NightTempC + (p.PeakTempC-p.NightTempC)*shape
}

// soilingFactor derates output linearly with days since cleaning, saturating
// at SoilingSaturationDays and never dropping below the 20%-loss floor.
func soilingFactor(p Params, daysSinceClean int) float64 {
	days := min(daysSinceClean, p.SoilingSaturationDays)
	return math.Max(0.8, 1-p.SoilingLossPerDay*float64(days))
}

// degradationFactor applies linear annual aging plus a bounded random extra
// penalty for installations older than AgedAfterYears, widening variance for
// aging fleets.
func degradationFactor(p Params, rng *rand.Rand, years int) float64 {
	factor := 1 - p.DegradationPerYear*float64(years)
	if years > p.AgedAfterYears {
		bound := math.Min(p.AgedExtraPerYear*float64(years-p.AgedAfterYears), p.AgedExtraCap)
		factor -= rng.Float64() * bound
	}
	return math.Max(0, factor)
}

// seasonalFactor scales output up in Kenya's dry months and down in the
// rainy seasons, by half the location's seasonal variation.
func seasonalFactor(month time.Month, variation float64) float64 {
	if isRainySeason(month) {
		return 1 - variation*0.5
	}
	return 1 + variation*0.5
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
