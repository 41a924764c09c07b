package simulate

import (
	"errors"
	"fmt"
)

// Params collects every tunable constant of the loss pipeline in one
// validated structure, so scenarios like "no faults" or "no curtailment"
// are configuration rather than code changes.
type Params struct {
	// Model selects the geometry strategy and loss chain.
	Model Model

	// SystemEfficiency accounts for inverter and wiring losses.
	SystemEfficiency float64

	// DegradationPerYear is the permanent annual efficiency loss.
	DegradationPerYear float64
	// AgedAfterYears is the service age beyond which the extra random
	// degradation penalty starts applying.
	AgedAfterYears int
	// AgedExtraPerYear bounds the random extra penalty: up to this much per
	// year beyond AgedAfterYears.
	AgedExtraPerYear float64
	// AgedExtraCap is the ceiling on the random extra penalty.
	AgedExtraCap float64

	// TempCoefficient is the fractional loss per °C of cell temperature
	// above 25°C.
	TempCoefficient float64
	// NightTempC and PeakTempC bound the diurnal cell-temperature bell.
	NightTempC float64
	PeakTempC  float64
	// PeakTempHour is the hour the bell peaks; TempSpreadHours is its
	// half-width.
	PeakTempHour    int
	TempSpreadHours float64

	// SoilingLossPerDay is the linear output loss per day since cleaning.
	SoilingLossPerDay float64
	// SoilingSaturationDays caps the accumulation.
	SoilingSaturationDays int
	// MaxStartSoilingDays bounds the random soiling phase at the start of a
	// simulated day.
	MaxStartSoilingDays int
	// MaintenanceIntervalHours is the absolute-hour period of cleaning
	// events that reset soiling.
	MaintenanceIntervalHours int

	// EnableFaults controls the primary fault roll.
	EnableFaults bool
	// FullOutageProb is the per-hour probability of a full outage.
	FullOutageProb float64
	// PartialFaultProb is the additional per-hour probability of a partial
	// string derate, scaling output by a draw in
	// [PartialDerateMin, PartialDerateMax].
	PartialFaultProb float64
	PartialDerateMin float64
	PartialDerateMax float64
	// EnableSecondaryOutage keeps the historical second, independent outage
	// roll late in the chain. Whether the double roll is intentional is an
	// open modeling question; it stays as a toggle rather than being merged.
	EnableSecondaryOutage bool
	SecondaryOutageProb   float64

	// EnableCurtailment controls periodic grid-imposed curtailment: every
	// CurtailmentIntervalHours absolute hour the value scales by
	// CurtailmentFactor.
	EnableCurtailment        bool
	CurtailmentIntervalHours int
	CurtailmentFactor        float64

	// NoiseSigma is the standard deviation of the multiplicative gaussian
	// noise centered at 1.0. CloudJitter is the half-width of the extra
	// uniform jitter applied under cloud or in rainy-season months.
	NoiseSigma  float64
	CloudJitter float64
}

// DefaultParams returns the production parameter set with ModelDetailed.
func DefaultParams() Params {
	return Params{
		Model: ModelDetailed,

		SystemEfficiency: 0.85,

		DegradationPerYear: 0.005,
		AgedAfterYears:     4,
		AgedExtraPerYear:   0.002,
		AgedExtraCap:       0.05,

		TempCoefficient: 0.004,
		NightTempC:      20,
		PeakTempC:       45,
		PeakTempHour:    13,
		TempSpreadHours: 7,

		SoilingLossPerDay:        0.01,
		SoilingSaturationDays:    20,
		MaxStartSoilingDays:      25,
		MaintenanceIntervalHours: 120,

		EnableFaults:     true,
		FullOutageProb:   0.005,
		PartialFaultProb: 0.02,
		PartialDerateMin: 0.5,
		PartialDerateMax: 0.8,

		EnableSecondaryOutage: true,
		SecondaryOutageProb:   0.003,

		EnableCurtailment:        true,
		CurtailmentIntervalHours: 60,
		CurtailmentFactor:        0.7,

		NoiseSigma:  0.01,
		CloudJitter: 0.03,
	}
}

// Validate rejects parameter sets the pipeline cannot run safely.
func (p Params) Validate() error {
	if _, err := ParseModel(string(p.Model)); err != nil {
		return err
	}
	if p.SystemEfficiency <= 0 || p.SystemEfficiency > 1 {
		return fmt.Errorf("system efficiency %v outside (0, 1]", p.SystemEfficiency)
	}
	if p.DegradationPerYear < 0 || p.DegradationPerYear >= 1 {
		return fmt.Errorf("degradation per year %v outside [0, 1)", p.DegradationPerYear)
	}
	if p.AgedExtraPerYear < 0 || p.AgedExtraCap < 0 {
		return errors.New("aged degradation bounds must be non-negative")
	}
	if p.TempCoefficient < 0 {
		return errors.New("temperature coefficient must be non-negative")
	}
	if p.TempSpreadHours <= 0 {
		return errors.New("temperature spread must be positive")
	}
	if p.SoilingLossPerDay < 0 || p.SoilingSaturationDays < 0 || p.MaxStartSoilingDays < 0 {
		return errors.New("soiling parameters must be non-negative")
	}
	if p.MaintenanceIntervalHours <= 0 {
		return errors.New("maintenance interval must be positive")
	}
	if err := validateProbability("full outage", p.FullOutageProb); err != nil {
		return err
	}
	if err := validateProbability("partial fault", p.PartialFaultProb); err != nil {
		return err
	}
	if err := validateProbability("secondary outage", p.SecondaryOutageProb); err != nil {
		return err
	}
	if p.PartialDerateMin < 0 || p.PartialDerateMax > 1 || p.PartialDerateMin > p.PartialDerateMax {
		return fmt.Errorf("partial derate range [%v, %v] invalid", p.PartialDerateMin, p.PartialDerateMax)
	}
	if p.CurtailmentIntervalHours <= 0 {
		return errors.New("curtailment interval must be positive")
	}
	if p.CurtailmentFactor < 0 || p.CurtailmentFactor > 1 {
		return fmt.Errorf("curtailment factor %v outside [0, 1]", p.CurtailmentFactor)
	}
	if p.NoiseSigma < 0 || p.CloudJitter < 0 {
		return errors.New("noise parameters must be non-negative")
	}
	return nil
}

func validateProbability(name string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%s probability %v outside [0, 1]", name, v)
	}
	return nil
}
