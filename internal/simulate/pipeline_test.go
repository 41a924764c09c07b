package simulate

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// quietParams returns a parameter set with every stochastic and periodic
// effect switched off, so single-hour outcomes are exactly computable.
func quietParams() Params {
	p := DefaultParams()
	p.EnableFaults = false
	p.EnableSecondaryOutage = false
	p.EnableCurtailment = false
	p.NoiseSigma = 0
	p.CloudJitter = 0
	return p
}

func sunnyHour(capacity float64) hourContext {
	return hourContext{
		capacityKW:        capacity,
		theoreticalKW:     capacity,
		hour:              0, // cell temp at night baseline, no thermal derate
		hourIndex:         61,
		month:             time.June,
		yearsInService:    0,
		weather:           WeatherSample{Condition: Sunny, Efficiency: 1.0},
		seasonalVariation: 0,
	}
}

func TestCellTemperature(t *testing.T) {
	p := DefaultParams()

	assert.InDelta(t, 45.0, cellTemperature(p, 13), 1e-9)
	assert.InDelta(t, 20.0, cellTemperature(p, 6), 1e-9)
	assert.InDelta(t, 20.0, cellTemperature(p, 0), 1e-9)
	assert.InDelta(t, 20.0+25.0*6.0/7.0, cellTemperature(p, 12), 1e-9)
	assert.InDelta(t, 20.0+25.0*6.0/7.0, cellTemperature(p, 14), 1e-9)
}

func TestSoilingFactor(t *testing.T) {
	p := DefaultParams()

	assert.InDelta(t, 1.0, soilingFactor(p, 0), 1e-9)
	assert.InDelta(t, 0.9, soilingFactor(p, 10), 1e-9)
	assert.InDelta(t, 0.8, soilingFactor(p, 20), 1e-9)
	// Saturates past the cap.
	assert.InDelta(t, 0.8, soilingFactor(p, 35), 1e-9)

	t.Run("monotonic in days since clean", func(t *testing.T) {
		prev := 2.0
		for days := 0; days <= 30; days++ {
			f := soilingFactor(p, days)
			assert.LessOrEqual(t, f, prev, "days %d", days)
			prev = f
		}
	})
}

func TestDegradationFactor(t *testing.T) {
	p := DefaultParams()
	rng := rand.New(rand.NewSource(1))

	t.Run("linear while young", func(t *testing.T) {
		assert.InDelta(t, 0.99, degradationFactor(p, rng, 2), 1e-9)
		assert.InDelta(t, 0.98, degradationFactor(p, rng, 4), 1e-9)
	})

	t.Run("bounded extra penalty when aged", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			f := degradationFactor(p, rng, 10)
			// base 0.95, extra in [0, 0.002*6]
			assert.GreaterOrEqual(t, f, 0.95-0.012-1e-9)
			assert.LessOrEqual(t, f, 0.95+1e-9)
		}
	})
}

func TestSeasonalFactor(t *testing.T) {
	assert.InDelta(t, 1.075, seasonalFactor(time.June, 0.15), 1e-9)
	assert.InDelta(t, 0.925, seasonalFactor(time.April, 0.15), 1e-9)
	assert.InDelta(t, 1.0, seasonalFactor(time.January, 0), 1e-9)
}

func TestApplyLosses_QuietChainIsExact(t *testing.T) {
	p := quietParams()
	rng := rand.New(rand.NewSource(1))
	soiling := SoilingState{}

	out := applyLosses(p, rng, &soiling, sunnyHour(10))
	assert.InDelta(t, 10*0.85, out.powerKW, 1e-9)
	assert.InDelta(t, 20.0, out.cellTempC, 1e-9)
}

func TestApplyLosses_ThermalDerate(t *testing.T) {
	p := quietParams()
	rng := rand.New(rand.NewSource(1))
	soiling := SoilingState{}

	in := sunnyHour(10)
	in.hour = 13 // cell at 45°C: loss = (45-25)*0.004 = 8%
	out := applyLosses(p, rng, &soiling, in)
	assert.InDelta(t, 10*0.85*0.92, out.powerKW, 1e-9)
	assert.InDelta(t, 45.0, out.cellTempC, 1e-9)
}

func TestApplyLosses_FullOutage(t *testing.T) {
	p := quietParams()
	p.EnableFaults = true
	p.FullOutageProb = 1
	rng := rand.New(rand.NewSource(1))
	soiling := SoilingState{}

	out := applyLosses(p, rng, &soiling, sunnyHour(10))
	assert.Zero(t, out.powerKW)
}

func TestApplyLosses_PartialFault(t *testing.T) {
	p := quietParams()
	p.EnableFaults = true
	p.FullOutageProb = 0
	p.PartialFaultProb = 1
	rng := rand.New(rand.NewSource(1))
	soiling := SoilingState{}

	out := applyLosses(p, rng, &soiling, sunnyHour(10))
	assert.GreaterOrEqual(t, out.powerKW, 10*0.85*0.5-1e-9)
	assert.LessOrEqual(t, out.powerKW, 10*0.85*0.8+1e-9)
}

func TestApplyLosses_SecondaryOutage(t *testing.T) {
	p := quietParams()
	p.EnableSecondaryOutage = true
	p.SecondaryOutageProb = 1
	rng := rand.New(rand.NewSource(1))
	soiling := SoilingState{}

	out := applyLosses(p, rng, &soiling, sunnyHour(10))
	assert.Zero(t, out.powerKW)
}

func TestApplyLosses_Curtailment(t *testing.T) {
	p := quietParams()
	p.EnableCurtailment = true
	rng := rand.New(rand.NewSource(1))
	soiling := SoilingState{}

	in := sunnyHour(10)
	in.hourIndex = 60 * 1234 // on the curtailment grid
	out := applyLosses(p, rng, &soiling, in)
	assert.InDelta(t, 10*0.85*0.7, out.powerKW, 1e-9)

	in.hourIndex++
	out = applyLosses(p, rng, &soiling, in)
	assert.InDelta(t, 10*0.85, out.powerKW, 1e-9)
}

func TestApplyLosses_ClampsToCapacity(t *testing.T) {
	p := quietParams()
	p.SystemEfficiency = 1

	rng := rand.New(rand.NewSource(1))
	soiling := SoilingState{}

	in := sunnyHour(10)
	in.seasonalVariation = 1.0 // dry-season factor 1.5 would exceed capacity
	out := applyLosses(p, rng, &soiling, in)
	assert.InDelta(t, 10.0, out.powerKW, 1e-9)
}

func TestApplyBasicLosses(t *testing.T) {
	p := quietParams()

	in := hourContext{
		capacityKW:        10,
		theoreticalKW:     8,
		month:             time.April,
		yearsInService:    2,
		weather:           WeatherSample{Condition: PartlyCloudy, Efficiency: 0.6},
		seasonalVariation: 0.12,
	}

	expected := 8 * 0.85 * 0.6 * 0.99 * (1 - 0.12*0.5)
	assert.InDelta(t, expected, applyBasicLosses(p, in), 1e-9)
}

func TestAdvanceSoiling(t *testing.T) {
	p := DefaultParams()

	soiling := SoilingState{DaysSinceClean: 7}
	advanceSoiling(p, &soiling, 121)
	assert.Equal(t, 8, soiling.DaysSinceClean)

	advanceSoiling(p, &soiling, 240) // maintenance hour
	assert.Zero(t, soiling.DaysSinceClean)

	advanceSoiling(p, &soiling, 241)
	assert.Equal(t, 1, soiling.DaysSinceClean)
}
