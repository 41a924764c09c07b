package simulate_test

import (
	"testing"
	"time"

	"github.com/asiligreen/solar-sim/internal/simulate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSeed = 12345

func testRequest() simulate.Request {
	return simulate.Request{
		CapacityKW:       10.0,
		Location:         "NAIROBI",
		Date:             time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
		InstallationYear: 2020,
	}
}

func newGenerator(t *testing.T, params simulate.Params) *simulate.Generator {
	t.Helper()
	gen, err := simulate.NewGenerator(params, testSeed)
	require.NoError(t, err)
	return gen
}

func TestNewGenerator_RejectsInvalidParams(t *testing.T) {
	p := simulate.DefaultParams()
	p.SystemEfficiency = -1
	_, err := simulate.NewGenerator(p, testSeed)
	assert.Error(t, err)
}

func TestGenerateHourlyProduction_Invariants(t *testing.T) {
	for _, model := range []simulate.Model{simulate.ModelBasic, simulate.ModelDetailed} {
		t.Run(string(model), func(t *testing.T) {
			p := simulate.DefaultParams()
			p.Model = model
			gen := newGenerator(t, p)

			req := testRequest()
			readings, err := gen.GenerateHourlyProduction(req)
			require.NoError(t, err)
			require.Len(t, readings, 24)

			for i, r := range readings {
				assert.Equal(t, i, r.Timestamp.Hour(), "reading %d", i)
				assert.GreaterOrEqual(t, r.PowerKW, 0.0, "reading %d", i)
				assert.LessOrEqual(t, r.PowerKW, req.CapacityKW, "reading %d", i)
				assert.GreaterOrEqual(t, r.SolarElevation, 0.0)
				assert.LessOrEqual(t, r.SolarElevation, 90.0)
				if i > 0 {
					assert.True(t, r.Timestamp.After(readings[i-1].Timestamp), "reading %d out of order", i)
				}
			}
		})
	}
}

func TestGenerateHourlyProduction_NightHoursAreZero(t *testing.T) {
	for _, model := range []simulate.Model{simulate.ModelBasic, simulate.ModelDetailed} {
		t.Run(string(model), func(t *testing.T) {
			p := simulate.DefaultParams()
			p.Model = model
			gen := newGenerator(t, p)

			readings, err := gen.GenerateHourlyProduction(testRequest())
			require.NoError(t, err)

			for _, hour := range []int{0, 1, 2, 3, 4, 5, 18, 19, 20, 21, 22, 23} {
				assert.Zero(t, readings[hour].PowerKW, "hour %d", hour)
			}
		})
	}
}

func TestGenerateHourlyProduction_NoonPeak(t *testing.T) {
	p := simulate.DefaultParams()
	p.Model = simulate.ModelBasic
	gen := newGenerator(t, p)

	readings, err := gen.GenerateHourlyProduction(testRequest())
	require.NoError(t, err)

	assert.Zero(t, readings[0].PowerKW)
	assert.Positive(t, readings[12].PowerKW)
	for hour := 0; hour < 24; hour++ {
		if hour == 12 {
			continue
		}
		assert.LessOrEqual(t, readings[hour].PowerKW, readings[12].PowerKW, "hour %d", hour)
	}
}

func TestGenerateHourlyProduction_DeterministicUnderSeed(t *testing.T) {
	p := simulate.DefaultParams()

	genA := newGenerator(t, p)
	genB := newGenerator(t, p)

	a, err := genA.GenerateHourlyProduction(testRequest())
	require.NoError(t, err)
	b, err := genB.GenerateHourlyProduction(testRequest())
	require.NoError(t, err)

	assert.Equal(t, a, b)

	genC, err := simulate.NewGenerator(p, testSeed+1)
	require.NoError(t, err)
	c, err := genC.GenerateHourlyProduction(testRequest())
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestGenerateHourlyProduction_SoilingThread(t *testing.T) {
	gen := newGenerator(t, simulate.DefaultParams())

	readings, err := gen.GenerateHourlyProduction(testRequest())
	require.NoError(t, err)

	for i := 1; i < len(readings); i++ {
		prev, cur := readings[i-1].SoilingDays, readings[i].SoilingDays
		if cur != 0 {
			assert.Equal(t, prev+1, cur, "hour %d", i)
		}
	}
}

func TestGenerateHourlyProduction_UnknownLocation(t *testing.T) {
	gen := newGenerator(t, simulate.DefaultParams())

	req := testRequest()
	req.Location = "LONDON"
	readings, err := gen.GenerateHourlyProduction(req)

	require.ErrorIs(t, err, simulate.ErrUnknownLocation)
	assert.Nil(t, readings)
}

func TestGenerateHourlyProduction_InvalidCapacity(t *testing.T) {
	gen := newGenerator(t, simulate.DefaultParams())

	for _, capacity := range []float64{0, -5} {
		req := testRequest()
		req.CapacityKW = capacity
		readings, err := gen.GenerateHourlyProduction(req)

		require.ErrorIs(t, err, simulate.ErrInvalidCapacity, "capacity %v", capacity)
		assert.Nil(t, readings)
	}
}

func TestGenerateDateRange_EqualsConcatenatedDays(t *testing.T) {
	gen := newGenerator(t, simulate.DefaultParams())
	req := testRequest()

	const days = 3
	ranged, err := gen.GenerateDateRange(req, days)
	require.NoError(t, err)
	require.Len(t, ranged, 24*days)

	var concatenated []simulate.Reading
	for d := 0; d < days; d++ {
		dayReq := req
		dayReq.Date = req.Date.AddDate(0, 0, d)
		daily, err := gen.GenerateHourlyProduction(dayReq)
		require.NoError(t, err)
		concatenated = append(concatenated, daily...)
	}

	assert.Equal(t, concatenated, ranged)
}

func TestGenerateDateRange_InvalidDays(t *testing.T) {
	gen := newGenerator(t, simulate.DefaultParams())

	for _, days := range []int{0, -1} {
		_, err := gen.GenerateDateRange(testRequest(), days)
		assert.Error(t, err, "days %d", days)
	}
}

func TestDailyTotal(t *testing.T) {
	gen := newGenerator(t, simulate.DefaultParams())
	req := testRequest()

	total, err := gen.DailyTotal(req)
	require.NoError(t, err)
	assert.Positive(t, total)

	readings, err := gen.GenerateHourlyProduction(req)
	require.NoError(t, err)
	assert.InDelta(t, simulate.SumEnergyKWh(readings), total, 1e-9)
}

func TestLookupLocation(t *testing.T) {
	profile, err := simulate.LookupLocation("MOMBASA")
	require.NoError(t, err)
	assert.InDelta(t, -4.043477, profile.Latitude, 1e-9)

	_, err = simulate.LookupLocation("mombasa")
	assert.ErrorIs(t, err, simulate.ErrUnknownLocation)
}

func TestLocationNames(t *testing.T) {
	assert.Equal(t, []string{"KISUMU", "MOMBASA", "NAIROBI", "NAKURU"}, simulate.LocationNames())
}
