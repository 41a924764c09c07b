package simulate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParams_Validate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())
	assert.Equal(t, ModelDetailed, DefaultParams().Model)
}

func TestParams_Validate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"unknown model", func(p *Params) { p.Model = "cubic" }},
		{"zero system efficiency", func(p *Params) { p.SystemEfficiency = 0 }},
		{"efficiency above one", func(p *Params) { p.SystemEfficiency = 1.2 }},
		{"negative degradation", func(p *Params) { p.DegradationPerYear = -0.1 }},
		{"negative temp coefficient", func(p *Params) { p.TempCoefficient = -1 }},
		{"zero temp spread", func(p *Params) { p.TempSpreadHours = 0 }},
		{"negative soiling", func(p *Params) { p.SoilingLossPerDay = -0.01 }},
		{"zero maintenance interval", func(p *Params) { p.MaintenanceIntervalHours = 0 }},
		{"outage probability above one", func(p *Params) { p.FullOutageProb = 1.5 }},
		{"negative partial probability", func(p *Params) { p.PartialFaultProb = -0.1 }},
		{"inverted derate range", func(p *Params) { p.PartialDerateMin = 0.9; p.PartialDerateMax = 0.5 }},
		{"zero curtailment interval", func(p *Params) { p.CurtailmentIntervalHours = 0 }},
		{"curtailment factor above one", func(p *Params) { p.CurtailmentFactor = 1.1 }},
		{"negative noise sigma", func(p *Params) { p.NoiseSigma = -0.01 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			assert.Error(t, p.Validate())
		})
	}
}
