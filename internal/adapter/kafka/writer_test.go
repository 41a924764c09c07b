package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asiligreen/solar-sim/internal/simulate"
)

func TestSerializeReading(t *testing.T) {
	id := uuid.MustParse("3e1f8a90-0b6c-4c43-90d4-1f2b7a9e5c11")
	reading := simulate.Reading{
		Timestamp:      time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC),
		PowerKW:        7.42,
		Weather:        simulate.Sunny,
		SolarElevation: 88.1,
		CellTempC:      41.43,
		SoilingDays:    3,
	}

	msg, err := serializeReading(id, reading)
	require.NoError(t, err)

	assert.Equal(t, []byte(id.String()), msg.Key)
	assert.Equal(t, reading.Timestamp, msg.Time)

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "sunny", headers["weather"])
	assert.Equal(t, "2024-06-15T12:00:00Z", headers["timestamp"])

	var decoded readingMessage
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, id.String(), decoded.InstallationID)
	assert.Equal(t, "2024-06-15T12:00:00Z", decoded.Timestamp)
	assert.InDelta(t, 7.42, decoded.PowerKW, 1e-9)
	assert.Equal(t, "sunny", decoded.Weather)
	assert.InDelta(t, 88.1, decoded.SolarElevation, 1e-9)
	assert.InDelta(t, 41.43, decoded.CellTempC, 1e-9)
	assert.Equal(t, 3, decoded.SoilingDays)
}
