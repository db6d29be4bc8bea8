package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterconnectorFlows_UnmarshalEmbeddedString(t *testing.T) {
	payload := `"[{\"name\":\"N-Q-MNSP1\",\"value\":12.3,\"exportlimit\":107,\"importlimit\":-210}]"`

	var flows InterconnectorFlows
	require.NoError(t, json.Unmarshal([]byte(payload), &flows))

	require.Len(t, flows, 1)
	assert.Equal(t, "N-Q-MNSP1", flows[0].Name)
	assert.Equal(t, 12.3, flows[0].Value)
	assert.Equal(t, 107.0, flows[0].ExportLimit)
	assert.Equal(t, -210.0, flows[0].ImportLimit)
}

func TestInterconnectorFlows_UnmarshalDirectArray(t *testing.T) {
	payload := `[{"name":"VIC1-NSW1","value":-400.5,"exportlimit":1600,"importlimit":-1350}]`

	var flows InterconnectorFlows
	require.NoError(t, json.Unmarshal([]byte(payload), &flows))

	require.Len(t, flows, 1)
	assert.Equal(t, "VIC1-NSW1", flows[0].Name)
}

func TestInterconnectorFlows_UnmarshalEmptyString(t *testing.T) {
	var flows InterconnectorFlows
	require.NoError(t, json.Unmarshal([]byte(`""`), &flows))
	assert.Empty(t, flows)
}

func TestInterconnectorFlows_UnmarshalMalformedEmbedded(t *testing.T) {
	var flows InterconnectorFlows
	assert.Error(t, json.Unmarshal([]byte(`"not an array"`), &flows))
}

func TestNemSummaryRecord_DecodesFlagsAndFlows(t *testing.T) {
	payload := `{
		"REGIONID": "SA1",
		"SETTLEMENTDATE": "2026-08-30T10:10:00",
		"TOTALDEMAND": 1412.5,
		"MARKETSUSPENDEDFLAG": 1,
		"APCFLAG": 0,
		"INTERCONNECTORFLOWS": "[{\"name\":\"V-SA\",\"value\":82.1,\"exportlimit\":600,\"importlimit\":-500}]"
	}`

	var record NemSummaryRecord
	require.NoError(t, json.Unmarshal([]byte(payload), &record))

	assert.Equal(t, "SA1", record.RegionID)
	assert.Equal(t, 1, record.MarketSuspendedFlag)
	assert.Equal(t, 0, record.ApcFlag)
	require.Len(t, record.InterconnectorFlows, 1)
	assert.Equal(t, "V-SA", record.InterconnectorFlows[0].Name)
}

func TestTextFields_HasSlug(t *testing.T) {
	assert.True(t, TextSensors.HasSlug("apc_flag"))
	assert.True(t, TextSensors.HasSlug("settlement_date"))
	assert.False(t, TextSensors.HasSlug("total_demand"))
}
