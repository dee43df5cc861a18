// internal/writer/builder_test.go
package writer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfg "github.com/tamzrod/pd-replicator/internal/config"
)

func u8(v uint8) *uint8    { return &v }
func u16(v uint16) *uint16 { return &v }

func TestBuildPlan(t *testing.T) {
	u := cfg.UnitConfig{
		ID: "pd-1",
		Source: cfg.SourceConfig{
			StatusSlot: u16(4),
			DeviceName: "BENCH",
		},
		Targets: []cfg.TargetConfig{
			{ID: 1, Endpoint: "10.0.0.1:502", UnitID: 1, TelemetryAddress: 200, FlagsAddress: 16, StatusUnitID: u8(250)},
			{ID: 2, Endpoint: "10.0.0.2:9000", UnitID: 3},
		},
	}

	plan, err := BuildPlan(u)
	require.NoError(t, err)

	assert.Equal(t, "pd-1", plan.UnitID)
	require.Len(t, plan.Targets, 2)
	assert.Equal(t, uint16(200), plan.Targets[0].TelemetryAddress)
	assert.Equal(t, uint16(16), plan.Targets[0].FlagsAddress)

	require.Len(t, plan.Status, 1)
	assert.Equal(t, StatusPlan{
		Endpoint:   "10.0.0.1:502",
		UnitID:     250,
		BaseSlot:   4,
		DeviceName: "BENCH",
	}, plan.Status[0])
}

func TestBuildPlanWithoutStatusSlot(t *testing.T) {
	plan, err := BuildPlan(cfg.UnitConfig{
		ID:      "pd-1",
		Targets: []cfg.TargetConfig{{Endpoint: "a", StatusUnitID: u8(1)}},
	})
	require.NoError(t, err)
	assert.Empty(t, plan.Status)
}

func TestBuildPlanRequiresID(t *testing.T) {
	_, err := BuildPlan(cfg.UnitConfig{})
	assert.Error(t, err)
}

func TestBuildEndpointClientsIngestSharesEndpoint(t *testing.T) {
	u := cfg.UnitConfig{
		ID: "pd-1",
		Targets: []cfg.TargetConfig{
			{Endpoint: "127.0.0.1:9000", Protocol: cfg.ProtocolIngest},
			{Endpoint: "127.0.0.1:9000", Protocol: cfg.ProtocolIngest, UnitID: 2},
		},
	}

	clients, closeAll, err := BuildEndpointClients(u)
	require.NoError(t, err)
	defer closeAll()

	assert.Len(t, clients, 1)
}
