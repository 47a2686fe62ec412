package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-tracker/pkg/config"
)

func TestSetup_SinEndpointNoHaceNada(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.TelemetryConfig{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestGRPCTarget_ParseaEndpoint(t *testing.T) {
	cases := []struct {
		in     string
		target string
		secure bool
	}{
		{"localhost:4317", "localhost:4317", false},
		{"http://collector:4317/v1/traces", "collector:4317", false},
		{"https://collector:4317", "collector:4317", true},
	}
	for _, tc := range cases {
		target, secure, err := grpcTarget(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.target, target, tc.in)
		assert.Equal(t, tc.secure, secure, tc.in)
	}

	_, _, err := grpcTarget("http://")
	assert.Error(t, err)
}
