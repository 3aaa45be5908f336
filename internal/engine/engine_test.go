package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tonhe/vigil/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testServers() []config.ServerConfig {
	return []config.ServerConfig{
		{
			Name:            "API",
			Kind:            config.KindHTTP,
			MetricsEndpoint: "http://127.0.0.1:1/metrics", // nothing listens here
			PollEverySec:    1,
		},
		{
			Name:         "Cache",
			Kind:         config.KindRedis,
			Host:         "127.0.0.1",
			Port:         1,
			PollEverySec: 1,
		},
	}
}

func TestEngineSeedsWaitingSnapshots(t *testing.T) {
	e, err := New(testServers(), nil)
	require.NoError(t, err)
	defer e.Stop()

	state := e.Snapshot()
	require.Len(t, state.Servers, 2)
	assert.Equal(t, "API", state.Servers[0].Name)
	assert.Equal(t, "Cache", state.Servers[1].Name)
	for _, s := range state.Servers {
		assert.True(t, s.Waiting)
		assert.False(t, s.HadError)
	}
}

func TestEngineStartPollsAndStopsCleanly(t *testing.T) {
	e, err := New(testServers(), nil)
	require.NoError(t, err)

	e.Start()
	// Both endpoints are dead, so the first polls come back as errors.
	require.Eventually(t, func() bool {
		state := e.Snapshot()
		for _, s := range state.Servers {
			if s.Waiting {
				return false
			}
		}
		return true
	}, 5*time.Second, 10*time.Millisecond)

	state := e.Snapshot()
	for _, s := range state.Servers {
		assert.NotEmpty(t, s.Err)
		assert.True(t, s.HadError)
	}
	assert.Greater(t, e.TotalPolls(), int64(0))

	// Stop waits for loops to exit; goleak verifies nothing lingers.
	e.Stop()
}

func TestEngineClearWarnings(t *testing.T) {
	e, err := New(testServers(), nil)
	require.NoError(t, err)

	e.Start()
	require.Eventually(t, func() bool {
		state := e.Snapshot()
		for _, s := range state.Servers {
			if !s.HadError {
				return false
			}
		}
		return true
	}, 5*time.Second, 10*time.Millisecond)
	e.Stop()

	e.ClearWarnings()
	for _, s := range e.Snapshot().Servers {
		assert.False(t, s.HadError)
	}
}

func TestEngineUnknownKindFails(t *testing.T) {
	_, err := New([]config.ServerConfig{{Name: "x", Kind: "mongodb"}}, nil)
	assert.Error(t, err)
}

func TestEngineSetLanIP(t *testing.T) {
	e, err := New(nil, nil)
	require.NoError(t, err)
	e.SetLanIP("192.168.1.10")
	assert.Equal(t, "192.168.1.10", e.Snapshot().LanIP)
}
