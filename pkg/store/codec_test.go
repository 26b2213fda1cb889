package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFillsMissingCollections(t *testing.T) {
	state, err := Decode([]byte(`{"devices":[{"id":"d1","deviceId":"MD-001"}]}`))
	require.NoError(t, err)

	assert.Len(t, state.Devices, 1)
	assert.NotNil(t, state.Installations)
	assert.NotNil(t, state.ServiceVisits)
	assert.NotNil(t, state.Contracts)
	assert.NotNil(t, state.PhotoLogs)
	assert.NotNil(t, state.Facilities)
}

func TestEncodeUsesPersistedLayout(t *testing.T) {
	payload, err := Encode(sampleState())
	require.NoError(t, err)

	for _, key := range []string{`"devices"`, `"installations"`, `"serviceVisits"`, `"contracts"`, `"photoLogs"`, `"facilities"`} {
		assert.Contains(t, string(payload), key)
	}
}
