package store

import (
	"github.com/goccy/go-json"
	"liyu1981.xyz/medical-device-tracker/pkg/models"
)

func Encode(state *models.State) ([]byte, error) {
	return json.Marshal(state)
}

// Decode reads a snapshot and fills in any collection the payload left out.
func Decode(payload []byte) (*models.State, error) {
	state := models.EmptyState()
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, err
	}
	empty := models.EmptyState()
	if state.Devices == nil {
		state.Devices = empty.Devices
	}
	if state.Installations == nil {
		state.Installations = empty.Installations
	}
	if state.ServiceVisits == nil {
		state.ServiceVisits = empty.ServiceVisits
	}
	if state.Contracts == nil {
		state.Contracts = empty.Contracts
	}
	if state.PhotoLogs == nil {
		state.PhotoLogs = empty.PhotoLogs
	}
	if state.Facilities == nil {
		state.Facilities = empty.Facilities
	}
	return &state, nil
}
