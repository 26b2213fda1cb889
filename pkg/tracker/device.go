package tracker

import (
	"liyu1981.xyz/medical-device-tracker/pkg/common"
	"liyu1981.xyz/medical-device-tracker/pkg/models"
)

const kindDevice = "device"

type deviceIntent struct{}

func (deviceIntent) Category() string { return common.LoggerCategoryDevice }

type AddDevice struct {
	deviceIntent
	Device models.Device
}

func (AddDevice) Name() string { return "addDevice" }

func (a AddDevice) Apply(state models.State, env Env) (models.State, error) {
	d := a.Device
	if d.Status == "" {
		d.Status = models.DeviceStatusOnline
	}
	if err := ValidateDevice(d); err != nil {
		return state, err
	}
	now := env.timestamp()
	d.ID = env.NewID()
	d.CreatedAt = now
	d.UpdatedAt = now
	state.Devices = appendCopy(state.Devices, d)
	return state, nil
}

// UpdateDevice replaces every editable field of the device with ID.
type UpdateDevice struct {
	deviceIntent
	ID     string
	Device models.Device
}

func (UpdateDevice) Name() string { return "updateDevice" }

func (u UpdateDevice) Apply(state models.State, env Env) (models.State, error) {
	devices, err := modify(state.Devices, kindDevice, u.ID, func(old models.Device) (models.Device, error) {
		d := u.Device
		d.ID = old.ID
		d.CreatedAt = old.CreatedAt
		if d.Status == "" {
			d.Status = old.Status
		}
		if err := ValidateDevice(d); err != nil {
			return old, err
		}
		d.UpdatedAt = env.timestamp()
		return d, nil
	})
	if err != nil {
		return state, err
	}
	state.Devices = devices
	return state, nil
}

type DeleteDevice struct {
	deviceIntent
	ID string
}

func (DeleteDevice) Name() string { return "deleteDevice" }

func (d DeleteDevice) Apply(state models.State, _ Env) (models.State, error) {
	devices, err := remove(state.Devices, kindDevice, d.ID)
	if err != nil {
		return state, err
	}
	state.Devices = devices
	return state, nil
}

type SetDeviceStatus struct {
	deviceIntent
	ID     string
	Status models.DeviceStatus
}

func (SetDeviceStatus) Name() string { return "updateDeviceStatus" }

func (s SetDeviceStatus) Apply(state models.State, env Env) (models.State, error) {
	switch s.Status {
	case models.DeviceStatusOnline, models.DeviceStatusOffline, models.DeviceStatusMaintenance:
	default:
		return state, invalid("status", "Status must be one of: Online Offline Maintenance")
	}
	devices, err := modify(state.Devices, kindDevice, s.ID, func(d models.Device) (models.Device, error) {
		d.Status = s.Status
		d.UpdatedAt = env.timestamp()
		return d, nil
	})
	if err != nil {
		return state, err
	}
	state.Devices = devices
	return state, nil
}

type SetBatteryLevel struct {
	deviceIntent
	ID           string
	BatteryLevel int
}

func (SetBatteryLevel) Name() string { return "updateBatteryLevel" }

func (s SetBatteryLevel) Apply(state models.State, env Env) (models.State, error) {
	if s.BatteryLevel < 0 || s.BatteryLevel > 100 {
		return state, invalid("batteryLevel", "Battery level must be between 0 and 100")
	}
	devices, err := modify(state.Devices, kindDevice, s.ID, func(d models.Device) (models.Device, error) {
		d.BatteryLevel = s.BatteryLevel
		d.UpdatedAt = env.timestamp()
		return d, nil
	})
	if err != nil {
		return state, err
	}
	state.Devices = devices
	return state, nil
}

func FindDevice(state models.State, id string) (models.Device, bool) {
	return find(state.Devices, id)
}

// FindDeviceByDeviceID resolves a scanned QR code to its device.
func FindDeviceByDeviceID(state models.State, deviceID string) (models.Device, bool) {
	for _, d := range state.Devices {
		if d.DeviceID == deviceID {
			return d, true
		}
	}
	return models.Device{}, false
}

// DeviceFilter.Facility matches the facility name.
type DeviceFilter struct {
	Search   string
	Status   string
	Facility string
}

func FilterDevices(devices []models.Device, f DeviceFilter) []models.Device {
	return common.Filter(devices, func(d models.Device) bool {
		return matchesSearch(f.Search, d.DeviceID, d.Type, d.FacilityName) &&
			matchesCategory(f.Status, d.Status) &&
			matchesCategory(f.Facility, d.FacilityName)
	})
}
