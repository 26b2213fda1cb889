package tracker

import (
	"math"
	"slices"

	"liyu1981.xyz/medical-device-tracker/pkg/common"
	"liyu1981.xyz/medical-device-tracker/pkg/models"
)

type Activity struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Facility    string `json:"facility"`
	Status      string `json:"status"`
}

type Summary struct {
	TotalDevices         int                         `json:"totalDevices"`
	DeviceStatusCounts   map[models.DeviceStatus]int `json:"deviceStatusCounts"`
	AverageBatteryLevel  int                         `json:"averageBatteryLevel"`
	TotalInstallations   int                         `json:"totalInstallations"`
	PendingInstallations int                         `json:"pendingInstallations"`
	TotalServiceVisits   int                         `json:"totalServiceVisits"`
	PendingServiceVisits int                         `json:"pendingServiceVisits"`
	TotalContracts       int                         `json:"totalContracts"`
	ExpiringContracts    int                         `json:"expiringContracts"`
	ExpiredContracts     int                         `json:"expiredContracts"`
	AlertPhotos          int                         `json:"alertPhotos"`
	RecentActivities     []Activity                  `json:"recentActivities"`
}

const (
	recentVisits        = 3
	recentInstallations = 2
)

func orDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

// recentActivities merges the first visits and installations and orders
// them newest first.
func recentActivities(state models.State) []Activity {
	visits := state.ServiceVisits[:min(recentVisits, len(state.ServiceVisits))]
	installations := state.Installations[:min(recentInstallations, len(state.Installations))]

	activities := common.Mapper(visits, func(v models.ServiceVisit) Activity {
		return Activity{
			Type:        "Service Visit",
			Description: orDefault(string(v.Purpose), "Unknown") + " maintenance on " + orDefault(v.DeviceType, "Unknown Device"),
			Date:        v.VisitDate,
			Facility:    orDefault(v.FacilityName, "Unknown Facility"),
			Status:      string(v.Status),
		}
	})
	activities = append(activities, common.Mapper(installations, func(i models.Installation) Activity {
		return Activity{
			Type:        "Installation",
			Description: orDefault(i.DeviceType, "Unknown Device") + " installation",
			Date:        i.InstallationDate,
			Facility:    orDefault(i.FacilityName, "Unknown Facility"),
			Status:      string(i.Status),
		}
	})...)

	slices.SortStableFunc(activities, func(a, b Activity) int {
		ta, _ := models.ParseDate(a.Date)
		tb, _ := models.ParseDate(b.Date)
		return tb.Compare(ta)
	})
	return activities
}

func Dashboard(state models.State) Summary {
	counts := common.Reducer(state.Devices, func(acc map[models.DeviceStatus]int, d models.Device) map[models.DeviceStatus]int {
		acc[d.Status]++
		return acc
	}, map[models.DeviceStatus]int{})

	avgBattery := 0
	if n := len(state.Devices); n > 0 {
		sum := common.Reducer(state.Devices, func(acc int, d models.Device) int { return acc + d.BatteryLevel }, 0)
		avgBattery = int(math.Round(float64(sum) / float64(n)))
	}

	return Summary{
		TotalDevices:         len(state.Devices),
		DeviceStatusCounts:   counts,
		AverageBatteryLevel:  avgBattery,
		TotalInstallations:   len(state.Installations),
		PendingInstallations: len(PendingInstallations(state)),
		TotalServiceVisits:   len(state.ServiceVisits),
		PendingServiceVisits: len(PendingServiceVisits(state)),
		TotalContracts:       len(state.Contracts),
		ExpiringContracts:    len(ContractsByStatus(state, models.ContractStatusExpiringSoon)),
		ExpiredContracts:     len(ContractsByStatus(state, models.ContractStatusExpired)),
		AlertPhotos:          len(AlertPhotoLogs(state)),
		RecentActivities:     recentActivities(state),
	}
}
