package tracker

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"liyu1981.xyz/medical-device-tracker/pkg/models"
)

var testNow = time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)

func testEnv() Env {
	n := 0
	return Env{
		Now: func() time.Time { return testNow },
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	}
}

func daysFromNow(days int) string {
	return models.FormatDate(testNow.AddDate(0, 0, days))
}

func apply(t *testing.T, state models.State, intents ...Intent) models.State {
	t.Helper()
	env := testEnv()
	for _, intent := range intents {
		var err error
		state, err = intent.Apply(state, env)
		require.NoError(t, err, intent.Name())
	}
	return state
}

func validDevice() models.Device {
	return models.Device{
		DeviceID:     "MD-001",
		Type:         "Ventilator",
		Model:        "VentMax Pro",
		SerialNumber: "VM2024001",
		FacilityID:   "FAC-001",
		FacilityName: "City General Hospital",
		Status:       models.DeviceStatusOnline,
		BatteryLevel: 85,
		Location:     "ICU Ward 3",
		Manufacturer: "MedTech Solutions",
	}
}

func validInstallation() models.Installation {
	return models.Installation{
		DeviceID:         "MD-001",
		DeviceType:       "Ventilator",
		FacilityName:     "City General Hospital",
		InstallationDate: "2024-06-01",
		EngineerID:       "ENG-001",
		EngineerName:     "John Smith",
	}
}

func validVisit() models.ServiceVisit {
	return models.ServiceVisit{
		DeviceID:     "MD-001",
		DeviceType:   "Ventilator",
		FacilityName: "City General Hospital",
		VisitDate:    "2024-06-10",
		EngineerID:   "ENG-001",
		EngineerName: "John Smith",
		Purpose:      models.VisitPurposePreventive,
		Description:  "Quarterly preventive maintenance",
	}
}

func validContract(endDate string) models.Contract {
	return models.Contract{
		ContractNumber: "AMC-2024-001",
		Type:           models.ContractTypeAMC,
		DeviceID:       "MD-001",
		DeviceType:     "Ventilator",
		FacilityName:   "City General Hospital",
		StartDate:      "2024-01-01",
		EndDate:        endDate,
		Value:          15000,
		ContactPerson:  "Dr. Sarah Johnson",
		ContactEmail:   "sarah.johnson@cityhospital.com",
		ContactPhone:   "+1-555-0123",
		Vendor:         "MedTech Solutions",
	}
}

func validPhotoLog() models.PhotoLog {
	return models.PhotoLog{
		DeviceID:     "MD-001",
		FacilityName: "City General Hospital",
		Filename:     "ventilator_front.jpg",
		Description:  "Front panel after cleaning",
		Category:     models.PhotoCategoryConditionCheck,
		Tags:         []string{"front-panel"},
	}
}

func validFacility(name string) models.Facility {
	return models.Facility{
		Name: name,
		Type: "Hospital",
		Address: models.Address{
			Street:  "123 Main St",
			City:    "Springfield",
			ZipCode: "12345",
		},
		ContactInfo: models.ContactInfo{Phone: "+1 (555) 010-0100", Email: "info@cgh.example"},
	}
}

func alertLevel(l models.AlertLevel) *models.AlertLevel {
	return &l
}
