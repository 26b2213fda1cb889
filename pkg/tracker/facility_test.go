package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"liyu1981.xyz/medical-device-tracker/pkg/models"
)

func TestAddFacilityNumbering(t *testing.T) {
	state := apply(t, models.EmptyState(),
		AddFacility{Facility: validFacility("City General Hospital")},
		AddFacility{Facility: validFacility("Regional Medical Center")},
	)
	assert.Equal(t, "FAC-001", state.Facilities[0].ID)
	assert.Equal(t, "FAC-002", state.Facilities[1].ID)
	assert.Equal(t, models.FacilityStatusActive, state.Facilities[1].Status)
	assert.Zero(t, state.Facilities[1].DeviceCount)

	// ids stay unique after a delete
	state = apply(t, state,
		DeleteFacility{ID: "FAC-001"},
		AddFacility{Facility: validFacility("Community Clinic")},
	)
	assert.Equal(t, []string{"FAC-002", "FAC-003"}, []string{state.Facilities[0].ID, state.Facilities[1].ID})
}

func TestAddFacilityValidation(t *testing.T) {
	f := validFacility("")
	f.Address.City = ""
	f.ContactInfo.Email = "bad"
	f.ContactInfo.Phone = "abc"
	f.PrimaryContact.Email = "also bad"

	_, err := AddFacility{Facility: f}.Apply(models.EmptyState(), testEnv())

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{
		"name":                 "Name is required",
		"address.city":         "City is required",
		"contactInfo.email":    "Invalid email address",
		"contactInfo.phone":    "Invalid phone number",
		"primaryContact.email": "Invalid primary contact email",
	}, verr.Fields)
}

func TestFacilityIntents(t *testing.T) {
	state := apply(t, models.EmptyState(),
		AddFacility{Facility: validFacility("City General Hospital")},
		SetFacilityDeviceCount{FacilityID: "FAC-001", Count: 12},
		SetFacilityLastVisit{FacilityID: "FAC-001", VisitDate: "2024-06-10"},
		AddFacilityDepartment{FacilityID: "FAC-001", Department: "ICU"},
		AddFacilityDepartment{FacilityID: "FAC-001", Department: "ICU"},
		AddFacilityDepartment{FacilityID: "FAC-001", Department: "Radiology"},
		RemoveFacilityDepartment{FacilityID: "FAC-001", Department: "ICU"},
		SetFacilityStatus{FacilityID: "FAC-001", Status: models.FacilityStatusInactive},
	)

	f := state.Facilities[0]
	assert.Equal(t, 12, f.DeviceCount)
	assert.Equal(t, "2024-06-10", *f.LastVisitDate)
	assert.Equal(t, []string{"Radiology"}, f.Departments)
	assert.Equal(t, models.FacilityStatusInactive, f.Status)
	assert.Empty(t, ActiveFacilities(state))

	edit := validFacility("City General")
	state = apply(t, state, UpdateFacility{ID: "FAC-001", Facility: edit})
	f = state.Facilities[0]
	assert.Equal(t, "City General", f.Name)
	assert.Equal(t, 12, f.DeviceCount, "update leaves the device count alone")
	assert.Equal(t, models.FacilityStatusInactive, f.Status)
	assert.Equal(t, []string{"Radiology"}, f.Departments)

	_, err := SetFacilityStatus{FacilityID: "FAC-001", Status: "Closed"}.Apply(state, testEnv())
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = SetFacilityDeviceCount{FacilityID: "FAC-404", Count: 1}.Apply(state, testEnv())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFacilitySelectors(t *testing.T) {
	state := models.EmptyState()
	state.Facilities = []models.Facility{
		{ID: "FAC-001", Name: "City General Hospital", Type: "Hospital", Status: models.FacilityStatusActive, Address: models.Address{City: "Springfield"}, ContractEndDate: models.StringPtr(daysFromNow(-1))},
		{ID: "FAC-002", Name: "Regional Medical Center", Type: "Hospital", Status: models.FacilityStatusInactive, Address: models.Address{City: "Shelbyville"}, ContractEndDate: models.StringPtr(daysFromNow(20))},
		{ID: "FAC-003", Name: "Community Clinic", Type: "Clinic", Status: models.FacilityStatusActive, Address: models.Address{City: "Springfield"}},
	}

	assert.Len(t, ActiveFacilities(state), 2)
	assert.Len(t, FacilitiesByType(state, "Hospital"), 2)

	expired := FacilitiesWithExpiredContracts(state, testNow)
	require.Len(t, expired, 1)
	assert.Equal(t, "FAC-001", expired[0].ID)

	expiring := FacilitiesWithExpiringContracts(state, testNow, 30)
	require.Len(t, expiring, 1)
	assert.Equal(t, "FAC-002", expiring[0].ID)

	assert.Len(t, FilterFacilities(state.Facilities, FacilityFilter{Search: "springfield"}), 2)
	assert.Len(t, FilterFacilities(state.Facilities, FacilityFilter{Search: "springfield", Status: "Active", Type: "Clinic"}), 1)

	f, ok := FindFacility(state, "FAC-003")
	require.True(t, ok)
	assert.Equal(t, "Community Clinic", f.Name)
}
