package tracker

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"liyu1981.xyz/medical-device-tracker/pkg/common"
	"liyu1981.xyz/medical-device-tracker/pkg/models"
)

const kindFacility = "facility"

type facilityIntent struct{}

func (facilityIntent) Category() string { return common.LoggerCategoryFacility }

func modifyFacility(state models.State, id string, fn func(models.Facility) (models.Facility, error)) (models.State, error) {
	facilities, err := modify(state.Facilities, kindFacility, id, fn)
	if err != nil {
		return state, err
	}
	state.Facilities = facilities
	return state, nil
}

// nextFacilityID numbers past the highest FAC-NNN in use, so ids stay unique
// after deletes.
func nextFacilityID(facilities []models.Facility) string {
	highest := 0
	for _, f := range facilities {
		n, err := strconv.Atoi(strings.TrimPrefix(f.ID, "FAC-"))
		if err == nil && strings.HasPrefix(f.ID, "FAC-") && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("FAC-%03d", highest+1)
}

type AddFacility struct {
	facilityIntent
	Facility models.Facility
}

func (AddFacility) Name() string { return "addFacility" }

func (a AddFacility) Apply(state models.State, env Env) (models.State, error) {
	f := a.Facility
	if err := ValidateFacility(f); err != nil {
		return state, err
	}
	now := env.timestamp()
	f.ID = nextFacilityID(state.Facilities)
	f.Status = models.FacilityStatusActive
	f.DeviceCount = 0
	f.LastVisitDate = nil
	if f.Departments == nil {
		f.Departments = []string{}
	} else {
		f.Departments = slices.Clone(f.Departments)
	}
	f.CreatedAt = now
	f.UpdatedAt = now
	state.Facilities = appendCopy(state.Facilities, f)
	return state, nil
}

// UpdateFacility edits the facility record. Status, device count and the
// last visit have their own intents.
type UpdateFacility struct {
	facilityIntent
	ID       string
	Facility models.Facility
}

func (UpdateFacility) Name() string { return "updateFacility" }

func (u UpdateFacility) Apply(state models.State, env Env) (models.State, error) {
	return modifyFacility(state, u.ID, func(old models.Facility) (models.Facility, error) {
		f := u.Facility
		f.ID = old.ID
		f.Status = old.Status
		f.DeviceCount = old.DeviceCount
		f.LastVisitDate = old.LastVisitDate
		f.CreatedAt = old.CreatedAt
		if f.Departments == nil {
			f.Departments = old.Departments
		}
		if err := ValidateFacility(f); err != nil {
			return old, err
		}
		f.UpdatedAt = env.timestamp()
		return f, nil
	})
}

// SetFacilityDeviceCount stores the count as given; nothing keeps it in step
// with the device collection.
type SetFacilityDeviceCount struct {
	facilityIntent
	FacilityID string
	Count      int
}

func (SetFacilityDeviceCount) Name() string { return "updateFacilityDeviceCount" }

func (s SetFacilityDeviceCount) Apply(state models.State, env Env) (models.State, error) {
	if s.Count < 0 {
		return state, invalid("count", "Device count must not be negative")
	}
	return modifyFacility(state, s.FacilityID, func(f models.Facility) (models.Facility, error) {
		f.DeviceCount = s.Count
		f.UpdatedAt = env.timestamp()
		return f, nil
	})
}

type SetFacilityLastVisit struct {
	facilityIntent
	FacilityID string
	VisitDate  string
}

func (SetFacilityLastVisit) Name() string { return "updateFacilityLastVisit" }

func (s SetFacilityLastVisit) Apply(state models.State, env Env) (models.State, error) {
	if _, err := models.ParseDate(s.VisitDate); err != nil {
		return state, invalid("visitDate", "Invalid visit date")
	}
	return modifyFacility(state, s.FacilityID, func(f models.Facility) (models.Facility, error) {
		f.LastVisitDate = models.StringPtr(s.VisitDate)
		f.UpdatedAt = env.timestamp()
		return f, nil
	})
}

type SetFacilityStatus struct {
	facilityIntent
	FacilityID string
	Status     models.FacilityStatus
}

func (SetFacilityStatus) Name() string { return "updateFacilityStatus" }

func (s SetFacilityStatus) Apply(state models.State, env Env) (models.State, error) {
	if s.Status != models.FacilityStatusActive && s.Status != models.FacilityStatusInactive {
		return state, invalid("status", "Status must be one of: Active Inactive")
	}
	return modifyFacility(state, s.FacilityID, func(f models.Facility) (models.Facility, error) {
		f.Status = s.Status
		f.UpdatedAt = env.timestamp()
		return f, nil
	})
}

type AddFacilityDepartment struct {
	facilityIntent
	FacilityID string
	Department string
}

func (AddFacilityDepartment) Name() string { return "addFacilityDepartment" }

func (a AddFacilityDepartment) Apply(state models.State, env Env) (models.State, error) {
	dept := strings.TrimSpace(a.Department)
	if dept == "" {
		return state, invalid("department", "Department is required")
	}
	return modifyFacility(state, a.FacilityID, func(f models.Facility) (models.Facility, error) {
		if slices.Contains(f.Departments, dept) {
			return f, nil
		}
		f.Departments = appendCopy(f.Departments, dept)
		f.UpdatedAt = env.timestamp()
		return f, nil
	})
}

type RemoveFacilityDepartment struct {
	facilityIntent
	FacilityID string
	Department string
}

func (RemoveFacilityDepartment) Name() string { return "removeFacilityDepartment" }

func (r RemoveFacilityDepartment) Apply(state models.State, env Env) (models.State, error) {
	return modifyFacility(state, r.FacilityID, func(f models.Facility) (models.Facility, error) {
		f.Departments = common.Filter(f.Departments, func(d string) bool { return d != r.Department })
		f.UpdatedAt = env.timestamp()
		return f, nil
	})
}

type DeleteFacility struct {
	facilityIntent
	ID string
}

func (DeleteFacility) Name() string { return "deleteFacility" }

func (d DeleteFacility) Apply(state models.State, _ Env) (models.State, error) {
	facilities, err := remove(state.Facilities, kindFacility, d.ID)
	if err != nil {
		return state, err
	}
	state.Facilities = facilities
	return state, nil
}

func FindFacility(state models.State, id string) (models.Facility, bool) {
	return find(state.Facilities, id)
}

func ActiveFacilities(state models.State) []models.Facility {
	return common.Filter(state.Facilities, func(f models.Facility) bool {
		return f.Status == models.FacilityStatusActive
	})
}

func FacilitiesByType(state models.State, facilityType string) []models.Facility {
	return common.Filter(state.Facilities, func(f models.Facility) bool {
		return f.Type == facilityType
	})
}

func FacilitiesWithExpiredContracts(state models.State, today time.Time) []models.Facility {
	return common.Filter(state.Facilities, func(f models.Facility) bool {
		if f.ContractEndDate == nil {
			return false
		}
		days, ok := DaysUntil(*f.ContractEndDate, today)
		return ok && days < 0
	})
}

// FacilitiesWithExpiringContracts returns facilities whose contract ends
// within the next daysAhead days, today included.
func FacilitiesWithExpiringContracts(state models.State, today time.Time, daysAhead int) []models.Facility {
	return common.Filter(state.Facilities, func(f models.Facility) bool {
		if f.ContractEndDate == nil {
			return false
		}
		days, ok := DaysUntil(*f.ContractEndDate, today)
		return ok && days >= 0 && days <= daysAhead
	})
}

type FacilityFilter struct {
	Search string
	Status string
	Type   string
}

func FilterFacilities(facilities []models.Facility, f FacilityFilter) []models.Facility {
	return common.Filter(facilities, func(fac models.Facility) bool {
		return matchesSearch(f.Search, fac.Name, fac.Type, fac.Address.City) &&
			matchesCategory(f.Status, fac.Status) &&
			matchesCategory(f.Type, fac.Type)
	})
}
