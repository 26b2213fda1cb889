package tracker

import (
	"time"

	"liyu1981.xyz/medical-device-tracker/pkg/common"
	"liyu1981.xyz/medical-device-tracker/pkg/models"
)

const (
	kindContract = "contract"

	// ExpiringSoonDays is the last day count still classified Expiring Soon.
	ExpiringSoonDays = 30
)

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysUntil is the whole number of calendar days from today to endDate,
// negative once endDate has passed.
func DaysUntil(endDate string, today time.Time) (int, bool) {
	end, err := models.ParseDate(endDate)
	if err != nil {
		return 0, false
	}
	diff := calendarDay(end).Sub(calendarDay(today))
	return int(diff / (24 * time.Hour)), true
}

// ClassifyContract maps an end date to its status. ok is false when the end
// date cannot be parsed.
func ClassifyContract(endDate string, today time.Time) (models.ContractStatus, bool) {
	days, ok := DaysUntil(endDate, today)
	if !ok {
		return "", false
	}
	switch {
	case days < 0:
		return models.ContractStatusExpired, true
	case days <= ExpiringSoonDays:
		return models.ContractStatusExpiringSoon, true
	default:
		return models.ContractStatusActive, true
	}
}

type contractIntent struct{}

func (contractIntent) Category() string { return common.LoggerCategoryContract }

func modifyContract(state models.State, id string, fn func(models.Contract) (models.Contract, error)) (models.State, error) {
	contracts, err := modify(state.Contracts, kindContract, id, fn)
	if err != nil {
		return state, err
	}
	state.Contracts = contracts
	return state, nil
}

type AddContract struct {
	contractIntent
	Contract models.Contract
}

func (AddContract) Name() string { return "addContract" }

func (a AddContract) Apply(state models.State, env Env) (models.State, error) {
	c := a.Contract
	if err := ValidateContract(c); err != nil {
		return state, err
	}
	now := env.timestamp()
	c.ID = env.NewID()
	c.Status, _ = ClassifyContract(c.EndDate, env.Now())
	c.RenewalNotified = false
	c.Documents = []models.Attachment{}
	if c.Currency == "" {
		c.Currency = "USD"
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	state.Contracts = appendCopy(state.Contracts, c)
	return state, nil
}

// UpdateContract edits a contract and reclassifies it against the new end
// date. Documents and the renewal flag are left alone.
type UpdateContract struct {
	contractIntent
	ID       string
	Contract models.Contract
}

func (UpdateContract) Name() string { return "updateContract" }

func (u UpdateContract) Apply(state models.State, env Env) (models.State, error) {
	return modifyContract(state, u.ID, func(old models.Contract) (models.Contract, error) {
		c := u.Contract
		c.ID = old.ID
		c.Documents = old.Documents
		c.RenewalNotified = old.RenewalNotified
		c.CreatedAt = old.CreatedAt
		if c.Currency == "" {
			c.Currency = old.Currency
		}
		if err := ValidateContract(c); err != nil {
			return old, err
		}
		c.Status, _ = ClassifyContract(c.EndDate, env.Now())
		c.UpdatedAt = env.timestamp()
		return c, nil
	})
}

// RenewContract moves the end date out and forces the contract back to
// Active. The new end date is not checked against today.
type RenewContract struct {
	contractIntent
	ID         string
	NewEndDate string
	NewValue   *float64
}

func (RenewContract) Name() string { return "renewContract" }

func (r RenewContract) Apply(state models.State, env Env) (models.State, error) {
	if _, err := models.ParseDate(r.NewEndDate); err != nil {
		return state, invalid("newEndDate", "Invalid end date")
	}
	return modifyContract(state, r.ID, func(c models.Contract) (models.Contract, error) {
		c.EndDate = r.NewEndDate
		if r.NewValue != nil && *r.NewValue > 0 {
			c.Value = *r.NewValue
		}
		c.Status = models.ContractStatusActive
		c.RenewalNotified = false
		c.UpdatedAt = env.timestamp()
		return c, nil
	})
}

type MarkRenewalNotified struct {
	contractIntent
	ID string
}

func (MarkRenewalNotified) Name() string { return "markRenewalNotified" }

func (m MarkRenewalNotified) Apply(state models.State, env Env) (models.State, error) {
	return modifyContract(state, m.ID, func(c models.Contract) (models.Contract, error) {
		c.RenewalNotified = true
		c.UpdatedAt = env.timestamp()
		return c, nil
	})
}

type AddContractDocument struct {
	contractIntent
	ContractID string
	Document   models.Attachment
}

func (AddContractDocument) Name() string { return "addContractDocument" }

func (a AddContractDocument) Apply(state models.State, env Env) (models.State, error) {
	if a.Document.Filename == "" {
		return state, invalid("filename", "Filename is required")
	}
	return modifyContract(state, a.ContractID, func(c models.Contract) (models.Contract, error) {
		now := env.timestamp()
		doc := a.Document
		doc.ID = env.NewID()
		doc.UploadDate = now
		c.Documents = appendCopy(c.Documents, doc)
		c.UpdatedAt = now
		return c, nil
	})
}

type RemoveContractDocument struct {
	contractIntent
	ContractID string
	DocumentID string
}

func (RemoveContractDocument) Name() string { return "removeContractDocument" }

func (r RemoveContractDocument) Apply(state models.State, env Env) (models.State, error) {
	return modifyContract(state, r.ContractID, func(c models.Contract) (models.Contract, error) {
		docs, err := remove(c.Documents, "document", r.DocumentID)
		if err != nil {
			return c, err
		}
		c.Documents = docs
		c.UpdatedAt = env.timestamp()
		return c, nil
	})
}

type DeleteContract struct {
	contractIntent
	ID string
}

func (DeleteContract) Name() string { return "deleteContract" }

func (d DeleteContract) Apply(state models.State, _ Env) (models.State, error) {
	contracts, err := remove(state.Contracts, kindContract, d.ID)
	if err != nil {
		return state, err
	}
	state.Contracts = contracts
	return state, nil
}

// RefreshContractStatuses reclassifies every contract against today. Only
// the status field is written, and contracts with an unreadable end date
// keep the status they have.
type RefreshContractStatuses struct {
	contractIntent
}

func (RefreshContractStatuses) Name() string { return "updateContractStatuses" }

func (RefreshContractStatuses) Apply(state models.State, env Env) (models.State, error) {
	today := env.Now()
	contracts := make([]models.Contract, len(state.Contracts))
	for i, c := range state.Contracts {
		if status, ok := ClassifyContract(c.EndDate, today); ok {
			c.Status = status
		}
		contracts[i] = c
	}
	state.Contracts = contracts
	return state, nil
}

func FindContract(state models.State, id string) (models.Contract, bool) {
	return find(state.Contracts, id)
}

func ContractsByDevice(state models.State, deviceID string) []models.Contract {
	return common.Filter(state.Contracts, func(c models.Contract) bool {
		return c.DeviceID == deviceID
	})
}

func ContractsByStatus(state models.State, status models.ContractStatus) []models.Contract {
	return common.Filter(state.Contracts, func(c models.Contract) bool {
		return c.Status == status
	})
}

func ContractsByType(state models.State, contractType models.ContractType) []models.Contract {
	return common.Filter(state.Contracts, func(c models.Contract) bool {
		return c.Type == contractType
	})
}

// ContractsNeedingRenewal returns expiring or expired contracts nobody has
// been notified about yet.
func ContractsNeedingRenewal(state models.State) []models.Contract {
	return common.Filter(state.Contracts, func(c models.Contract) bool {
		return (c.Status == models.ContractStatusExpiringSoon || c.Status == models.ContractStatusExpired) &&
			!c.RenewalNotified
	})
}

type ContractFilter struct {
	Search string
	Status string
	Type   string
}

func FilterContracts(contracts []models.Contract, f ContractFilter) []models.Contract {
	return common.Filter(contracts, func(c models.Contract) bool {
		return matchesSearch(f.Search, c.ContractNumber, c.DeviceID, c.DeviceType, c.FacilityName, c.Vendor) &&
			matchesCategory(f.Status, c.Status) &&
			matchesCategory(f.Type, c.Type)
	})
}
