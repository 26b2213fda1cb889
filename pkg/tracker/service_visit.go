package tracker

import (
	"strconv"
	"strings"

	"liyu1981.xyz/medical-device-tracker/pkg/common"
	"liyu1981.xyz/medical-device-tracker/pkg/models"
)

const kindServiceVisit = "service visit"

type serviceVisitIntent struct{}

func (serviceVisitIntent) Category() string { return common.LoggerCategoryServiceVisit }

// modifyVisit is the shared body of the visit intents that touch one visit.
func modifyVisit(state models.State, id string, fn func(models.ServiceVisit) (models.ServiceVisit, error)) (models.State, error) {
	visits, err := modify(state.ServiceVisits, kindServiceVisit, id, fn)
	if err != nil {
		return state, err
	}
	state.ServiceVisits = visits
	return state, nil
}

type AddServiceVisit struct {
	serviceVisitIntent
	Visit models.ServiceVisit
}

func (AddServiceVisit) Name() string { return "addServiceVisit" }

func (a AddServiceVisit) Apply(state models.State, env Env) (models.State, error) {
	v := a.Visit
	v.Status = models.VisitStatusScheduled
	v.WorkPerformed = []string{}
	v.PartsUsed = []models.Part{}
	v.TimeSpent = 0
	v.Photos = []models.Attachment{}
	v.Attachments = []models.Attachment{}
	v.CustomerSignature = nil
	v.CompletionDate = nil
	if err := ValidateServiceVisit(v); err != nil {
		return state, err
	}
	now := env.timestamp()
	v.ID = env.NewID()
	v.CreatedAt = now
	v.UpdatedAt = now
	state.ServiceVisits = appendCopy(state.ServiceVisits, v)
	return state, nil
}

// UpdateServiceVisit edits a visit. Completion only happens through
// CompleteServiceVisit, and a completed visit keeps its status.
// WorkPerformed and PartsUsed are replaced only when given.
type UpdateServiceVisit struct {
	serviceVisitIntent
	ID    string
	Visit models.ServiceVisit
}

func (UpdateServiceVisit) Name() string { return "updateServiceVisit" }

func (u UpdateServiceVisit) Apply(state models.State, env Env) (models.State, error) {
	return modifyVisit(state, u.ID, func(old models.ServiceVisit) (models.ServiceVisit, error) {
		v := u.Visit
		if v.Status == "" {
			v.Status = old.Status
		}
		if v.Status != old.Status {
			if v.Status == models.VisitStatusCompleted || old.Status == models.VisitStatusCompleted {
				return old, ErrInvalidTransition
			}
		}
		v.ID = old.ID
		if v.WorkPerformed == nil {
			v.WorkPerformed = old.WorkPerformed
		}
		if v.PartsUsed == nil {
			v.PartsUsed = old.PartsUsed
		}
		v.Photos = old.Photos
		v.Attachments = old.Attachments
		v.CustomerSignature = old.CustomerSignature
		v.CompletionDate = old.CompletionDate
		v.CreatedAt = old.CreatedAt
		if err := ValidateServiceVisit(v); err != nil {
			return old, err
		}
		v.UpdatedAt = env.timestamp()
		return v, nil
	})
}

type AddWorkPerformed struct {
	serviceVisitIntent
	VisitID string
	Work    string
}

func (AddWorkPerformed) Name() string { return "addWorkPerformed" }

func (a AddWorkPerformed) Apply(state models.State, env Env) (models.State, error) {
	work := strings.TrimSpace(a.Work)
	if work == "" {
		return state, invalid("work", "Work description is required")
	}
	return modifyVisit(state, a.VisitID, func(v models.ServiceVisit) (models.ServiceVisit, error) {
		v.WorkPerformed = appendCopy(v.WorkPerformed, work)
		v.UpdatedAt = env.timestamp()
		return v, nil
	})
}

type RemoveWorkPerformed struct {
	serviceVisitIntent
	VisitID string
	Index   int
}

func (RemoveWorkPerformed) Name() string { return "removeWorkPerformed" }

func (r RemoveWorkPerformed) Apply(state models.State, env Env) (models.State, error) {
	return modifyVisit(state, r.VisitID, func(v models.ServiceVisit) (models.ServiceVisit, error) {
		work, ok := removeAt(v.WorkPerformed, r.Index)
		if !ok {
			return v, notFound("work entry", strconv.Itoa(r.Index))
		}
		v.WorkPerformed = work
		v.UpdatedAt = env.timestamp()
		return v, nil
	})
}

type AddPartUsed struct {
	serviceVisitIntent
	VisitID string
	Part    models.Part
}

func (AddPartUsed) Name() string { return "addPartUsed" }

func (a AddPartUsed) Apply(state models.State, env Env) (models.State, error) {
	fields := map[string]string{}
	if strings.TrimSpace(a.Part.Name) == "" {
		fields["name"] = "Part name is required"
	}
	if a.Part.Quantity < 1 {
		fields["quantity"] = "Quantity must be at least 1"
	}
	if err := asError(fields); err != nil {
		return state, err
	}
	return modifyVisit(state, a.VisitID, func(v models.ServiceVisit) (models.ServiceVisit, error) {
		v.PartsUsed = appendCopy(v.PartsUsed, a.Part)
		v.UpdatedAt = env.timestamp()
		return v, nil
	})
}

type RemovePartUsed struct {
	serviceVisitIntent
	VisitID string
	Index   int
}

func (RemovePartUsed) Name() string { return "removePartUsed" }

func (r RemovePartUsed) Apply(state models.State, env Env) (models.State, error) {
	return modifyVisit(state, r.VisitID, func(v models.ServiceVisit) (models.ServiceVisit, error) {
		parts, ok := removeAt(v.PartsUsed, r.Index)
		if !ok {
			return v, notFound("part", strconv.Itoa(r.Index))
		}
		v.PartsUsed = parts
		v.UpdatedAt = env.timestamp()
		return v, nil
	})
}

// VisitFile selects which attachment list of a visit an intent works on.
type VisitFile int

const (
	VisitPhoto VisitFile = iota
	VisitAttachment
)

type AddVisitFile struct {
	serviceVisitIntent
	VisitID string
	Kind    VisitFile
	File    models.Attachment
}

func (a AddVisitFile) Name() string {
	if a.Kind == VisitAttachment {
		return "addServiceAttachment"
	}
	return "addServicePhoto"
}

func (a AddVisitFile) Apply(state models.State, env Env) (models.State, error) {
	if a.File.Filename == "" {
		return state, invalid("filename", "Filename is required")
	}
	return modifyVisit(state, a.VisitID, func(v models.ServiceVisit) (models.ServiceVisit, error) {
		now := env.timestamp()
		file := a.File
		file.ID = env.NewID()
		file.UploadDate = now
		if a.Kind == VisitAttachment {
			v.Attachments = appendCopy(v.Attachments, file)
		} else {
			v.Photos = appendCopy(v.Photos, file)
		}
		v.UpdatedAt = now
		return v, nil
	})
}

type RemoveVisitFile struct {
	serviceVisitIntent
	VisitID string
	Kind    VisitFile
	FileID  string
}

func (r RemoveVisitFile) Name() string {
	if r.Kind == VisitAttachment {
		return "removeServiceAttachment"
	}
	return "removeServicePhoto"
}

func (r RemoveVisitFile) Apply(state models.State, env Env) (models.State, error) {
	return modifyVisit(state, r.VisitID, func(v models.ServiceVisit) (models.ServiceVisit, error) {
		var err error
		if r.Kind == VisitAttachment {
			v.Attachments, err = remove(v.Attachments, "attachment", r.FileID)
		} else {
			v.Photos, err = remove(v.Photos, "photo", r.FileID)
		}
		if err != nil {
			return v, err
		}
		v.UpdatedAt = env.timestamp()
		return v, nil
	})
}

type CompleteServiceVisit struct {
	serviceVisitIntent
	VisitID           string
	CustomerSignature string
	CompletionNotes   string
}

func (CompleteServiceVisit) Name() string { return "completeServiceVisit" }

func (c CompleteServiceVisit) Apply(state models.State, env Env) (models.State, error) {
	return modifyVisit(state, c.VisitID, func(v models.ServiceVisit) (models.ServiceVisit, error) {
		if v.Status == models.VisitStatusCancelled {
			return v, ErrInvalidTransition
		}
		now := env.timestamp()
		v.Status = models.VisitStatusCompleted
		if c.CustomerSignature != "" {
			v.CustomerSignature = models.StringPtr(c.CustomerSignature)
		}
		v.CompletionDate = models.StringPtr(now)
		if c.CompletionNotes != "" {
			v.Notes = c.CompletionNotes
		}
		v.UpdatedAt = now
		return v, nil
	})
}

type DeleteServiceVisit struct {
	serviceVisitIntent
	ID string
}

func (DeleteServiceVisit) Name() string { return "deleteServiceVisit" }

func (d DeleteServiceVisit) Apply(state models.State, _ Env) (models.State, error) {
	visits, err := remove(state.ServiceVisits, kindServiceVisit, d.ID)
	if err != nil {
		return state, err
	}
	state.ServiceVisits = visits
	return state, nil
}

func FindServiceVisit(state models.State, id string) (models.ServiceVisit, bool) {
	return find(state.ServiceVisits, id)
}

func ServiceVisitsByDevice(state models.State, deviceID string) []models.ServiceVisit {
	return common.Filter(state.ServiceVisits, func(v models.ServiceVisit) bool {
		return v.DeviceID == deviceID
	})
}

// PendingServiceVisits leaves out completed and cancelled visits.
func PendingServiceVisits(state models.State) []models.ServiceVisit {
	return common.Filter(state.ServiceVisits, func(v models.ServiceVisit) bool {
		return v.Status != models.VisitStatusCompleted && v.Status != models.VisitStatusCancelled
	})
}

type VisitFilter struct {
	Search  string
	Purpose string
	Status  string
}

func FilterServiceVisits(visits []models.ServiceVisit, f VisitFilter) []models.ServiceVisit {
	return common.Filter(visits, func(v models.ServiceVisit) bool {
		return matchesSearch(f.Search, v.DeviceID, v.DeviceType, v.FacilityName, v.EngineerName) &&
			matchesCategory(f.Purpose, v.Purpose) &&
			matchesCategory(f.Status, v.Status)
	})
}
