package tracker

import (
	"math"

	"liyu1981.xyz/medical-device-tracker/pkg/common"
	"liyu1981.xyz/medical-device-tracker/pkg/models"
)

const kindInstallation = "installation"

type installationIntent struct{}

func (installationIntent) Category() string { return common.LoggerCategoryInstallation }

type AddInstallation struct {
	installationIntent
	Installation models.Installation
}

func (AddInstallation) Name() string { return "addInstallation" }

func (a AddInstallation) Apply(state models.State, env Env) (models.State, error) {
	inst := a.Installation
	if err := ValidateInstallation(inst); err != nil {
		return state, err
	}
	now := env.timestamp()
	inst.ID = env.NewID()
	inst.Status = models.InstallationStatusInProgress
	inst.Checklist = models.Checklist{}
	inst.TrainingCompleted = false
	inst.TrainingDate = nil
	inst.TrainedPersonnel = nil
	inst.Photos = []models.Attachment{}
	inst.CompletionDate = nil
	inst.CreatedAt = now
	inst.UpdatedAt = now
	state.Installations = appendCopy(state.Installations, inst)
	return state, nil
}

// UpdateInstallation edits the descriptive fields. Progress is only moved by
// SetChecklistItem and SetTraining.
type UpdateInstallation struct {
	installationIntent
	ID           string
	Installation models.Installation
}

func (UpdateInstallation) Name() string { return "updateInstallation" }

func (u UpdateInstallation) Apply(state models.State, env Env) (models.State, error) {
	installations, err := modify(state.Installations, kindInstallation, u.ID, func(old models.Installation) (models.Installation, error) {
		inst := u.Installation
		inst.ID = old.ID
		inst.Status = old.Status
		inst.Checklist = old.Checklist
		inst.TrainingCompleted = old.TrainingCompleted
		inst.TrainingDate = old.TrainingDate
		inst.TrainedPersonnel = old.TrainedPersonnel
		inst.Photos = old.Photos
		inst.CompletionDate = old.CompletionDate
		inst.CreatedAt = old.CreatedAt
		if err := ValidateInstallation(inst); err != nil {
			return old, err
		}
		inst.UpdatedAt = env.timestamp()
		return inst, nil
	})
	if err != nil {
		return state, err
	}
	state.Installations = installations
	return state, nil
}

// promote flips an in-progress installation to Completed once every step
// and the training are done. It never moves a completed one back.
func promote(inst models.Installation, now string) models.Installation {
	if inst.Status != models.InstallationStatusCompleted && inst.Checklist.AllDone() && inst.TrainingCompleted {
		inst.Status = models.InstallationStatusCompleted
		inst.CompletionDate = models.StringPtr(now)
	}
	return inst
}

type SetChecklistItem struct {
	installationIntent
	ID    string
	Item  models.ChecklistItem
	Value bool
}

func (SetChecklistItem) Name() string { return "updateChecklist" }

func (s SetChecklistItem) Apply(state models.State, env Env) (models.State, error) {
	installations, err := modify(state.Installations, kindInstallation, s.ID, func(inst models.Installation) (models.Installation, error) {
		checklist, ok := inst.Checklist.With(s.Item, s.Value)
		if !ok {
			return inst, invalid("checklistItem", "Unknown checklist item "+string(s.Item))
		}
		now := env.timestamp()
		inst.Checklist = checklist
		inst.UpdatedAt = now
		return promote(inst, now), nil
	})
	if err != nil {
		return state, err
	}
	state.Installations = installations
	return state, nil
}

// SetTraining records the training outcome. Date and personnel are kept as
// they are when left empty.
type SetTraining struct {
	installationIntent
	ID               string
	Completed        bool
	Date             *string
	TrainedPersonnel []string
}

func (SetTraining) Name() string { return "updateTrainingStatus" }

func (s SetTraining) Apply(state models.State, env Env) (models.State, error) {
	if s.Date != nil && *s.Date != "" {
		if _, err := models.ParseDate(*s.Date); err != nil {
			return state, invalid("trainingDate", "Invalid training date")
		}
	}
	installations, err := modify(state.Installations, kindInstallation, s.ID, func(inst models.Installation) (models.Installation, error) {
		now := env.timestamp()
		inst.TrainingCompleted = s.Completed
		if s.Date != nil && *s.Date != "" {
			inst.TrainingDate = models.StringPtr(*s.Date)
		}
		if len(s.TrainedPersonnel) > 0 {
			inst.TrainedPersonnel = appendCopy[string](nil, s.TrainedPersonnel...)
		}
		inst.UpdatedAt = now
		return promote(inst, now), nil
	})
	if err != nil {
		return state, err
	}
	state.Installations = installations
	return state, nil
}

type AddInstallationPhoto struct {
	installationIntent
	InstallationID string
	Photo          models.Attachment
}

func (AddInstallationPhoto) Name() string { return "addInstallationPhoto" }

func (a AddInstallationPhoto) Apply(state models.State, env Env) (models.State, error) {
	if a.Photo.Filename == "" {
		return state, invalid("filename", "Filename is required")
	}
	installations, err := modify(state.Installations, kindInstallation, a.InstallationID, func(inst models.Installation) (models.Installation, error) {
		now := env.timestamp()
		photo := a.Photo
		photo.ID = env.NewID()
		photo.UploadDate = now
		inst.Photos = appendCopy(inst.Photos, photo)
		inst.UpdatedAt = now
		return inst, nil
	})
	if err != nil {
		return state, err
	}
	state.Installations = installations
	return state, nil
}

type RemoveInstallationPhoto struct {
	installationIntent
	InstallationID string
	PhotoID        string
}

func (RemoveInstallationPhoto) Name() string { return "removeInstallationPhoto" }

func (r RemoveInstallationPhoto) Apply(state models.State, env Env) (models.State, error) {
	installations, err := modify(state.Installations, kindInstallation, r.InstallationID, func(inst models.Installation) (models.Installation, error) {
		photos, err := remove(inst.Photos, "photo", r.PhotoID)
		if err != nil {
			return inst, err
		}
		inst.Photos = photos
		inst.UpdatedAt = env.timestamp()
		return inst, nil
	})
	if err != nil {
		return state, err
	}
	state.Installations = installations
	return state, nil
}

type DeleteInstallation struct {
	installationIntent
	ID string
}

func (DeleteInstallation) Name() string { return "deleteInstallation" }

func (d DeleteInstallation) Apply(state models.State, _ Env) (models.State, error) {
	installations, err := remove(state.Installations, kindInstallation, d.ID)
	if err != nil {
		return state, err
	}
	state.Installations = installations
	return state, nil
}

// CompletionPercent counts the training as a ninth step.
func CompletionPercent(inst models.Installation) int {
	done := inst.Checklist.CountDone()
	if inst.TrainingCompleted {
		done++
	}
	return int(math.Round(100 * float64(done) / float64(len(models.ChecklistItems)+1)))
}

func FindInstallation(state models.State, id string) (models.Installation, bool) {
	return find(state.Installations, id)
}

func InstallationsByDevice(state models.State, deviceID string) []models.Installation {
	return common.Filter(state.Installations, func(i models.Installation) bool {
		return i.DeviceID == deviceID
	})
}

func PendingInstallations(state models.State) []models.Installation {
	return common.Filter(state.Installations, func(i models.Installation) bool {
		return i.Status != models.InstallationStatusCompleted
	})
}
