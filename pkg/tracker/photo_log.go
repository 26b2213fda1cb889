package tracker

import (
	"slices"
	"strings"

	"liyu1981.xyz/medical-device-tracker/pkg/common"
	"liyu1981.xyz/medical-device-tracker/pkg/models"
)

const kindPhotoLog = "photo log"

type photoLogIntent struct{}

func (photoLogIntent) Category() string { return common.LoggerCategoryPhotoLog }

func modifyPhotoLog(state models.State, id string, fn func(models.PhotoLog) (models.PhotoLog, error)) (models.State, error) {
	logs, err := modify(state.PhotoLogs, kindPhotoLog, id, fn)
	if err != nil {
		return state, err
	}
	state.PhotoLogs = logs
	return state, nil
}

func validAlertLevel(level *models.AlertLevel) bool {
	if level == nil {
		return false
	}
	switch *level {
	case models.AlertLevelLow, models.AlertLevelMedium, models.AlertLevelHigh, models.AlertLevelCritical:
		return true
	}
	return false
}

func copyAlertLevel(level *models.AlertLevel) *models.AlertLevel {
	if level == nil {
		return nil
	}
	l := *level
	return &l
}

// AddPhotoLog puts the new entry first so the list reads newest first.
type AddPhotoLog struct {
	photoLogIntent
	PhotoLog models.PhotoLog
}

func (AddPhotoLog) Name() string { return "addPhotoLog" }

func (a AddPhotoLog) Apply(state models.State, env Env) (models.State, error) {
	p := a.PhotoLog
	if err := ValidatePhotoLog(p); err != nil {
		return state, err
	}
	if p.IsAlert && !validAlertLevel(p.AlertLevel) {
		return state, invalid("alertLevel", "Alert level is required for alerts")
	}
	now := env.timestamp()
	p.ID = env.NewID()
	p.UploadDate = now
	if p.Tags == nil {
		p.Tags = []string{}
	} else {
		p.Tags = slices.Clone(p.Tags)
	}
	if p.IsAlert {
		p.AlertLevel = copyAlertLevel(p.AlertLevel)
	} else {
		p.AlertLevel = nil
	}
	if p.Metadata.Timestamp == "" {
		p.Metadata.Timestamp = now
	}
	logs := make([]models.PhotoLog, 0, len(state.PhotoLogs)+1)
	logs = append(logs, p)
	state.PhotoLogs = append(logs, state.PhotoLogs...)
	return state, nil
}

// UpdatePhotoLog edits the descriptive fields. Tags and the alert flag have
// their own intents, the upload details never change.
type UpdatePhotoLog struct {
	photoLogIntent
	ID       string
	PhotoLog models.PhotoLog
}

func (UpdatePhotoLog) Name() string { return "updatePhotoLog" }

func (u UpdatePhotoLog) Apply(state models.State, _ Env) (models.State, error) {
	return modifyPhotoLog(state, u.ID, func(old models.PhotoLog) (models.PhotoLog, error) {
		p := u.PhotoLog
		p.ID = old.ID
		p.UploadDate = old.UploadDate
		p.FileSize = old.FileSize
		p.MimeType = old.MimeType
		p.BlobKey = old.BlobKey
		p.Tags = old.Tags
		p.IsAlert = old.IsAlert
		p.AlertLevel = old.AlertLevel
		if p.Metadata.Timestamp == "" {
			p.Metadata = old.Metadata
		}
		if p.Filename == "" {
			p.Filename = old.Filename
		}
		if err := ValidatePhotoLog(p); err != nil {
			return old, err
		}
		return p, nil
	})
}

type DeletePhotoLog struct {
	photoLogIntent
	ID string
}

func (DeletePhotoLog) Name() string { return "deletePhotoLog" }

func (d DeletePhotoLog) Apply(state models.State, _ Env) (models.State, error) {
	logs, err := remove(state.PhotoLogs, kindPhotoLog, d.ID)
	if err != nil {
		return state, err
	}
	state.PhotoLogs = logs
	return state, nil
}

// BulkDeletePhotoLogs drops every listed id. Unknown ids are skipped.
type BulkDeletePhotoLogs struct {
	photoLogIntent
	IDs []string
}

func (BulkDeletePhotoLogs) Name() string { return "bulkDeletePhotos" }

func (b BulkDeletePhotoLogs) Apply(state models.State, _ Env) (models.State, error) {
	state.PhotoLogs = common.Filter(state.PhotoLogs, func(p models.PhotoLog) bool {
		return !slices.Contains(b.IDs, p.ID)
	})
	return state, nil
}

type AddPhotoTag struct {
	photoLogIntent
	PhotoID string
	Tag     string
}

func (AddPhotoTag) Name() string { return "addPhotoTag" }

func (a AddPhotoTag) Apply(state models.State, _ Env) (models.State, error) {
	tag := strings.TrimSpace(a.Tag)
	if tag == "" {
		return state, invalid("tag", "Tag is required")
	}
	return modifyPhotoLog(state, a.PhotoID, func(p models.PhotoLog) (models.PhotoLog, error) {
		if !slices.Contains(p.Tags, tag) {
			p.Tags = appendCopy(p.Tags, tag)
		}
		return p, nil
	})
}

type RemovePhotoTag struct {
	photoLogIntent
	PhotoID string
	Tag     string
}

func (RemovePhotoTag) Name() string { return "removePhotoTag" }

func (r RemovePhotoTag) Apply(state models.State, _ Env) (models.State, error) {
	return modifyPhotoLog(state, r.PhotoID, func(p models.PhotoLog) (models.PhotoLog, error) {
		p.Tags = common.Filter(p.Tags, func(t string) bool { return t != r.Tag })
		return p, nil
	})
}

// SetPhotoAlert flags or clears an alert. Clearing also drops the level.
type SetPhotoAlert struct {
	photoLogIntent
	PhotoID    string
	IsAlert    bool
	AlertLevel *models.AlertLevel
}

func (SetPhotoAlert) Name() string { return "updatePhotoAlert" }

func (s SetPhotoAlert) Apply(state models.State, _ Env) (models.State, error) {
	if s.IsAlert && !validAlertLevel(s.AlertLevel) {
		return state, invalid("alertLevel", "Alert level must be one of: Low Medium High Critical")
	}
	return modifyPhotoLog(state, s.PhotoID, func(p models.PhotoLog) (models.PhotoLog, error) {
		p.IsAlert = s.IsAlert
		if s.IsAlert {
			p.AlertLevel = copyAlertLevel(s.AlertLevel)
		} else {
			p.AlertLevel = nil
		}
		return p, nil
	})
}

func FindPhotoLog(state models.State, id string) (models.PhotoLog, bool) {
	return find(state.PhotoLogs, id)
}

// PhotoFilter narrows the photo log. From and To bound the upload date and
// only apply when both are set.
type PhotoFilter struct {
	Search     string
	DeviceID   string
	Category   string
	AlertLevel string
	From       string
	To         string
}

func FilterPhotoLogs(logs []models.PhotoLog, f PhotoFilter) []models.PhotoLog {
	return common.Filter(logs, func(p models.PhotoLog) bool {
		var level models.AlertLevel
		if p.AlertLevel != nil {
			level = *p.AlertLevel
		}
		fields := append([]string{p.Description, p.DeviceID, p.FacilityName}, p.Tags...)
		return matchesSearch(f.Search, fields...) &&
			matchesCategory(f.DeviceID, p.DeviceID) &&
			matchesCategory(f.Category, p.Category) &&
			matchesCategory(f.AlertLevel, level) &&
			withinRange(p.UploadDate, f.From, f.To)
	})
}

func AlertPhotoLogs(state models.State) []models.PhotoLog {
	return common.Filter(state.PhotoLogs, func(p models.PhotoLog) bool { return p.IsAlert })
}

func PhotoLogsByDevice(state models.State, deviceID string) []models.PhotoLog {
	return common.Filter(state.PhotoLogs, func(p models.PhotoLog) bool { return p.DeviceID == deviceID })
}

func PhotoLogsByCategory(state models.State, category models.PhotoCategory) []models.PhotoLog {
	return common.Filter(state.PhotoLogs, func(p models.PhotoLog) bool { return p.Category == category })
}

func PhotoLogsByServiceVisit(state models.State, visitID string) []models.PhotoLog {
	return common.Filter(state.PhotoLogs, func(p models.PhotoLog) bool {
		return p.RelatedServiceVisitID != nil && *p.RelatedServiceVisitID == visitID
	})
}

func PhotoLogsByInstallation(state models.State, installationID string) []models.PhotoLog {
	return common.Filter(state.PhotoLogs, func(p models.PhotoLog) bool {
		return p.RelatedInstallationID != nil && *p.RelatedInstallationID == installationID
	})
}

// RecentPhotoLogs relies on the newest-first order kept by AddPhotoLog.
func RecentPhotoLogs(state models.State, limit int) []models.PhotoLog {
	if limit <= 0 {
		limit = 10
	}
	n := min(limit, len(state.PhotoLogs))
	return slices.Clone(state.PhotoLogs[:n])
}
