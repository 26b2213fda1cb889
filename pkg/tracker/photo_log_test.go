package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"liyu1981.xyz/medical-device-tracker/pkg/models"
)

func TestAddPhotoLogPrepends(t *testing.T) {
	first := validPhotoLog()
	second := validPhotoLog()
	second.Filename = "ventilator_back.jpg"
	second.Tags = nil
	second.AlertLevel = alertLevel(models.AlertLevelHigh)

	state := apply(t, models.EmptyState(),
		AddPhotoLog{PhotoLog: first},
		AddPhotoLog{PhotoLog: second},
	)

	require.Len(t, state.PhotoLogs, 2)
	newest := state.PhotoLogs[0]
	assert.Equal(t, "ventilator_back.jpg", newest.Filename)
	assert.Equal(t, []string{}, newest.Tags)
	assert.Nil(t, newest.AlertLevel, "level is dropped when the photo is not an alert")
	assert.Equal(t, models.FormatTimestamp(testNow), newest.Metadata.Timestamp)
	assert.Equal(t, models.FormatTimestamp(testNow), newest.UploadDate)
}

func TestAddAlertPhotoNeedsLevel(t *testing.T) {
	p := validPhotoLog()
	p.IsAlert = true

	_, err := AddPhotoLog{PhotoLog: p}.Apply(models.EmptyState(), testEnv())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "alertLevel")

	p.AlertLevel = alertLevel(models.AlertLevelCritical)
	state := apply(t, models.EmptyState(), AddPhotoLog{PhotoLog: p})
	assert.Equal(t, models.AlertLevelCritical, *state.PhotoLogs[0].AlertLevel)
	assert.Len(t, AlertPhotoLogs(state), 1)
}

func TestPhotoTags(t *testing.T) {
	state := apply(t, models.EmptyState(),
		AddPhotoLog{PhotoLog: validPhotoLog()},
		AddPhotoTag{PhotoID: "id-1", Tag: "cleaned"},
		AddPhotoTag{PhotoID: "id-1", Tag: "cleaned"},
		AddPhotoTag{PhotoID: "id-1", Tag: "front-panel"},
	)
	assert.Equal(t, []string{"front-panel", "cleaned"}, state.PhotoLogs[0].Tags)

	state = apply(t, state, RemovePhotoTag{PhotoID: "id-1", Tag: "front-panel"})
	assert.Equal(t, []string{"cleaned"}, state.PhotoLogs[0].Tags)

	_, err := AddPhotoTag{PhotoID: "missing", Tag: "x"}.Apply(state, testEnv())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetPhotoAlert(t *testing.T) {
	state := apply(t, models.EmptyState(),
		AddPhotoLog{PhotoLog: validPhotoLog()},
		SetPhotoAlert{PhotoID: "id-1", IsAlert: true, AlertLevel: alertLevel(models.AlertLevelMedium)},
	)
	assert.True(t, state.PhotoLogs[0].IsAlert)
	assert.Equal(t, models.AlertLevelMedium, *state.PhotoLogs[0].AlertLevel)

	state = apply(t, state, SetPhotoAlert{PhotoID: "id-1", IsAlert: false, AlertLevel: alertLevel(models.AlertLevelHigh)})
	assert.False(t, state.PhotoLogs[0].IsAlert)
	assert.Nil(t, state.PhotoLogs[0].AlertLevel)

	_, err := SetPhotoAlert{PhotoID: "id-1", IsAlert: true, AlertLevel: alertLevel("Severe")}.Apply(state, testEnv())
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestUpdatePhotoLogKeepsUploadDetails(t *testing.T) {
	p := validPhotoLog()
	p.MimeType = "image/jpeg"
	p.FileSize = 2048
	state := apply(t, models.EmptyState(), AddPhotoLog{PhotoLog: p})

	edit := validPhotoLog()
	edit.Description = "Corrected description"
	edit.Tags = []string{"overwritten"}
	edit.MimeType = "image/gif"
	state = apply(t, state, UpdatePhotoLog{ID: "id-1", PhotoLog: edit})

	got := state.PhotoLogs[0]
	assert.Equal(t, "Corrected description", got.Description)
	assert.Equal(t, []string{"front-panel"}, got.Tags)
	assert.Equal(t, "image/jpeg", got.MimeType)
	assert.Equal(t, int64(2048), got.FileSize)
}

func TestBulkDeletePhotoLogs(t *testing.T) {
	state := apply(t, models.EmptyState(),
		AddPhotoLog{PhotoLog: validPhotoLog()},
		AddPhotoLog{PhotoLog: validPhotoLog()},
		AddPhotoLog{PhotoLog: validPhotoLog()},
	)

	next := apply(t, state, BulkDeletePhotoLogs{IDs: []string{"id-1", "id-3", "unknown"}})
	require.Len(t, next.PhotoLogs, 1)
	assert.Equal(t, "id-2", next.PhotoLogs[0].ID)
	assert.Len(t, state.PhotoLogs, 3)

	next = apply(t, next, DeletePhotoLog{ID: "id-2"})
	assert.Empty(t, next.PhotoLogs)
}

func photoFixtures() []models.PhotoLog {
	visitID := "SV-1"
	return []models.PhotoLog{
		{ID: "p1", DeviceID: "MD-001", FacilityName: "City General Hospital", Description: "Cracked casing", Category: models.PhotoCategoryIssueDocumentation, IsAlert: true, AlertLevel: alertLevel(models.AlertLevelHigh), Tags: []string{"damage"}, UploadDate: "2024-06-10T08:00:00Z"},
		{ID: "p2", DeviceID: "MD-002", FacilityName: "Regional Medical Center", Description: "Routine check", Category: models.PhotoCategoryConditionCheck, Tags: []string{"routine"}, UploadDate: "2024-06-12T23:30:00Z", RelatedServiceVisitID: &visitID},
		{ID: "p3", DeviceID: "MD-001", FacilityName: "City General Hospital", Description: "Installed", Category: models.PhotoCategoryInstallation, Tags: []string{}, UploadDate: "2024-05-01T09:00:00Z"},
	}
}

func TestFilterPhotoLogs(t *testing.T) {
	logs := photoFixtures()

	assert.Len(t, FilterPhotoLogs(logs, PhotoFilter{}), 3)
	assert.Len(t, FilterPhotoLogs(logs, PhotoFilter{DeviceID: "MD-001"}), 2)
	assert.Len(t, FilterPhotoLogs(logs, PhotoFilter{AlertLevel: "High"}), 1)
	assert.Len(t, FilterPhotoLogs(logs, PhotoFilter{Category: "Installation", DeviceID: "MD-002"}), 0)
	assert.Len(t, FilterPhotoLogs(logs, PhotoFilter{Search: "ROUTINE"}), 1, "tags are searched")

	// the end date is inclusive through the whole day
	got := FilterPhotoLogs(logs, PhotoFilter{From: "2024-06-10", To: "2024-06-12"})
	assert.Len(t, got, 2)

	// one bound alone does not filter
	assert.Len(t, FilterPhotoLogs(logs, PhotoFilter{From: "2024-06-11"}), 3)
	assert.Len(t, FilterPhotoLogs(logs, PhotoFilter{From: "2024-06-11", To: "garbage"}), 3)
}

func TestPhotoLogSelectors(t *testing.T) {
	state := models.EmptyState()
	state.PhotoLogs = photoFixtures()

	assert.Len(t, PhotoLogsByDevice(state, "MD-001"), 2)
	assert.Len(t, PhotoLogsByCategory(state, models.PhotoCategoryConditionCheck), 1)
	assert.Len(t, PhotoLogsByServiceVisit(state, "SV-1"), 1)
	assert.Empty(t, PhotoLogsByInstallation(state, "I-1"))
	assert.Len(t, RecentPhotoLogs(state, 2), 2)
	assert.Len(t, RecentPhotoLogs(state, 0), 3)

	p, ok := FindPhotoLog(state, "p3")
	require.True(t, ok)
	assert.Equal(t, "Installed", p.Description)
}
