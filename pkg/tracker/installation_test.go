package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"liyu1981.xyz/medical-device-tracker/pkg/models"
)

func checkAll(id string) []Intent {
	intents := make([]Intent, 0, len(models.ChecklistItems))
	for _, item := range models.ChecklistItems {
		intents = append(intents, SetChecklistItem{ID: id, Item: item, Value: true})
	}
	return intents
}

func TestAddInstallationStartsInProgress(t *testing.T) {
	inst := validInstallation()
	inst.Status = models.InstallationStatusCompleted
	inst.Checklist.Calibration = true
	inst.TrainingCompleted = true

	state := apply(t, models.EmptyState(), AddInstallation{Installation: inst})

	got := state.Installations[0]
	assert.Equal(t, models.InstallationStatusInProgress, got.Status)
	assert.Equal(t, models.Checklist{}, got.Checklist)
	assert.False(t, got.TrainingCompleted)
	assert.NotNil(t, got.Photos)
	assert.Equal(t, 0, CompletionPercent(got))
}

func TestChecklistWithoutTrainingStaysInProgress(t *testing.T) {
	state := apply(t, models.EmptyState(), AddInstallation{Installation: validInstallation()})
	state = apply(t, state, checkAll("id-1")...)

	inst := state.Installations[0]
	assert.True(t, inst.Checklist.AllDone())
	assert.Equal(t, 89, CompletionPercent(inst))
	assert.Equal(t, models.InstallationStatusInProgress, inst.Status)
	assert.Nil(t, inst.CompletionDate)

	state = apply(t, state, SetTraining{ID: "id-1", Completed: true, Date: models.StringPtr("2024-06-14"), TrainedPersonnel: []string{"Nurse Joy"}})

	inst = state.Installations[0]
	assert.Equal(t, models.InstallationStatusCompleted, inst.Status)
	assert.Equal(t, 100, CompletionPercent(inst))
	require.NotNil(t, inst.CompletionDate)
	assert.Equal(t, models.FormatTimestamp(testNow), *inst.CompletionDate)
	assert.Equal(t, []string{"Nurse Joy"}, inst.TrainedPersonnel)
	assert.Equal(t, "2024-06-14", *inst.TrainingDate)
}

func TestTrainingFirstThenChecklistCompletes(t *testing.T) {
	state := apply(t, models.EmptyState(),
		AddInstallation{Installation: validInstallation()},
		SetTraining{ID: "id-1", Completed: true},
	)
	assert.Equal(t, 11, CompletionPercent(state.Installations[0]))

	intents := checkAll("id-1")
	state = apply(t, state, intents[:len(intents)-1]...)
	assert.Equal(t, models.InstallationStatusInProgress, state.Installations[0].Status)

	state = apply(t, state, intents[len(intents)-1])
	assert.Equal(t, models.InstallationStatusCompleted, state.Installations[0].Status)
}

func TestCompletedInstallationNeverReverts(t *testing.T) {
	state := apply(t, models.EmptyState(), AddInstallation{Installation: validInstallation()})
	state = apply(t, state, checkAll("id-1")...)
	state = apply(t, state, SetTraining{ID: "id-1", Completed: true})
	completedAt := *state.Installations[0].CompletionDate

	state = apply(t, state,
		SetChecklistItem{ID: "id-1", Item: models.ChecklistCalibration, Value: false},
		SetTraining{ID: "id-1", Completed: false},
	)

	inst := state.Installations[0]
	assert.Equal(t, models.InstallationStatusCompleted, inst.Status)
	assert.Equal(t, completedAt, *inst.CompletionDate)
	assert.Equal(t, 78, CompletionPercent(inst))
}

func TestSetChecklistItemErrors(t *testing.T) {
	state := apply(t, models.EmptyState(), AddInstallation{Installation: validInstallation()})

	_, err := SetChecklistItem{ID: "id-1", Item: "paperwork", Value: true}.Apply(state, testEnv())
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = SetChecklistItem{ID: "nope", Item: models.ChecklistCalibration, Value: true}.Apply(state, testEnv())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateInstallationCannotTouchProgress(t *testing.T) {
	state := apply(t, models.EmptyState(), AddInstallation{Installation: validInstallation()})
	state = apply(t, state, checkAll("id-1")...)

	edit := validInstallation()
	edit.Notes = "moved to ward 4"
	edit.Status = models.InstallationStatusCompleted
	edit.Checklist = models.Checklist{}
	edit.TrainingCompleted = true
	state = apply(t, state, UpdateInstallation{ID: "id-1", Installation: edit})

	inst := state.Installations[0]
	assert.Equal(t, "moved to ward 4", inst.Notes)
	assert.Equal(t, models.InstallationStatusInProgress, inst.Status)
	assert.True(t, inst.Checklist.AllDone())
	assert.False(t, inst.TrainingCompleted)
}

func TestInstallationPhotos(t *testing.T) {
	state := apply(t, models.EmptyState(),
		AddInstallation{Installation: validInstallation()},
		AddInstallationPhoto{InstallationID: "id-1", Photo: models.Attachment{Filename: "unboxing.jpg"}},
	)
	require.Len(t, state.Installations[0].Photos, 1)
	photo := state.Installations[0].Photos[0]
	assert.Equal(t, "id-2", photo.ID)

	next := apply(t, state, RemoveInstallationPhoto{InstallationID: "id-1", PhotoID: "id-2"})
	assert.Empty(t, next.Installations[0].Photos)
	assert.Len(t, state.Installations[0].Photos, 1)
}

func TestInstallationSelectors(t *testing.T) {
	state := models.EmptyState()
	state.Installations = []models.Installation{
		{ID: "i1", DeviceID: "MD-001", Status: models.InstallationStatusCompleted},
		{ID: "i2", DeviceID: "MD-002", Status: models.InstallationStatusInProgress},
		{ID: "i3", DeviceID: "MD-001", Status: models.InstallationStatusInProgress},
	}

	assert.Len(t, InstallationsByDevice(state, "MD-001"), 2)
	assert.Len(t, PendingInstallations(state), 2)

	_, ok := FindInstallation(state, "i2")
	assert.True(t, ok)

	state = apply(t, state, DeleteInstallation{ID: "i2"})
	_, ok = FindInstallation(state, "i2")
	assert.False(t, ok)
}
