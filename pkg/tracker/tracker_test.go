package tracker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"liyu1981.xyz/medical-device-tracker/pkg/common"
	"liyu1981.xyz/medical-device-tracker/pkg/db"
	"liyu1981.xyz/medical-device-tracker/pkg/models"
	"liyu1981.xyz/medical-device-tracker/pkg/store"
	"liyu1981.xyz/medical-device-tracker/pkg/store/mocks"
	_ "liyu1981.xyz/medical-device-tracker/pkg/testing"

	"github.com/google/uuid"
)

func TestLoadFallsBackToEmptyState(t *testing.T) {
	common.SetTestLoggerNop()
	ctrl := gomock.NewController(t)

	for _, loadErr := range []error{store.ErrNoSnapshot, errors.New("corrupt snapshot")} {
		storage := mocks.NewMockStorage(ctrl)
		storage.EXPECT().Load(gomock.Any()).Return(nil, loadErr)

		tr := New(storage, testEnv())
		tr.Load(context.Background())

		assert.Equal(t, models.EmptyState(), tr.State())
	}
}

func TestDispatchPersistsAcceptedIntents(t *testing.T) {
	common.SetTestLoggerNop()
	ctrl := gomock.NewController(t)
	storage := mocks.NewMockStorage(ctrl)

	storage.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, s *models.State) error {
		assert.Len(t, s.Devices, 1)
		return nil
	})

	tr := New(storage, testEnv())
	state, err := tr.Dispatch(context.Background(), AddDevice{Device: validDevice()})
	require.NoError(t, err)
	assert.Len(t, state.Devices, 1)
	assert.Equal(t, state, tr.State())
}

func TestDispatchRejectedIntentDoesNotSave(t *testing.T) {
	common.SetTestLoggerNop()
	ctrl := gomock.NewController(t)
	storage := mocks.NewMockStorage(ctrl)
	storage.EXPECT().Save(gomock.Any(), gomock.Any()).Times(0)

	tr := New(storage, testEnv())
	_, err := tr.Dispatch(context.Background(), DeleteDevice{ID: "nope"})

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, tr.State().Devices)
}

func TestDispatchSwallowsSaveFailure(t *testing.T) {
	common.SetTestLoggerNop()
	ctrl := gomock.NewController(t)
	storage := mocks.NewMockStorage(ctrl)
	storage.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	tr := New(storage, testEnv())
	_, err := tr.Dispatch(context.Background(), AddDevice{Device: validDevice()})

	assert.NoError(t, err)
	assert.Len(t, tr.State().Devices, 1)
}

func TestEarlierStateSurvivesDispatch(t *testing.T) {
	common.SetTestLoggerNop()
	tr := New(nil, testEnv())
	ctx := context.Background()

	_, err := tr.Dispatch(ctx, AddContract{Contract: validContract(daysFromNow(10))})
	require.NoError(t, err)
	before := tr.State()

	_, err = tr.Dispatch(ctx, RenewContract{ID: "id-1", NewEndDate: daysFromNow(400)})
	require.NoError(t, err)

	assert.Equal(t, models.ContractStatusExpiringSoon, before.Contracts[0].Status)
	assert.Equal(t, models.ContractStatusActive, tr.State().Contracts[0].Status)
}

func TestRoundTripThroughSqlite(t *testing.T) {
	common.SetTestLoggerNop()
	ctx := context.Background()
	storage := store.NewGormStore(db.GetInstance(db.UseMemorySqliteDialector()), uuid.NewString())

	tr := New(storage, testEnv())
	tr.Load(ctx)
	for _, intent := range []Intent{
		AddFacility{Facility: validFacility("City General Hospital")},
		AddDevice{Device: validDevice()},
		AddInstallation{Installation: validInstallation()},
		AddServiceVisit{Visit: validVisit()},
		AddContract{Contract: validContract(daysFromNow(10))},
		AddPhotoLog{PhotoLog: validPhotoLog()},
		SetChecklistItem{ID: "id-2", Item: models.ChecklistNetworkSetup, Value: true},
	} {
		_, err := tr.Dispatch(ctx, intent)
		require.NoError(t, err, intent.Name())
	}

	reloaded := New(storage, testEnv())
	reloaded.Load(ctx)

	assert.Equal(t, tr.State(), reloaded.State())
}
