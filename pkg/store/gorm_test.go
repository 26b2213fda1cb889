package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"liyu1981.xyz/medical-device-tracker/pkg/common"
	"liyu1981.xyz/medical-device-tracker/pkg/db"
	"liyu1981.xyz/medical-device-tracker/pkg/models"
	_ "liyu1981.xyz/medical-device-tracker/pkg/testing"
)

func newGormStore(t *testing.T) *GormStore {
	common.SetTestLoggerNop()
	return NewGormStore(db.GetInstance(db.UseMemorySqliteDialector()), uuid.NewString())
}

func sampleState() *models.State {
	state := models.EmptyState()
	state.Devices = append(state.Devices, models.Device{
		ID:           "d1",
		DeviceID:     "MD-001",
		Type:         "Ventilator",
		Status:       models.DeviceStatusOnline,
		BatteryLevel: 85,
		PurchaseDate: models.StringPtr("2023-01-15"),
	})
	state.Contracts = append(state.Contracts, models.Contract{
		ID:        "c1",
		Type:      models.ContractTypeAMC,
		EndDate:   "2024-12-31",
		Status:    models.ContractStatusActive,
		Documents: []models.Attachment{{ID: "doc1", Filename: "amc.pdf"}},
	})
	return &state
}

func TestGormStoreLoadWithoutSnapshot(t *testing.T) {
	s := newGormStore(t)

	state, err := s.Load(context.Background())

	assert.Nil(t, state)
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

type gormLogRecorder struct {
	lines []string
}

func (r *gormLogRecorder) Printf(format string, args ...interface{}) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func TestGormStoreColdStartLogsNothing(t *testing.T) {
	base := newGormStore(t)
	recorder := &gormLogRecorder{}
	quiet := base.Db.Conn.Session(&gorm.Session{
		Logger: logger.New(recorder, logger.Config{LogLevel: logger.Error}),
	})
	s := NewGormStore(&db.DB{Conn: quiet}, base.Key)

	_, err := s.Load(context.Background())

	assert.ErrorIs(t, err, ErrNoSnapshot)
	assert.Empty(t, recorder.lines)
}

func TestGormStoreRoundTrip(t *testing.T) {
	s := newGormStore(t)
	ctx := context.Background()
	want := sampleState()

	require.NoError(t, s.Save(ctx, want))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// second save replaces the row instead of adding one
	want.Devices[0].BatteryLevel = 40
	require.NoError(t, s.Save(ctx, want))
	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40, got.Devices[0].BatteryLevel)

	var rows int64
	require.NoError(t, s.Db.Conn.Model(&models.Snapshot{}).Where(&models.Snapshot{Key: s.Key}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestGormStoreCorruptPayload(t *testing.T) {
	s := newGormStore(t)
	require.NoError(t, s.Db.Conn.Create(&models.Snapshot{Key: s.Key, Payload: []byte("{not json")}).Error)

	_, err := s.Load(context.Background())

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSnapshot)
}
