package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm/clause"
	"liyu1981.xyz/medical-device-tracker/pkg/common"
	"liyu1981.xyz/medical-device-tracker/pkg/db"
	"liyu1981.xyz/medical-device-tracker/pkg/models"
)

// GormStore keeps the snapshot as one row of the snapshots table.
type GormStore struct {
	Db  *db.DB
	Key string
}

var _ Storage = (*GormStore)(nil)

func NewGormStore(database *db.DB, key string) *GormStore {
	if key == "" {
		key = common.DefaultSnapshotKey
	}
	return &GormStore{Db: database, Key: key}
}

func (s *GormStore) Load(ctx context.Context) (*models.State, error) {
	var snapshot models.Snapshot
	result := s.Db.Conn.WithContext(ctx).Where(&models.Snapshot{Key: s.Key}).Limit(1).Find(&snapshot)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNoSnapshot
	}
	state, err := Decode(snapshot.Payload)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot %q: %w", s.Key, err)
	}
	return state, nil
}

func (s *GormStore) Save(ctx context.Context, state *models.State) error {
	logger := common.GetCategoryLogger(common.LoggerNameStorage, common.LoggerCategorySnapshot)

	payload, err := Encode(state)
	if err != nil {
		return err
	}

	snapshot := models.Snapshot{Key: s.Key, Payload: payload}
	err = s.Db.Conn.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&snapshot).Error
	if err != nil {
		return err
	}

	logger.Debug("Saved snapshot", zap.String("key", s.Key), zap.Int("bytes", len(payload)))
	return nil
}
