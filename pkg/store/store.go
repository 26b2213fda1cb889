package store

import (
	"context"
	"errors"

	"liyu1981.xyz/medical-device-tracker/pkg/models"
)

//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks

// ErrNoSnapshot is returned by Load when nothing has been saved yet.
var ErrNoSnapshot = errors.New("no snapshot stored")

// Storage keeps the whole State as a single snapshot.
type Storage interface {
	Load(ctx context.Context) (*models.State, error)
	Save(ctx context.Context, state *models.State) error
}
