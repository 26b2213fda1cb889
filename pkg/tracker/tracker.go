package tracker

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"liyu1981.xyz/medical-device-tracker/pkg/common"
	"liyu1981.xyz/medical-device-tracker/pkg/models"
	"liyu1981.xyz/medical-device-tracker/pkg/store"
)

// Tracker owns the application state. Intents are applied one at a time and
// every accepted change is written to Store.
type Tracker struct {
	Store store.Storage
	Env   Env

	mu    sync.Mutex
	state models.State
}

func New(s store.Storage, env Env) *Tracker {
	defaults := DefaultEnv()
	if env.Now == nil {
		env.Now = defaults.Now
	}
	if env.NewID == nil {
		env.NewID = defaults.NewID
	}
	return &Tracker{Store: s, Env: env, state: models.EmptyState()}
}

// Load replaces the in-memory state with the stored snapshot. A missing or
// unreadable snapshot leaves the tracker with an empty state.
func (t *Tracker) Load(ctx context.Context) {
	logger := common.GetCategoryLogger(common.LoggerNameTracker, common.LoggerCategorySnapshot)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.state = models.EmptyState()
	if t.Store == nil {
		return
	}

	state, err := t.Store.Load(ctx)
	switch {
	case errors.Is(err, store.ErrNoSnapshot):
		logger.Info("No snapshot stored, starting empty")
	case err != nil:
		logger.Warn("Failed to load snapshot, starting empty", zap.Error(err))
	case state != nil:
		t.state = *state
		logger.Info("Loaded snapshot",
			zap.Int("devices", len(state.Devices)),
			zap.Int("contracts", len(state.Contracts)),
		)
	}
}

// State returns the current state. Reducers never write into a state they
// are given, so the returned value stays valid after later dispatches.
func (t *Tracker) State() models.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Dispatch applies intent and persists the result. A rejected intent leaves
// the state as it was. Save failures are logged and otherwise ignored.
func (t *Tracker) Dispatch(ctx context.Context, intent Intent) (models.State, error) {
	logger := common.GetCategoryLogger(common.LoggerNameTracker, intent.Category())

	t.mu.Lock()
	defer t.mu.Unlock()

	logger.Info("Received intent", zap.String("intent", intent.Name()))

	next, err := intent.Apply(t.state, t.Env)
	if err != nil {
		logger.Info("Rejected intent", zap.String("intent", intent.Name()), zap.Error(err))
		return t.state, err
	}
	t.state = next

	if t.Store != nil {
		if err := t.Store.Save(ctx, &next); err != nil {
			logger.Error("Failed to persist state", zap.String("intent", intent.Name()), zap.Error(err))
		}
	}

	logger.Info("Applied intent", zap.String("intent", intent.Name()))
	return next, nil
}
