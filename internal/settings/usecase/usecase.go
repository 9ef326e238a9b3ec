package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/internal/settings"
	"github.com/fekuna/omnipos-wms-service/pkg/logger"
	"go.uber.org/zap"
)

type settingsUseCase struct {
	repo   settings.Repository
	shared settings.SharedCache // optional
	ttl    time.Duration
	logger logger.ZapLogger
	now    func() time.Time

	mu       sync.RWMutex
	cached   *model.Settings
	cachedAt time.Time
	hooks    []func(model.Settings)
}

// NewSettingsUseCase returns the process wide settings accessor. The document
// is cached for ttl; a ttl of zero keeps it until the next update.
func NewSettingsUseCase(repo settings.Repository, shared settings.SharedCache, ttl time.Duration, log logger.ZapLogger) settings.UseCase {
	return &settingsUseCase{
		repo:   repo,
		shared: shared,
		ttl:    ttl,
		logger: log,
		now:    time.Now,
	}
}

func (uc *settingsUseCase) GetSettings(ctx context.Context) (*model.Settings, error) {
	if doc, ok := uc.local(); ok {
		return &doc, nil
	}

	if uc.shared != nil {
		doc, ok, err := uc.shared.Get(ctx)
		if err != nil {
			uc.logger.Warn("Failed to read settings from cache", zap.Error(err))
		} else if ok {
			uc.store(*doc)
			return doc, nil
		}
	}

	doc, err := uc.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	uc.store(*doc)

	if uc.shared != nil {
		if err := uc.shared.Set(ctx, doc); err != nil {
			uc.logger.Warn("Failed to cache settings", zap.Error(err))
		}
	}

	out := *doc
	return &out, nil
}

func (uc *settingsUseCase) UpdateSettings(ctx context.Context, doc *model.Settings) (*model.Settings, error) {
	if err := uc.repo.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	uc.invalidate(ctx)
	uc.store(*doc)

	uc.mu.RLock()
	hooks := uc.hooks
	uc.mu.RUnlock()
	for _, hook := range hooks {
		hook(*doc)
	}

	uc.logger.Info("Settings updated")
	out := *doc
	return &out, nil
}

func (uc *settingsUseCase) OnUpdate(hook func(doc model.Settings)) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.hooks = append(uc.hooks[:len(uc.hooks):len(uc.hooks)], hook)
}

func (uc *settingsUseCase) local() (model.Settings, bool) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	if uc.cached == nil {
		return model.Settings{}, false
	}
	if uc.ttl > 0 && uc.now().Sub(uc.cachedAt) > uc.ttl {
		return model.Settings{}, false
	}
	return *uc.cached, true
}

func (uc *settingsUseCase) store(doc model.Settings) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.cached = &doc
	uc.cachedAt = uc.now()
}

func (uc *settingsUseCase) invalidate(ctx context.Context) {
	uc.mu.Lock()
	uc.cached = nil
	uc.mu.Unlock()

	if uc.shared != nil {
		if err := uc.shared.Invalidate(ctx); err != nil {
			uc.logger.Warn("Failed to invalidate settings cache", zap.Error(err))
		}
	}
}
