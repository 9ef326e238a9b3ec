package settings

import (
	"context"

	"github.com/fekuna/omnipos-wms-service/internal/model"
)

type UseCase interface {
	GetSettings(ctx context.Context) (*model.Settings, error)
	// UpdateSettings replaces the whole document and runs the update hooks.
	UpdateSettings(ctx context.Context, doc *model.Settings) (*model.Settings, error)
	// OnUpdate registers a hook called with the new document after every update.
	OnUpdate(hook func(doc model.Settings))
}
