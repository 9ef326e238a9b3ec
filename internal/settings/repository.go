package settings

import (
	"context"

	"github.com/fekuna/omnipos-wms-service/internal/model"
)

// Repository persists the whole settings document. There is no partial update
// at this level; callers merge before saving.
type Repository interface {
	Get(ctx context.Context) (*model.Settings, error)
	Save(ctx context.Context, doc *model.Settings) error
}

// SharedCache is a cross-process cache of the document (Redis).
type SharedCache interface {
	Get(ctx context.Context) (*model.Settings, bool, error)
	Set(ctx context.Context, doc *model.Settings) error
	Invalidate(ctx context.Context) error
}
