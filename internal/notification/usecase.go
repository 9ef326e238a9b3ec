package notification

import (
	"context"

	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/internal/notification/dto"
)

// Dispatcher fans events out to the configured channels. Notify methods
// enqueue and return immediately; delivery problems are logged, never
// returned to the caller.
type Dispatcher interface {
	NotifyLogin(ctx context.Context, payload dto.LoginPayload)
	NotifyOrderEvent(ctx context.Context, event string, order *model.Order)
	// DeliverWebhook makes a single POST attempt.
	DeliverWebhook(ctx context.Context, url string, payload interface{})
	TestWebhook(ctx context.Context, input *dto.TestWebhookInput) (*dto.TestWebhookResult, error)
	Start()
	// Close stops accepting events and waits for queued ones to finish.
	Close()
}

type SettingsProvider interface {
	GetSettings(ctx context.Context) (*model.Settings, error)
}

// Channel is an outbound notification medium (email, sms, push).
type Channel interface {
	Name() string
	Send(ctx context.Context, msg dto.Message) error
}

type WebhookSender interface {
	Post(ctx context.Context, url string, body []byte) error
}
