package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/fekuna/omnipos-wms-service/internal/apperror"
	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/internal/notification"
	"github.com/fekuna/omnipos-wms-service/internal/notification/dto"
	"github.com/fekuna/omnipos-wms-service/pkg/logger"
	"go.uber.org/zap"
)

type Options struct {
	QueueSize      int
	Workers        int
	WebhookTimeout time.Duration
}

type task struct {
	name string
	run  func(ctx context.Context)
}

type dispatcher struct {
	settings notification.SettingsProvider
	channels []notification.Channel
	webhook  notification.WebhookSender
	opts     Options
	logger   logger.ZapLogger
	now      func() time.Time

	queue   chan task
	wg      sync.WaitGroup
	mu      sync.RWMutex
	started bool
	closed  bool
}

func NewDispatcher(settings notification.SettingsProvider, channels []notification.Channel, webhook notification.WebhookSender, opts Options, log logger.ZapLogger) notification.Dispatcher {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.WebhookTimeout <= 0 {
		opts.WebhookTimeout = 5 * time.Second
	}
	return &dispatcher{
		settings: settings,
		channels: channels,
		webhook:  webhook,
		opts:     opts,
		logger:   log,
		now:      time.Now,
		queue:    make(chan task, opts.QueueSize),
	}
}

func (d *dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true

	for i := 0; i < d.opts.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	d.logger.Info("Notification dispatcher started", zap.Int("workers", d.opts.Workers), zap.Int("queue_size", d.opts.QueueSize))
}

func (d *dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
	d.logger.Info("Notification dispatcher stopped")
}

func (d *dispatcher) worker() {
	defer d.wg.Done()
	for t := range d.queue {
		d.run(t)
	}
}

func (d *dispatcher) run(t task) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Notification task panicked", zap.String("task", t.name), zap.Any("panic", r))
		}
	}()
	t.run(context.Background())
}

func (d *dispatcher) enqueue(t task) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.logger.Warn("Notification dispatcher closed, dropping event", zap.String("task", t.name))
		return
	}
	select {
	case d.queue <- t:
	default:
		d.logger.Warn("Notification queue full, dropping event", zap.String("task", t.name))
	}
}

func (d *dispatcher) NotifyLogin(ctx context.Context, payload dto.LoginPayload) {
	d.enqueue(task{name: "login", run: func(ctx context.Context) {
		d.dispatchLogin(ctx, payload)
	}})
}

func (d *dispatcher) dispatchLogin(ctx context.Context, p dto.LoginPayload) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Login notification failed", zap.String("user_id", p.UserID), zap.Any("panic", r))
		}
	}()

	s, err := d.settings.GetSettings(ctx)
	if err != nil {
		d.logger.Error("Login notification failed", zap.String("user_id", p.UserID), zap.Error(err))
		return
	}
	if !s.Security.LoginAlert {
		return
	}

	var wg sync.WaitGroup
	for _, ch := range d.channels {
		if !channelEnabled(s, ch.Name()) {
			continue
		}
		msg := dto.Message{
			Kind:    "login",
			Target:  loginTarget(ch.Name(), p),
			Subject: "Login alert",
			Body:    fmt.Sprintf("%s signed in from %s", orDefault(p.Username, p.UserID), orDefault(p.IP, "unknown")),
		}
		wg.Add(1)
		go func(ch notification.Channel) {
			defer wg.Done()
			d.send(ctx, ch, msg)
		}(ch)
	}

	if url := s.Integration.Webhooks; url != "" {
		body := dto.LoginWebhook{
			Event: "login",
			User: dto.WebhookUser{
				ID:       p.UserID,
				Username: p.Username,
				Name:     p.Name,
				Email:    p.Email,
			},
			Meta: dto.LoginMeta{
				IP:        orDefault(p.IP, "unknown"),
				UserAgent: orDefault(p.UserAgent, "unknown"),
			},
			Timestamp: d.now().UTC(),
			APIKey:    orDefault(s.Integration.APIKey, "demo"),
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.DeliverWebhook(ctx, url, body)
		}()
	}

	wg.Wait()
}

// send isolates one channel so a failing or panicking channel does not stop the others.
func (d *dispatcher) send(ctx context.Context, ch notification.Channel, msg dto.Message) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Notification channel panicked", zap.String("channel", ch.Name()), zap.Any("panic", r))
		}
	}()
	if err := ch.Send(ctx, msg); err != nil {
		d.logger.Warn("Notification channel failed", zap.String("channel", ch.Name()), zap.Error(err))
	}
}

func (d *dispatcher) NotifyOrderEvent(ctx context.Context, event string, o *model.Order) {
	if o == nil {
		return
	}
	body := dto.OrderWebhookBody{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount.StringFixed(2),
		UserID:      o.UserID,
		Items:       make([]dto.OrderItemWebhook, 0, len(o.Items)),
	}
	for _, item := range o.Items {
		body.Items = append(body.Items, dto.OrderItemWebhook{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price.StringFixed(2),
		})
	}

	d.enqueue(task{name: event, run: func(ctx context.Context) {
		s, err := d.settings.GetSettings(ctx)
		if err != nil {
			d.logger.Error("Order notification failed", zap.String("order_id", body.ID), zap.Error(err))
			return
		}
		if s.Integration.Webhooks == "" {
			return
		}
		d.DeliverWebhook(ctx, s.Integration.Webhooks, dto.OrderWebhook{
			Event:     event,
			Order:     body,
			Timestamp: d.now().UTC(),
			APIKey:    orDefault(s.Integration.APIKey, "demo"),
		})
	}})
}

func (d *dispatcher) DeliverWebhook(ctx context.Context, url string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		d.logger.Error("Webhook delivery failed", zap.String("url", url), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, d.opts.WebhookTimeout)
	defer cancel()

	if err := d.webhook.Post(ctx, url, body); err != nil {
		d.logger.Error("Webhook delivery failed", zap.String("url", url), zap.Error(err))
		return
	}
	d.logger.Info("Webhook delivered", zap.String("url", url))
}

func (d *dispatcher) TestWebhook(ctx context.Context, input *dto.TestWebhookInput) (*dto.TestWebhookResult, error) {
	url := input.URL
	if url == "" {
		s, err := d.settings.GetSettings(ctx)
		if err != nil {
			d.logger.Warn("Failed to load settings for webhook test", zap.Error(err))
		} else {
			url = s.Integration.Webhooks
		}
	}
	if url == "" {
		return nil, apperror.ErrWebhookNotConfigured
	}

	var payload interface{}
	if len(input.Payload) > 0 && string(input.Payload) != "null" {
		payload = input.Payload
	} else {
		payload = dto.TestWebhookPayload{
			Event:   "test",
			Message: "Webhook test dari WMS",
			User: dto.WebhookUser{
				ID:       input.UserID,
				Username: input.Username,
			},
			Timestamp: d.now().UTC(),
		}
	}

	d.DeliverWebhook(ctx, url, payload)

	return &dto.TestWebhookResult{
		OK:          true,
		DeliveredTo: url,
		Payload:     payload,
	}, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
