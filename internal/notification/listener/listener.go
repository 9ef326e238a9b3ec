package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-wms-service/internal/notification"
	"github.com/fekuna/omnipos-wms-service/internal/notification/dto"
	"github.com/fekuna/omnipos-wms-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const EventUserLoggedIn = "UserLoggedIn"

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// AuthListener turns login events published by the auth service into login
// notifications.
type AuthListener struct {
	consumer   MessageReader
	dispatcher notification.Dispatcher
	logger     logger.ZapLogger
}

func NewAuthListener(consumer MessageReader, dispatcher notification.Dispatcher, logger logger.ZapLogger) *AuthListener {
	return &AuthListener{
		consumer:   consumer,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (l *AuthListener) Start(ctx context.Context) {
	l.logger.Info("Starting Auth Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Auth Kafka Listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type UserLoggedInEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   LoginPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type LoginPayload struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	IP        string `json:"ip"`
	UserAgent string `json:"user_agent"`
}

func (l *AuthListener) processMessage(ctx context.Context, value []byte) {
	var event UserLoggedInEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != EventUserLoggedIn {
		return
	}

	l.logger.Debug("Processing UserLoggedIn event", zap.String("user_id", event.Payload.UserID))

	l.dispatcher.NotifyLogin(ctx, dto.LoginPayload{
		UserID:    event.Payload.UserID,
		Username:  event.Payload.Username,
		Name:      event.Payload.Name,
		Email:     event.Payload.Email,
		IP:        event.Payload.IP,
		UserAgent: event.Payload.UserAgent,
	})
}
