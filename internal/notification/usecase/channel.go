package usecase

import (
	"context"

	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/internal/notification"
	"github.com/fekuna/omnipos-wms-service/internal/notification/dto"
	"github.com/fekuna/omnipos-wms-service/pkg/logger"
	"go.uber.org/zap"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelPush  = "push"
)

// simulatedChannel stands in for a real provider and only logs the send.
type simulatedChannel struct {
	name   string
	logger logger.ZapLogger
}

func NewSimulatedChannel(name string, log logger.ZapLogger) notification.Channel {
	return &simulatedChannel{name: name, logger: log}
}

// SimulatedChannels returns the email, sms and push channels.
func SimulatedChannels(log logger.ZapLogger) []notification.Channel {
	return []notification.Channel{
		NewSimulatedChannel(ChannelEmail, log),
		NewSimulatedChannel(ChannelSMS, log),
		NewSimulatedChannel(ChannelPush, log),
	}
}

func (c *simulatedChannel) Name() string { return c.name }

func (c *simulatedChannel) Send(ctx context.Context, msg dto.Message) error {
	c.logger.Info("Simulated "+c.name+" notification sent",
		zap.String("kind", msg.Kind),
		zap.String("target", msg.Target),
		zap.String("subject", msg.Subject),
	)
	return nil
}

func channelEnabled(s *model.Settings, name string) bool {
	switch name {
	case ChannelEmail:
		return s.Notification.Email
	case ChannelSMS:
		return s.Notification.SMS
	case ChannelPush:
		return s.Notification.Push
	default:
		return false
	}
}

func loginTarget(name string, p dto.LoginPayload) string {
	switch name {
	case ChannelEmail:
		if p.Email != "" {
			return p.Email
		}
		return "email-not-set"
	case ChannelSMS:
		return "sms-recipient-not-set"
	case ChannelPush:
		if p.Username != "" {
			return p.Username
		}
		return "push-user"
	default:
		return ""
	}
}
