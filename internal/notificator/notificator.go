package notificator

import (
	"runtime/debug"

	"github.com/tokenpulse/tokenpulse/internal/models"
	"github.com/tokenpulse/tokenpulse/pkg/logger"
)

// Channel delivers a rendered notification. The notification itself is
// passed along so a channel can pick its recipient.
type Channel interface {
	Name() string
	Send(notification *models.Notification, message string) error
}

// Notificator fans notifications out to every configured channel. A failing
// or panicking channel does not affect the others.
type Notificator struct {
	logger   *logger.Logger
	channels []Channel
}

func NewNotificator(logger *logger.Logger, channels ...Channel) *Notificator {
	n := &Notificator{logger: logger}
	for _, c := range channels {
		if c != nil {
			n.channels = append(n.channels, c)
		}
	}
	return n
}

// safeCall runs a function with panic recovery
func (n *Notificator) safeCall(fn func(), context string) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("Function panicked",
				"context", context,
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}

func (n *Notificator) SendNotification(notification *models.Notification) {
	message := notification.String()
	n.logger.Info("Notification", "kind", notification.Kind, "account", notification.Account, "message", message)

	for _, c := range n.channels {
		c := c
		n.safeCall(func() {
			if err := c.Send(notification, message); err != nil {
				n.logger.Error("Failed to send notification", "channel", c.Name(), "error", err)
			}
		}, c.Name()+"Notification")
	}
}
