package slack

import (
	"context"
	"fmt"

	slackapi "github.com/slack-go/slack"
)

// API es el subconjunto del cliente de Slack que usamos; permite inyectar un
// doble en tests.
type API interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

// Notifier publica alertas en un canal de Slack. Implementa alert.Notifier.
type Notifier struct {
	api     API
	channel string
}

// New construye un Notifier con el cliente oficial.
func New(token, channel string) *Notifier {
	return NewNotifier(slackapi.New(token), channel)
}

// NewNotifier permite inyectar cualquier implementación de API.
func NewNotifier(api API, channel string) *Notifier {
	return &Notifier{api: api, channel: channel}
}

// Notify envía el texto al canal configurado.
func (n *Notifier) Notify(ctx context.Context, text string) error {
	if n.channel == "" {
		return fmt.Errorf("slack: canal de alertas sin configurar")
	}
	if _, _, err := n.api.PostMessageContext(ctx, n.channel, slackapi.MsgOptionText(text, false)); err != nil {
		return fmt.Errorf("slack: publicar mensaje: %w", err)
	}
	return nil
}
