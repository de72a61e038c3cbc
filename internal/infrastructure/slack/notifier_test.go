package slack_test

import (
	"context"
	"errors"
	"testing"

	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	slackinfra "github.com/cloudstore-cbd/stock-api/internal/infrastructure/slack"
)

type fakeAPI struct {
	channel string
	nOpts   int
	err     error
}

func (f *fakeAPI) PostMessageContext(_ context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	f.channel = channelID
	f.nOpts = len(options)
	return "", "", f.err
}

func TestNotify_PublicaEnElCanal(t *testing.T) {
	api := &fakeAPI{}
	n := slackinfra.NewNotifier(api, "#stock-alerts")

	require.NoError(t, n.Notify(context.Background(), "⚠️ Stock bajo"))
	assert.Equal(t, "#stock-alerts", api.channel)
	assert.Equal(t, 1, api.nOpts)
}

func TestNotify_PropagaElError(t *testing.T) {
	api := &fakeAPI{err: errors.New("channel_not_found")}
	n := slackinfra.NewNotifier(api, "#stock-alerts")

	err := n.Notify(context.Background(), "texto")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel_not_found")
}

func TestNotify_SinCanalConfigurado(t *testing.T) {
	n := slackinfra.NewNotifier(&fakeAPI{}, "")
	assert.Error(t, n.Notify(context.Background(), "texto"))
}
