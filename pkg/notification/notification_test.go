package notification_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/notification"
)

func TestPayloadClone(t *testing.T) {
	t.Parallel()

	orig := notification.Payload{
		Title:   "original",
		Channel: notification.ChannelSignals,
		Actions: []notification.Action{{Label: "Open", URL: "https://example.com"}},
		Data:    map[string]any{"key": "value"},
	}

	clone := orig.Clone()
	clone.Title = "changed"
	clone.Actions[0].Label = "Dismiss"
	clone.Data["key"] = "other"

	assert.Equal(t, "original", orig.Title)
	assert.Equal(t, "Open", orig.Actions[0].Label)
	assert.Equal(t, "value", orig.Data["key"])
}

func TestPayloadCloneNilMaps(t *testing.T) {
	t.Parallel()

	clone := notification.Payload{Title: "bare"}.Clone()
	assert.Nil(t, clone.Actions)
	assert.Nil(t, clone.Data)
}

func TestPayloadField(t *testing.T) {
	t.Parallel()

	p := notification.Payload{
		Title:     "Price alert",
		Body:      "BTC crossed the threshold",
		Channel:   notification.ChannelSignals,
		Priority:  notification.PriorityHigh,
		Type:      "price_alert",
		Tag:       "btc",
		TargetURL: "https://example.com/chart",
		Data:      map[string]any{"symbol": "BTC", "count": 3},
	}

	tests := []struct {
		name  string
		field string
		want  string
		ok    bool
	}{
		{name: "title", field: "title", want: "Price alert", ok: true},
		{name: "body", field: "body", want: "BTC crossed the threshold", ok: true},
		{name: "channel", field: "channel", want: "signals", ok: true},
		{name: "priority", field: "priority", want: "high", ok: true},
		{name: "type", field: "type", want: "price_alert", ok: true},
		{name: "tag", field: "tag", want: "btc", ok: true},
		{name: "url alias", field: "url", want: "https://example.com/chart", ok: true},
		{name: "custom data string", field: "symbol", want: "BTC", ok: true},
		{name: "custom data non-string", field: "count", want: "3", ok: true},
		{name: "missing known field", field: "category", want: "", ok: false},
		{name: "missing custom field", field: "nope", want: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := p.Field(tt.field)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetData(t *testing.T) {
	t.Parallel()

	var p notification.Payload
	p.SetData("archived", true)

	require.NotNil(t, p.Data)
	assert.Equal(t, true, p.Data["archived"])
}
