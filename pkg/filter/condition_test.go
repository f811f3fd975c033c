package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/notifykit/pkg/filter"
	"github.com/dmitrymomot/notifykit/pkg/notification"
)

func TestConditionMatches(t *testing.T) {
	t.Parallel()

	payload := notification.Payload{
		Title:    "Weekly Report Ready",
		Body:     "Your weekly report is ready for review",
		Channel:  notification.ChannelSystem,
		Priority: notification.PriorityNormal,
		Data:     map[string]any{"team": "Platform"},
	}

	tests := []struct {
		name string
		cond filter.Condition
		want bool
	}{
		{
			name: "equals case-insensitive by default",
			cond: filter.Condition{Field: "title", Operator: filter.OperatorEquals, Value: "weekly report ready"},
			want: true,
		},
		{
			name: "equals case-sensitive mismatch",
			cond: filter.Condition{Field: "title", Operator: filter.OperatorEquals, Value: "weekly report ready", CaseSensitive: true},
			want: false,
		},
		{
			name: "not_equals",
			cond: filter.Condition{Field: "channel", Operator: filter.OperatorNotEquals, Value: "signals"},
			want: true,
		},
		{
			name: "contains",
			cond: filter.Condition{Field: "body", Operator: filter.OperatorContains, Value: "REPORT"},
			want: true,
		},
		{
			name: "not_contains",
			cond: filter.Condition{Field: "body", Operator: filter.OperatorNotContains, Value: "invoice"},
			want: true,
		},
		{
			name: "starts_with",
			cond: filter.Condition{Field: "title", Operator: filter.OperatorStartsWith, Value: "weekly"},
			want: true,
		},
		{
			name: "ends_with",
			cond: filter.Condition{Field: "title", Operator: filter.OperatorEndsWith, Value: "Ready", CaseSensitive: true},
			want: true,
		},
		{
			name: "regex",
			cond: filter.Condition{Field: "body", Operator: filter.OperatorRegex, Value: `weekly\s+report`},
			want: true,
		},
		{
			name: "regex case-sensitive",
			cond: filter.Condition{Field: "title", Operator: filter.OperatorRegex, Value: `^weekly`, CaseSensitive: true},
			want: false,
		},
		{
			name: "malformed regex evaluates false",
			cond: filter.Condition{Field: "title", Operator: filter.OperatorRegex, Value: `([unclosed`},
			want: false,
		},
		{
			name: "exists on custom data",
			cond: filter.Condition{Field: "team", Operator: filter.OperatorExists},
			want: true,
		},
		{
			name: "not_exists on missing field",
			cond: filter.Condition{Field: "nope", Operator: filter.OperatorNotExists},
			want: true,
		},
		{
			name: "missing field fails equals",
			cond: filter.Condition{Field: "nope", Operator: filter.OperatorEquals, Value: ""},
			want: false,
		},
		{
			name: "missing field fails not_contains",
			cond: filter.Condition{Field: "nope", Operator: filter.OperatorNotContains, Value: "x"},
			want: false,
		},
		{
			name: "custom data equals",
			cond: filter.Condition{Field: "team", Operator: filter.OperatorEquals, Value: "platform"},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.cond.Matches(payload))
		})
	}
}

func TestOperatorValid(t *testing.T) {
	t.Parallel()

	assert.True(t, filter.OperatorRegex.Valid())
	assert.True(t, filter.OperatorNotExists.Valid())
	assert.False(t, filter.Operator("matches").Valid())
}
