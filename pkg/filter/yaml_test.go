package filter_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/filter"
	"github.com/dmitrymomot/notifykit/pkg/notification"
)

const sampleRules = `
rules:
  - name: mute-system-noise
    priority: 10
    conditions:
      - field: channel
        operator: equals
        value: system
    actions:
      - type: block
  - name: slow-down-ideas
    type: throttle
    enabled: false
    priority: 5
    conditions:
      - field: channel
        operator: equals
        value: ideas
    actions:
      - type: delay
        delay: 15m
      - type: modify_priority
        priority: low
`

func TestParseRules(t *testing.T) {
	t.Parallel()

	rules, err := filter.ParseRules([]byte(sampleRules))
	require.NoError(t, err)
	require.Len(t, rules, 2)

	assert.Equal(t, "mute-system-noise", rules[0].Name)
	assert.True(t, rules[0].Enabled, "enabled defaults to true")
	assert.Equal(t, 10, rules[0].Priority)
	require.Len(t, rules[0].Conditions, 1)
	assert.Equal(t, filter.OperatorEquals, rules[0].Conditions[0].Operator)
	require.Len(t, rules[0].Actions, 1)
	assert.Equal(t, filter.ActionBlock, rules[0].Actions[0].Type)

	assert.Equal(t, "slow-down-ideas", rules[1].Name)
	assert.Equal(t, "throttle", rules[1].Type)
	assert.False(t, rules[1].Enabled)
	require.Len(t, rules[1].Actions, 2)
	assert.Equal(t, 15*time.Minute, rules[1].Actions[0].Delay)
	assert.Equal(t, notification.PriorityLow, rules[1].Actions[1].Priority)
}

func TestParseRulesErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
		err  error
	}{
		{
			name: "unknown action type",
			yaml: "rules:\n  - name: bad\n    actions:\n      - type: explode\n",
			err:  filter.ErrInvalidAction,
		},
		{
			name: "unknown operator",
			yaml: "rules:\n  - name: bad\n    conditions:\n      - field: title\n        operator: matches\n    actions:\n      - type: block\n",
			err:  filter.ErrInvalidOperator,
		},
		{
			name: "missing name",
			yaml: "rules:\n  - actions:\n      - type: block\n",
			err:  filter.ErrInvalidRule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := filter.ParseRules([]byte(tt.yaml))
			assert.ErrorIs(t, err, tt.err)
		})
	}

	t.Run("invalid delay", func(t *testing.T) {
		t.Parallel()

		_, err := filter.ParseRules([]byte("rules:\n  - name: bad\n    actions:\n      - type: delay\n        delay: soon\n"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		_, err := filter.ParseRules([]byte("rules: ["))
		assert.Error(t, err)
	})
}

func TestLoadRulesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rules.yml")
	require.NoError(t, os.WriteFile(path, []byte(sampleRules), 0o600))

	rules, err := filter.LoadRulesFile(path)
	require.NoError(t, err)
	assert.Len(t, rules, 2)

	_, err = filter.LoadRulesFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
