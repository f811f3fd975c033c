package filter_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/filter"
	"github.com/dmitrymomot/notifykit/pkg/notification"
	"github.com/dmitrymomot/notifykit/pkg/storage"
)

func newEngine(t *testing.T, rules ...filter.Rule) *filter.Engine {
	t.Helper()

	engine, err := filter.NewEngine(context.Background(), filter.WithRules(rules...))
	require.NoError(t, err)
	return engine
}

func blockRule(name string, priority int, channel string) filter.Rule {
	return filter.Rule{
		Name:     name,
		Enabled:  true,
		Priority: priority,
		Conditions: []filter.Condition{
			{Field: "channel", Operator: filter.OperatorEquals, Value: channel},
		},
		Actions: []filter.Action{{Type: filter.ActionBlock}},
	}
}

func TestProcessBlock(t *testing.T) {
	t.Parallel()

	lower := filter.Rule{
		Name:     "retitle",
		Enabled:  true,
		Priority: 5,
		Actions: []filter.Action{
			{Type: filter.ActionModifyContent, Title: "should never appear"},
		},
	}
	engine := newEngine(t, blockRule("mute-system", 10, "system"), lower)

	res := engine.Process(notification.Payload{Title: "maintenance window", Channel: notification.ChannelSystem})

	assert.True(t, res.Blocked)
	assert.False(t, res.Modified)
	assert.Empty(t, res.AppliedRules)
	// No lower-priority modification leaks into the result.
	assert.Equal(t, "maintenance window", res.Payload.Title)
}

func TestProcessBlockDiscardsSameRuleModifications(t *testing.T) {
	t.Parallel()

	// Content modification precedes the block within one rule: the whole
	// rule's in-flight changes are discarded and the call reports blocked.
	rule := filter.Rule{
		Name:     "modify-then-block",
		Enabled:  true,
		Priority: 1,
		Actions: []filter.Action{
			{Type: filter.ActionModifyContent, Title: "rewritten"},
			{Type: filter.ActionBlock},
		},
	}
	engine := newEngine(t, rule)

	res := engine.Process(notification.Payload{Title: "original"})

	assert.True(t, res.Blocked)
	assert.Equal(t, "original", res.Payload.Title)
	assert.Empty(t, res.AppliedRules)
}

func TestProcessEarlierRulesKeepEffectBeforeBlock(t *testing.T) {
	t.Parallel()

	first := filter.Rule{
		Name:     "redirect",
		Enabled:  true,
		Priority: 20,
		Actions:  []filter.Action{{Type: filter.ActionRedirect, URL: "https://example.com/inbox"}},
	}
	engine := newEngine(t, first, blockRule("mute-system", 10, "system"))

	res := engine.Process(notification.Payload{Channel: notification.ChannelSystem})

	assert.True(t, res.Blocked)
	assert.True(t, res.Modified)
	assert.Equal(t, []string{"redirect"}, res.AppliedRules)
	assert.Equal(t, "https://example.com/inbox", res.Payload.TargetURL)
}

func TestProcessActions(t *testing.T) {
	t.Parallel()

	rule := filter.Rule{
		Name:     "reshape",
		Enabled:  true,
		Priority: 1,
		Conditions: []filter.Condition{
			{Field: "channel", Operator: filter.OperatorEquals, Value: "ideas"},
		},
		Actions: []filter.Action{
			{Type: filter.ActionDelay, Delay: 15 * time.Minute},
			{Type: filter.ActionModifyPriority, Priority: notification.PriorityLow},
			{Type: filter.ActionGroup, Suffix: "-digest"},
			{Type: filter.ActionArchive},
			{Type: filter.ActionMarkAsRead},
		},
	}
	engine := newEngine(t, rule)

	res := engine.Process(notification.Payload{
		Title:   "New idea posted",
		Channel: notification.ChannelIdeas,
		Tag:     "ideas",
	})

	require.False(t, res.Blocked)
	assert.True(t, res.Modified)
	assert.Equal(t, []string{"reshape"}, res.AppliedRules)
	assert.Equal(t, notification.PriorityLow, res.Payload.Priority)
	assert.Equal(t, "ideas-digest", res.Payload.Tag)
	assert.Equal(t, int64(15*60*1000), res.Payload.Data[filter.DataKeyDelay])
	assert.Equal(t, true, res.Payload.Data["archived"])
	assert.Equal(t, true, res.Payload.Data["read"])
}

func TestProcessPriorityOrderAndTies(t *testing.T) {
	t.Parallel()

	retitleA := filter.Rule{
		Name:     "first-inserted",
		Enabled:  true,
		Priority: 5,
		Actions:  []filter.Action{{Type: filter.ActionModifyContent, Title: "from A"}},
	}
	retitleB := filter.Rule{
		Name:     "second-inserted",
		Enabled:  true,
		Priority: 5,
		Actions:  []filter.Action{{Type: filter.ActionModifyContent, Title: "from B"}},
	}
	higher := filter.Rule{
		Name:     "higher",
		Enabled:  true,
		Priority: 50,
		Actions:  []filter.Action{{Type: filter.ActionModifyContent, Body: "seen first"}},
	}
	engine := newEngine(t, retitleA, retitleB, higher)

	res := engine.Process(notification.Payload{Title: "start"})

	// Higher priority runs first; equal priorities keep insertion order,
	// so B overwrites A last.
	assert.Equal(t, []string{"higher", "first-inserted", "second-inserted"}, res.AppliedRules)
	assert.Equal(t, "from B", res.Payload.Title)
	assert.Equal(t, "seen first", res.Payload.Body)
}

func TestProcessSkipsDisabledRules(t *testing.T) {
	t.Parallel()

	rule := blockRule("muted", 10, "system")
	rule.Enabled = false
	engine := newEngine(t, rule)

	res := engine.Process(notification.Payload{Channel: notification.ChannelSystem})
	assert.False(t, res.Blocked)
}

func TestProcessIdempotent(t *testing.T) {
	t.Parallel()

	rule := filter.Rule{
		Name:     "tag",
		Enabled:  true,
		Priority: 1,
		Actions:  []filter.Action{{Type: filter.ActionGroup, Suffix: "-x"}},
	}
	engine := newEngine(t, rule)

	payload := notification.Payload{Title: "same in, same out", Tag: "base"}
	first := engine.Process(payload)
	second := engine.Process(payload)

	assert.Equal(t, first, second)
	// The input payload itself is never mutated.
	assert.Equal(t, "base", payload.Tag)
}

func TestEngineCRUD(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine := newEngine(t)

	added, err := engine.AddRule(ctx, blockRule("mute-system", 10, "system"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, added.ID)
	assert.False(t, added.CreatedAt.IsZero())

	t.Run("duplicate id rejected", func(t *testing.T) {
		_, err := engine.AddRule(ctx, filter.Rule{
			ID:      added.ID,
			Name:    "dup",
			Actions: []filter.Action{{Type: filter.ActionBlock}},
		})
		assert.ErrorIs(t, err, filter.ErrRuleExists)
	})

	t.Run("update", func(t *testing.T) {
		updated := added
		updated.Name = "mute-all-system"
		updated.Priority = 99
		require.NoError(t, engine.UpdateRule(ctx, updated))

		rules := engine.GetRules(ctx)
		require.Len(t, rules, 1)
		assert.Equal(t, "mute-all-system", rules[0].Name)
		assert.Equal(t, 99, rules[0].Priority)
		assert.Equal(t, added.CreatedAt, rules[0].CreatedAt)
	})

	t.Run("toggle", func(t *testing.T) {
		enabled, err := engine.ToggleRule(ctx, added.ID)
		require.NoError(t, err)
		assert.False(t, enabled)

		res := engine.Process(notification.Payload{Channel: notification.ChannelSystem})
		assert.False(t, res.Blocked)

		enabled, err = engine.ToggleRule(ctx, added.ID)
		require.NoError(t, err)
		assert.True(t, enabled)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, engine.RemoveRule(ctx, added.ID))
		assert.Empty(t, engine.GetRules(ctx))
		assert.ErrorIs(t, engine.RemoveRule(ctx, added.ID), filter.ErrRuleNotFound)
	})
}

func TestEngineValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine := newEngine(t)

	_, err := engine.AddRule(ctx, filter.Rule{Actions: []filter.Action{{Type: filter.ActionBlock}}})
	assert.ErrorIs(t, err, filter.ErrInvalidRule)

	_, err = engine.AddRule(ctx, filter.Rule{Name: "no-actions"})
	assert.ErrorIs(t, err, filter.ErrInvalidRule)

	_, err = engine.AddRule(ctx, filter.Rule{
		Name:       "bad-operator",
		Conditions: []filter.Condition{{Field: "title", Operator: "matches"}},
		Actions:    []filter.Action{{Type: filter.ActionBlock}},
	})
	assert.ErrorIs(t, err, filter.ErrInvalidOperator)

	_, err = engine.AddRule(ctx, filter.Rule{
		Name:    "bad-action",
		Actions: []filter.Action{{Type: "explode"}},
	})
	assert.ErrorIs(t, err, filter.ErrInvalidAction)
}

func TestEnginePersistence(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := storage.NewMemory()

	engine, err := filter.NewEngine(ctx, filter.WithStore(store))
	require.NoError(t, err)

	added, err := engine.AddRule(ctx, blockRule("mute-system", 10, "system"))
	require.NoError(t, err)

	// A fresh engine over the same store loads the persisted set.
	reloaded, err := filter.NewEngine(ctx, filter.WithStore(store))
	require.NoError(t, err)

	rules := reloaded.GetRules(ctx)
	require.Len(t, rules, 1)
	assert.Equal(t, added.ID, rules[0].ID)
	assert.Equal(t, "mute-system", rules[0].Name)

	res := reloaded.Process(notification.Payload{Channel: notification.ChannelSystem})
	assert.True(t, res.Blocked)
}

func TestEnginePersistedSetReplacesSeededRules(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := storage.NewMemory()

	first, err := filter.NewEngine(ctx, filter.WithStore(store))
	require.NoError(t, err)
	_, err = first.AddRule(ctx, blockRule("persisted", 10, "system"))
	require.NoError(t, err)

	second, err := filter.NewEngine(ctx,
		filter.WithStore(store),
		filter.WithRules(blockRule("seeded", 1, "ideas")),
	)
	require.NoError(t, err)

	rules := second.GetRules(ctx)
	require.Len(t, rules, 1)
	assert.Equal(t, "persisted", rules[0].Name)
}
