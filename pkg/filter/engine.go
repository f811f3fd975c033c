package filter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/notification"
	"github.com/dmitrymomot/notifykit/pkg/storage"
)

// DefaultStoreKey is the storage key rule sets are persisted under.
const DefaultStoreKey = "notifykit:filters"

// Result is the outcome of running a payload through the rule pipeline.
type Result struct {
	// Payload is the (possibly modified) working copy. When Blocked is true
	// it reflects the state before the blocking rule ran.
	Payload notification.Payload `json:"payload"`

	// AppliedRules lists, in evaluation order, the names of rules whose
	// non-block actions modified the payload. Rules that only blocked are
	// not listed; only Blocked is surfaced for them.
	AppliedRules []string `json:"applied_rules,omitempty"`

	Blocked  bool `json:"blocked"`
	Modified bool `json:"modified"`
}

// Engine evaluates an ordered set of declarative rules against payloads and
// offers CRUD over the rule set. Rules are kept in insertion order; a
// priority-sorted copy is rebuilt on every write so Process never sorts.
type Engine struct {
	mu     sync.RWMutex
	rules  []Rule // insertion order
	sorted []Rule // priority desc, stable on ties

	store    storage.Store // optional
	storeKey string
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithStore persists the rule set through the given store after every write
// and loads any previously persisted set on construction.
func WithStore(store storage.Store) EngineOption {
	return func(e *Engine) {
		e.store = store
	}
}

// WithStoreKey overrides the storage key used for persisted rules.
func WithStoreKey(key string) EngineOption {
	return func(e *Engine) {
		if key != "" {
			e.storeKey = key
		}
	}
}

// WithLogger sets the logger for the Engine.
func WithLogger(log *slog.Logger) EngineOption {
	return func(e *Engine) {
		if log != nil {
			e.logger = log
		}
	}
}

// WithRules seeds the engine with initial rules. Seeded rules are validated
// on construction and take insertion order as given.
func WithRules(rules ...Rule) EngineOption {
	return func(e *Engine) {
		e.rules = append(e.rules, rules...)
	}
}

// NewEngine creates a filter rule engine. When a store is configured, a
// previously persisted rule set is loaded and replaces any seeded rules; a
// load failure is logged and the engine starts from the seeded set (the next
// successful save reconciles durable state).
func NewEngine(ctx context.Context, opts ...EngineOption) (*Engine, error) {
	e := &Engine{
		storeKey: DefaultStoreKey,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	for i := range e.rules {
		if err := e.prepare(&e.rules[i]); err != nil {
			return nil, err
		}
	}

	if e.store != nil {
		if err := e.load(ctx); err != nil {
			e.logger.LogAttrs(ctx, slog.LevelWarn, "Failed to load persisted filter rules, starting from seeded set",
				logger.Error(err),
			)
		}
	}

	e.resort()
	return e, nil
}

// prepare validates a rule and fills in defaults.
func (e *Engine) prepare(r *Rule) error {
	if err := r.validate(); err != nil {
		return err
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	now := time.Now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = r.CreatedAt
	}
	return nil
}

// AddRule validates and appends a new rule, then persists the set.
func (e *Engine) AddRule(ctx context.Context, rule Rule) (Rule, error) {
	if err := e.prepare(&rule); err != nil {
		return Rule{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, existing := range e.rules {
		if existing.ID == rule.ID {
			return Rule{}, fmt.Errorf("%w: %s", ErrRuleExists, rule.ID)
		}
	}

	e.rules = append(e.rules, rule)
	e.resort()
	e.persist(ctx)

	return rule, nil
}

// UpdateRule replaces the rule with the same ID, keeping its creation time
// and insertion position.
func (e *Engine) UpdateRule(ctx context.Context, rule Rule) error {
	if err := rule.validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for i, existing := range e.rules {
		if existing.ID == rule.ID {
			rule.CreatedAt = existing.CreatedAt
			rule.UpdatedAt = time.Now()
			e.rules[i] = rule
			e.resort()
			e.persist(ctx)
			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrRuleNotFound, rule.ID)
}

// RemoveRule deletes the rule with the given ID.
func (e *Engine) RemoveRule(ctx context.Context, id uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, existing := range e.rules {
		if existing.ID == id {
			e.rules = append(e.rules[:i], e.rules[i+1:]...)
			e.resort()
			e.persist(ctx)
			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrRuleNotFound, id)
}

// GetRules returns a copy of the rule set in insertion order.
func (e *Engine) GetRules(ctx context.Context) []Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// ToggleRule flips the rule's enabled flag and returns the new state.
func (e *Engine) ToggleRule(ctx context.Context, id uuid.UUID) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.rules {
		if e.rules[i].ID == id {
			e.rules[i].Enabled = !e.rules[i].Enabled
			e.rules[i].UpdatedAt = time.Now()
			e.resort()
			e.persist(ctx)
			return e.rules[i].Enabled, nil
		}
	}

	return false, fmt.Errorf("%w: %s", ErrRuleNotFound, id)
}

// Process runs the payload through all enabled rules in priority order
// (higher first, ties in insertion order) and returns the decision.
//
// Per rule, all conditions are ANDed against the current working copy. When
// they hold, the rule's actions execute in order against a rule-local copy;
// hitting a block action discards that copy and halts the whole pipeline, so
// modifications from earlier actions of the same rule never escape, while
// rules already evaluated keep their effect. Process is idempotent for an
// unchanged rule set and input.
func (e *Engine) Process(p notification.Payload) Result {
	e.mu.RLock()
	defer e.mu.RUnlock()

	working := p.Clone()
	res := Result{}

	for _, rule := range e.sorted {
		if !rule.Enabled {
			continue
		}
		if !rule.matches(working) {
			continue
		}

		candidate := working.Clone()
		applied := false

		for _, action := range rule.Actions {
			if action.Type == ActionBlock {
				// Execute-then-discard: drop this rule's in-flight
				// modifications and stop the pipeline.
				res.Payload = working
				res.Blocked = true
				return res
			}
			action.apply(&candidate)
			applied = true
		}

		if applied {
			working = candidate
			res.Modified = true
			res.AppliedRules = append(res.AppliedRules, rule.Name)
		}
	}

	res.Payload = working
	return res
}

// resort rebuilds the priority-sorted view. Callers must hold the write lock
// (or be in single-threaded construction).
func (e *Engine) resort() {
	e.sorted = make([]Rule, len(e.rules))
	copy(e.sorted, e.rules)
	sort.SliceStable(e.sorted, func(i, j int) bool {
		return e.sorted[i].Priority > e.sorted[j].Priority
	})
}

// persist saves the rule set through the configured store. Failures are
// logged only: the in-memory set stays authoritative and the next successful
// save reconciles durable state. Callers must hold the write lock.
func (e *Engine) persist(ctx context.Context) {
	if e.store == nil {
		return
	}

	blob, err := json.Marshal(e.rules)
	if err != nil {
		e.logger.LogAttrs(ctx, slog.LevelError, "Failed to serialize filter rules",
			logger.Error(err),
		)
		return
	}

	if err := e.store.Save(ctx, e.storeKey, blob); err != nil {
		e.logger.LogAttrs(ctx, slog.LevelWarn, "Failed to persist filter rules",
			slog.String("store_key", e.storeKey),
			logger.Error(err),
		)
	}
}

// load replaces the rule set with the persisted snapshot, if any.
func (e *Engine) load(ctx context.Context) error {
	blob, err := e.store.Load(ctx, e.storeKey)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil
		}
		return err
	}

	var rules []Rule
	if err := json.Unmarshal(blob, &rules); err != nil {
		return fmt.Errorf("failed to decode persisted filter rules: %w", err)
	}

	e.rules = rules
	return nil
}
