package filter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notifykit/pkg/notification"
)

// Operator compares a payload field against a condition value.
type Operator string

const (
	OperatorEquals      Operator = "equals"
	OperatorNotEquals   Operator = "not_equals"
	OperatorContains    Operator = "contains"
	OperatorNotContains Operator = "not_contains"
	OperatorStartsWith  Operator = "starts_with"
	OperatorEndsWith    Operator = "ends_with"
	OperatorRegex       Operator = "regex"
	OperatorExists      Operator = "exists"
	OperatorNotExists   Operator = "not_exists"
)

// Valid reports whether the operator is one of the known kinds.
func (o Operator) Valid() bool {
	switch o {
	case OperatorEquals, OperatorNotEquals, OperatorContains, OperatorNotContains,
		OperatorStartsWith, OperatorEndsWith, OperatorRegex, OperatorExists, OperatorNotExists:
		return true
	}
	return false
}

// Condition is a single field check. All conditions of a rule must hold for
// the rule's actions to run.
type Condition struct {
	Field         string   `json:"field"`
	Operator      Operator `json:"operator"`
	Value         string   `json:"value,omitempty"`
	CaseSensitive bool     `json:"case_sensitive,omitempty"`
}

// Matches evaluates the condition against the payload. A missing field makes
// every operator evaluate false except not_exists. A malformed regex pattern
// evaluates false rather than propagating an error.
func (c Condition) Matches(p notification.Payload) bool {
	value, ok := p.Field(c.Field)

	switch c.Operator {
	case OperatorExists:
		return ok
	case OperatorNotExists:
		return !ok
	}

	if !ok {
		return false
	}

	if c.Operator == OperatorRegex {
		pattern := c.Value
		if !c.CaseSensitive {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false
		}
		return re.MatchString(value)
	}

	target := c.Value
	if !c.CaseSensitive {
		value = strings.ToLower(value)
		target = strings.ToLower(target)
	}

	switch c.Operator {
	case OperatorEquals:
		return value == target
	case OperatorNotEquals:
		return value != target
	case OperatorContains:
		return strings.Contains(value, target)
	case OperatorNotContains:
		return !strings.Contains(value, target)
	case OperatorStartsWith:
		return strings.HasPrefix(value, target)
	case OperatorEndsWith:
		return strings.HasSuffix(value, target)
	}

	return false
}

// Rule is a declarative filter: when all conditions match, the actions run in
// order against a working copy of the payload. Rules with a higher priority
// evaluate first; ties keep insertion order.
type Rule struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name"`
	Type       string      `json:"type,omitempty"`
	Enabled    bool        `json:"enabled"`
	Conditions []Condition `json:"conditions,omitempty"`
	Actions    []Action    `json:"actions"`
	Priority   int         `json:"priority"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// matches reports whether every condition holds (logical AND). A rule with no
// conditions matches every payload.
func (r Rule) matches(p notification.Payload) bool {
	for _, c := range r.Conditions {
		if !c.Matches(p) {
			return false
		}
	}
	return true
}

// validate checks structural validity before a rule is accepted.
func (r Rule) validate() error {
	if r.Name == "" {
		return errors.Join(ErrInvalidRule, errors.New("rule name cannot be empty"))
	}
	if len(r.Actions) == 0 {
		return errors.Join(ErrInvalidRule, errors.New("rule must have at least one action"))
	}
	for _, c := range r.Conditions {
		if c.Field == "" {
			return errors.Join(ErrInvalidRule, errors.New("condition field cannot be empty"))
		}
		if !c.Operator.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidOperator, c.Operator)
		}
	}
	for _, a := range r.Actions {
		if !a.Type.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidAction, a.Type)
		}
	}
	return nil
}
