package filter

import "errors"

var (
	// ErrRuleNotFound is returned when the referenced rule does not exist.
	ErrRuleNotFound = errors.New("filter rule not found")

	// ErrRuleExists is returned when adding a rule whose ID is already taken.
	ErrRuleExists = errors.New("filter rule already exists")

	// ErrInvalidRule is returned when a rule fails validation.
	ErrInvalidRule = errors.New("invalid filter rule")

	// ErrInvalidOperator is returned for an unknown condition operator.
	ErrInvalidOperator = errors.New("invalid condition operator")

	// ErrInvalidAction is returned for an unknown action type.
	ErrInvalidAction = errors.New("invalid action type")
)
