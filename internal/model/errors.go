package model

import "fmt"

// DataInconsistencyError reports a required domain field that is absent or
// malformed. Fatal for the whole document.
type DataInconsistencyError struct {
	Entity  string
	Rule    string
	Message string
}

func (e *DataInconsistencyError) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("data inconsistency on %s: %s (rule=%s)", e.Entity, e.Message, e.Rule)
	}
	return fmt.Sprintf("data inconsistency: %s (rule=%s)", e.Message, e.Rule)
}

// NewDataInconsistency creates a new data inconsistency error
func NewDataInconsistency(entity, rule, message string) *DataInconsistencyError {
	return &DataInconsistencyError{
		Entity:  entity,
		Rule:    rule,
		Message: message,
	}
}

// InvariantViolationError reports an internal assertion failure. It indicates
// a bug in the generator, not bad input.
type InvariantViolationError struct {
	Message string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation: %s", e.Message)
}

// NewInvariantViolation creates a new invariant violation error
func NewInvariantViolation(format string, args ...interface{}) *InvariantViolationError {
	return &InvariantViolationError{
		Message: fmt.Sprintf(format, args...),
	}
}

// UnsupportedVariantError reports a tax code absent from a dispatch table,
// or a (regime, code) pair the tables cannot reach.
type UnsupportedVariantError struct {
	Table  string
	Code   int
	Entity string
}

func (e *UnsupportedVariantError) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("unsupported %s variant %d on %s", e.Table, e.Code, e.Entity)
	}
	return fmt.Sprintf("unsupported %s variant %d", e.Table, e.Code)
}

// NewUnsupportedVariant creates a new unsupported variant error
func NewUnsupportedVariant(table string, code int, entity string) *UnsupportedVariantError {
	return &UnsupportedVariantError{
		Table:  table,
		Code:   code,
		Entity: entity,
	}
}
