package domain

import "fmt"

// ValidationError reports malformed or missing input. It is never retried
// and never partially applied.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a referenced blueprint or contract that does not
// exist. No side effects have been performed.
type NotFoundError struct {
	Kind string
}

func (e *NotFoundError) Error() string { return e.Kind + " not found" }

// RuleError reports a business-rule violation: a blueprint with dependent
// contracts, an immutable contract, a transition outside the graph, or a
// missing required signature. The message carries enough context for the
// caller to self-correct.
type RuleError struct {
	Msg string
}

func (e *RuleError) Error() string { return e.Msg }

// Rulef builds a RuleError from a format string.
func Rulef(format string, args ...any) error {
	return &RuleError{Msg: fmt.Sprintf(format, args...)}
}

// ConflictError reports a lost compare-and-swap race on a contract write.
// Nothing was persisted; the caller may re-read and retry.
type ConflictError struct {
	Kind string
	ID   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s was modified concurrently", e.Kind, e.ID)
}
