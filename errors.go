package mathup

import (
	"errors"
	"fmt"
)

// Every failed check wraps exactly one of these.
var (
	ErrMalformedTerm         = errors.New("malformed term")
	ErrUnprovedJustification = errors.New("unproved justification")
	ErrRuleMismatch          = errors.New("rule mismatch")
	ErrHashMismatch          = errors.New("derived formula differs from target")
	ErrNotEntailed           = errors.New("target is not a tautological consequence")
	ErrNameCollision         = errors.New("name collision")
	ErrFreshnessViolation    = errors.New("freshness violation")
	ErrUnknownKey            = errors.New("unknown key")
	ErrScope                 = errors.New("scope error")
	ErrAborted               = errors.New("session aborted")
)

// Error reports which rule (or structural operation) rejected a step.
type Error struct {
	Rule string
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return e.Rule + "." + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf builds an *Error wrapping kind, which should be one of the
// package sentinels so that errors.Is keeps working for callers.
func Errorf(rule, op string, kind error, format string, args ...any) *Error {
	return &Error{
		Rule: rule,
		Op:   op,
		Err:  fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...)),
	}
}

func malformed(op, format string, args ...any) *Error {
	return Errorf("construct", op, ErrMalformedTerm, format, args...)
}
