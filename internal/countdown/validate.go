package countdown

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// InputLayout is the format of a user-entered target date (YYYY-MM-DDTHH:mm).
const InputLayout = "2006-01-02T15:04"

// PersistLayout is the ISO-8601 form a target date is stored in, with
// millisecond precision and an explicit offset.
const PersistLayout = "2006-01-02T15:04:05.000Z07:00"

// MaxHorizonYears bounds how far in the future a target may be set.
const MaxHorizonYears = 50

// RejectionReason names the validation rule a candidate target violated.
type RejectionReason string

const (
	ReasonEmptyInput   RejectionReason = "EMPTY_INPUT"
	ReasonUnparseable  RejectionReason = "UNPARSEABLE"
	ReasonNotFuture    RejectionReason = "NOT_FUTURE"
	ReasonTooFarFuture RejectionReason = "TOO_FAR_FUTURE"
)

// Message is the user-facing text for the rule.
func (r RejectionReason) Message() string {
	switch r {
	case ReasonEmptyInput:
		return "please enter a target date"
	case ReasonUnparseable:
		return "target date is not a valid date (expected YYYY-MM-DDTHH:mm)"
	case ReasonNotFuture:
		return "target date must be in the future"
	case ReasonTooFarFuture:
		return fmt.Sprintf("target date must be within %d years from now", MaxHorizonYears)
	}
	return string(r)
}

// ValidationError reports a rejected target date.
type ValidationError struct {
	Reason RejectionReason
	Input  string
	Err    error // parse error for ReasonUnparseable
}

func (e *ValidationError) Error() string {
	return e.Reason.Message()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ReasonOf extracts the rejection reason from err, if it is a ValidationError.
func ReasonOf(err error) (RejectionReason, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason, true
	}
	return "", false
}

// Validate checks a candidate target date against now. Rules are applied in
// order and the first failure wins: empty, unparseable, not in the future,
// more than MaxHorizonYears ahead.
//
// Inputs without an offset are read in now's location.
func Validate(candidate string, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(candidate)
	if s == "" {
		return time.Time{}, &ValidationError{Reason: ReasonEmptyInput, Input: candidate}
	}

	t, err := ParseTarget(s, now.Location())
	if err != nil {
		return time.Time{}, &ValidationError{Reason: ReasonUnparseable, Input: candidate, Err: err}
	}

	return validateRange(t, now, candidate)
}

// ValidateInstant applies the range rules to an already-parsed instant.
func ValidateInstant(candidate, now time.Time) (time.Time, error) {
	return validateRange(candidate, now, candidate.Format(PersistLayout))
}

func validateRange(t, now time.Time, input string) (time.Time, error) {
	if !t.After(now) {
		return time.Time{}, &ValidationError{Reason: ReasonNotFuture, Input: input}
	}
	if t.After(now.AddDate(MaxHorizonYears, 0, 0)) {
		return time.Time{}, &ValidationError{Reason: ReasonTooFarFuture, Input: input}
	}
	return t, nil
}

// ParseTarget parses the input layout, the same with seconds, or RFC 3339.
// Layouts without an offset are interpreted in loc.
func ParseTarget(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	var lastErr error
	for _, layout := range []string{InputLayout, "2006-01-02T15:04:05", "2006-01-02 15:04"} {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("parse target %q: %w", s, lastErr)
}

// FormatPersisted renders t in the persisted ISO-8601 form.
func FormatPersisted(t time.Time) string {
	return t.Format(PersistLayout)
}
