// Package countdown implements the time-derived engines behind the countdown:
// the remaining-time breakdown, calendar statistics, the progress model, the
// milestone state machine and target date validation.
//
// Every function in this package is a pure function of its arguments. The
// current instant is always passed in by the caller (see internal/clock), so
// the same inputs always yield the same outputs.
package countdown
