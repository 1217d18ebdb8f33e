package domain

import "errors"

var (
	// ErrNotAnArray is reported when a question source does not hold a JSON array.
	ErrNotAnArray = errors.New("question source is not a JSON array")
	// ErrMissingField indicates a question record lacks a required field.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidField indicates a field could not be coerced to its expected type.
	ErrInvalidField = errors.New("invalid field value")
	// ErrCorrectIndexOutOfRange indicates bonne_option does not point into options.
	ErrCorrectIndexOutOfRange = errors.New("correct option index out of range")
	// ErrScoreNotSaved wraps any failure to persist a finished round.
	ErrScoreNotSaved = errors.New("score not saved")
	// ErrUnknownBackend is returned for an unsupported scores.backend value.
	ErrUnknownBackend = errors.New("unknown score backend")
	// ErrInvalidResult indicates a round result violates its counting invariants.
	ErrInvalidResult = errors.New("invalid round result")
)
