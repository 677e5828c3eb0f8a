package scheduler

import "errors"

// ErrMalformedInput is matched by every MalformedInputError.
var ErrMalformedInput = errors.New("scheduler: malformed input")

// MalformedInputError reports a session or slot string that cannot be
// accepted: wrong token count, unparsable values, or a broken invariant.
type MalformedInputError struct {
	Reason string
}

// Error implements the error interface.
func (e *MalformedInputError) Error() string {
	if e == nil || e.Reason == "" {
		return "malformed input"
	}
	return "malformed input: " + e.Reason
}

// Is allows errors.Is(err, ErrMalformedInput).
func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

func malformed(reason string) error {
	return &MalformedInputError{Reason: reason}
}
