package expreplay

import "errors"

// ExpReplayError implements errors unique to an experience replay
// buffer.
type ExpReplayError struct {
	Op  string
	Err error
}

// Error satisifes the error interface
func (e *ExpReplayError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *ExpReplayError) Unwrap() error {
	return e.Err
}

// ErrInsufficientSamples is reported when the buffer does not yet hold
// enough transitions to build a single state.
var ErrInsufficientSamples = errors.New("insufficient samples to form a " +
	"state")

// ErrWindowExhausted is reported when no valid state window could be
// found within MaxResampleAttempts draws.
var ErrWindowExhausted = errors.New("no valid state window found")

// IsInsufficientSamples returns whether or not an error reports that
// there are insufficient samples in the buffer to sample from the
// buffer.
//
// A buffer that could not find a valid window after the maximum number
// of resampling attempts is treated as having insufficient samples.
func IsInsufficientSamples(err error) bool {
	return errors.Is(err, ErrInsufficientSamples) ||
		errors.Is(err, ErrWindowExhausted)
}

// IsWindowExhausted returns whether or not an error reports that the
// buffer gave up searching for a state window that does not cross an
// episode boundary or the write cursor.
func IsWindowExhausted(err error) bool {
	return errors.Is(err, ErrWindowExhausted)
}
