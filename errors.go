package tombset

import (
	"github.com/pkg/errors"
)

var (
	// ErrAdmissionInterrupted is returned by Insert when waiting for a free
	// slot or for room in the staging queue was aborted. Everything the call
	// had taken is handed back. The context error is wrapped as well.
	ErrAdmissionInterrupted = errors.New("tombset: admission interrupted")

	// ErrReservedValue is returned by Insert for the Tombstone value.
	ErrReservedValue = errors.New("tombset: value is reserved for tombstones")
)

// interrupted joins the cause into ErrAdmissionInterrupted, so that
// errors.Is matches both.
type interrupted struct {
	cause error
}

func (e *interrupted) Error() string {
	return ErrAdmissionInterrupted.Error() + ": " + e.cause.Error()
}

func (e *interrupted) Unwrap() []error {
	return []error{ErrAdmissionInterrupted, e.cause}
}

func newInterrupted(cause error, stage string) error {
	return errors.WithMessage(errors.WithStack(&interrupted{cause: cause}), stage)
}
