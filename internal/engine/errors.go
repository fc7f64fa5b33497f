package engine

import "errors"

// Validation and protocol errors. Every one of these rejects the whole
// operation with no state change.
var (
	ErrNotOpen                 = errors.New("raffle is not open")
	ErrNotDrawing              = errors.New("raffle is not drawing")
	ErrNotClosed               = errors.New("raffle is not closed")
	ErrAlreadyEntered          = errors.New("participant already entered")
	ErrNotEntered              = errors.New("participant has no entry")
	ErrTriggerNotMet           = errors.New("draw trigger conditions not met")
	ErrNoPendingRequest        = errors.New("no randomness request outstanding")
	ErrStaleRequest            = errors.New("randomness request id does not match the outstanding request")
	ErrShortRandomness         = errors.New("randomness vector is shorter than expected")
	ErrEmptyLedger             = errors.New("entry ledger is empty")
	ErrCancellationUnsupported = errors.New("entry cancellation is not supported by the active module")
	ErrUnknownModule           = errors.New("unknown module")
	ErrIncompatibleModule      = errors.New("module does not expose the expected upgrade hook")
	ErrNotAdministrator        = errors.New("caller is not the administrator")
)
