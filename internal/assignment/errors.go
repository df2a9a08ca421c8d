package assignment

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the Workflow. All of them are recovered
// locally; none reaches the network.
var (
	// ErrEmptySeatBlock is returned when the submitted seat block is
	// blank after trimming.
	ErrEmptySeatBlock = errors.New("seat block is required")

	// ErrAuthRequired is returned when the workflow requires a signed-in
	// guest and none is present.
	ErrAuthRequired = errors.New("sign-in required to assign a locker")

	// ErrAlreadyInProgress is returned when a submit or dismiss overlaps
	// an in-flight assignment request.
	ErrAlreadyInProgress = errors.New("assignment request already in progress")

	// ErrWorkflowClosed is returned when an operation is attempted on a
	// disposed workflow.
	ErrWorkflowClosed = errors.New("assignment workflow closed")
)

// genericFailureMessage is shown when the backend gives no usable error
// message.
const genericFailureMessage = "no lockers available near your seat"

// TransportError covers network failures, non-2xx responses and unparsable
// error bodies. Message is always safe to show to the guest.
type TransportError struct {
	StatusCode int // zero when the request never reached the backend
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("assignment request failed: %v", e.Err)
	}
	return fmt.Sprintf("assignment request failed (%d): %s", e.StatusCode, e.Message)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedResponseError is returned when the backend answered 2xx but the
// payload is missing the locker identifier or location.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return "malformed assignment response: " + e.Reason
}

// userMessage extracts the guest-facing message from a submit failure.
func userMessage(err error) string {
	var te *TransportError
	if errors.As(err, &te) && te.Message != "" {
		return te.Message
	}
	return genericFailureMessage
}
