package assignment

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Food-Locker/consumer/internal/auth"
	"github.com/Food-Locker/consumer/internal/logger"
	"github.com/Food-Locker/consumer/internal/notify"
	"github.com/Food-Locker/consumer/internal/seat"
)

// DefaultCloseDelay is how long the assignment confirmation stays visible
// before the close signal fires, so the guest can read it.
const DefaultCloseDelay = 2 * time.Second

// IdentitySource supplies the current guest identity. auth.Manager
// satisfies it.
type IdentitySource interface {
	Identity() *auth.Identity
}

// Workflow drives a locker assignment: local validation, identity check,
// a single-flight request to the locker API, and idempotent persistence of
// the result. Failures are surfaced as a notification plus a retained
// field error; the store is only touched on success.
type Workflow struct {
	mu sync.Mutex

	client        *Client
	identity      IdentitySource
	store         *seat.Store
	notifications *notify.Queue

	// required controls whether a signed-in guest is mandatory. When
	// false, anonymous submissions proceed with the user id omitted from
	// the request.
	required   bool
	closeDelay time.Duration

	state    State
	fieldErr string
	closed   bool

	closeC chan struct{}
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithRequiredIdentity controls whether submissions without a signed-in
// guest are rejected. Defaults to true.
func WithRequiredIdentity(required bool) Option {
	return func(w *Workflow) {
		w.required = required
	}
}

// WithCloseDelay overrides the confirmation display delay.
func WithCloseDelay(d time.Duration) Option {
	return func(w *Workflow) {
		w.closeDelay = d
	}
}

func NewWorkflow(
	client *Client,
	identity IdentitySource,
	store *seat.Store,
	notifications *notify.Queue,
	opts ...Option,
) *Workflow {
	w := &Workflow{
		client:        client,
		identity:      identity,
		store:         store,
		notifications: notifications,
		required:      true,
		closeDelay:    DefaultCloseDelay,
		state:         StateIdle,
		closeC:        make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Submit validates the seat block and requests a locker for it. It blocks
// for the duration of the HTTP round trip; a concurrent Submit while a
// request is outstanding fails with ErrAlreadyInProgress. Repeated
// submissions after a failure each issue an independent request.
func (w *Workflow) Submit(ctx context.Context, seatBlockInput string) error {

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWorkflowClosed
	}
	if w.state == StateRequesting {
		w.mu.Unlock()
		return ErrAlreadyInProgress
	}

	w.state = StateValidating
	w.fieldErr = ""

	seatBlock := strings.TrimSpace(seatBlockInput)
	if seatBlock == "" {
		w.fieldErr = ErrEmptySeatBlock.Error()
		w.state = StateIdle
		w.mu.Unlock()
		return ErrEmptySeatBlock
	}

	var userID string
	if id := w.identity.Identity(); id != nil {
		userID = id.ExternalID
	} else if w.required {
		w.fieldErr = ErrAuthRequired.Error()
		w.state = StateIdle
		w.mu.Unlock()
		return ErrAuthRequired
	}

	w.state = StateRequesting
	w.mu.Unlock()

	locker, err := w.client.Assign(ctx, seatBlock, userID)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		// Torn down mid-request: apply no further transitions.
		return ErrWorkflowClosed
	}

	if err != nil {
		return w.fail(err)
	}

	assigned := seat.Assignment{
		SeatBlock: seatBlock,
		Zone:      locker.Zone,
		LockerID:  locker.LockerID,
		Location:  locker.Location,
	}
	if err := w.store.Set(ctx, assigned); err != nil {
		return w.fail(&TransportError{Message: genericFailureMessage, Err: err})
	}

	w.notifications.Enqueue(
		fmt.Sprintf("Locker assigned! %s - %s", locker.LockerID, locker.Location),
		notify.KindSuccess,
		notify.DefaultDuration,
	)

	w.state = StateSucceeded

	logger.Info("locker assigned", map[string]any{
		"seat_block": seatBlock,
		"locker_id":  locker.LockerID,
		"location":   locker.Location,
	})

	// Give the guest time to read the confirmation, then signal close.
	time.AfterFunc(w.closeDelay, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.closed {
			return
		}
		select {
		case w.closeC <- struct{}{}:
		default:
		}
	})

	return nil
}

// fail records a request failure: error notification, retained field
// error, back to idle. Caller holds the lock.
func (w *Workflow) fail(err error) error {
	msg := userMessage(err)
	w.fieldErr = msg
	w.state = StateIdle

	w.notifications.Enqueue(msg, notify.KindError, notify.DefaultDuration)

	logger.Warn("locker assignment failed", map[string]any{
		"error": err.Error(),
	})

	return err
}

// Dismiss abandons the entry flow. It is rejected while a request is in
// flight; an in-flight request cannot be abandoned. Entered input is the
// caller's to discard; the store is never touched.
func (w *Workflow) Dismiss() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWorkflowClosed
	}
	if w.state == StateRequesting {
		return ErrAlreadyInProgress
	}

	w.fieldErr = ""
	w.state = StateIdle
	return nil
}

// Required reports whether the workflow demands a signed-in guest. The UI
// uses it to decide whether a dismiss affordance is offered at all.
func (w *Workflow) Required() bool {
	return w.required
}

// ClearFieldError clears the retained failure message; called when the
// guest edits the seat block.
func (w *Workflow) ClearFieldError() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.fieldErr = ""
}

// FieldError returns the retained failure message from the last submit.
func (w *Workflow) FieldError() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fieldErr
}

// State returns the current workflow state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Closed delivers one signal per successful assignment, closeDelay after
// the confirmation was shown.
func (w *Workflow) Closed() <-chan struct{} {
	return w.closeC
}

// Close disposes the workflow; no further transitions are applied and a
// late HTTP result is dropped.
func (w *Workflow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
}
