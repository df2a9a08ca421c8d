package assignment

// State represents the workflow lifecycle.
//
//	StateIdle → StateValidating → StateRequesting → StateSucceeded
//
// Validation rejections and request failures return to StateIdle with the
// failure message retained as the current field error.
type State int

const (
	// StateIdle means the workflow is waiting for guest input.
	StateIdle State = iota

	// StateValidating means a submission is being checked locally.
	StateValidating

	// StateRequesting means an assignment request is in flight. At most
	// one request may be outstanding per workflow instance.
	StateRequesting

	// StateSucceeded means a locker was assigned and persisted; the
	// close signal fires after the confirmation display delay.
	StateSucceeded
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateValidating:
		return "Validating"
	case StateRequesting:
		return "Requesting"
	case StateSucceeded:
		return "Succeeded"
	default:
		return "Unknown"
	}
}
