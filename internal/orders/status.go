package orders

type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// kitchenStages is the forward path shown on the staff board. Cancellation
// sits outside the path and is reachable from any non-terminal state.
var kitchenStages = []Status{StatusPending, StatusPreparing, StatusReady, StatusCompleted}

var allStatuses = []Status{StatusPending, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled}

// ParseStatus validates a client-supplied status string. The store accepts
// any of the five values regardless of the current state; stage ordering is
// a board convention, not a persistence constraint.
func ParseStatus(s string) (Status, bool) {
	for _, st := range allStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// NextStage returns the stage after s on the kitchen path.
func NextStage(s Status) (Status, bool) {
	for i, st := range kitchenStages {
		if st == s && i+1 < len(kitchenStages) {
			return kitchenStages[i+1], true
		}
	}
	return "", false
}

// PreviousStage returns the stage before s on the kitchen path.
func PreviousStage(s Status) (Status, bool) {
	for i, st := range kitchenStages {
		if st == s && i > 0 {
			return kitchenStages[i-1], true
		}
	}
	return "", false
}
