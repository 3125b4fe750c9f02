package workflow

import (
	"time"

	"trackmux/internal/mediapackage"
)

// Action tells the owning workflow how to proceed after an operation.
type Action string

const ActionContinue Action = "continue"

// Result is what an operation hands back to the workflow.
type Result struct {
	Action Action
	// QueueTime sums the time dispatched jobs spent waiting before execution.
	QueueTime time.Duration
	// Tracks holds the handles of the tracks the operation left carrying its
	// target flavor, in package order.
	Tracks []mediapackage.Handle
}
