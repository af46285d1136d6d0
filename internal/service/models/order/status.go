package order

import (
	"fmt"

	"github.com/corray333/backend-labs/meatshop/internal/service/errs"
)

// Status is the lifecycle state of an order.
type Status string

// remember to add new statuses to the lifecycle slice and the transitions map
const (
	StatusPending        Status = "pending"
	StatusCutting        Status = "cutting"
	StatusOutForDelivery Status = "out-for-delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

// lifecycle is the linear happy path. Cancelled sits outside it.
var lifecycle = []Status{StatusPending, StatusCutting, StatusOutForDelivery, StatusDelivered}

var transitions = map[Status][]Status{
	StatusPending:        {StatusCutting, StatusCancelled},
	StatusCutting:        {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered, StatusCancelled},
	StatusDelivered:      nil,
	StatusCancelled:      nil,
}

// Statuses returns all recognised statuses in lifecycle order, cancelled last.
func Statuses() []Status {
	return append(append([]Status{}, lifecycle...), StatusCancelled)
}

// ParseStatus validates a status name.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if _, ok := transitions[status]; ok {
		return status, nil
	}

	return "", errs.New(errs.ErrValidation, "INVALID_STATUS", "Invalid status")
}

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// Next returns the advisory successor on the linear path.
// It returns false for delivered, cancelled and unknown statuses.
func (s Status) Next() (Status, bool) {
	for i, st := range lifecycle {
		if st == s && i+1 < len(lifecycle) {
			return lifecycle[i+1], true
		}
	}

	return "", false
}

// CanTransitionTo reports whether target is a legal successor of s.
func (s Status) CanTransitionTo(target Status) bool {
	for _, st := range transitions[s] {
		if st == target {
			return true
		}
	}

	return false
}

// ValidateTransition returns a validation error for an illegal transition.
func (s Status) ValidateTransition(target Status) error {
	if s.CanTransitionTo(target) {
		return nil
	}

	return errs.New(
		errs.ErrValidation,
		"ILLEGAL_TRANSITION",
		fmt.Sprintf("Cannot change order status from %s to %s", s, target),
	)
}
