package reservation

import (
	"fmt"
	"slices"

	"tablehub/internal/pkg/apperror"
)

type Operation string

const (
	OpConfirm    Operation = "confirm"
	OpCancel     Operation = "cancel"
	OpComplete   Operation = "complete"
	OpMarkNoShow Operation = "mark_no_show"
)

type transition struct {
	to Status
	// from lists the statuses the operation applies to.
	from []Status
	// satisfied lists statuses where the operation's goal is already met
	// or permanently out of reach; these report a conflict.
	satisfied []Status
}

var transitions = map[Operation]transition{
	OpConfirm: {
		to:        StatusConfirmed,
		from:      []Status{StatusPending},
		satisfied: []Status{StatusConfirmed},
	},
	OpCancel: {
		to:        StatusCancelled,
		from:      []Status{StatusPending, StatusConfirmed},
		satisfied: []Status{StatusCancelled, StatusCompleted},
	},
	OpComplete: {
		to:        StatusCompleted,
		from:      []Status{StatusPending, StatusConfirmed},
		satisfied: []Status{StatusCompleted},
	},
	OpMarkNoShow: {
		to:        StatusNoShow,
		from:      []Status{StatusPending, StatusConfirmed},
		satisfied: []Status{StatusNoShow},
	},
}

// Next returns the status op moves current to. Anything else in the
// satisfied set is a conflict; all remaining states are invalid transitions.
func Next(current Status, op Operation) (Status, error) {
	t, ok := transitions[op]
	if !ok {
		return "", apperror.Internal("unknown reservation operation", fmt.Errorf("operation %q", op))
	}
	if slices.Contains(t.from, current) {
		return t.to, nil
	}
	if slices.Contains(t.satisfied, current) {
		return "", apperror.Conflict(fmt.Sprintf("reservation is already %s", current))
	}
	return "", apperror.InvalidTransition(fmt.Sprintf("cannot %s a %s reservation", opVerb(op), current))
}

// Sources lists the statuses op may be applied to.
func Sources(op Operation) []Status {
	return transitions[op].from
}

func opVerb(op Operation) string {
	if op == OpMarkNoShow {
		return "mark as no-show"
	}
	return string(op)
}
