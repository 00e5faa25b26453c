package appointment

import "github.com/BruksfildServices01/service-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusAttended  Status = "attended"
	StatusNoShow    Status = "no_show"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusAttended, StatusNoShow, StatusCancelled},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusAttended, StatusNoShow:
		return true
	}
	return false
}

// Terminal statuses accept no further transition.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ===============================
// Validations
// ===============================

func CheckTransition(from, to Status) error {
	if !to.Valid() {
		return httperr.InvalidInputErr("invalid_status", map[string]any{"status": string(to)})
	}
	if !CanTransition(from, to) {
		return httperr.ConflictErr("invalid_transition", map[string]any{
			"from": string(from),
			"to":   string(to),
		})
	}
	return nil
}

// CanEdit rejects any change to a cancelled appointment.
func CanEdit(current Status) error {
	if current == StatusCancelled {
		return httperr.ConflictErr("appointment_cancelled", nil)
	}
	return nil
}

// StateChangedErr reports a write lost to a concurrent status change.
func StateChangedErr(id uint, expected Status) error {
	return httperr.ConflictErr("appointment_state_changed", map[string]any{
		"appointment_id": id,
		"expected":       string(expected),
	})
}

func InitialStatus() Status {
	return StatusPending
}
