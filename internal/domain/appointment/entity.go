package appointment

import (
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Transition(ap *models.Appointment, to Status, now time.Time) error {
	if err := CheckTransition(Status(ap.Status), to); err != nil {
		return err
	}

	ap.Status = string(to)
	if to == StatusCancelled {
		ap.CancelledAt = &now
	}
	return nil
}

func Cancel(ap *models.Appointment, reason string, now time.Time) error {
	if err := Transition(ap, StatusCancelled, now); err != nil {
		return err
	}
	ap.CancelReason = reason
	return nil
}
