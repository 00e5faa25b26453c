package queue

import (
	"fmt"
	"strings"

	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
)

type TicketType string

const (
	// TypeAppointment tickets belong to visitors holding an appointment today.
	TypeAppointment TicketType = "T"
	// TypeWalkIn tickets are consultations without appointment.
	TypeWalkIn TicketType = "C"
)

const codePad = 3

func RenderCode(t TicketType, seq int64) string {
	return fmt.Sprintf("%s%0*d", t, codePad, seq)
}

// NormalizeDNI trims separators so the same document always maps to the
// same identity key.
func NormalizeDNI(raw string) (string, error) {
	dni := strings.ToUpper(strings.TrimSpace(raw))
	dni = strings.NewReplacer(".", "", "-", "", " ", "").Replace(dni)
	if len(dni) < 5 || len(dni) > 20 {
		return "", httperr.InvalidInputErr("invalid_dni", map[string]any{"dni": raw})
	}
	for _, r := range dni {
		if (r < '0' || r > '9') && (r < 'A' || r > 'Z') {
			return "", httperr.InvalidInputErr("invalid_dni", map[string]any{"dni": raw})
		}
	}
	return dni, nil
}
