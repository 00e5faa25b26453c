package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

const (
	EventTicketCreated = "ticket.created"
	EventTicketUpdated = "ticket.updated"
	EventDeskAssigned  = "desk.assigned"
	EventDeskReleased  = "desk.released"
)

// Topic is the broadcast channel of a location.
func Topic(locationID uint) string {
	return fmt.Sprintf("queue:location:%d", locationID)
}

type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Topic      string    `json:"-"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

type TicketPayload struct {
	TicketID        uint       `json:"ticket_id"`
	Code            string     `json:"code"`
	Type            string     `json:"type"`
	Status          string     `json:"status"`
	LocationID      uint       `json:"location_id"`
	DateKey         string     `json:"date_key"`
	DeskID          *uint      `json:"desk_id"`
	ReceptionistID  *uint      `json:"receptionist_id"`
	CalledAt        *time.Time `json:"called_at"`
	ClientNeedsData bool       `json:"client_needs_data"`
}

type DeskPayload struct {
	LocationID     uint      `json:"location_id"`
	DeskID         uint      `json:"desk_id"`
	ReceptionistID uint      `json:"receptionist_id"`
	Active         bool      `json:"active"`
	LastSeenAt     time.Time `json:"last_seen_at"`
}

func NewTicketEvent(kind string, t *models.QueueTicket, at time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       kind,
		Topic:      Topic(t.LocationID),
		OccurredAt: at,
		Data: TicketPayload{
			TicketID:        t.ID,
			Code:            t.Code,
			Type:            t.Type,
			Status:          t.Status,
			LocationID:      t.LocationID,
			DateKey:         t.DateKey,
			DeskID:          t.DeskID,
			ReceptionistID:  t.ReceptionistID,
			CalledAt:        t.CalledAt,
			ClientNeedsData: t.ClientNeedsData,
		},
	}
}

func NewDeskEvent(kind string, a *models.DeskAssignment, at time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       kind,
		Topic:      Topic(a.LocationID),
		OccurredAt: at,
		Data: DeskPayload{
			LocationID:     a.LocationID,
			DeskID:         a.DeskID,
			ReceptionistID: a.ReceptionistID,
			Active:         a.Active,
			LastSeenAt:     a.LastSeenAt,
		},
	}
}
