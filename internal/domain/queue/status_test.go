package queue

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

func TestValidTransition(t *testing.T) {
	cases := []struct {
		action Action
		from   Status
		valid  bool
	}{
		{ActionCall, StatusWaiting, true},
		{ActionCall, StatusCalled, false},
		{ActionServe, StatusCalled, true},
		{ActionServe, StatusWaiting, false},
		{ActionDone, StatusCalled, true},
		{ActionDone, StatusInService, true},
		{ActionDone, StatusWaiting, false},
		{ActionCancel, StatusWaiting, true},
		{ActionCancel, StatusInService, true},
		{ActionCancel, StatusDone, false},
		{ActionCancel, StatusCancelled, false},
		{ActionNoShow, StatusCalled, true},
		{ActionNoShow, StatusInService, false},
		{Action("recall"), StatusCalled, false},
	}

	for _, tt := range cases {
		if got := ValidTransition(tt.action, tt.from); got != tt.valid {
			t.Fatalf("ValidTransition(%q, %q)=%v, want %v", tt.action, tt.from, got, tt.valid)
		}
	}
}

func TestCheckActionConflict(t *testing.T) {
	err := CheckAction(ActionServe, StatusDone)
	if httperr.KindOf(err) != httperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if target, ok := Target(ActionServe); !ok || target != StatusInService {
		t.Fatalf("Target(serve)=%q", target)
	}
}

func TestRenderCode(t *testing.T) {
	cases := []struct {
		typ  TicketType
		seq  int64
		want string
	}{
		{TypeAppointment, 1, "T001"},
		{TypeWalkIn, 42, "C042"},
		{TypeWalkIn, 1234, "C1234"},
	}
	for _, tt := range cases {
		if got := RenderCode(tt.typ, tt.seq); got != tt.want {
			t.Fatalf("RenderCode(%s, %d)=%q, want %q", tt.typ, tt.seq, got, tt.want)
		}
	}
}

func TestNormalizeDNI(t *testing.T) {
	got, err := NormalizeDNI(" 12.345.678-k ")
	if err != nil {
		t.Fatalf("NormalizeDNI: %v", err)
	}
	if got != "12345678K" {
		t.Fatalf("NormalizeDNI=%q", got)
	}
	for _, bad := range []string{"", "12", "12345#78"} {
		if _, err := NormalizeDNI(bad); !httperr.IsBusiness(err, "invalid_dni") {
			t.Fatalf("NormalizeDNI(%q) err=%v", bad, err)
		}
	}
}

func TestTicketEventPayload(t *testing.T) {
	desk := uint(3)
	called := time.Date(2026, 10, 15, 13, 0, 0, 0, time.UTC)
	ticket := &models.QueueTicket{
		ID: 9, Code: "C007", Type: "C", Status: string(StatusCalled),
		LocationID: 2, DateKey: "2026-10-15", DeskID: &desk, CalledAt: &called,
		ClientNeedsData: true,
	}

	ev := NewTicketEvent(EventTicketUpdated, ticket, called)
	if ev.Topic != "queue:location:2" {
		t.Fatalf("Topic=%q", ev.Topic)
	}
	raw, err := ev.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var decoded struct {
		Type string `json:"type"`
		Data struct {
			Code            string     `json:"code"`
			Status          string     `json:"status"`
			DeskID          *uint      `json:"desk_id"`
			CalledAt        *time.Time `json:"called_at"`
			ClientNeedsData bool       `json:"client_needs_data"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Type != EventTicketUpdated || decoded.Data.Code != "C007" || decoded.Data.Status != "called" {
		t.Fatalf("decoded=%+v", decoded)
	}
	if decoded.Data.DeskID == nil || *decoded.Data.DeskID != 3 || decoded.Data.CalledAt == nil || !decoded.Data.ClientNeedsData {
		t.Fatalf("missing payload fields: %+v", decoded.Data)
	}
}
