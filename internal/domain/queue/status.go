package queue

import "github.com/BruksfildServices01/service-scheduler/internal/httperr"

type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusCalled    Status = "called"
	StatusInService Status = "in_service"
	StatusDone      Status = "done"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

func (s Status) Valid() bool {
	switch s {
	case StatusWaiting, StatusCalled, StatusInService, StatusDone, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

type Action string

const (
	ActionCall   Action = "call"
	ActionServe  Action = "serve"
	ActionDone   Action = "done"
	ActionCancel Action = "cancel"
	ActionNoShow Action = "no_show"
)

var transitionMap = map[Action][]Status{
	ActionCall:   {StatusWaiting},
	ActionServe:  {StatusCalled},
	ActionDone:   {StatusCalled, StatusInService},
	ActionCancel: {StatusWaiting, StatusCalled, StatusInService},
	ActionNoShow: {StatusCalled},
}

var actionTarget = map[Action]Status{
	ActionCall:   StatusCalled,
	ActionServe:  StatusInService,
	ActionDone:   StatusDone,
	ActionCancel: StatusCancelled,
	ActionNoShow: StatusNoShow,
}

func ValidTransition(action Action, from Status) bool {
	allowed, ok := transitionMap[action]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == from {
			return true
		}
	}
	return false
}

// Target is the status a ticket ends in after action.
func Target(action Action) (Status, bool) {
	s, ok := actionTarget[action]
	return s, ok
}

func CheckAction(action Action, from Status) error {
	if ValidTransition(action, from) {
		return nil
	}
	return httperr.ConflictErr("invalid_ticket_transition", map[string]any{
		"action": string(action),
		"from":   string(from),
	})
}
