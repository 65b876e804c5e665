package metadata

import "fmt"

// Status is the lifecycle state of an assignment.
type Status string

const (
	StatusActive  Status = "active"
	StatusRetired Status = "retired"
)

func NewStatus(value string) (Status, error) {
	status := Status(value)
	if !status.isValid() {
		return "", fmt.Errorf("invalid status: %s", value)
	}
	return status, nil
}

func StatusFromActive(active bool) Status {
	if active {
		return StatusActive
	}
	return StatusRetired
}

// Label is the value printed in reports.
func (s Status) Label() string {
	if s == StatusActive {
		return "ACTIVO"
	}
	return "RETIRADO"
}

func (s Status) isValid() bool {
	switch s {
	case StatusActive, StatusRetired:
		return true
	default:
		return false
	}
}

// Action is the kind of transition recorded in the audit trail.
type Action string

const (
	ActionAssigned   Action = "assigned"
	ActionRetired    Action = "retired"
	ActionReassigned Action = "reassigned"
	ActionUpdated    Action = "updated"
)

func NewAction(value string) (Action, error) {
	action := Action(value)
	switch action {
	case ActionAssigned, ActionRetired, ActionReassigned, ActionUpdated:
		return action, nil
	default:
		return "", fmt.Errorf("invalid action: %s", value)
	}
}
