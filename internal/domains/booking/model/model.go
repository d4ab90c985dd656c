package model

import (
	"slices"
	"time"

	"sarana/internal/domains/booking/conflict"
	catalogModel "sarana/internal/domains/catalog/model"
	"sarana/shared/failure"
	"sarana/shared/model"
)

const (
	TableName  = "booking_requests"
	EntityName = "booking request"

	FieldID              = "id"
	FieldResourceID      = "resource_id"
	FieldResourceKind    = "resource_kind"
	FieldRequesterID     = "requester_id"
	FieldStartTime       = "start_time"
	FieldEndTime         = "end_time"
	FieldPurpose         = "purpose"
	FieldNotes           = "notes"
	FieldStatus          = "status"
	FieldDecidedBy       = "decided_by"
	FieldDecidedAt       = "decided_at"
	FieldDecisionNote    = "decision_note"
	FieldPassengersCount = "passengers_count"
	FieldCreatedAt       = "created_at"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// ActiveStatuses block a resource for conflict purposes.
var ActiveStatuses = []Status{StatusPending, StatusApproved}

var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether the workflow allows moving from s to next.
func (s Status) CanTransition(next Status) bool {
	return slices.Contains(transitions[s], next)
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

// Transition validates a move and returns an invalid state failure when it is not allowed.
func Transition(current, next Status) error {
	if !current.CanTransition(next) {
		return failure.InvalidState(string(current), string(next)) //nolint:wrapcheck
	}

	return nil
}

// StatusStrings renders statuses for SQL filters.
func StatusStrings(statuses ...Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}

	return out
}

type Request struct {
	ID              string            `db:"id"`
	ResourceID      string            `db:"resource_id"`
	ResourceKind    catalogModel.Kind `db:"resource_kind"`
	RequesterID     string            `db:"requester_id"`
	StartTime       time.Time         `db:"start_time"`
	EndTime         time.Time         `db:"end_time"`
	Purpose         string            `db:"purpose"`
	Notes           string            `db:"notes"`
	Origin          *string           `db:"origin"`
	Destination     *string           `db:"destination"`
	PassengersCount *int              `db:"passengers_count"`
	Status          Status            `db:"status"`
	DecidedBy       *string           `db:"decided_by"`
	DecidedAt       *time.Time        `db:"decided_at"`
	DecisionNote    *string           `db:"decision_note"`
	model.Metadata
}

func (r Request) Interval() conflict.Interval {
	return conflict.Interval{Start: r.StartTime, End: r.EndTime}
}

// RequestDetail is a request joined with the names of its resource and requester.
type RequestDetail struct {
	Request
	ResourceName  string `column:"name"      db:"resource_name"  table:"resource_units"`
	RequesterName string `column:"full_name" db:"requester_name" table:"users"`
}

func (RequestDetail) GetJoinQuery() string {
	return "LEFT JOIN resource_units ON resource_units.id = booking_requests.resource_id " +
		"LEFT JOIN users ON users.id = booking_requests.requester_id"
}
