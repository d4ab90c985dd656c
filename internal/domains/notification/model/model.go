package model

import "time"

const (
	TableName  = "notification_events"
	EntityName = "notification"

	FieldID               = "id"
	FieldBookingRequestID = "booking_request_id"
	FieldRecipientUserID  = "recipient_user_id"
	FieldKind             = "kind"
	FieldEmittedAt        = "emitted_at"
	FieldDeliveredAt      = "delivered_at"
	FieldReadAt           = "read_at"
	FieldAttempts         = "attempts"
)

type Kind string

const (
	KindRequestSubmitted Kind = "request_submitted"
	KindRequestApproved  Kind = "request_approved"
	KindRequestRejected  Kind = "request_rejected"
	KindRequestCancelled Kind = "request_cancelled"
	KindRequestCompleted Kind = "request_completed"
)

// NotifiesManagement reports whether managers holding the module hear about this kind.
func (k Kind) NotifiesManagement() bool {
	return k == KindRequestSubmitted || k == KindRequestCancelled
}

// Event is immutable once inserted. DeliveredAt, ReadAt and Attempts are delivery bookkeeping.
type Event struct {
	ID               string     `db:"id"                 json:"id"`
	BookingRequestID string     `db:"booking_request_id" json:"booking_request_id"`
	RecipientUserID  string     `db:"recipient_user_id"  json:"recipient_user_id"`
	Kind             Kind       `db:"kind"               json:"kind"`
	EmittedAt        time.Time  `db:"emitted_at"         json:"emitted_at"`
	DeliveredAt      *time.Time `db:"delivered_at"       json:"delivered_at,omitempty"`
	ReadAt           *time.Time `db:"read_at"            json:"read_at,omitempty"`
	Attempts         int        `db:"attempts"           json:"attempts"`
}

// Subject identifies the booking request a transition happened on.
type Subject struct {
	RequestID   string
	RequesterID string
	Module      string
}

// Recipients returns the requester followed by managers, without duplicates.
func Recipients(kind Kind, requesterID string, managers []string) []string {
	out := []string{requesterID}
	if !kind.NotifiesManagement() {
		return out
	}

	seen := map[string]struct{}{requesterID: {}}

	for _, id := range managers {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
