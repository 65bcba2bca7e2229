package model

import "hotel/shared/model"

const (
	TableName  = "deletion_requests"
	EntityName = "deletion request"

	FieldID          = "id"
	FieldBookingID   = "booking_id"
	FieldStatus      = "status"
	FieldDecidedBy   = "decided_by"
	FieldRequestedBy = "requested_by"
	FieldCreatedAt   = "created_at"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Request asks an admin to remove a booking. At most one request per booking may be pending.
type Request struct {
	ID          string  `db:"id"`
	BookingID   string  `db:"booking_id"`
	RequestedBy string  `db:"requested_by"`
	Reason      string  `db:"reason"`
	Status      Status  `db:"status"`
	DecidedBy   *string `db:"decided_by"`
	model.Metadata
}
