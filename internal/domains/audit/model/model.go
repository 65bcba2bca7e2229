package model

import "time"

const (
	TableName  = "audit_logs"
	EntityName = "audit_log"

	FieldID        = "id"
	FieldUserID    = "user_id"
	FieldAction    = "action"
	FieldSeverity  = "severity"
	FieldCreatedAt = "created_at"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

const (
	ActionBookingCreated           = "BOOKING_CREATED"
	ActionBookingApproved          = "BOOKING_APPROVED"
	ActionBookingRejected          = "BOOKING_REJECTED"
	ActionBookingCancelled         = "BOOKING_CANCELLED"
	ActionBookingExpired           = "BOOKING_EXPIRED"
	ActionBookingModified          = "BOOKING_MODIFIED"
	ActionBookingDeleted           = "BOOKING_DELETED"
	ActionCheckIn                  = "CHECK_IN"
	ActionCheckOut                 = "CHECK_OUT"
	ActionPaymentReceived          = "PAYMENT_RECEIVED"
	ActionDeletionRequest          = "DELETION_REQUEST"
	ActionDeletionRejected         = "DELETION_REJECTED"
	ActionFraudFlag                = "FRAUD_FLAG"
	ActionRevenueLeakage           = "REVENUE_LEAKAGE"
	ActionUnauthorizedAttempt      = "UNAUTHORIZED_ATTEMPT"
	ActionUnauthorizedConfigChange = "UNAUTHORIZED_CONFIG_CHANGE"
	ActionRoomConfigChanged        = "ROOM_CONFIG_CHANGED"
	ActionUserAccessChanged        = "USER_ACCESS_CHANGED"
)

// Log is one entry of the audit trail.
type Log struct {
	ID        string    `db:"id"         json:"id"`
	UserID    string    `db:"user_id"    json:"user_id"`
	UserName  string    `db:"user_name"  json:"user_name"`
	Role      string    `db:"role"       json:"role"`
	Action    string    `db:"action"     json:"action"`
	Details   string    `db:"details"    json:"details"`
	Severity  Severity  `db:"severity"   json:"severity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
