package model

import (
	"hotel/internal/domains/invoice"
	"hotel/shared/model"
	"hotel/shared/timezone"
	"strings"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID          = "id"
	FieldRoomID      = "room_id"
	FieldGuestID     = "guest_id"
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldIDProof     = "id_proof"
	FieldIDProofURL  = "id_proof_url"
	FieldCheckIn     = "check_in"
	FieldCheckOut    = "check_out"
	FieldStatus      = "status"
	FieldPaymentMode = "payment_mode"
	FieldTotalAmount = "total_amount"
	FieldPaidAmount  = "paid_amount"
	FieldBookedAsAC  = "booked_as_ac"
	FieldGSTIncluded = "gst_included"
	FieldDiscount    = "discount"
	FieldRemarks     = "remarks"
	FieldRiskScore   = "risk_score"
	FieldRiskReason  = "risk_reason"
	FieldCreatedAt   = "created_at"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
	StatusCancelled  Status = "cancelled"
	StatusRejected   Status = "rejected"
)

// InactiveStatuses no longer hold a room.
var InactiveStatuses = []string{string(StatusCancelled), string(StatusRejected)}

type PaymentMode string

const (
	PaymentModeUPI  PaymentMode = "upi"
	PaymentModeCard PaymentMode = "card"
	PaymentModeCash PaymentMode = "cash"
	PaymentModeBank PaymentMode = "bank"
)

// Booking holds a copy of the guest details taken when it was made. Later changes to a
// guest account never reach existing bookings.
type Booking struct {
	ID          string      `db:"id"`
	RoomID      string      `db:"room_id"`
	GuestID     string      `db:"guest_id"`
	FirstName   string      `db:"first_name"`
	LastName    string      `db:"last_name"`
	Email       string      `db:"email"`
	Phone       string      `db:"phone"`
	IDProof     string      `db:"id_proof"`
	IDProofURL  string      `db:"id_proof_url"`
	CheckIn     time.Time   `db:"check_in"`
	CheckOut    time.Time   `db:"check_out"`
	Status      Status      `db:"status"`
	PaymentMode PaymentMode `db:"payment_mode"`
	TotalAmount float64     `db:"total_amount"`
	PaidAmount  float64     `db:"paid_amount"`
	BookedAsAC  bool        `db:"booked_as_ac"`
	GSTIncluded bool        `db:"gst_included"`
	Discount    float64     `db:"discount"`
	Remarks     string      `db:"remarks"`
	RiskScore   int         `db:"risk_score"`
	RiskReason  string      `db:"risk_reason"`
	model.Metadata
}

func (b Booking) GuestName() string {
	return strings.TrimSpace(b.FirstName + " " + b.LastName)
}

func (b Booking) Nights() int {
	return timezone.NightsBetween(b.CheckIn, b.CheckOut)
}

// Active reports whether the booking still holds its room.
func (b Booking) Active() bool {
	return b.Status != StatusCancelled && b.Status != StatusRejected
}

// Settled bookings are operationally or financially committed.
func (b Booking) Settled() bool {
	return b.Status == StatusConfirmed || b.Status == StatusCheckedIn || b.Status == StatusCheckedOut
}

func (b Booking) Charges() invoice.Charges {
	return invoice.Charges{
		BookingID:   b.ID,
		TotalAmount: b.TotalAmount,
		Discount:    b.Discount,
		PaidAmount:  b.PaidAmount,
		BookedAsAC:  b.BookedAsAC,
		GSTIncluded: b.GSTIncluded,
	}
}

func (b Booking) Invoice() invoice.Invoice {
	return invoice.Calculate(b.Charges())
}
