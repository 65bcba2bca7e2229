package model

import (
	"fmt"
	"time"
)

const (
	TableName  = "ledger_entries"
	EntityName = "ledger"

	FieldID        = "id"
	FieldBookingID = "booking_id"
	FieldCreatedAt = "created_at"

	DescriptionRoomCharges      = "Room Charges & Tax"
	DescriptionAdditionalCharge = "Booking Update: Additional Charges"
	DescriptionReduction        = "Booking Update: Reduction Adjustment"
	descriptionPaymentFormat    = "Payment Received: %s (%s)"
)

type EntryType string

const (
	TypeDebit  EntryType = "debit"
	TypeCredit EntryType = "credit"
)

// Entry is an immutable ledger line. Entries are only ever inserted.
type Entry struct {
	ID          string    `db:"id"           json:"id"`
	BookingID   string    `db:"booking_id"   json:"booking_id"`
	Type        EntryType `db:"type"         json:"type"`
	Amount      float64   `db:"amount"       json:"amount"`
	Description string    `db:"description"  json:"description"`
	ReferenceID string    `db:"reference_id" json:"reference_id"`
	CreatedAt   time.Time `db:"created_at"   json:"created_at"`
}

// Signed is the entry's effect on the balance: debits raise it, credits lower it.
func (e Entry) Signed() float64 {
	if e.Type == TypeCredit {
		return -e.Amount
	}

	return e.Amount
}

// Totals aggregates ledger entries.
type Totals struct {
	Debit   float64 `db:"debit"`
	Credit  float64 `db:"credit"`
	Entries int     `db:"entries"`
}

func (t Totals) Balance() float64 {
	return t.Debit - t.Credit
}

func PaymentDescription(category, mode string) string {
	return fmt.Sprintf(descriptionPaymentFormat, category, mode)
}
