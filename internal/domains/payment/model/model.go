package model

import "time"

const (
	TableName  = "payments"
	EntityName = "payment"

	FieldID             = "id"
	FieldBookingID      = "booking_id"
	FieldIdempotencyKey = "idempotency_key"
	FieldCreatedAt      = "created_at"
)

type Category string

const (
	CategoryRoomSettlement  Category = "room_settlement"
	CategoryFoodBeverage    Category = "food_beverage"
	CategoryServices        Category = "services"
	CategoryDamageFee       Category = "damage_fee"
	CategoryAdvance         Category = "advance"
	CategoryOther           Category = "other"
	CategoryFinalSettlement Category = "final_settlement"
)

// Payment is immutable once recorded. It is kept even after its booking is deleted.
type Payment struct {
	ID             string    `db:"id"`
	BookingID      string    `db:"booking_id"`
	Amount         float64   `db:"amount"`
	Mode           string    `db:"mode"`
	Category       Category  `db:"category"`
	RecordedBy     string    `db:"recorded_by"`
	IdempotencyKey *string   `db:"idempotency_key"`
	CreatedAt      time.Time `db:"created_at"`
}
