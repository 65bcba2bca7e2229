package dto

import (
	"hotel/internal/domains/payment/model"
	"hotel/shared/actor"
	"hotel/shared/constant"
	"hotel/shared/money"
	"hotel/shared/timezone"
	"strings"

	"github.com/google/uuid"
)

type CreatePaymentRequest struct {
	Amount         float64 `json:"amount"`
	Mode           string  `json:"mode"            validate:"required,oneof=upi card cash bank"`
	Category       string  `json:"category"        validate:"required,oneof=room_settlement food_beverage services damage_fee advance other final_settlement"`
	IdempotencyKey string  `json:"idempotency_key" validate:"omitempty,max=100"`
}

func (c *CreatePaymentRequest) ToModel(act actor.Actor, bookingID string) model.Payment {
	payment := model.Payment{
		ID:         uuid.NewString(),
		BookingID:  bookingID,
		Amount:     money.Round(c.Amount),
		Mode:       c.Mode,
		Category:   model.Category(c.Category),
		RecordedBy: act.Label(),
		CreatedAt:  timezone.Now(),
	}

	if key := strings.TrimSpace(c.IdempotencyKey); key != constant.Empty {
		payment.IdempotencyKey = &key
	}

	return payment
}

type PaymentResponse struct {
	ID         string  `json:"id"`
	BookingID  string  `json:"booking_id"`
	Amount     float64 `json:"amount"`
	Mode       string  `json:"mode"`
	Category   string  `json:"category"`
	RecordedBy string  `json:"recorded_by"`
	CreatedAt  string  `json:"created_at"`
	// Replayed is set when the idempotency key matched an earlier payment.
	Replayed bool `json:"replayed,omitempty"`
}

func (r *PaymentResponse) FromModel(m model.Payment) {
	r.ID = m.ID
	r.BookingID = m.BookingID
	r.Amount = m.Amount
	r.Mode = m.Mode
	r.Category = string(m.Category)
	r.RecordedBy = m.RecordedBy
	r.CreatedAt = timezone.Format(m.CreatedAt, constant.DateFormat)
}

type GetPaymentsResponse struct {
	Payments []PaymentResponse `json:"payments"`
	Total    float64           `json:"total"`
}

func (g *GetPaymentsResponse) FromModels(models []model.Payment) {
	g.Payments = make([]PaymentResponse, len(models))

	for i, m := range models {
		g.Payments[i].FromModel(m)
		g.Total += m.Amount
	}

	g.Total = money.Round(g.Total)
}
