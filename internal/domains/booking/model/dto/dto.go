package dto

import (
	"hotel/internal/domains/booking/model"
	"hotel/shared"
	"hotel/shared/actor"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/money"
	"hotel/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	RoomID       string  `json:"room_id"        validate:"required,uuid"`
	GuestID      string  `json:"guest_id"       validate:"omitempty,uuid"`
	FirstName    string  `json:"first_name"     validate:"required,max=100"`
	LastName     string  `json:"last_name"      validate:"omitempty,max=100"`
	Email        string  `json:"email"          validate:"omitempty,email,max=100"`
	Phone        string  `json:"phone"          validate:"required,max=20"`
	IDProof      string  `json:"id_proof"       validate:"omitempty,max=50"`
	IDProofImage string  `json:"id_proof_image" validate:"omitempty,mimetypes=image/jpeg image/png,maxfilesize=2"`
	CheckIn      string  `json:"check_in"       validate:"required,datetime=2006-01-02"`
	CheckOut     string  `json:"check_out"      validate:"required,datetime=2006-01-02"`
	PaymentMode  string  `json:"payment_mode"   validate:"required,oneof=upi card cash bank"`
	BookedAsAC   bool    `json:"booked_as_ac"`
	GSTIncluded  bool    `json:"gst_included"`
	Discount     float64 `json:"discount"       validate:"gte=0"`
	Remarks      string  `json:"remarks"        validate:"omitempty,max=500"`
}

// ToModel builds a booking without its price, status or risk fields; those are decided by
// the lifecycle service.
func (c *CreateBookingRequest) ToModel(act actor.Actor, checkIn, checkOut time.Time) model.Booking {
	var metadata gModel.Metadata
	metadata.Stamp(act.Label(), timezone.Now())

	guestID := c.GuestID
	if !act.IsStaff() {
		guestID = act.ID
	}

	return model.Booking{
		ID:          uuid.NewString(),
		RoomID:      c.RoomID,
		GuestID:     guestID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		Phone:       c.Phone,
		IDProof:     c.IDProof,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		PaymentMode: model.PaymentMode(c.PaymentMode),
		BookedAsAC:  c.BookedAsAC,
		GSTIncluded: c.GSTIncluded,
		Discount:    money.Round(c.Discount),
		Remarks:     c.Remarks,
		Metadata:    metadata,
	}
}

// UpdateBookingRequest carries only the fields to change.
type UpdateBookingRequest struct {
	RoomID      *string  `json:"room_id"      validate:"omitempty,uuid"`
	FirstName   *string  `json:"first_name"   validate:"omitempty,max=100"`
	LastName    *string  `json:"last_name"    validate:"omitempty,max=100"`
	Email       *string  `json:"email"        validate:"omitempty,email,max=100"`
	Phone       *string  `json:"phone"        validate:"omitempty,max=20"`
	IDProof     *string  `json:"id_proof"     validate:"omitempty,max=50"`
	CheckIn     *string  `json:"check_in"     validate:"omitempty,datetime=2006-01-02"`
	CheckOut    *string  `json:"check_out"    validate:"omitempty,datetime=2006-01-02"`
	PaymentMode *string  `json:"payment_mode" validate:"omitempty,oneof=upi card cash bank"`
	BookedAsAC  *bool    `json:"booked_as_ac"`
	GSTIncluded *bool    `json:"gst_included"`
	Discount    *float64 `json:"discount"     validate:"omitempty,gte=0"`
	Remarks     *string  `json:"remarks"      validate:"omitempty,max=500"`
}

func (u UpdateBookingRequest) IsEmpty() bool {
	return u == (UpdateBookingRequest{})
}

type BookingResponse struct {
	ID          string  `json:"id"`
	RoomID      string  `json:"room_id"`
	GuestID     string  `json:"guest_id,omitempty"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	IDProof     string  `json:"id_proof"`
	IDProofURL  string  `json:"id_proof_url,omitempty"`
	CheckIn     string  `json:"check_in"`
	CheckOut    string  `json:"check_out"`
	Nights      int     `json:"nights"`
	Status      string  `json:"status"`
	PaymentMode string  `json:"payment_mode"`
	TotalAmount float64 `json:"total_amount"`
	PaidAmount  float64 `json:"paid_amount"`
	Discount    float64 `json:"discount"`
	BookedAsAC  bool    `json:"booked_as_ac"`
	GSTIncluded bool    `json:"gst_included"`
	GrandTotal  float64 `json:"grand_total"`
	BalanceDue  float64 `json:"balance_due"`
	Remarks     string  `json:"remarks"`
	RiskScore   int     `json:"risk_score"`
	RiskReason  string  `json:"risk_reason"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(m model.Booking) {
	inv := m.Invoice()

	r.ID = m.ID
	r.RoomID = m.RoomID
	r.GuestID = m.GuestID
	r.FirstName = m.FirstName
	r.LastName = m.LastName
	r.Email = m.Email
	r.Phone = m.Phone
	r.IDProof = m.IDProof
	r.IDProofURL = m.IDProofURL
	r.CheckIn = timezone.FormatDate(m.CheckIn)
	r.CheckOut = timezone.FormatDate(m.CheckOut)
	r.Nights = m.Nights()
	r.Status = string(m.Status)
	r.PaymentMode = string(m.PaymentMode)
	r.TotalAmount = m.TotalAmount
	r.PaidAmount = m.PaidAmount
	r.Discount = m.Discount
	r.BookedAsAC = m.BookedAsAC
	r.GSTIncluded = m.GSTIncluded
	r.GrandTotal = inv.GrandTotal
	r.BalanceDue = inv.BalanceDue
	r.Remarks = m.Remarks
	r.RiskScore = m.RiskScore
	r.RiskReason = m.RiskReason
	r.Metadata.FromModel(m.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// GuestResponse is the latest snapshot of a returning guest.
type GuestResponse struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	IDProof   string `json:"id_proof"`
	LastVisit string `json:"last_visit"`
	Visits    int    `json:"visits"`
}

func (g *GuestResponse) FromModel(latest model.Booking, visits int) {
	g.FirstName = latest.FirstName
	g.LastName = latest.LastName
	g.Email = latest.Email
	g.Phone = latest.Phone
	g.IDProof = latest.IDProof
	g.LastVisit = timezone.FormatDate(latest.CheckOut)
	g.Visits = visits
}

type RiskyBookingResponse struct {
	BookingResponse
	Critical bool `json:"critical"`
}

type GetRiskyBookingsResponse struct {
	Bookings []RiskyBookingResponse `json:"bookings"`
}

func (r *GetRiskyBookingsResponse) FromModels(models []model.Booking, criticalScore int) {
	r.Bookings = make([]RiskyBookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
		r.Bookings[i].Critical = mod.RiskScore >= criticalScore
	}
}

type AvailabilityResponse struct {
	RoomID    string `json:"room_id"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	Available bool   `json:"available"`
}
