package model

const (
	MinScore = 0
	MaxScore = 100

	ReasonDisabled    = "AI disabled"
	ReasonUnavailable = "analysis unavailable"
)

// Draft is the booking data shown to the risk model.
type Draft struct {
	GuestName   string  `json:"guest_name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	IDProof     string  `json:"id_proof"`
	RoomType    string  `json:"room_type"`
	CheckIn     string  `json:"check_in"`
	CheckOut    string  `json:"check_out"`
	Nights      int     `json:"nights"`
	TotalAmount float64 `json:"total_amount"`
	PaymentMode string  `json:"payment_mode"`
	LeadDays    int     `json:"lead_days"`
}

type Result struct {
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// Clamp keeps the score inside the 0..100 scale.
func (r Result) Clamp() Result {
	r.Score = max(MinScore, min(MaxScore, r.Score))

	return r
}
