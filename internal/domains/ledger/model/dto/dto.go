package dto

import (
	"hotel/internal/domains/ledger/model"
	"hotel/shared/constant"
	"hotel/shared/money"
	"hotel/shared/timezone"
)

type EntryResponse struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	ReferenceID string  `json:"reference_id"`
	Balance     float64 `json:"running_balance"`
	CreatedAt   string  `json:"created_at"`
}

type StatementResponse struct {
	BookingID   string          `json:"booking_id"`
	Entries     []EntryResponse `json:"entries"`
	TotalDebit  float64         `json:"total_debit"`
	TotalCredit float64         `json:"total_credit"`
	Balance     float64         `json:"balance"`
}

// FromModels builds the statement with a running balance. Entries must be in posting order.
func (s *StatementResponse) FromModels(bookingID string, entries []model.Entry) {
	s.BookingID = bookingID
	s.Entries = make([]EntryResponse, len(entries))

	var running float64

	for i, e := range entries {
		running = money.Round(running + e.Signed())

		if e.Type == model.TypeDebit {
			s.TotalDebit += e.Amount
		} else {
			s.TotalCredit += e.Amount
		}

		s.Entries[i] = EntryResponse{
			ID:          e.ID,
			Type:        string(e.Type),
			Amount:      e.Amount,
			Description: e.Description,
			ReferenceID: e.ReferenceID,
			Balance:     running,
			CreatedAt:   timezone.Format(e.CreatedAt, constant.DateFormat),
		}
	}

	s.TotalDebit = money.Round(s.TotalDebit)
	s.TotalCredit = money.Round(s.TotalCredit)
	s.Balance = running
}

type SummaryResponse struct {
	TotalDebit  float64 `json:"total_debit"`
	TotalCredit float64 `json:"total_credit"`
	Outstanding float64 `json:"outstanding"`
	Entries     int     `json:"entries"`
}

func (s *SummaryResponse) FromModel(t model.Totals) {
	s.TotalDebit = money.Round(t.Debit)
	s.TotalCredit = money.Round(t.Credit)
	s.Outstanding = money.Round(t.Balance())
	s.Entries = t.Entries
}
