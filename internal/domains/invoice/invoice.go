// Package invoice derives the billing snapshot of a booking. Nothing here is persisted.
package invoice

import (
	"hotel/shared/money"
)

// TaxRate is the flat GST rate applied when a booking includes tax.
const TaxRate = 0.12

const (
	LabelRoomAC    = "Room Charges (AC)"
	LabelRoomNonAC = "Room Charges (Non-AC)"
	LabelDiscount  = "Discount Applied"
	LabelTax       = "GST (12%)"

	idSuffix = "_inv"
)

// Charges are the financial fields of a booking the invoice is computed from.
type Charges struct {
	BookingID   string
	TotalAmount float64
	Discount    float64
	PaidAmount  float64
	BookedAsAC  bool
	GSTIncluded bool
}

type LineItem struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type Invoice struct {
	ID         string     `json:"id"`
	BookingID  string     `json:"booking_id"`
	Items      []LineItem `json:"items"`
	Total      float64    `json:"total"`
	Discount   float64    `json:"discount"`
	Tax        float64    `json:"tax"`
	GrandTotal float64    `json:"grand_total"`
	Paid       float64    `json:"paid"`
	BalanceDue float64    `json:"balance_due"`
}

// Settled reports whether nothing is left to collect, allowing for the given tolerance.
func (i Invoice) Settled(tolerance float64) bool {
	return i.BalanceDue <= tolerance
}

func Calculate(c Charges) Invoice {
	taxable := max(0, c.TotalAmount-c.Discount)

	// The grand total is rounded once from the unrounded formula and tax is
	// what remains above the taxable base, so the two always add up.
	grand := money.Round(taxable)

	var tax float64
	if c.GSTIncluded {
		grand = money.Round(taxable * (1 + TaxRate))
		tax = money.Round(grand - taxable)
	}

	label := LabelRoomNonAC
	if c.BookedAsAC {
		label = LabelRoomAC
	}

	items := []LineItem{{Description: label, Amount: money.Round(c.TotalAmount)}}

	if c.Discount > 0 {
		items = append(items, LineItem{Description: LabelDiscount, Amount: -money.Round(c.Discount)})
	}

	if c.GSTIncluded {
		items = append(items, LineItem{Description: LabelTax, Amount: tax})
	}

	return Invoice{
		ID:         c.BookingID + idSuffix,
		BookingID:  c.BookingID,
		Items:      items,
		Total:      money.Round(c.TotalAmount),
		Discount:   money.Round(c.Discount),
		Tax:        tax,
		GrandTotal: grand,
		Paid:       money.Round(c.PaidAmount),
		BalanceDue: money.Round(grand - c.PaidAmount),
	}
}
