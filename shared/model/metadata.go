package model

import "time"

type Metadata struct {
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
	ModifiedAt time.Time `db:"modified_at" json:"modified_at"`
	CreatedBy  string    `db:"created_by"  json:"created_by"`
	ModifiedBy string    `db:"modified_by" json:"modified_by"`
}

// Stamp sets both creation and modification metadata to the given actor and time.
func (m *Metadata) Stamp(actor string, at time.Time) {
	m.CreatedAt = at
	m.ModifiedAt = at
	m.CreatedBy = actor
	m.ModifiedBy = actor
}
