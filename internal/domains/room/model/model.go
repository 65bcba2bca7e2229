package model

import (
	"hotel/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID     = "id"
	FieldNumber = "number"
	FieldType   = "type"
	FieldStatus = "status"
	FieldACRate = "ac_rate"
)

type Type string

const (
	TypeStandard Type = "standard"
	TypeDeluxe   Type = "deluxe"
	TypeSuite    Type = "suite"
)

type Status string

const (
	StatusVacant      Status = "vacant"
	StatusOccupied    Status = "occupied"
	StatusCleaning    Status = "cleaning"
	StatusMaintenance Status = "maintenance"
)

type Room struct {
	ID        string         `db:"id"`
	Number    string         `db:"number"`
	Type      Type           `db:"type"`
	BaseRate  float64        `db:"base_rate"`
	ACRate    *float64       `db:"ac_rate"`
	Status    Status         `db:"status"`
	Amenities pq.StringArray `db:"amenities"`
	model.Metadata
}

// HasAC reports whether the room can be booked with air conditioning.
func (r Room) HasAC() bool {
	return r.ACRate != nil
}

// NightlyRate is the price of one night, with or without air conditioning.
func (r Room) NightlyRate(ac bool) float64 {
	if ac && r.ACRate != nil {
		return *r.ACRate
	}

	return r.BaseRate
}
