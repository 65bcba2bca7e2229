package dto

import (
	"hotel/internal/domains/room/model"
	"hotel/shared"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	Number    string   `json:"number"    validate:"required,max=20"`
	Type      string   `json:"type"      validate:"required,oneof=standard deluxe suite"`
	BaseRate  float64  `json:"base_rate" validate:"gt=0"`
	ACRate    *float64 `json:"ac_rate"   validate:"omitempty,gt=0"`
	Amenities []string `json:"amenities" validate:"omitempty,dive,max=50"`
}

func (c *CreateRoomRequest) ToModel(user string) model.Room {
	var metadata gModel.Metadata
	metadata.Stamp(user, timezone.Now())

	amenities := c.Amenities
	if amenities == nil {
		amenities = []string{}
	}

	return model.Room{
		ID:        uuid.NewString(),
		Number:    c.Number,
		Type:      model.Type(c.Type),
		BaseRate:  c.BaseRate,
		ACRate:    c.ACRate,
		Status:    model.StatusVacant,
		Amenities: amenities,
		Metadata:  metadata,
	}
}

type UpdateRoomRequest struct {
	Number    string   `db:"number"    json:"number"    validate:"omitempty,max=20"`
	Type      string   `db:"type"      json:"type"      validate:"omitempty,oneof=standard deluxe suite"`
	BaseRate  *float64 `db:"base_rate" json:"base_rate" validate:"omitempty,gt=0"`
	ACRate    *float64 `db:"ac_rate"   json:"ac_rate"   validate:"omitempty,gt=0"`
	RemoveAC  bool     `json:"remove_ac"`
	Amenities []string `json:"amenities" validate:"omitempty,dive,max=50"`
}

type UpdateRoomStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=vacant occupied cleaning maintenance"`
}

type RoomResponse struct {
	ID        string   `json:"id"`
	Number    string   `json:"number"`
	Type      string   `json:"type"`
	BaseRate  float64  `json:"base_rate"`
	ACRate    *float64 `json:"ac_rate,omitempty"`
	HasAC     bool     `json:"has_ac"`
	Status    string   `json:"status"`
	Amenities []string `json:"amenities"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(m model.Room) {
	r.ID = m.ID
	r.Number = m.Number
	r.Type = string(m.Type)
	r.BaseRate = m.BaseRate
	r.ACRate = m.ACRate
	r.HasAC = m.HasAC()
	r.Status = string(m.Status)
	r.Amenities = m.Amenities
	r.Metadata.FromModel(m.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
