package dto

import (
	"hotel/internal/domains/deletion/model"
	"hotel/shared"
	"hotel/shared/actor"
	"hotel/shared/constant"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"

	"github.com/google/uuid"
)

type CreateDeletionRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

func (c *CreateDeletionRequest) ToModel(act actor.Actor, bookingID string) model.Request {
	var metadata gModel.Metadata
	metadata.Stamp(act.Label(), timezone.Now())

	return model.Request{
		ID:          uuid.NewString(),
		BookingID:   bookingID,
		RequestedBy: act.Label(),
		Reason:      c.Reason,
		Status:      model.StatusPending,
		Metadata:    metadata,
	}
}

type DecisionRequest struct {
	Approve bool `json:"approve"`
}

type DeletionRequestResponse struct {
	ID          string `json:"id"`
	BookingID   string `json:"booking_id"`
	RequestedBy string `json:"requested_by"`
	Reason      string `json:"reason"`
	Status      string `json:"status"`
	DecidedBy   string `json:"decided_by,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func (r *DeletionRequestResponse) FromModel(m model.Request) {
	r.ID = m.ID
	r.BookingID = m.BookingID
	r.RequestedBy = m.RequestedBy
	r.Reason = m.Reason
	r.Status = string(m.Status)
	r.CreatedAt = timezone.Format(m.CreatedAt, constant.DateFormat)

	if m.DecidedBy != nil {
		r.DecidedBy = *m.DecidedBy
	}
}

type GetDeletionRequestsResponse struct {
	Requests  []DeletionRequestResponse `json:"requests"`
	TotalPage int                       `json:"total_page"`
	TotalData int                       `json:"total_data"`
}

func (g *GetDeletionRequestsResponse) FromModels(models []model.Request, totalData, limit int) {
	g.TotalData = totalData
	g.TotalPage = shared.CalculateTotalPage(totalData, limit)

	g.Requests = make([]DeletionRequestResponse, len(models))
	for i, mod := range models {
		g.Requests[i].FromModel(mod)
	}
}
