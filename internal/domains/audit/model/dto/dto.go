package dto

import (
	"hotel/internal/domains/audit/model"
	"hotel/shared"
	"hotel/shared/constant"
	"hotel/shared/timezone"
)

type LogResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	Role      string `json:"role"`
	Action    string `json:"action"`
	Details   string `json:"details"`
	Severity  string `json:"severity"`
	CreatedAt string `json:"created_at"`
}

func (r *LogResponse) FromModel(m model.Log) {
	r.ID = m.ID
	r.UserID = m.UserID
	r.UserName = m.UserName
	r.Role = m.Role
	r.Action = m.Action
	r.Details = m.Details
	r.Severity = string(m.Severity)
	r.CreatedAt = timezone.Format(m.CreatedAt, constant.DateFormat)
}

type GetLogsResponse struct {
	Logs      []LogResponse `json:"logs"`
	TotalPage int           `json:"total_page"`
	TotalData int           `json:"total_data"`
}

func (r *GetLogsResponse) FromModels(models []model.Log, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Logs = make([]LogResponse, len(models))
	for i, m := range models {
		r.Logs[i].FromModel(m)
	}
}
