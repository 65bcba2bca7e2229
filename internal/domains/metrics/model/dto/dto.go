package dto

import (
	"hotel/internal/domains/metrics/model"
	"hotel/shared/money"
	"hotel/shared/timezone"
)

type MetricsResponse struct {
	StartDate           string  `json:"start_date"`
	EndDate             string  `json:"end_date"`
	OccupancyRate       float64 `json:"occupancy_rate"`
	ADR                 float64 `json:"adr"`
	RevPAR              float64 `json:"rev_par"`
	TotalRevenue        float64 `json:"total_revenue"`
	OccupiedRoomNights  int     `json:"occupied_room_nights"`
	AvailableRoomNights int     `json:"available_room_nights"`

	ActiveBookings          int     `json:"active_bookings"`
	CheckInsToday           int     `json:"check_ins_today"`
	CheckOutsToday          int     `json:"check_outs_today"`
	OccupiedNow             int     `json:"occupied_now"`
	PendingApprovals        int     `json:"pending_approvals"`
	PendingDeletionRequests int     `json:"pending_deletion_requests"`
	OutstandingBalance      float64 `json:"outstanding_balance"`
}

func (m *MetricsResponse) FromRevenue(r model.Range, rev model.Revenue) {
	m.StartDate = timezone.FormatDate(r.Start)
	m.EndDate = timezone.FormatDate(r.End)
	m.OccupancyRate = money.Round(rev.OccupancyRate())
	m.ADR = money.Round(rev.ADR())
	m.RevPAR = money.Round(rev.RevPAR())
	m.TotalRevenue = money.Round(rev.Total)
	m.OccupiedRoomNights = rev.OccupiedNights
	m.AvailableRoomNights = rev.AvailableNights()
}

type DailyOccupancy struct {
	Date      string  `json:"date"`
	Occupied  int     `json:"occupied"`
	Occupancy float64 `json:"occupancy"`
}

type OccupancyResponse struct {
	AverageOccupancy float64          `json:"average_occupancy"`
	DaysAnalyzed     int              `json:"days_analyzed"`
	Low              bool             `json:"low"`
	Daily            []DailyOccupancy `json:"daily"`
}
