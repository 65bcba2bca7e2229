package metrics

import (
	"hotel/infras/otel"
	ledgerService "hotel/internal/domains/ledger/service"
	"hotel/internal/domains/metrics/service"
	"hotel/shared/constant"
	"hotel/shared/failure"
	"hotel/transport/http/response"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	defaultOccupancyDays = 7
	maxOccupancyDays     = 90
)

type Handler struct {
	service service.Metrics
	ledger  ledgerService.Ledger
	otel    otel.Otel
}

func New(service service.Metrics, ledger ledgerService.Ledger, otel otel.Otel) Handler {
	return Handler{
		service: service,
		ledger:  ledger,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/metrics", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetMetrics)
		routerGroup.Get("/occupancy", handler.GetPastOccupancy)
	})

	router.Get("/ledger/summary", handler.GetLedgerSummary)
}

// GetMetrics reports the dashboard figures for a date range.
// @Summary Get dashboard metrics
// @Description Bookings, revenue, occupancy and deletion figures between start_date and end_date inclusive.
// @Tags Metrics
// @Produce json
// @Param start_date query string true "Start date (YYYY-MM-DD)"
// @Param end_date query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.MetricsResponse] "Metrics"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/metrics [get]
// @Security BearerAuth
func (handler *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMetrics")
	defer scope.End()

	query := r.URL.Query()

	res, err := handler.service.Metrics(ctx, query.Get(constant.RequestParamStartDate), query.Get(constant.RequestParamEndDate))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get metrics")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Metrics retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// GetPastOccupancy reports nightly occupancy for the days before today.
// @Summary Get past occupancy
// @Description Average and per-night occupancy over the last N days (default 7, at most 90).
// @Tags Metrics
// @Produce json
// @Param days query int false "Number of days"
// @Success 200 {object} response.Data[dto.OccupancyResponse] "Occupancy"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/metrics/occupancy [get]
// @Security BearerAuth
func (handler *Handler) GetPastOccupancy(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPastOccupancy")
	defer scope.End()

	days := defaultOccupancyDays

	if raw := r.URL.Query().Get(constant.RequestParamDays); raw != constant.Empty {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxOccupancyDays {
			err = failure.BadRequestFromString("days must be an integer between 1 and " + strconv.Itoa(maxOccupancyDays))

			scope.TraceError(err)
			response.WithError(w, err)

			return
		}

		days = parsed
	}

	res, err := handler.service.PastOccupancy(ctx, days)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get past occupancy")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetLedgerSummary reports the ledger totals across all bookings.
// @Summary Get ledger summary
// @Description Total debits, credits and outstanding balance across the ledger.
// @Tags Metrics
// @Produce json
// @Success 200 {object} response.Data[ledgerDto.SummaryResponse] "Ledger summary"
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/ledger/summary [get]
// @Security BearerAuth
func (handler *Handler) GetLedgerSummary(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetLedgerSummary")
	defer scope.End()

	res, err := handler.ledger.Summary(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get ledger summary")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
