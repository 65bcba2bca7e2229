package audit

import (
	"hotel/infras/otel"
	"hotel/internal/domains/audit/model"
	"hotel/internal/domains/audit/service"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Audit
	otel    otel.Otel
}

func New(service service.Audit, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/audit-logs", handler.GetLogs)
}

// GetLogs retrieves audit log entries.
// @Summary Get audit logs
// @Description Retrieve audit entries, newest first, filtered by user, action, severity or date range. Admin only.
// @Tags Audit
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param user_id query string false "Filter by acting user"
// @Param action query string false "Filter by action"
// @Param severity query string false "Filter by severity (info, warning, critical)"
// @Param start_date query string false "Entries on or after this date (YYYY-MM-DD)"
// @Param end_date query string false "Entries before this date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.GetLogsResponse] "Audit logs"
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/audit-logs [get]
// @Security BearerAuth
func (handler *Handler) GetLogs(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetLogs")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	for _, field := range []string{model.FieldUserID, model.FieldAction, model.FieldSeverity} {
		if value := query.Get(field); value != constant.Empty {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	if value := query.Get(constant.RequestParamStartDate); value != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldCreatedAt,
			Operator: gDto.FilterOperatorGreaterEq,
			Value:    value,
			Table:    model.TableName,
			ArgName:  constant.RequestParamStartDate,
		})
	}

	if value := query.Get(constant.RequestParamEndDate); value != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldCreatedAt,
			Operator: gDto.FilterOperatorLess,
			Value:    value,
			Table:    model.TableName,
			ArgName:  constant.RequestParamEndDate,
		})
	}

	logs, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get audit logs")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, logs)
}
