package deletion

import (
	"hotel/infras/otel"
	"hotel/internal/domains/deletion/model"
	"hotel/internal/domains/deletion/model/dto"
	"hotel/internal/domains/deletion/service"
	"hotel/shared/actor"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/validator"
	"hotel/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Deletion
	otel    otel.Otel
}

func New(service service.Deletion, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/deletion-requests", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetDeletionRequests)
		routerGroup.Post("/{id}/decision", handler.DecideDeletionRequest)
	})
}

// BookingRoutes registers the deletion request routes relative to /bookings.
func (handler *Handler) BookingRoutes(router chi.Router) {
	router.Post("/{id}/deletion-requests", handler.CreateDeletionRequest)
}

// CreateDeletionRequest asks for a booking to be removed.
// @Summary Request booking deletion
// @Description File a pending request to delete a booking. Only one pending request per booking is allowed.
// @Tags Deletion
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.CreateDeletionRequest true "Deletion Request"
// @Success 201 {object} response.Data[dto.DeletionRequestResponse] "Request filed"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error "Duplicate pending request"
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/deletion-requests [post]
// @Security BearerAuth
func (handler *Handler) CreateDeletionRequest(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateDeletionRequest")
	defer scope.End()

	req := dto.CreateDeletionRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	request, err := handler.service.Request(ctx, actor.FromContext(ctx), chi.URLParam(r, constant.RequestParamID), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create deletion request")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, request)
}

// GetDeletionRequests lists deletion requests.
// @Summary Get deletion requests
// @Description Retrieve deletion requests with optional status filter and pagination.
// @Tags Deletion
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status (pending, approved, rejected)"
// @Param booking_id query string false "Filter by booking"
// @Success 200 {object} response.Data[dto.GetDeletionRequestsResponse] "Deletion requests"
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/deletion-requests [get]
// @Security BearerAuth
func (handler *Handler) GetDeletionRequests(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetDeletionRequests")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	for _, field := range []string{model.FieldStatus, model.FieldBookingID} {
		if value := query.Get(field); value != constant.Empty {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	requests, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get deletion requests")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, requests)
}

// DecideDeletionRequest approves or rejects a pending deletion request.
// @Summary Decide a deletion request
// @Description Approve (deleting the booking) or reject a pending request. Admin only; other roles are refused and audited.
// @Tags Deletion
// @Accept json
// @Produce json
// @Param id path string true "Deletion request ID"
// @Param request body dto.DecisionRequest true "Decision"
// @Success 200 {object} response.Message "Deletion request decided"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/deletion-requests/{id}/decision [post]
// @Security BearerAuth
func (handler *Handler) DecideDeletionRequest(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DecideDeletionRequest")
	defer scope.End()

	req := dto.DecisionRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Decide(ctx, actor.FromContext(ctx), chi.URLParam(r, constant.RequestParamID), req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decide deletion request")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Deletion request decided by user " + user)

	response.WithMessage(w, http.StatusOK, "Deletion request decided")
}
