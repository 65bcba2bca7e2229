package payment_test

import (
	"context"
	"hotel/infras/otel/mocks"
	paymentMocks "hotel/internal/domains/payment/mocks"
	"hotel/internal/domains/payment/model/dto"
	"hotel/internal/handlers/payment"
	"hotel/shared/actor"
	"hotel/shared/constant"
	"hotel/shared/failure"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const bookingID = "b1"

var desk = actor.Actor{ID: "staff-1", Role: constant.RoleReceptionist}

func newRouter(t *testing.T) (http.Handler, *paymentMocks.MockPaymentService) {
	ctrl := gomock.NewController(t)
	service := paymentMocks.NewMockPaymentService(ctrl)

	handler := payment.New(service, mocks.NewOtel())

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), constant.ContextKeyUserID, desk.ID)
			ctx = context.WithValue(ctx, constant.ContextKeyUserRole, desk.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	router.Route("/bookings", handler.BookingRoutes)

	return router, service
}

func post(router http.Handler, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/bookings/"+bookingID+"/payments", strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestHandler_CreatePayment(t *testing.T) {
	t.Run("zero amount is refused as an invalid amount", func(t *testing.T) {
		router, service := newRouter(t)

		req := dto.CreatePaymentRequest{Amount: 0, Mode: "cash", Category: "other"}
		service.EXPECT().Pay(gomock.Any(), desk, bookingID, req).Return(dto.PaymentResponse{}, failure.InvalidAmount("payment amount must be positive, got 0.00"))

		rec := post(router, `{"amount":0,"mode":"cash","category":"other"}`, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "payment amount must be positive")
	})

	t.Run("idempotency key falls back to the header", func(t *testing.T) {
		router, service := newRouter(t)

		req := dto.CreatePaymentRequest{Amount: 500, Mode: "upi", Category: "advance", IdempotencyKey: "k1"}
		service.EXPECT().Pay(gomock.Any(), desk, bookingID, req).Return(dto.PaymentResponse{ID: "p1", Amount: 500}, nil)

		rec := post(router, `{"amount":500,"mode":"upi","category":"advance"}`, map[string]string{
			constant.RequestHeaderIdempotencyKey: "k1",
		})

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("replayed payment answers 200", func(t *testing.T) {
		router, service := newRouter(t)

		service.EXPECT().Pay(gomock.Any(), desk, bookingID, gomock.Any()).Return(dto.PaymentResponse{ID: "p1", Amount: 500, Replayed: true}, nil)

		rec := post(router, `{"amount":500,"mode":"upi","category":"advance","idempotency_key":"k1"}`, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown mode fails validation", func(t *testing.T) {
		router, _ := newRouter(t)

		rec := post(router, `{"amount":500,"mode":"cheque","category":"advance"}`, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
