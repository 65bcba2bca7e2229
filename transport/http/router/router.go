package router

import (
	"hotel/internal/handlers/audit"
	"hotel/internal/handlers/auth"
	"hotel/internal/handlers/booking"
	"hotel/internal/handlers/deletion"
	"hotel/internal/handlers/metrics"
	"hotel/internal/handlers/payment"
	"hotel/internal/handlers/room"
	"hotel/internal/handlers/user"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth     auth.Handler
	User     user.Handler
	Room     room.Handler
	Booking  booking.Handler
	Payment  payment.Handler
	Deletion deletion.Handler
	Metrics  metrics.Handler
	Audit    audit.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Room.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup,
			r.DomainHandlers.Payment.BookingRoutes,
			r.DomainHandlers.Deletion.BookingRoutes,
		)
		r.DomainHandlers.Deletion.Router(routerGroup)
		r.DomainHandlers.Metrics.Router(routerGroup)
		r.DomainHandlers.Audit.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
