//go:build wireinject
// +build wireinject

package di

import (
	"hotel/config"
	"hotel/infras/genai"
	"hotel/infras/jwt"
	"hotel/infras/kafka"
	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/infras/redis"
	"hotel/infras/s3"
	"hotel/internal/jobs"
	"hotel/permissions"
	"hotel/shared/cache"
	"hotel/shared/lock"
	"hotel/transport/http"
	"hotel/transport/http/middleware"
	"hotel/transport/http/router"

	"github.com/google/wire"

	auditRepository "hotel/internal/domains/audit/repository"
	auditService "hotel/internal/domains/audit/service"
	authService "hotel/internal/domains/auth/service"
	bookingRepository "hotel/internal/domains/booking/repository"
	bookingService "hotel/internal/domains/booking/service"
	deletionRepository "hotel/internal/domains/deletion/repository"
	deletionService "hotel/internal/domains/deletion/service"
	ledgerRepository "hotel/internal/domains/ledger/repository"
	ledgerService "hotel/internal/domains/ledger/service"
	metricsService "hotel/internal/domains/metrics/service"
	paymentRepository "hotel/internal/domains/payment/repository"
	paymentService "hotel/internal/domains/payment/service"
	riskService "hotel/internal/domains/risk/service"
	roomRepository "hotel/internal/domains/room/repository"
	roomService "hotel/internal/domains/room/service"
	userRepository "hotel/internal/domains/user/repository"
	userService "hotel/internal/domains/user/service"

	auditHandler "hotel/internal/handlers/audit"
	authHandler "hotel/internal/handlers/auth"
	bookingHandler "hotel/internal/handlers/booking"
	deletionHandler "hotel/internal/handlers/deletion"
	metricsHandler "hotel/internal/handlers/metrics"
	paymentHandler "hotel/internal/handlers/payment"
	roomHandler "hotel/internal/handlers/room"
	userHandler "hotel/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	postgres.NewTransactor,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
	genai.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	lock.New,
)

var auditDomain = wire.NewSet(
	auditRepository.New,
	auditService.NewService,
	auditService.New,
	auditService.NewConsumer,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
	authService.New,
)

var bookingDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
	bookingRepository.New,
	bookingService.New,
	ledgerRepository.New,
	ledgerService.New,
	riskService.New,
)

var financeDomain = wire.NewSet(
	paymentRepository.New,
	paymentService.New,
	deletionRepository.New,
	deletionService.New,
	metricsService.New,
)

var domains = wire.NewSet(
	auditDomain,
	userDomain,
	bookingDomain,
	financeDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	roomHandler.New,
	bookingHandler.New,
	paymentHandler.New,
	deletionHandler.New,
	metricsHandler.New,
	auditHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeApp() *App {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
		jobs.New,
		wire.Struct(new(App), "*"),
	)

	return &App{}
}
