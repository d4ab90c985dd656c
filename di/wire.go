//go:build wireinject
// +build wireinject

package di

import (
	"sarana/config"
	"sarana/infras/jwt"
	"sarana/infras/kafka"
	"sarana/infras/otel"
	"sarana/infras/postgres"
	"sarana/infras/redis"
	"sarana/infras/s3"
	"sarana/infras/websocket"
	"sarana/permissions"
	"sarana/shared/cache"
	"sarana/shared/timezone"
	"sarana/transport/http"
	"sarana/transport/http/middleware"
	"sarana/transport/http/router"
	"sarana/transport/scheduler"

	approvalService "sarana/internal/domains/approval/service"
	authService "sarana/internal/domains/auth/service"
	"sarana/internal/domains/booking/guard"
	bookingRepository "sarana/internal/domains/booking/repository"
	bookingService "sarana/internal/domains/booking/service"
	catalogRepository "sarana/internal/domains/catalog/repository"
	catalogService "sarana/internal/domains/catalog/service"
	"sarana/internal/domains/notification/dispatcher"
	notificationRepository "sarana/internal/domains/notification/repository"
	notificationService "sarana/internal/domains/notification/service"
	userRepository "sarana/internal/domains/user/repository"
	userService "sarana/internal/domains/user/service"

	authHandler "sarana/internal/handlers/auth"
	bookingHandler "sarana/internal/handlers/booking"
	healthHandler "sarana/internal/handlers/health"
	notificationHandler "sarana/internal/handlers/notification"
	resourceHandler "sarana/internal/handlers/resource"
	userHandler "sarana/internal/handlers/user"

	"github.com/google/wire"
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
	websocket.NewHub,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
	wire.Bind(new(middleware.PrincipalResolver), new(userService.Account)),
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	timezone.NewClock,
	provideLocker,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var catalogDomain = wire.NewSet(
	catalogRepository.NewUnit,
	catalogRepository.NewTemplate,
	catalogService.New,
	wire.Bind(new(catalogService.Occupancy), new(bookingRepository.Booking)),
)

var notificationDomain = wire.NewSet(
	notificationRepository.New,
	dispatcher.NewSinks,
	dispatcher.New,
	notificationService.New,
	wire.Bind(new(dispatcher.Store), new(notificationRepository.Notification)),
	wire.Bind(new(notificationService.Directory), new(userRepository.User)),
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	guard.New,
	bookingService.New,
	approvalService.New,
	wire.Bind(new(guard.Store), new(bookingRepository.Booking)),
)

var domains = wire.NewSet(
	userDomain,
	authDomain,
	catalogDomain,
	notificationDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	healthHandler.NewStatus,
	healthHandler.New,
	authHandler.New,
	userHandler.New,
	resourceHandler.New,
	bookingHandler.New,
	notificationHandler.New,
	router.New,
)

func InitializeService() *App {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
		scheduler.New,
		wire.Struct(new(App), "*"),
	)

	return &App{}
}
