package di

import (
	"time"

	"sarana/config"
	"sarana/internal/domains/notification/dispatcher"
	"sarana/shared/locker"
	"sarana/transport/http"
	"sarana/transport/scheduler"
)

// App bundles the HTTP server with the background workers main has to start and stop.
type App struct {
	HTTP       *http.HTTP
	Scheduler  *scheduler.Scheduler
	Dispatcher dispatcher.Dispatcher
}

func provideLocker(cfg *config.Config) locker.Locker {
	return locker.New(time.Duration(cfg.Booking.LockWaitSeconds) * time.Second)
}
