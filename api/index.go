package handler

import (
	"net/http"
	"sync"

	"sarana/config"
	"sarana/di"
	"sarana/shared/logger"

	"github.com/rs/zerolog/log"
)

// app is built once per warm instance. Background workers are not started here;
// undelivered notifications stay pending until a long running instance redrives them.
var app = sync.OnceValue(func() *di.App {
	cfg := config.Get()

	logger.InitLogger()
	logger.SetLogLevel(cfg)

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("invalid configuration")

		return nil
	}

	return di.InitializeService()
})

// Handler serves one request on a serverless runtime.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	instance := app()
	if instance == nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)

		return
	}

	instance.HTTP.ServeHTTP(w, r)
}
