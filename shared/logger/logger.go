// Package logger configures the global zerolog logger.
package logger

import (
	"io"
	"os"
	"time"

	"sarana/config"
	"sarana/shared/constant"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger installs a human readable console logger at trace level. SetLogLevel replaces
// it once configuration is loaded.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
}

// ErrorWithStack logs err with the stack of the caller attached.
func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

// SetLogLevel applies the configured level. Production writes JSON lines tagged with the
// app name; an empty or unknown level keeps everything.
func SetLogLevel(cfg *config.Config) {
	if cfg.Server.Env == constant.ServerEnvProduction {
		log.Logger = New(os.Stdout, cfg.App.Name)
	}

	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.TraceLevel
	}

	zerolog.SetGlobalLevel(level)
	log.Debug().Str("level", level.String()).Str("env", cfg.Server.Env).Msg("logger configured")
}

// New builds a JSON logger for out.
func New(out io.Writer, app string) zerolog.Logger {
	ctx := zerolog.New(out).With().Timestamp()
	if app != "" {
		ctx = ctx.Str("app", app)
	}

	return ctx.Logger()
}
