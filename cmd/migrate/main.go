package main

import (
	"os"
	"strings"

	"sarana/config"
	"sarana/helper"
	"sarana/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	logger.InitLogger()

	if len(os.Args) < 2 { //nolint:mnd
		log.Fatal().Msgf("usage: migrate <%s> [version]", strings.Join(helper.Actions(), "|"))
	}

	cfg := config.Get()
	logger.SetLogLevel(cfg)

	if err := helper.Run(cfg, os.Args[1], os.Args[2:]...); err != nil {
		log.Fatal().Err(err).Str("action", os.Args[1]).Msg("migration failed")
	}
}
