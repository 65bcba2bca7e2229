package main

import (
	"errors"
	"hotel/config"
	"hotel/helper"
	"hotel/shared/logger"
	"os"

	"github.com/rs/zerolog/log"
)

const (
	argLength = 2
)

func main() {
	logger.InitLogger()

	if len(os.Args) < argLength {
		log.Fatal().Msg("Migration action is required: up, down, step-up, drop, version or force <version>")
	}

	cfg := config.Get()

	if err := helper.Runner(cfg, os.Args[1], os.Args[argLength:]...); err != nil {
		if errors.Is(err, helper.ErrUnknownAction) {
			log.Fatal().Err(err).Msg("Invalid action. Use 'up', 'down', 'step-up', 'drop', 'version' or 'force <version>'")
		}

		log.Fatal().Err(err).Msg("Migration failed")
	}
}
