package main

import (
	"os"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		log.Error().Err(err).Msg("reviewctl failed")
		os.Exit(1)
	}
}
