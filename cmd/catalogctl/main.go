// Command catalogctl manages the product catalog and admin credentials
// outside the running service. It reads the same environment as the server.
package main

import (
	"os"

	"github.com/guttosm/cart-service/internal/logger"
	"github.com/rs/zerolog/log"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"), true)

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("catalogctl failed")
	}
}
