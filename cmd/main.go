package main

import (
	"os"

	"cbrates/internal/app"

	"github.com/sirupsen/logrus"
)

// @title cbrates API
// @version 1.0
// @description Currency exchange rate service with cooldown throttling and database fallback
// @BasePath /api/v1
func main() {
	if err := app.Run(); err != nil {
		logrus.WithError(err).Error("Application stopped with error")
		os.Exit(1)
	}
}
