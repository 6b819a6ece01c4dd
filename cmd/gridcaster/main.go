package main

import (
	"errors"
	"os"

	"github.com/spf13/pflag"

	"gridcaster/internal/config"
	"gridcaster/internal/display"
	"gridcaster/internal/logger"
)

func main() {
	logger.Init()

	settings, err := config.Load(config.NewFlagSet("gridcaster"), os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load configuration.")
	}
	logger.Configure(settings.Log.Level, settings.Log.Format, os.Stdout)

	if settings.ConfigFile != "" {
		logger.Log.WithField("file", settings.ConfigFile).Info("Configuration loaded.")
	}

	game, err := display.NewGame(settings)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to initialize game.")
	}

	if err := game.Run(); err != nil {
		logger.Log.WithError(err).Fatal("Game exited with an error.")
	}
}
