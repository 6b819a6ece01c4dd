package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/pflag"

	"gridcaster/internal/config"
	"gridcaster/internal/logger"
	"gridcaster/internal/terminal"
)

func main() {
	logger.Init()

	fs := config.NewFlagSet("gridcaster-term")
	snapshot := fs.String("snapshot", "", "write one frame to this PNG file and exit")
	logFile := fs.String("log-file", "", "log to this file while the terminal is in use")

	settings, err := config.Load(fs, os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load configuration.")
	}

	if *snapshot != "" {
		logger.Configure(settings.Log.Level, settings.Log.Format, os.Stdout)
		if err := terminal.Snapshot(settings, *snapshot); err != nil {
			logger.Log.WithError(err).Fatal("Failed to write snapshot.")
		}
		return
	}

	if err := run(settings, *logFile); err != nil {
		logger.Configure(settings.Log.Level, settings.Log.Format, os.Stderr)
		logger.Log.WithError(err).Fatal("Terminal frontend failed.")
	}
}

func run(settings *config.Settings, logFile string) error {
	// the screen owns stdout from here on
	var out io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger.Configure(settings.Log.Level, settings.Log.Format, out)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	frontend, err := terminal.New(screen, settings)
	if err != nil {
		return err
	}

	return frontend.Run(ctx)
}
