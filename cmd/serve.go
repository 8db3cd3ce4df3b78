package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/htools/sitecheck/evt"
	"github.com/htools/sitecheck/log"
	"github.com/htools/sitecheck/server"
)

const shutdownTimeout = 10 * time.Second

//nolint:gochecknoglobals
var signals = make(chan os.Signal, 1)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Args:  cobra.NoArgs,
		Short: "start the sitecheck API server (default command)",
		RunE:  startServer,
	}
}

func startServer(_ *cobra.Command, _ []string) error {
	printBanner()

	if err := initConfig(); err != nil {
		return err
	}

	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	srv, err := server.NewServer(cfg, newValidator(cfg))
	if err != nil {
		return fmt.Errorf("can't start server: %w", err)
	}

	errCh := make(chan error, 1)

	srv.Start(errCh)

	evt.Bus().Publish(evt.ApplicationStarted, version, buildTime)

	var runErr error

	select {
	case <-signals:
		log.Log().Infof("Terminating...")
	case runErr = <-errCh:
		log.Log().Error("server failed: ", runErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Stop(ctx); err != nil && runErr == nil {
		runErr = err
	}

	return runErr
}

func printBanner() {
	log.Log().Info("+--------------------------------------------------------------+")
	log.Log().Info("|                                                              |")
	log.Log().Info("|    ___  _  _         _                 _                     |")
	log.Log().Info("|   / __|(_)| |_  ___ | |_   ___  __ __ | |__                  |")
	log.Log().Info("|   \\__ \\| ||  _|/ -_)| ' \\ / -_)/ _|/ _|| / /                  |")
	log.Log().Info("|   |___/|_| \\__|\\___||_||_|\\___|\\__|\\__||_\\_\\                  |")
	log.Log().Info("|                                                              |")
	log.Log().Infof("|  Version: %-18s Build time: %-18s     |", version, buildTime)
	log.Log().Info("|                                                              |")
	log.Log().Info("+--------------------------------------------------------------+")
}
