// Package server provides server-related CLI commands.
package server

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kaique-kira/xml-card-reader/internal/config"
	"github.com/kaique-kira/xml-card-reader/internal/host"
	"github.com/kaique-kira/xml-card-reader/internal/logging"
	"github.com/kaique-kira/xml-card-reader/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the host command server",
		Long: `Start the TCP host command server. Requests are a two-character command code
followed by an ASCII payload; responses carry the next code and a two-character
error code.`,
		RunE: runServe,
	}

	// Add serve command specific flags that can override config.
	cmd.Flags().String("host", "localhost", "Server host")
	cmd.Flags().Int("port", 1600, "Server port")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := config.BindFlags(cmd.Flags(), map[string]string{
		"server.host": "host",
		"server.port": "port",
	}); err != nil {
		return err
	}
	cfg := config.Get()

	registry := host.DefaultRegistry(cfg.Server.Disabled...)
	for _, c := range registry.List() {
		log.Debug().
			Str("command", c.Code).
			Str("description", c.Description).
			Msg("command registered")
	}

	srv, err := server.NewServer(cfg.Address(), registry)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	if err := srv.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stopChan)

	// SIGHUP re-reads the configuration and swaps the command table.
	reloadChan := make(chan os.Signal, 1)
	signal.Notify(reloadChan, syscall.SIGHUP)
	defer signal.Stop(reloadChan)

wait:
	for {
		select {
		case <-reloadChan:
			if err := reload(srv); err != nil {
				log.Error().Err(err).Msg("configuration reload failed")
			}
		case <-stopChan:
			break wait
		case <-cmd.Context().Done():
			break wait
		}
	}
	log.Info().Msg("shutting down server...")

	if err := srv.Stop(); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	return nil
}

type registrySetter interface {
	SetRegistry(r *host.Registry)
}

// reload refreshes configuration and logging and installs a command table built
// from server.disabled.
func reload(srv registrySetter) error {
	if err := config.Reload(); err != nil {
		return err
	}
	cfg := config.Get()
	if err := logging.Configure(os.Stderr, cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}

	srv.SetRegistry(host.DefaultRegistry(cfg.Server.Disabled...))
	log.Info().Strs("disabled", cfg.Server.Disabled).Msg("configuration reloaded")

	return nil
}
