package cmd

import (
	"github.com/spf13/cobra"

	"newsgram/internal/bootstrap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP service",
	Long: `Start the newsgram HTTP service. It exposes the cron pipeline endpoints,
the manual analysis endpoints, health checks, and Prometheus metrics, and
runs until interrupted.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return bootstrap.Start(cmd.Context(), cfgFile)
	},
}
