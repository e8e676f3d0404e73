// Package cmd implements the newsgram command-line interface.
package cmd

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "newsgram",
		Short: "News scraping and Instagram content pipeline",
		Long: `Newsgram ingests articles from RSS feeds, classifies them with an LLM,
and generates ready-to-post Instagram content for the best ones.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// Load .env early so environment variables are available everywhere
	_ = godotenv.Load()

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yml)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(*cobra.Command, []string) {
			fmt.Printf("newsgram version %s\n", version)
		},
	})

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(workflowCmd)
}
