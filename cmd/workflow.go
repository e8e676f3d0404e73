package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"newsgram/internal/bootstrap"
	"newsgram/internal/logger"
	"newsgram/internal/service"
)

var workflowSchedule bool

var workflowCmd = &cobra.Command{
	Use:   "workflow",
	Short: "Run the daily pipeline workflow",
	Long: `Run the scrape, classify, and generate stages in order against a running
newsgram service. By default the workflow runs once and exits; with
--schedule it keeps running on the configured cron schedule.`,
	RunE: runWorkflow,
}

func init() {
	workflowCmd.Flags().BoolVar(&workflowSchedule, "schedule", false,
		"keep running on the configured cron schedule instead of once")
}

func runWorkflow(cmd *cobra.Command, _ []string) error {
	cfg, configErr := bootstrap.LoadConfig(cfgFile)
	if configErr != nil {
		return fmt.Errorf("config: %w", configErr)
	}

	log, logErr := bootstrap.CreateLogger(cfg)
	if logErr != nil {
		return fmt.Errorf("logger: %w", logErr)
	}
	defer func() { _ = log.Sync() }()

	workflow := service.NewWorkflowService(cfg, nil, log)

	if !workflowSchedule {
		return runWorkflowOnce(cmd, workflow)
	}

	return runWorkflowScheduled(cmd, cfg.Cron.Schedule, workflow, log)
}

func runWorkflowOnce(cmd *cobra.Command, workflow *service.WorkflowService) error {
	result := workflow.Run(cmd.Context())

	out, marshalErr := json.MarshalIndent(result, "", "  ")
	if marshalErr != nil {
		return fmt.Errorf("marshal result: %w", marshalErr)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if !result.Success {
		return errors.New("workflow completed with errors")
	}
	return nil
}

func runWorkflowScheduled(
	cmd *cobra.Command,
	schedule string,
	workflow *service.WorkflowService,
	log logger.Logger,
) error {
	ctx := cmd.Context()

	scheduler := cron.New()
	_, addErr := scheduler.AddFunc(schedule, func() {
		result := workflow.Run(ctx)
		log.Info("scheduled workflow finished",
			logger.Bool("success", result.Success),
			logger.Int("errors", len(result.Errors)))
	})
	if addErr != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, addErr)
	}

	log.Info("workflow scheduler started", logger.String("schedule", schedule))
	scheduler.Start()
	defer scheduler.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		log.Info("workflow scheduler stopping", logger.String("signal", sig.String()))
	case <-ctx.Done():
	}

	return nil
}
