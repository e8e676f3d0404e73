package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"newsgram/internal/config"
	"newsgram/internal/logger"
)

// Stage outcome values reported by the daily workflow.
const (
	StagePending = "pending"
	StageOK      = "ok"
	StageFailed  = "failed"
)

// workflowStages are the cron endpoints the daily workflow calls, in order.
var workflowStages = []struct {
	name string
	path string
}{
	{name: "scrapeNews", path: "/api/cron/scrape-news"},
	{name: "classifyArticles", path: "/api/cron/classify-articles"},
	{name: "generateInstagram", path: "/api/cron/generate-instagram"},
}

// StageResult is the outcome of one workflow stage.
type StageResult struct {
	Name     string          `json:"name"`
	Status   string          `json:"status"`
	Response json.RawMessage `json:"response,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// WorkflowResult is the outcome of one daily workflow run. Success means
// every stage completed; the workflow itself never aborts midway.
type WorkflowResult struct {
	Success   bool          `json:"success"`
	Timestamp time.Time     `json:"timestamp"`
	Stages    []StageResult `json:"stages"`
	Errors    []string      `json:"errors"`
}

// WorkflowService runs the scrape, classify, and generate stages in order
// by calling the service's own cron endpoints over HTTP. A failed stage is
// recorded and the next stage still runs.
type WorkflowService struct {
	baseURL    string
	secret     string
	stageDelay time.Duration
	client     *http.Client
	logger     logger.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

// NewWorkflowService wires the daily workflow orchestrator.
func NewWorkflowService(cfg *config.Config, client *http.Client, log logger.Logger) *WorkflowService {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Minute}
	}
	return &WorkflowService{
		baseURL:    strings.TrimRight(cfg.Service.BaseURL, "/"),
		secret:     cfg.Cron.Secret,
		stageDelay: cfg.Cron.StageDelay,
		client:     client,
		logger:     log,
		sleep:      sleepCtx,
	}
}

// Run executes all workflow stages sequentially with a pause between them.
func (s *WorkflowService) Run(ctx context.Context) *WorkflowResult {
	result := &WorkflowResult{
		Timestamp: time.Now().UTC(),
		Stages:    make([]StageResult, len(workflowStages)),
		Errors:    []string{},
	}
	for i, stage := range workflowStages {
		result.Stages[i] = StageResult{Name: stage.name, Status: StagePending}
	}

	s.logger.Info("starting daily workflow")

	for i, stage := range workflowStages {
		stageResult := s.runStage(ctx, stage.name, stage.path)
		result.Stages[i] = stageResult

		if stageResult.Status == StageFailed {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", stage.name, stageResult.Error))
		}

		if i < len(workflowStages)-1 {
			if sleepErr := s.sleep(ctx, s.stageDelay); sleepErr != nil {
				// Mark the remaining stages as failed on cancellation.
				for j := i + 1; j < len(workflowStages); j++ {
					result.Stages[j].Status = StageFailed
					result.Stages[j].Error = sleepErr.Error()
					result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", workflowStages[j].name, sleepErr))
				}
				break
			}
		}
	}

	result.Success = len(result.Errors) == 0
	s.logger.Info("daily workflow completed",
		logger.Bool("success", result.Success),
		logger.Int("errors", len(result.Errors)))

	return result
}

func (s *WorkflowService) runStage(ctx context.Context, name, path string) StageResult {
	s.logger.Info("running workflow stage", logger.String("stage", name))

	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, http.NoBody)
	if reqErr != nil {
		return StageResult{Name: name, Status: StageFailed, Error: reqErr.Error()}
	}
	if s.secret != "" {
		req.Header.Set("Authorization", "Bearer "+s.secret)
	}

	resp, doErr := s.client.Do(req)
	if doErr != nil {
		return StageResult{Name: name, Status: StageFailed, Error: doErr.Error()}
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if readErr != nil {
		return StageResult{Name: name, Status: StageFailed, Error: readErr.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		return StageResult{
			Name:   name,
			Status: StageFailed,
			Error:  fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	return StageResult{Name: name, Status: StageOK, Response: json.RawMessage(body)}
}
