package taskqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"smartoffice/internal/automation"
	"smartoffice/internal/insights"
)

// Handlers binds queue task types to the engine and analyzer.
type Handlers struct {
	Engine   *automation.Engine
	Analyzer *insights.Analyzer
}

func (h *Handlers) handleEvaluateRule(ctx context.Context, t *asynq.Task) error {
	var p EvaluateRulePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}
	return h.Engine.TriggerRule(ctx, p.RuleID)
}

func (h *Handlers) handleGenerateInsights(ctx context.Context, _ *asynq.Task) error {
	if _, err := h.Analyzer.Generate(ctx); err != nil {
		return err
	}
	_, err := h.Analyzer.AnalyzePatterns(ctx)
	return err
}

var server *asynq.Server

// StartWorker runs the background task server.
func StartWorker(redisAddr string, h *Handlers) {
	server = asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{Concurrency: 5},
	)
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeEvaluateRule, h.handleEvaluateRule)
	mux.HandleFunc(TypeGenerateInsights, h.handleGenerateInsights)

	go func() {
		if err := server.Run(mux); err != nil {
			log.Printf("TASKQUEUE: worker stopped: %v", err)
		}
	}()
	log.Println("TASKQUEUE: worker started")
}

// StopWorker shuts the task server down.
func StopWorker() {
	if server != nil {
		server.Shutdown()
		server = nil
	}
}
