// Package taskqueue moves rule evaluation and insight generation off the
// request path. API handlers enqueue; the worker executes.
package taskqueue

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"
)

const (
	TypeEvaluateRule     = "rule:evaluate"
	TypeGenerateInsights = "insights:generate"
)

type EvaluateRulePayload struct {
	RuleID string `json:"ruleId"`
}

var client *asynq.Client

// InitClient connects the enqueue side to Redis.
func InitClient(redisAddr string) {
	client = asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
}

// CloseClient releases the enqueue connection.
func CloseClient() {
	if client != nil {
		if err := client.Close(); err != nil {
			log.Printf("TASKQUEUE: close client: %v", err)
		}
		client = nil
	}
}

// EnqueueRuleEvaluation schedules a one-off evaluation of a single rule,
// used right after a rule is created or edited.
func EnqueueRuleEvaluation(ruleID string) error {
	if client == nil {
		return fmt.Errorf("task queue client not initialized")
	}
	payload, err := json.Marshal(EvaluateRulePayload{RuleID: ruleID})
	if err != nil {
		return err
	}
	info, err := client.Enqueue(asynq.NewTask(TypeEvaluateRule, payload))
	if err != nil {
		return err
	}
	log.Printf("TASKQUEUE: enqueued %s for rule %s (task %s)", TypeEvaluateRule, ruleID, info.ID)
	return nil
}

// EnqueueInsightGeneration schedules an analyzer run.
func EnqueueInsightGeneration() error {
	if client == nil {
		return fmt.Errorf("task queue client not initialized")
	}
	info, err := client.Enqueue(asynq.NewTask(TypeGenerateInsights, nil))
	if err != nil {
		return err
	}
	log.Printf("TASKQUEUE: enqueued %s (task %s)", TypeGenerateInsights, info.ID)
	return nil
}
