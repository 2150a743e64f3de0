package gateway

import (
	"context"

	"github.com/lshigami/Proctora/config"
)

// PolicySnapshot is the exam policy as returned by the directory service.
// The orchestrator freezes it onto the attempt at creation time.
type PolicySnapshot struct {
	PassingGrade  float64 `json:"passing_grade"`
	MaxAttempts   int     `json:"max_attempts"`
	CooldownHours int     `json:"retry_cooldown_hours"`
}

// Mock policy applied when the directory service is unreachable.
var mockPolicy = PolicySnapshot{PassingGrade: 70, MaxAttempts: 3, CooldownHours: 24}

// DirectoryGateway talks to the directory/policy service: it is the policy
// source at exam creation and one of the result sinks at submit.
type DirectoryGateway interface {
	FetchPolicy(ctx context.Context, userID uint, examType string) PolicySnapshot
	PushResult(ctx context.Context, userID, examID uint, examType string, finalGrade float64, passed bool) error
}

type directoryGateway struct {
	client *client
}

func NewDirectoryGateway(cfg *config.Config) DirectoryGateway {
	return &directoryGateway{client: newClient("directory", cfg.Coordinator.DirectoryURL, cfg)}
}

func (g *directoryGateway) FetchPolicy(ctx context.Context, userID uint, examType string) PolicySnapshot {
	resp, err := g.client.send(ctx, "get_exam_policy", map[string]interface{}{
		"user_id":   userID,
		"exam_type": examType,
	})
	if err != nil {
		g.client.degraded("get_exam_policy", err)
		return mockPolicy
	}

	grade, ok := resp["passing_grade"].(float64)
	if !ok || grade <= 0 {
		g.client.degraded("get_exam_policy", errMissingField("passing_grade"))
		return mockPolicy
	}

	policy := PolicySnapshot{PassingGrade: grade, MaxAttempts: mockPolicy.MaxAttempts, CooldownHours: mockPolicy.CooldownHours}
	if v, ok := resp["max_attempts"].(float64); ok && v > 0 {
		policy.MaxAttempts = int(v)
	}
	if v, ok := resp["retry_cooldown_hours"].(float64); ok && v > 0 {
		policy.CooldownHours = int(v)
	}
	return policy
}

func (g *directoryGateway) PushResult(ctx context.Context, userID, examID uint, examType string, finalGrade float64, passed bool) error {
	_, err := g.client.send(ctx, "push_exam_result", map[string]interface{}{
		"user_id":     userID,
		"exam_id":     examID,
		"exam_type":   examType,
		"final_grade": finalGrade,
		"passed":      passed,
	})
	if err != nil {
		g.client.degraded("push_exam_result", err)
	}
	// Result pushes are best-effort; the mock for a push is simply an ack.
	return nil
}
