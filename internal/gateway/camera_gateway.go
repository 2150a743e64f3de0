package gateway

import (
	"context"
	"fmt"

	"github.com/lshigami/Proctora/config"
)

// CameraActivation is the proctoring-camera service's answer to an
// activation signal.
type CameraActivation struct {
	SessionToken string `json:"session_token"`
	Activated    bool   `json:"activated"`
}

// CameraGateway signals the proctoring-camera service when a session goes
// active and pushes the proctoring summary after submit.
type CameraGateway interface {
	Activate(ctx context.Context, attemptID, userID uint) CameraActivation
	PushSummary(ctx context.Context, attemptID, userID uint, strikes int, canceled bool) error
}

type cameraGateway struct {
	client *client
}

func NewCameraGateway(cfg *config.Config) CameraGateway {
	return &cameraGateway{client: newClient("proctoring-camera", cfg.Coordinator.ProctoringCameraURL, cfg)}
}

func (g *cameraGateway) Activate(ctx context.Context, attemptID, userID uint) CameraActivation {
	resp, err := g.client.send(ctx, "activate_camera", map[string]interface{}{
		"attempt_id": attemptID,
		"user_id":    userID,
	})
	if err != nil {
		g.client.degraded("activate_camera", err)
		// Deterministic synthetic token so local sessions remain traceable.
		return CameraActivation{SessionToken: fmt.Sprintf("mock-camera-%d", attemptID), Activated: true}
	}

	token, ok := resp["session_token"].(string)
	if !ok || token == "" {
		g.client.degraded("activate_camera", errMissingField("session_token"))
		return CameraActivation{SessionToken: fmt.Sprintf("mock-camera-%d", attemptID), Activated: true}
	}
	return CameraActivation{SessionToken: token, Activated: true}
}

func (g *cameraGateway) PushSummary(ctx context.Context, attemptID, userID uint, strikes int, canceled bool) error {
	_, err := g.client.send(ctx, "push_proctoring_summary", map[string]interface{}{
		"attempt_id": attemptID,
		"user_id":    userID,
		"strikes":    strikes,
		"canceled":   canceled,
	})
	if err != nil {
		g.client.degraded("push_proctoring_summary", err)
	}
	return nil
}
