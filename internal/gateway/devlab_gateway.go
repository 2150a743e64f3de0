package gateway

import (
	"context"

	"github.com/lshigami/Proctora/config"
)

// DevLabGateway asks the dev-lab service to provision remediation lab
// environments for the skills a learner failed. Push-only.
type DevLabGateway interface {
	ProvisionRemediation(ctx context.Context, userID uint, failedSkillIDs []string) error
}

type devLabGateway struct {
	client *client
}

func NewDevLabGateway(cfg *config.Config) DevLabGateway {
	return &devLabGateway{client: newClient("dev-lab", cfg.Coordinator.DevLabURL, cfg)}
}

func (g *devLabGateway) ProvisionRemediation(ctx context.Context, userID uint, failedSkillIDs []string) error {
	if len(failedSkillIDs) == 0 {
		return nil
	}
	_, err := g.client.send(ctx, "provision_remediation_labs", map[string]interface{}{
		"user_id": userID,
		"skills":  failedSkillIDs,
	})
	if err != nil {
		g.client.degraded("provision_remediation_labs", err)
	}
	return nil
}
