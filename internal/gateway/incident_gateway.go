package gateway

import (
	"context"

	"github.com/lshigami/Proctora/config"
)

// IncidentGateway relays integrity events to the incident-response
// service: automatic-cancellation alerts and client-reported incidents.
// Push-only; the mock for a push is an ack.
type IncidentGateway interface {
	AlertCancellation(ctx context.Context, userID, attemptID uint, examType string) error
	RelayIncident(ctx context.Context, attemptID uint, incidentType, severity string, details map[string]interface{}) error
}

type incidentGateway struct {
	client *client
}

func NewIncidentGateway(cfg *config.Config) IncidentGateway {
	return &incidentGateway{client: newClient("incident-response", cfg.Coordinator.IncidentResponseURL, cfg)}
}

func (g *incidentGateway) AlertCancellation(ctx context.Context, userID, attemptID uint, examType string) error {
	_, err := g.client.send(ctx, "exam_canceled_alert", map[string]interface{}{
		"user_id":    userID,
		"attempt_id": attemptID,
		"exam_type":  examType,
	})
	if err != nil {
		g.client.degraded("exam_canceled_alert", err)
	}
	return nil
}

func (g *incidentGateway) RelayIncident(ctx context.Context, attemptID uint, incidentType, severity string, details map[string]interface{}) error {
	_, err := g.client.send(ctx, "report_incident", map[string]interface{}{
		"attempt_id":    attemptID,
		"incident_type": incidentType,
		"severity":      severity,
		"details":       details,
	})
	if err != nil {
		g.client.degraded("report_incident", err)
	}
	return nil
}
