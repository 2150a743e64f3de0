// Package gateway holds one integration gateway per external system. All
// of them speak the signed envelope protocol through a shared client and
// share one rule: a failed, timed-out or structurally-empty exchange is
// replaced by that integration's deterministic mock, logged as a
// MOCK-FALLBACK event, and never surfaces to the caller. Exams must never
// fail to build or grade because a partner system is down.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lshigami/Proctora/config"
	"github.com/lshigami/Proctora/internal/envelope"
	"github.com/lshigami/Proctora/internal/signature"
	"github.com/rs/zerolog/log"
)

const defaultTimeout = 6 * time.Second

// client sends signed envelopes to one external system. Per-system
// gateways embed it and add their payload shaping and mocks.
type client struct {
	integration string // name used in degraded-mode log lines
	baseURL     string
	serviceName string
	privateKey  string
	httpClient  *http.Client
	timeout     time.Duration
}

func newClient(integration, baseURL string, cfg *config.Config) *client {
	timeout := defaultTimeout
	if cfg.Coordinator.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.Coordinator.TimeoutSeconds) * time.Second
	}
	return &client{
		integration: integration,
		baseURL:     baseURL,
		serviceName: cfg.Signing.ServiceName,
		privateKey:  cfg.Signing.PrivateKeyPEM,
		httpClient:  &http.Client{},
		timeout:     timeout,
	}
}

// send wraps the action and fields into an envelope, signs it, POSTs it
// with a bounded timeout and returns the response map. Any failure is
// returned to the per-system gateway, which substitutes its mock. There
// are no automatic retries; one failed attempt is enough to degrade.
func (c *client) send(ctx context.Context, action string, fields map[string]interface{}) (map[string]interface{}, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("no endpoint configured")
	}

	env := envelope.Wrap(c.serviceName, action, fields)

	var sig string
	if c.privateKey == "" {
		log.Warn().Str("integration", c.integration).Msg("No signing key configured, sending unsigned envelope")
	} else {
		var err error
		sig, err = signature.GenerateSignature(c.serviceName, c.privateKey, env.Payload)
		if err != nil {
			return nil, fmt.Errorf("failed to sign envelope: %w", err)
		}
	}

	body, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(envelope.HeaderServiceName, c.serviceName)
	if sig != "" {
		req.Header.Set(envelope.HeaderSignature, sig)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transport failure: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return envelope.Unwrap(raw)
}

func errMissingField(field string) error {
	return fmt.Errorf("response missing business field %q", field)
}

// degraded logs the MOCK-FALLBACK event for this integration. The mock
// itself is owned by the per-system gateway.
func (c *client) degraded(action string, err error) {
	log.Warn().
		Str("event", "MOCK-FALLBACK").
		Str("integration", c.integration).
		Str("action", action).
		Err(err).
		Msg("Downstream call degraded to deterministic mock")
}
