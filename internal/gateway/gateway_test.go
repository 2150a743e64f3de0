package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lshigami/Proctora/config"
	"github.com/lshigami/Proctora/internal/envelope"
)

func testConfig(directoryURL string) *config.Config {
	cfg := &config.Config{}
	cfg.Signing.ServiceName = "exam-platform"
	cfg.Coordinator.DirectoryURL = directoryURL
	cfg.Coordinator.TimeoutSeconds = 1
	return cfg
}

func TestFetchPolicyUsesRealResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get(envelope.HeaderServiceName); got != "exam-platform" {
			t.Errorf("X-Service-Name = %q", got)
		}
		var env envelope.Envelope
		if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
			t.Errorf("decode envelope: %v", err)
		}
		if env.Payload["action"] != "get_exam_policy" {
			t.Errorf("action = %v", env.Payload["action"])
		}
		env.Response = map[string]interface{}{
			"passing_grade":        80.0,
			"max_attempts":         2.0,
			"retry_cooldown_hours": 48.0,
		}
		json.NewEncoder(w).Encode(env)
	}))
	defer srv.Close()

	g := NewDirectoryGateway(testConfig(srv.URL))
	policy := g.FetchPolicy(context.Background(), 1, "postcourse")

	if policy.PassingGrade != 80 || policy.MaxAttempts != 2 || policy.CooldownHours != 48 {
		t.Fatalf("unexpected policy: %+v", policy)
	}
}

func TestFetchPolicyFallsBackOnTransportFailure(t *testing.T) {
	g := NewDirectoryGateway(testConfig("http://127.0.0.1:1/unreachable"))
	policy := g.FetchPolicy(context.Background(), 1, "baseline")

	if policy != mockPolicy {
		t.Fatalf("expected mock policy on transport failure, got %+v", policy)
	}
}

func TestFetchPolicyFallsBackOnTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	g := NewDirectoryGateway(testConfig(srv.URL))
	start := time.Now()
	policy := g.FetchPolicy(context.Background(), 1, "baseline")

	if policy != mockPolicy {
		t.Fatalf("expected mock policy on timeout, got %+v", policy)
	}
	if elapsed := time.Since(start); elapsed > 1900*time.Millisecond {
		t.Fatalf("timeout did not abort the request, took %v", elapsed)
	}
}

func TestFetchPolicyFallsBackOnEmptyResponseField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Structurally valid envelope with no response field.
		json.NewEncoder(w).Encode(envelope.Envelope{RequesterService: "directory"})
	}))
	defer srv.Close()

	g := NewDirectoryGateway(testConfig(srv.URL))
	if policy := g.FetchPolicy(context.Background(), 1, "baseline"); policy != mockPolicy {
		t.Fatalf("expected mock policy on empty response, got %+v", policy)
	}
}

func TestFetchPolicyFallsBackOnMalformedBusinessField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(envelope.Envelope{
			RequesterService: "directory",
			Response:         map[string]interface{}{"passing_grade": "seventy"},
		})
	}))
	defer srv.Close()

	g := NewDirectoryGateway(testConfig(srv.URL))
	if policy := g.FetchPolicy(context.Background(), 1, "baseline"); policy != mockPolicy {
		t.Fatalf("expected mock policy on malformed passing_grade, got %+v", policy)
	}
}

func TestFetchSkillsFallsBackDeterministically(t *testing.T) {
	cfg := testConfig("")
	cfg.Coordinator.SkillsEngineURL = "http://127.0.0.1:1/unreachable"
	g := NewSkillsGateway(cfg)

	first := g.FetchSkills(context.Background(), 9)
	second := g.FetchSkills(context.Background(), 9)

	if len(first) == 0 {
		t.Fatal("mock skills must not be empty")
	}
	if len(first) != len(second) {
		t.Fatalf("mock must be deterministic: %d vs %d skills", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("mock skill %d differs between calls: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestPushResultNeverPropagatesFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	g := NewDirectoryGateway(testConfig(srv.URL))
	if err := g.PushResult(context.Background(), 1, 2, "baseline", 55, false); err != nil {
		t.Fatalf("push must swallow downstream failure, got %v", err)
	}
}
