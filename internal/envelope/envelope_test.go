package envelope

import (
	"encoding/json"
	"testing"
)

func TestWrapFoldsActionIntoPayload(t *testing.T) {
	env := Wrap("exam-platform", "get_policy", map[string]interface{}{"user_id": 7})

	if env.RequesterService != "exam-platform" {
		t.Fatalf("requester_service = %q", env.RequesterService)
	}
	if env.Payload["action"] != "get_policy" {
		t.Fatalf("payload action = %v", env.Payload["action"])
	}
	if env.Payload["user_id"] != 7 {
		t.Fatalf("payload user_id = %v", env.Payload["user_id"])
	}
}

func TestUnwrapReturnsResponse(t *testing.T) {
	raw, _ := json.Marshal(Envelope{
		RequesterService: "directory",
		Payload:          map[string]interface{}{"action": "get_policy"},
		Response:         map[string]interface{}{"passing_grade": 70.0},
	})

	resp, err := Unwrap(raw)
	if err != nil {
		t.Fatalf("Unwrap: %v", err)
	}
	if resp["passing_grade"] != 70.0 {
		t.Fatalf("passing_grade = %v", resp["passing_grade"])
	}
}

func TestUnwrapRejectsEmptyResponse(t *testing.T) {
	raw, _ := json.Marshal(Envelope{RequesterService: "directory", Payload: map[string]interface{}{"action": "get_policy"}})
	if _, err := Unwrap(raw); err == nil {
		t.Fatal("expected error for empty response field")
	}
}

func TestUnwrapRejectsMalformedJSON(t *testing.T) {
	if _, err := Unwrap([]byte("{not json")); err == nil {
		t.Fatal("expected error for malformed envelope")
	}
}
