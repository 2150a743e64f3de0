package signature

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"testing"
)

func testKeyPair(t *testing.T) (string, string) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	privDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatalf("marshal private key: %v", err)
	}
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}
	privPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: privDER})
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	return string(privPEM), string(pubPEM)
}

func TestSignatureRoundTrip(t *testing.T) {
	priv, pub := testKeyPair(t)

	payload := map[string]interface{}{
		"action":  "push_exam_result",
		"user_id": 42,
		"grade":   87.5,
	}

	sig, err := GenerateSignature("exam-platform", priv, payload)
	if err != nil {
		t.Fatalf("GenerateSignature: %v", err)
	}

	ok, err := VerifySignature("exam-platform", pub, payload, sig)
	if err != nil {
		t.Fatalf("VerifySignature: %v", err)
	}
	if !ok {
		t.Fatal("expected signature to verify for the original payload")
	}
}

func TestSignatureRejectsTamperedPayload(t *testing.T) {
	priv, pub := testKeyPair(t)

	payload := map[string]interface{}{"action": "push_exam_result", "grade": 87.5}
	sig, err := GenerateSignature("exam-platform", priv, payload)
	if err != nil {
		t.Fatalf("GenerateSignature: %v", err)
	}

	tampered := map[string]interface{}{"action": "push_exam_result", "grade": 99.9}
	ok, err := VerifySignature("exam-platform", pub, tampered, sig)
	if err != nil {
		t.Fatalf("VerifySignature: %v", err)
	}
	if ok {
		t.Fatal("expected verification to fail for a tampered payload")
	}
}

func TestSignatureRejectsWrongServiceName(t *testing.T) {
	priv, pub := testKeyPair(t)

	payload := map[string]interface{}{"action": "activate_camera"}
	sig, err := GenerateSignature("exam-platform", priv, payload)
	if err != nil {
		t.Fatalf("GenerateSignature: %v", err)
	}

	ok, err := VerifySignature("impostor-service", pub, payload, sig)
	if err != nil {
		t.Fatalf("VerifySignature: %v", err)
	}
	if ok {
		t.Fatal("expected verification to fail for a different service name")
	}
}

func TestVerifyRejectsGarbageSignature(t *testing.T) {
	_, pub := testKeyPair(t)

	if _, err := VerifySignature("exam-platform", pub, map[string]string{"a": "b"}, "not-base64!!!"); err == nil {
		t.Fatal("expected an error for a non-base64 signature")
	}
}
