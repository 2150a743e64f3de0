package signature

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"encoding/pem"
	"fmt"
)

// MessagePrefix anchors every signed message so signatures cannot be
// replayed against a different protocol.
const MessagePrefix = "exam-coordinator"

// canonicalMessage binds the signature to both the caller's identity and
// the exact payload bytes: "<prefix>-<serviceName>-<sha256hex(JSON(payload))>".
func canonicalMessage(serviceName string, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload for signing: %w", err)
	}
	digest := sha256.Sum256(raw)
	msg := fmt.Sprintf("%s-%s-%s", MessagePrefix, serviceName, hex.EncodeToString(digest[:]))
	sum := sha256.Sum256([]byte(msg))
	return sum[:], nil
}

func parsePrivateKey(pemStr string) (*ecdsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemStr))
	if block == nil {
		return nil, fmt.Errorf("no PEM block found in private key")
	}
	if key, err := x509.ParseECPrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	key, ok := parsed.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is not ECDSA")
	}
	return key, nil
}

func parsePublicKey(pemStr string) (*ecdsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(pemStr))
	if block == nil {
		return nil, fmt.Errorf("no PEM block found in public key")
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	key, ok := parsed.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("public key is not ECDSA")
	}
	return key, nil
}

// GenerateSignature signs the canonical message for serviceName/payload
// with the PEM-encoded ECDSA private key and returns a base64 signature.
func GenerateSignature(serviceName, privateKeyPEM string, payload interface{}) (string, error) {
	key, err := parsePrivateKey(privateKeyPEM)
	if err != nil {
		return "", err
	}
	digest, err := canonicalMessage(serviceName, payload)
	if err != nil {
		return "", err
	}
	sig, err := ecdsa.SignASN1(rand.Reader, key, digest)
	if err != nil {
		return "", fmt.Errorf("failed to sign message: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

// VerifySignature recomputes the canonical message and checks the base64
// signature against the PEM-encoded ECDSA public key.
func VerifySignature(serviceName, publicKeyPEM string, payload interface{}, signatureB64 string) (bool, error) {
	key, err := parsePublicKey(publicKeyPEM)
	if err != nil {
		return false, err
	}
	digest, err := canonicalMessage(serviceName, payload)
	if err != nil {
		return false, err
	}
	sig, err := base64.StdEncoding.DecodeString(signatureB64)
	if err != nil {
		return false, fmt.Errorf("signature is not valid base64: %w", err)
	}
	return ecdsa.VerifyASN1(key, digest, sig), nil
}
