package webhook

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stampbook/sb-registry/internal/domain"
)

// SecretLength is the byte length of generated webhook secrets
const SecretLength = 32

// GenerateSecret returns a fresh hex-encoded shared secret for a webhook client
func GenerateSecret() (string, error) {
	buf := make([]byte, SecretLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate webhook secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// GenerateSignedPayload serializes a registry event and signs it with the
// client's hex-encoded shared secret using HMAC-SHA256.
// Returns the JSON payload, the signature header value, and the signing timestamp.
func GenerateSignedPayload(hexSecret string, event *domain.RegistryEvent, at time.Time) (payload []byte, signature string, timestamp int64, err error) {
	payload, err = json.Marshal(event)
	if err != nil {
		return nil, "", 0, fmt.Errorf("failed to marshal event: %w", err)
	}

	secret, err := hex.DecodeString(hexSecret)
	if err != nil {
		return nil, "", 0, fmt.Errorf("failed to decode hex secret: %w", err)
	}

	timestamp = at.Unix()

	// Signed string: {timestamp}.{event_id}.{json_body}. Covering the
	// timestamp and the event id lets clients reject replays and deduplicate
	// redeliveries before parsing the body.
	signaturePayload := fmt.Sprintf("%d.%s.%s", timestamp, event.EventID, string(payload))

	h := hmac.New(sha256.New, secret)
	h.Write([]byte(signaturePayload))

	// Header value format: "sha256=<hex_signature>"
	signature = "sha256=" + hex.EncodeToString(h.Sum(nil))

	return payload, signature, timestamp, nil
}
