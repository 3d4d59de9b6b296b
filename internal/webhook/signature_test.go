package webhook_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stampbook/sb-registry/internal/domain"
	"github.com/stampbook/sb-registry/internal/webhook"
)

var signedAt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func claimEvent(eventID string) *domain.RegistryEvent {
	event := domain.NewClaimCommittedEvent(eventID, signedAt, domain.ClaimCommitment{
		ItemID:     7,
		TypeID:     1,
		Issuer:     "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		Commitment: domain.Hash("0x" + strings.Repeat("ab", 32)),
	})
	return &event
}

func TestGenerateSignedPayload(t *testing.T) {
	hexSecret := "746573742d7365637265742d6b6579" // "test-secret-key"

	t.Run("generates a verifiable payload and signature", func(t *testing.T) {
		event := claimEvent("01JG8XAMPLE1234567890123456")

		payload, signature, timestamp, err := webhook.GenerateSignedPayload(hexSecret, event, signedAt)
		require.NoError(t, err)

		var parsed domain.RegistryEvent
		require.NoError(t, json.Unmarshal(payload, &parsed))
		assert.Equal(t, event.EventID, parsed.EventID)
		assert.Equal(t, domain.EventClaimCommitted, parsed.EventType)
		require.NotNil(t, parsed.Claim)
		assert.Equal(t, domain.ItemID(7), parsed.Claim.ItemID)

		assert.Equal(t, signedAt.Unix(), timestamp)

		// Client-side verification over {timestamp}.{event_id}.{json_body}
		signaturePayload := fmt.Sprintf("%d.%s.%s", timestamp, event.EventID, string(payload))
		secret, err := hex.DecodeString(hexSecret)
		require.NoError(t, err)
		mac := hmac.New(sha256.New, secret)
		mac.Write([]byte(signaturePayload))
		expected := "sha256=" + hex.EncodeToString(mac.Sum(nil))
		assert.Equal(t, expected, signature)
	})

	t.Run("authorization events sign the same way", func(t *testing.T) {
		event := domain.NewAuthorizationChangedEvent("01JG8XAMPLE0000000000000001", signedAt, domain.AuthorizationChange{
			Address:  "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
			Approved: true,
			ActedBy:  "0x71C7656EC7ab88b098defB751B7401B5f6d8976F",
		})

		payload, signature, _, err := webhook.GenerateSignedPayload(hexSecret, &event, signedAt)
		require.NoError(t, err)

		var parsed domain.RegistryEvent
		require.NoError(t, json.Unmarshal(payload, &parsed))
		assert.Equal(t, domain.EventAuthorizationChanged, parsed.EventType)
		require.NotNil(t, parsed.Authorization)
		assert.True(t, parsed.Authorization.Approved)
		assert.True(t, strings.HasPrefix(signature, "sha256="))
	})

	t.Run("different events produce different signatures", func(t *testing.T) {
		_, signature1, _, err := webhook.GenerateSignedPayload(hexSecret, claimEvent("01JG8XAMPLE1111111111111111"), signedAt)
		require.NoError(t, err)

		_, signature2, _, err := webhook.GenerateSignedPayload(hexSecret, claimEvent("01JG8XAMPLE2222222222222222"), signedAt)
		require.NoError(t, err)

		assert.NotEqual(t, signature1, signature2)
	})

	t.Run("different secrets produce different signatures", func(t *testing.T) {
		event := claimEvent("01JG8XAMPLE1234567890123456")

		_, signature1, _, err := webhook.GenerateSignedPayload("73656372657431", event, signedAt) // "secret1"
		require.NoError(t, err)

		_, signature2, _, err := webhook.GenerateSignedPayload("73656372657432", event, signedAt) // "secret2"
		require.NoError(t, err)

		assert.NotEqual(t, signature1, signature2)
	})

	t.Run("signing time changes the signature", func(t *testing.T) {
		event := claimEvent("01JG8XAMPLE1234567890123456")

		_, signature1, _, err := webhook.GenerateSignedPayload(hexSecret, event, signedAt)
		require.NoError(t, err)

		_, signature2, _, err := webhook.GenerateSignedPayload(hexSecret, event, signedAt.Add(time.Second))
		require.NoError(t, err)

		assert.NotEqual(t, signature1, signature2)
	})

	t.Run("invalid hex secret returns error", func(t *testing.T) {
		_, _, _, err := webhook.GenerateSignedPayload("not-valid-hex-string", claimEvent("01JG8XAMPLE1234567890123456"), signedAt)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode hex secret")
	})

	t.Run("empty secret still produces valid signature", func(t *testing.T) {
		payload, signature, timestamp, err := webhook.GenerateSignedPayload("", claimEvent("01JG8XAMPLE1234567890123456"), signedAt)
		require.NoError(t, err)
		assert.NotEmpty(t, payload)
		assert.NotEmpty(t, signature)
		assert.NotZero(t, timestamp)
	})
}

func TestGenerateSecret(t *testing.T) {
	secret1, err := webhook.GenerateSecret()
	require.NoError(t, err)
	secret2, err := webhook.GenerateSecret()
	require.NoError(t, err)

	assert.NotEqual(t, secret1, secret2)

	raw, err := hex.DecodeString(secret1)
	require.NoError(t, err)
	assert.Len(t, raw, webhook.SecretLength)
}
