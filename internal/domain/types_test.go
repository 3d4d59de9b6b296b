package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Address
		wantErr  bool
	}{
		{
			name:     "lowercase input is checksummed",
			input:    "0x396343362be2a4da1ce0c1c210945346fb82aa49",
			expected: Address("0x396343362be2A4dA1cE0C1C210945346fb82Aa49"),
		},
		{
			name:     "checksummed input is unchanged",
			input:    "0x396343362be2A4dA1cE0C1C210945346fb82Aa49",
			expected: Address("0x396343362be2A4dA1cE0C1C210945346fb82Aa49"),
		},
		{
			name:     "uppercase hex is normalized",
			input:    "0x396343362BE2A4DA1CE0C1C210945346FB82AA49",
			expected: Address("0x396343362be2A4dA1cE0C1C210945346fb82Aa49"),
		},
		{
			name:    "zero address rejected",
			input:   ZeroAddress,
			wantErr: true,
		},
		{
			name:    "empty string rejected",
			input:   "",
			wantErr: true,
		},
		{
			name:    "too short rejected",
			input:   "0x1234",
			wantErr: true,
		},
		{
			name:    "non-hex rejected",
			input:   "0xZZ6343362be2a4da1ce0c1c210945346fb82aa49",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := NormalizeAddress(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidAddress)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, addr)
		})
	}
}

func TestNormalizeHash(t *testing.T) {
	valid := "0x" + strings.Repeat("ab", 32)

	tests := []struct {
		name     string
		input    string
		expected Hash
		wantErr  bool
	}{
		{
			name:     "lowercase hash accepted",
			input:    valid,
			expected: Hash(valid),
		},
		{
			name:     "uppercase hash lowercased",
			input:    "0x" + strings.Repeat("AB", 32),
			expected: Hash(valid),
		},
		{
			name:    "zero hash rejected",
			input:   "0x" + strings.Repeat("0", 64),
			wantErr: true,
		},
		{
			name:    "missing prefix rejected",
			input:   strings.Repeat("ab", 33),
			wantErr: true,
		},
		{
			name:    "wrong length rejected",
			input:   "0x" + strings.Repeat("ab", 16),
			wantErr: true,
		},
		{
			name:    "non-hex rejected",
			input:   "0x" + strings.Repeat("zz", 32),
			wantErr: true,
		},
		{
			name:    "empty rejected",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NormalizeHash(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidHash)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, h)
		})
	}
}

func TestItem_State(t *testing.T) {
	issuer := Address("0x396343362be2A4dA1cE0C1C210945346fb82Aa49")
	commitment := Hash("0x" + strings.Repeat("ab", 32))

	tests := []struct {
		name     string
		item     Item
		expected ClaimState
	}{
		{
			name:     "pending commitment is committed",
			item:     Item{ID: 1, TypeID: 2, Issuer: issuer, Commitment: commitment},
			expected: ClaimStateCommitted,
		},
		{
			name:     "cleared commitment with issuer is claimed",
			item:     Item{ID: 1, TypeID: 2, Issuer: issuer},
			expected: ClaimStateClaimed,
		},
		{
			name:     "no issuer is a minted passport",
			item:     Item{ID: 0, TypeID: PrimaryTypeID},
			expected: ClaimStateMinted,
		},
		{
			name:     "burned wins over everything",
			item:     Item{ID: 1, TypeID: 2, Issuer: issuer, Burned: true},
			expected: ClaimStateBurned,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.item.State())
		})
	}
}

func TestMetadataURI(t *testing.T) {
	assert.Equal(t, "https://meta.stampbook.io/v1/7.json", MetadataURI("https://meta.stampbook.io/v1/", 7))
	assert.Equal(t, "", MetadataURI("", 7))
	assert.Equal(t, "https://meta.stampbook.io/v1/0.json", MetadataURI("https://meta.stampbook.io/v1/", 0))
}
