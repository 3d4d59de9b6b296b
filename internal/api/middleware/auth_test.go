package middleware_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stampbook/sb-registry/internal/api/middleware"
	apierrors "github.com/stampbook/sb-registry/internal/api/shared/errors"
	"github.com/stampbook/sb-registry/internal/domain"
	"github.com/stampbook/sb-registry/internal/logger"
)

const testCallerAddress = "0x742d35cc6634c0532925a3b844bc9e7595f0beb7"

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	gin.SetMode(gin.TestMode)

	code := m.Run()
	os.Exit(code)
}

// testKeyPair generates an RSA key pair and returns the private key along with
// the PEM-encoded public key the middleware config expects
func testKeyPair(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pubBytes, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	require.NoError(t, err)

	pubPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: pubBytes,
	})

	return privateKey, string(pubPEM)
}

// signTestToken signs a JWT with the given subject and expiry
func signTestToken(t *testing.T, privateKey *rsa.PrivateKey, subject string, expiresAt time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString(privateKey)
	require.NoError(t, err)
	return signed
}

func TestAuthenticate_JWT(t *testing.T) {
	privateKey, publicPEM := testKeyPair(t)
	otherKey, _ := testKeyPair(t)

	expectedCaller, err := domain.NormalizeAddress(testCallerAddress)
	require.NoError(t, err)

	cfg := middleware.AuthConfig{JWTPublicKey: publicPEM}

	tests := []struct {
		name        string
		authHeader  string
		cfg         middleware.AuthConfig
		wantSuccess bool
		wantCaller  domain.Address
		errContains string
	}{
		{
			name:        "valid token",
			authHeader:  "Bearer " + signTestToken(t, privateKey, testCallerAddress, time.Now().Add(time.Hour)),
			cfg:         cfg,
			wantSuccess: true,
			wantCaller:  expectedCaller,
		},
		{
			name:        "scheme is case-insensitive",
			authHeader:  "bearer " + signTestToken(t, privateKey, testCallerAddress, time.Now().Add(time.Hour)),
			cfg:         cfg,
			wantSuccess: true,
			wantCaller:  expectedCaller,
		},
		{
			name:        "expired token",
			authHeader:  "Bearer " + signTestToken(t, privateKey, testCallerAddress, time.Now().Add(-time.Hour)),
			cfg:         cfg,
			wantSuccess: false,
			errContains: "failed to parse token",
		},
		{
			name:        "token signed by another key",
			authHeader:  "Bearer " + signTestToken(t, otherKey, testCallerAddress, time.Now().Add(time.Hour)),
			cfg:         cfg,
			wantSuccess: false,
			errContains: "failed to parse token",
		},
		{
			name:        "subject is not an address",
			authHeader:  "Bearer " + signTestToken(t, privateKey, "service-account-1", time.Now().Add(time.Hour)),
			cfg:         cfg,
			wantSuccess: false,
			errContains: "not a valid address",
		},
		{
			name:        "no public key configured",
			authHeader:  "Bearer " + signTestToken(t, privateKey, testCallerAddress, time.Now().Add(time.Hour)),
			cfg:         middleware.AuthConfig{},
			wantSuccess: false,
			errContains: "JWT public key not configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := middleware.Authenticate(tt.authHeader, "", "", tt.cfg)

			assert.Equal(t, tt.wantSuccess, result.Success)
			if tt.wantSuccess {
				assert.NoError(t, result.Error)
				assert.Equal(t, "jwt", result.AuthType)
				assert.Equal(t, tt.wantCaller, result.Caller)
				require.NotNil(t, result.Claims)
				assert.Equal(t, testCallerAddress, result.Claims.Subject)
			} else {
				require.Error(t, result.Error)
				assert.Contains(t, result.Error.Error(), tt.errContains)
			}
		})
	}
}

func TestAuthenticate_APIKey(t *testing.T) {
	expectedCaller, err := domain.NormalizeAddress(testCallerAddress)
	require.NoError(t, err)

	cfg := middleware.AuthConfig{APIKeys: []string{"secret-key", "other-key"}}

	tests := []struct {
		name         string
		authHeader   string
		apiKeyHeader string
		callerHeader string
		cfg          middleware.AuthConfig
		wantSuccess  bool
		errContains  string
	}{
		{
			name:         "standalone header",
			apiKeyHeader: "secret-key",
			callerHeader: testCallerAddress,
			cfg:          cfg,
			wantSuccess:  true,
		},
		{
			name:         "authorization scheme",
			authHeader:   "APIKey secret-key",
			callerHeader: testCallerAddress,
			cfg:          cfg,
			wantSuccess:  true,
		},
		{
			name:         "missing caller header",
			apiKeyHeader: "secret-key",
			cfg:          cfg,
			wantSuccess:  false,
			errContains:  "missing X-Registry-Caller header",
		},
		{
			name:         "caller header is not an address",
			apiKeyHeader: "secret-key",
			callerHeader: "not-an-address",
			cfg:          cfg,
			wantSuccess:  false,
			errContains:  "invalid X-Registry-Caller header",
		},
		{
			name:         "unknown key",
			apiKeyHeader: "wrong-key",
			callerHeader: testCallerAddress,
			cfg:          cfg,
			wantSuccess:  false,
			errContains:  "invalid API key",
		},
		{
			name:         "no keys configured",
			apiKeyHeader: "secret-key",
			callerHeader: testCallerAddress,
			cfg:          middleware.AuthConfig{},
			wantSuccess:  false,
			errContains:  "no API keys configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := middleware.Authenticate(tt.authHeader, tt.apiKeyHeader, tt.callerHeader, tt.cfg)

			assert.Equal(t, tt.wantSuccess, result.Success)
			if tt.wantSuccess {
				assert.NoError(t, result.Error)
				assert.Equal(t, "apikey", result.AuthType)
				assert.Equal(t, expectedCaller, result.Caller)
				assert.Nil(t, result.Claims)
			} else {
				require.Error(t, result.Error)
				assert.Contains(t, result.Error.Error(), tt.errContains)
			}
		})
	}
}

func TestAuthenticate_HeaderFormat(t *testing.T) {
	cfg := middleware.AuthConfig{APIKeys: []string{"secret-key"}}

	tests := []struct {
		name        string
		authHeader  string
		errContains string
	}{
		{
			name:        "missing header",
			authHeader:  "",
			errContains: "missing Authorization header",
		},
		{
			name:        "no credentials",
			authHeader:  "Bearer",
			errContains: "invalid Authorization header format",
		},
		{
			name:        "unsupported scheme",
			authHeader:  "Basic dXNlcjpwYXNz",
			errContains: "unsupported authorization type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := middleware.Authenticate(tt.authHeader, "", "", cfg)

			assert.False(t, result.Success)
			require.Error(t, result.Error)
			assert.Contains(t, result.Error.Error(), tt.errContains)
		})
	}
}

// setupAuthRouter wires the middleware in front of a handler that echoes the
// authenticated caller
func setupAuthRouter(cfg middleware.AuthConfig) *gin.Engine {
	router := gin.New()
	router.GET("/protected", middleware.Auth(cfg), func(c *gin.Context) {
		caller, ok := middleware.Caller(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "caller not set"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"caller": caller.String()})
	})
	return router
}

func TestAuth_Middleware_RejectsAnonymous(t *testing.T) {
	router := setupAuthRouter(middleware.AuthConfig{APIKeys: []string{"secret-key"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var envelope apierrors.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, apierrors.ErrCodeUnauthorized, envelope.Error.Code)
}

func TestAuth_Middleware_PassesCallerThrough(t *testing.T) {
	router := setupAuthRouter(middleware.AuthConfig{APIKeys: []string{"secret-key"}})

	expectedCaller, err := domain.NormalizeAddress(testCallerAddress)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(middleware.APIKeyHeader, "secret-key")
	req.Header.Set(middleware.CallerHeader, testCallerAddress)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, expectedCaller.String(), body["caller"])
}

func TestAuth_Middleware_JWTCaller(t *testing.T) {
	privateKey, publicPEM := testKeyPair(t)
	router := setupAuthRouter(middleware.AuthConfig{JWTPublicKey: publicPEM})

	expectedCaller, err := domain.NormalizeAddress(testCallerAddress)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, privateKey, testCallerAddress, time.Now().Add(time.Hour)))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, expectedCaller.String(), body["caller"])
}
