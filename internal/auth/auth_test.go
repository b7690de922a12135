package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-signing-minimum-32-bytes"

func newTestTokens(t *testing.T) *TokenService {
	t.Helper()
	s, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)
	return s
}

func TestHasher(t *testing.T) {
	h, err := NewHasher(MinBcryptCost, "pepper")
	require.NoError(t, err)

	hash, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	ok, err := h.Verify("correct horse", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("wrong horse", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	other, err := NewHasher(MinBcryptCost, "other-pepper")
	require.NoError(t, err)
	ok, err = other.Verify("correct horse", hash)
	require.NoError(t, err)
	assert.False(t, ok, "pepper must be part of the hash")

	_, err = h.Verify("x", "not-a-hash")
	assert.Error(t, err)
}

func TestHasherCostRange(t *testing.T) {
	for _, cost := range []int{4, 9, 15} {
		_, err := NewHasher(cost, "")
		assert.ErrorIs(t, err, ErrBadConfig, "cost %d", cost)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	s := newTestTokens(t)

	token, err := s.Issue("user-1", "employer")
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	p, err := s.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, Principal{UserID: "user-1", Role: "employer"}, p)
}

func TestTokenRejections(t *testing.T) {
	s := newTestTokens(t)
	token, err := s.Issue("user-1", "jobseeker")
	require.NoError(t, err)

	t.Run("empty", func(t *testing.T) {
		_, err := s.Validate("")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("tampered", func(t *testing.T) {
		_, err := s.Validate(token + "x")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other secret", func(t *testing.T) {
		other, err := NewTokenService(strings.Repeat("k", 40), time.Hour)
		require.NoError(t, err)
		_, err = other.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		defer func() { s.now = time.Now }()
		_, err := s.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Contains(t, err.Error(), "expired")
	})

	t.Run("none algorithm", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "user-1"}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = s.Validate(unsigned)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestNewTokenServiceConfig(t *testing.T) {
	_, err := NewTokenService("short", time.Hour)
	assert.ErrorIs(t, err, ErrBadConfig)

	_, err = NewTokenService(testSecret, 0)
	assert.ErrorIs(t, err, ErrBadConfig)
}

func TestMiddleware(t *testing.T) {
	s := newTestTokens(t)
	token, err := s.Issue("user-7", "jobseeker")
	require.NoError(t, err)

	var failures []error
	onFail := func(w http.ResponseWriter, _ *http.Request, err error) {
		failures = append(failures, err)
		w.WriteHeader(http.StatusUnauthorized)
	}
	var seen Principal
	h := Middleware(s, onFail)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := FromContext(r.Context())
		require.True(t, ok)
		seen = p
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + token, http.StatusNoContent},
		{"lowercase scheme", "bearer " + token, http.StatusNoContent},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"extra parts", "Bearer a b", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}

	assert.Equal(t, "user-7", seen.UserID)
	require.NotEmpty(t, failures)
	assert.True(t, errors.Is(failures[0], ErrUnauthenticated))
}

func TestFromContextEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := FromContext(req.Context())
	assert.False(t, ok)
}
