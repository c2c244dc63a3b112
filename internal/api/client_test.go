package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskflow/tui/internal/model"
)

func envelope(t *testing.T, w http.ResponseWriter, data interface{}) {
	t.Helper()
	payload, err := json.Marshal(data)
	require.NoError(t, err)
	json.NewEncoder(w).Encode(apiResponse{Success: true, Data: payload})
}

func TestGetUnwrapsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/me", r.URL.Path)
		envelope(t, w, model.User{ID: 7, Name: "Dana", Email: "dana@example.com"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	user, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "Dana", user.Name)
}

func TestBearerTokenIsAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		envelope(t, w, model.User{ID: 1})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	client.SetToken("secret-token")
	_, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", gotAuth)
}

func TestNoTokenMeansNoAuthHeader(t *testing.T) {
	var sawHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawHeader = r.Header["Authorization"]
		envelope(t, w, model.User{ID: 1})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.False(t, sawHeader)
}

func TestUnauthorizedReturnsAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.CurrentUser(context.Background())
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
}

func TestServerErrorSurfacesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(apiResponse{
			Success: false,
			Message: "project name already taken",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Projects(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project name already taken")
}

func TestRateLimitedRequestIsRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		envelope(t, w, []model.Project{{ID: 1, Name: "Platform"}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	projects, err := client.Projects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRateLimitExhaustionFailsWithoutFinalWait(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The final response advertises a long Retry-After; a client that
		// sleeps before giving up would stall here instead of failing fast.
		w.Header().Set("Retry-After", "0")
		if calls.Add(1) == 4 {
			w.Header().Set("Retry-After", "30")
		}
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	start := time.Now()
	_, err := client.Projects(context.Background())
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries")
	assert.Contains(t, err.Error(), "rate limited")
	assert.Equal(t, int32(4), calls.Load())
	assert.Less(t, elapsed, 10*time.Second)
}

func TestLoginDoesNotAdoptToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)

		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "dana@example.com", req.Email)

		envelope(t, w, AuthResponse{
			AccessToken:  "fresh-access",
			RefreshToken: "fresh-refresh",
			TokenType:    "Bearer",
			User:         model.User{ID: 7, Name: "Dana"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	auth, err := client.Login(context.Background(), LoginRequest{
		Email:    "dana@example.com",
		Password: "hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh-access", auth.AccessToken)
	assert.Equal(t, "Dana", auth.User.Name)

	// Adopting the credential is the caller's decision.
	assert.Empty(t, client.Token())
}
