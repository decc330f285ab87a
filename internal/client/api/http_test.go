package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CS-Kiran/Manana/internal/client/config"
	"github.com/CS-Kiran/Manana/internal/common"
)

// newTestClient builds an HTTPClient against url with persistence disabled.
func newTestClient(t *testing.T, url string) *HTTPClient {
	t.Helper()
	c, err := NewHTTPClient(&config.Config{
		APIBaseURL:     url,
		RequestTimeout: 2 * time.Second,
	})
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLoginStoresSession(t *testing.T) {
	var sawAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			writeJSON(w, http.StatusOK, map[string]string{"accessToken": "acc-1", "refreshToken": "ref-1"})
		case "/api/tasks":
			sawAuth = r.Header.Get(common.AuthorizationHeaderName)
			writeJSON(w, http.StatusOK, map[string]any{"tasks": []any{}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	require.False(t, c.IsAuthenticated())

	require.NoError(t, c.Login(context.Background(), "alice@gmail.com", "Password1"))
	assert.True(t, c.IsAuthenticated())

	tasks, err := c.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Equal(t, common.BearerPrefix+"acc-1", sawAuth)

	require.NoError(t, c.Logout())
	assert.False(t, c.IsAuthenticated())
}

func TestExpiredAccessTokenIsRefreshedOnce(t *testing.T) {
	var taskCalls, refreshCalls int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/refresh":
			refreshCalls++
			writeJSON(w, http.StatusOK, map[string]string{"accessToken": "acc-2", "refreshToken": "ref-2"})
		case "/api/tasks":
			taskCalls++
			if r.Header.Get(common.AuthorizationHeaderName) != common.BearerPrefix+"acc-2" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token expired"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"tasks": []any{}})
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	require.NoError(t, c.sess.set("acc-stale", "ref-1"))

	_, err := c.ListTasks(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, refreshCalls)
	assert.Equal(t, 2, taskCalls)

	access, refresh := c.sess.tokens()
	assert.Equal(t, "acc-2", access)
	assert.Equal(t, "ref-2", refresh)
}

func TestRefreshFailureSurfacesUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/refresh":
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "refresh token expired"})
		default:
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token expired"})
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	require.NoError(t, c.sess.set("acc-stale", "ref-stale"))

	_, err := c.ListTasks(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestServerErrorMessageSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid email domain"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	err := c.Signup(context.Background(), "Alice", "alice@corp.example.com", "Password1")
	require.Error(t, err)
	assert.Equal(t, "invalid email domain", err.Error())
}

func TestUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := newTestClient(t, srv.URL)

	err := c.Ping(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDeleteMissingTask(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	require.NoError(t, c.sess.set("acc", "ref"))

	err := c.DeleteTask(context.Background(), "t-404")
	assert.True(t, errors.Is(err, ErrNotFound))
}
