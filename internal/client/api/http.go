package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/CS-Kiran/Manana/internal/client/config"
	"github.com/CS-Kiran/Manana/internal/common"
	"github.com/CS-Kiran/Manana/internal/server/models"
)

// HTTPClient talks JSON over HTTP to the backend. It satisfies Client.
type HTTPClient struct {
	baseURL string
	httpc   *http.Client
	sess    *session
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(cfg *config.Config) (*HTTPClient, error) {
	sess, err := newSession(cfg.StateDirName)
	if err != nil {
		return nil, fmt.Errorf("session init: %w", err)
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		httpc:   &http.Client{Timeout: cfg.RequestTimeout},
		sess:    sess,
	}, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// do performs one JSON request. For authenticated calls a 401 triggers a
// single token refresh and retry; a second 401 surfaces as ErrUnauthorized.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	status, err := c.once(ctx, method, path, body, out, authed)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && authed {
		if err := c.refreshSession(ctx); err != nil {
			return ErrUnauthorized
		}
		status, err = c.once(ctx, method, path, body, out, authed)
		if err != nil {
			return err
		}
		if status == http.StatusUnauthorized {
			return ErrUnauthorized
		}
	}

	return nil
}

// once sends the request and decodes the response. A 401 on an authenticated
// call is reported via the returned status so do can refresh and retry;
// every other failure is converted to an error here.
func (c *HTTPClient) once(ctx context.Context, method, path string, body, out any, authed bool) (int, error) {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		access, _ := c.sess.tokens()
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+access)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, ErrUnavailable
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out != nil && resp.StatusCode != http.StatusNoContent {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return 0, fmt.Errorf("decoding response: %w", err)
			}
		}
		return resp.StatusCode, nil

	case resp.StatusCode == http.StatusUnauthorized:
		if authed {
			return resp.StatusCode, nil
		}
		return 0, c.apiError(resp, ErrUnauthorized)

	case resp.StatusCode == http.StatusNotFound:
		return 0, ErrNotFound

	default:
		return 0, c.apiError(resp, nil)
	}
}

// apiError surfaces the server's error message when the body carries one.
func (c *HTTPClient) apiError(resp *http.Response, fallback error) error {
	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err == nil && er.Error != "" {
		return errors.New(er.Error)
	}
	if fallback != nil {
		return fallback
	}
	return fmt.Errorf("unexpected status %d", resp.StatusCode)
}

func (c *HTTPClient) refreshSession(ctx context.Context) error {
	_, refresh := c.sess.tokens()
	if refresh == "" {
		return ErrUnauthorized
	}

	var pair tokenPairResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/refresh", map[string]string{"refreshToken": refresh}, &pair, false)
	if err != nil {
		return err
	}

	return c.sess.set(pair.AccessToken, pair.RefreshToken)
}

// --- auth ---

func (c *HTTPClient) Signup(ctx context.Context, name, email, password string) error {
	body := map[string]string{"name": name, "email": email, "password": password}
	return c.do(ctx, http.MethodPost, "/api/auth/signup", body, nil, false)
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}

	var pair tokenPairResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &pair, false); err != nil {
		return err
	}
	return c.sess.set(pair.AccessToken, pair.RefreshToken)
}

func (c *HTTPClient) GoogleSignIn(ctx context.Context, email, name, subjectID string) error {
	body := map[string]string{"email": email, "name": name, "subjectId": subjectID}

	var pair tokenPairResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/google", body, &pair, false); err != nil {
		return err
	}
	return c.sess.set(pair.AccessToken, pair.RefreshToken)
}

func (c *HTTPClient) Logout() error {
	return c.sess.clear()
}

func (c *HTTPClient) IsAuthenticated() bool {
	return c.sess.authenticated()
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var resp struct {
		User *models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &resp, true); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// --- tasks ---

func (c *HTTPClient) ListTasks(ctx context.Context) ([]*models.Task, error) {
	var resp struct {
		Tasks []*models.Task `json:"tasks"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &resp, true); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

func (c *HTTPClient) CreateTask(ctx context.Context, draft TaskDraft) (*models.Task, error) {
	var resp struct {
		Task *models.Task `json:"task"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/tasks", draft, &resp, true); err != nil {
		return nil, err
	}
	return resp.Task, nil
}

func (c *HTTPClient) UpdateTask(ctx context.Context, taskID string, patch TaskPatch) (*models.Task, error) {
	var resp struct {
		Task *models.Task `json:"task"`
	}
	if err := c.do(ctx, http.MethodPatch, "/api/tasks/"+taskID, patch, &resp, true); err != nil {
		return nil, err
	}
	return resp.Task, nil
}

func (c *HTTPClient) ToggleTask(ctx context.Context, taskID string) (*models.Task, error) {
	var resp struct {
		Task *models.Task `json:"task"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/tasks/"+taskID+"/toggle", nil, &resp, true); err != nil {
		return nil, err
	}
	return resp.Task, nil
}

func (c *HTTPClient) DeleteTask(ctx context.Context, taskID string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+taskID, nil, nil, true)
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil, false)
}
