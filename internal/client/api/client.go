// Package api is the HTTP client for the login, register and whoami endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hongminglow/authflow/internal/models"
	"github.com/hongminglow/authflow/internal/models/dto"
)

// maxBody caps how much of a response body is read.
const maxBody = 1 << 20

// Client talks to the backend route surface.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for baseURL. A nil httpClient means http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out dto.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/login", "", dto.LoginRequest{Username: username, Password: password}, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", fmt.Errorf("%w: login response has no token", ErrMalformedResponse)
	}
	return out.Token, nil
}

// Register creates an account. The success body is not read.
func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/register", "", req, nil)
}

// Me returns the user the token belongs to.
func (c *Client) Me(ctx context.Context, token string) (models.User, error) {
	var out dto.UserResponse
	if err := c.do(ctx, http.MethodGet, "/user/me", token, nil, &out); err != nil {
		return models.User{}, err
	}
	if out.User == nil {
		return models.User{}, fmt.Errorf("%w: whoami response has no user", ErrMalformedResponse)
	}
	return *out.User, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return errors.Join(ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var failure dto.ErrorResponse
		if err := json.Unmarshal(raw, &failure); err != nil {
			return fmt.Errorf("%w: %s %s returned %d with undecodable body", ErrMalformedResponse, method, path, resp.StatusCode)
		}
		msg := failure.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &Error{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrMalformedResponse, method, path, err)
	}
	return nil
}
