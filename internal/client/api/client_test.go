package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/authflow/internal/models/dto"
)

func newBackend(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return New(ts.URL+"/", ts.Client())
}

func TestLogin_Success(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req dto.LoginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, dto.LoginRequest{Username: "bob", Password: "good"}, req)

		_, _ = w.Write([]byte(`{"token":"T"}`))
	})

	token, err := c.Login(context.Background(), "bob", "good")
	require.NoError(t, err)
	assert.Equal(t, "T", token)
}

func TestLogin_ServerMessage(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid credentials"}`))
	})

	_, err := c.Login(context.Background(), "bob", "bad")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "invalid credentials", apiErr.Message)
}

func TestLogin_EmptyMessageFallsBackToStatusText(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := c.Login(context.Background(), "bob", "x")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Internal Server Error", apiErr.Message)
}

func TestLogin_MalformedBodies(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"error page", http.StatusBadGateway, "<html>bad gateway</html>"},
		{"success not json", http.StatusOK, "token=T"},
		{"success without token", http.StatusOK, `{"user":{}}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			_, err := c.Login(context.Background(), "bob", "x")
			require.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestLogin_Unavailable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := New(url, nil).Login(context.Background(), "bob", "x")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestRegister(t *testing.T) {
	var got dto.RegisterRequest
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/register", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	})

	req := dto.RegisterRequest{Username: "bob", Firstname: "Bob", Lastname: "B", Password: "pw123456"}
	require.NoError(t, c.Register(context.Background(), req))
	assert.Equal(t, req, got)
}

func TestRegister_Conflict(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"username already taken"}`))
	})

	err := c.Register(context.Background(), dto.RegisterRequest{Username: "bob"})
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "username already taken", apiErr.Message)
}

func TestMe(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/user/me", r.URL.Path)
		if r.Header.Get("Authorization") != "Bearer T" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"invalid or expired token"}`))
			return
		}
		_, _ = w.Write([]byte(`{"user":{"id":7,"username":"bob","firstname":"Bob","lastname":"B"}}`))
	})

	user, err := c.Me(context.Background(), "T")
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "bob", user.Username)

	_, err = c.Me(context.Background(), "other")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestMe_MissingUser(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"user":null}`))
	})

	_, err := c.Me(context.Background(), "T")
	require.ErrorIs(t, err, ErrMalformedResponse)
}
