package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bnema/expense-bot/internal/ports"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSendsJSONBodyAndBearerToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transaction/add", r.URL.Path)
		assert.Equal(t, "Bearer token-abc", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "req-1", r.Header.Get("X-Request-Id"))
		assert.Equal(t, "expbot/test", r.Header.Get("User-Agent"))

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var got map[string]any
		require.NoError(t, json.Unmarshal(raw, &got))
		want := map[string]any{"amount": 12.5, "type": "expense", "desc": "lunch"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("request body mismatch (-want +got):\n%s", diff)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 7}`))
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, server.Client(), time.Second, "expbot/test")
	require.NoError(t, err)

	resp, err := client.Do(context.Background(), ports.GatewayRequest{
		Method:    http.MethodPost,
		Path:      "/transaction/add",
		Body:      map[string]any{"amount": 12.5, "type": "expense", "desc": "lunch"},
		Token:     "token-abc",
		RequestID: "req-1",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"id":7}`, string(resp.Body))
}

func TestClientOmitsAuthorizationWithoutToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Empty(t, r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, server.Client(), time.Second, "")
	require.NoError(t, err)

	resp, err := client.Do(context.Background(), ports.GatewayRequest{Method: http.MethodGet, Path: "/category/list"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[]", string(resp.Body))
}

func TestClientReturnsErrorStatusWithJSONBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid credentials"}`))
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, server.Client(), time.Second, "")
	require.NoError(t, err)

	resp, err := client.Do(context.Background(), ports.GatewayRequest{Method: http.MethodPost, Path: "/auth/login"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{"error":"invalid credentials"}`, string(resp.Body))
}

func TestClientRejectsMalformedAndEmptyBodies(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		body    string
		wantErr error
	}{
		{name: "html", body: "<html>bad gateway</html>", wantErr: ErrMalformedJSON},
		{name: "empty", body: "", wantErr: ErrEmptyResponse},
		{name: "whitespace", body: "  \n", wantErr: ErrEmptyResponse},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte(tc.body))
			}))
			t.Cleanup(server.Close)

			client, err := NewClient(server.URL, server.Client(), time.Second, "")
			require.NoError(t, err)

			_, err = client.Do(context.Background(), ports.GatewayRequest{Method: http.MethodGet, Path: "/transaction/summary"})
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestClientTimesOutWithoutCallerDeadline(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, server.Client(), 20*time.Millisecond, "")
	require.NoError(t, err)

	_, err = client.Do(context.Background(), ports.GatewayRequest{Method: http.MethodGet, Path: "/transaction/list"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "perform request")
}

func TestClientReportsConnectionFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client, err := NewClient(baseURL, nil, time.Second, "")
	require.NoError(t, err)

	_, err = client.Do(context.Background(), ports.GatewayRequest{Method: http.MethodGet, Path: "/category/list"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "perform request")
}

func TestNormalizeBaseURL(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		raw     string
		want    string
		wantErr string
	}{
		{name: "bare host port", raw: "localhost:8080", want: "http://localhost:8080"},
		{name: "https with path", raw: "https://api.example.com/v1/", want: "https://api.example.com/v1"},
		{name: "empty", raw: " ", wantErr: "gateway url is required"},
		{name: "bad scheme", raw: "ftp://example.com", wantErr: "must use http or https"},
		{name: "missing host", raw: "http://", wantErr: "host is required"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeBaseURL(tc.raw)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBuildAPIURLKeepsBasePathPrefix(t *testing.T) {
	t.Parallel()

	got, err := buildAPIURL("https://api.example.com/v1", "/transaction/delete/abc%2F1")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/v1/transaction/delete/abc%2F1", got)
}
