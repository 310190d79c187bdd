package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/expense-bot/internal/ports"
)

const (
	maxResponseBytes      = 1 << 20
	defaultRequestTimeout = 30 * time.Second
)

var (
	ErrEmptyResponse    = errors.New("empty response body")
	ErrMalformedJSON    = errors.New("response body is not valid JSON")
	ErrResponseTooLarge = errors.New("response body too large")
)

// Client talks JSON over HTTP to the expenditure gateway.
type Client struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	UserAgent      string
}

var _ ports.Gateway = Client{}

func NewClient(baseURL string, httpClient *http.Client, requestTimeout time.Duration, userAgent string) (Client, error) {
	normalized, err := NormalizeBaseURL(baseURL)
	if err != nil {
		return Client{}, err
	}

	return Client{
		BaseURL:        normalized,
		HTTPClient:     httpClient,
		RequestTimeout: requestTimeout,
		UserAgent:      userAgent,
	}, nil
}

func (c Client) Do(ctx context.Context, req ports.GatewayRequest) (ports.GatewayResponse, error) {
	endpoint, err := buildAPIURL(c.BaseURL, req.Path)
	if err != nil {
		return ports.GatewayResponse{}, err
	}

	var body io.Reader
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return ports.GatewayResponse{}, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(requestCtx, req.Method, endpoint, body)
	if err != nil {
		return ports.GatewayResponse{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.UserAgent)
	}
	if req.RequestID != "" {
		httpReq.Header.Set("X-Request-Id", req.RequestID)
	}
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}

	resp, err := c.httpClient().Do(httpReq)
	if err != nil {
		return ports.GatewayResponse{}, fmt.Errorf("perform request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return ports.GatewayResponse{}, fmt.Errorf("read response: %w", err)
	}
	if len(raw) > maxResponseBytes {
		return ports.GatewayResponse{}, fmt.Errorf("read response: %w (limit %d bytes)", ErrResponseTooLarge, maxResponseBytes)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ports.GatewayResponse{}, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, ErrEmptyResponse)
	}
	if !json.Valid(trimmed) {
		return ports.GatewayResponse{}, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, ErrMalformedJSON)
	}

	return ports.GatewayResponse{
		StatusCode: resp.StatusCode,
		Body:       json.RawMessage(trimmed),
	}, nil
}

func (c Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	return context.WithTimeout(ctx, requestTimeout)
}

// NormalizeBaseURL accepts either a full URL or a bare "host:port", which is
// assumed to be plain http.
func NormalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errors.New("gateway url is required")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("parse gateway url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("gateway url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("gateway url host is required")
	}

	return strings.TrimRight(parsed.String(), "/"), nil
}

func buildAPIURL(baseURL string, path string) (string, error) {
	if baseURL == "" {
		return "", errors.New("gateway base url is required")
	}
	if path == "" {
		return "", errors.New("gateway path is required")
	}

	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/"), nil
}
