package ports

import (
	"context"
	"encoding/json"
)

// GatewayRequest is a single call to the gateway. Body is JSON-encoded when
// non-nil and Token, when set, is sent as a bearer credential.
type GatewayRequest struct {
	Method    string
	Path      string
	Body      any
	Token     string
	RequestID string
}

type GatewayResponse struct {
	StatusCode int
	Body       json.RawMessage
}

type Gateway interface {
	Do(ctx context.Context, req GatewayRequest) (GatewayResponse, error)
}
