package ports

import (
	"context"

	"github.com/bnema/expense-bot/internal/domain"
)

// Responder turns one invocation into exactly one reply.
type Responder interface {
	Respond(ctx context.Context, inv domain.Invocation) domain.Reply
}
