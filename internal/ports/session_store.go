package ports

import "github.com/bnema/expense-bot/internal/domain"

// SessionStore maps a caller to its bearer token for the process lifetime.
// Implementations must be safe for concurrent use.
type SessionStore interface {
	Set(caller domain.CallerID, token string)
	Get(caller domain.CallerID) (string, bool)
	Clear(caller domain.CallerID)
}
