package chain

import (
	"context"
	"errors"
	"fmt"

	filestore "github.com/bnema/expense-bot/internal/adapters/secrets/file"
	passstore "github.com/bnema/expense-bot/internal/adapters/secrets/pass"
	"github.com/bnema/expense-bot/internal/ports"
)

// Reader asks the primary backend first and the fallback only when the
// primary fails for a reason other than cancellation.
type Reader struct {
	primary  ports.SecretReader
	fallback ports.SecretReader
}

var _ ports.SecretReader = (*Reader)(nil)

var (
	errNilPrimaryReader  = errors.New("primary secret reader is nil")
	errNilFallbackReader = errors.New("fallback secret reader is nil")
)

func NewReader(primary ports.SecretReader, fallback ports.SecretReader) (*Reader, error) {
	if primary == nil {
		return nil, errNilPrimaryReader
	}
	if fallback == nil {
		return nil, errNilFallbackReader
	}

	return &Reader{primary: primary, fallback: fallback}, nil
}

func NewPassFirstWithFileFallback(fileRoot string) (*Reader, error) {
	return NewReader(passstore.NewReader(), filestore.NewReader(fileRoot))
}

func (r *Reader) Get(ctx context.Context, key string) (string, error) {
	value, err := r.primary.Get(ctx, key)
	if err == nil {
		return value, nil
	}
	if shouldSkipFallback(err) {
		return "", err
	}

	fallbackValue, fallbackErr := r.fallback.Get(ctx, key)
	if fallbackErr == nil {
		return fallbackValue, nil
	}

	return "", fmt.Errorf("primary backend get failed: %w; fallback backend get failed: %w", err, fallbackErr)
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
