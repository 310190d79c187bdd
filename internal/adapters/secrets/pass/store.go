package pass

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/bnema/expense-bot/internal/ports"
)

var ErrUnavailable = errors.New("pass command unavailable")

type runFunc func(ctx context.Context, args ...string) (stdout string, stderr string, err error)

// Reader resolves secrets through the password-store CLI. Only the first line
// of an entry is returned, matching how pass stores a password.
type Reader struct {
	run runFunc
}

var _ ports.SecretReader = (*Reader)(nil)

func NewReader() *Reader {
	return &Reader{run: runPassCommand}
}

func (r *Reader) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stdout, stderr, err := r.run(ctx, "show", key)
	if err != nil {
		return "", formatError(key, err, stderr)
	}

	first, _, _ := strings.Cut(stdout, "\n")
	first = strings.TrimSuffix(first, "\r")
	if first == "" {
		return "", fmt.Errorf("pass get %q: entry is empty", key)
	}

	return first, nil
}

func runPassCommand(ctx context.Context, args ...string) (string, string, error) {
	path, err := exec.LookPath("pass")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", "", ErrUnavailable
		}
		return "", "", fmt.Errorf("locate pass command: %w", err)
	}

	cmd := exec.CommandContext(ctx, path, args...)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}

func formatError(key string, err error, stderr string) error {
	if stderr == "" {
		return fmt.Errorf("pass get %q: %w", key, err)
	}

	return fmt.Errorf("pass get %q: %w: %s", key, err, stderr)
}
