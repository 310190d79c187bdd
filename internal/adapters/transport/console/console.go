package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/expense-bot/internal/adapters/render"
	"github.com/bnema/expense-bot/internal/domain"
	"github.com/bnema/expense-bot/internal/ports"
)

const (
	prompt     = "expbot> "
	maxLineLen = 64 * 1024
)

type Session struct {
	responder ports.Responder
	caller    domain.CallerID
	in        io.Reader
	out       io.Writer
	// Interactive prints a prompt before every line.
	Interactive bool
	// Progress, when set, receives a spinner while a command is in flight.
	Progress io.Writer
}

func NewSession(responder ports.Responder, caller domain.CallerID, in io.Reader, out io.Writer) *Session {
	return &Session{responder: responder, caller: caller, in: in, out: out}
}

// Run reads one command per line until EOF, "/quit" or ctx cancellation.
// Blank lines and lines starting with "#" are skipped.
func (s *Session) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLen)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if s.Interactive {
			if _, err := fmt.Fprint(s.out, render.ConsolePrompt(prompt)); err != nil {
				return err
			}
		}
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "/quit" || line == "/exit" {
			return nil
		}

		inv, ok := domain.ParseCommandLine(line)
		if !ok {
			if _, err := fmt.Fprintln(s.out, render.ConsoleNotice("commands start with /, try /start")); err != nil {
				return err
			}
			continue
		}
		inv.Caller = s.caller

		reply, err := s.respond(ctx, inv)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(s.out, render.Console(reply)); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read console input: %w", err)
	}
	return nil
}

func (s *Session) respond(ctx context.Context, inv domain.Invocation) (domain.Reply, error) {
	if s.Progress == nil {
		return s.responder.Respond(ctx, inv), nil
	}

	return respondWithSpinner(ctx, s.Progress, "/"+inv.Name, func(ctx context.Context) domain.Reply {
		return s.responder.Respond(ctx, inv)
	})
}
