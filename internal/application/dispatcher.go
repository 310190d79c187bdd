package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/expense-bot/internal/domain"
	"github.com/bnema/expense-bot/internal/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const msgUnknownCommand = "Unknown command. Send /start to see the available commands."

type Dispatcher struct {
	commands map[string]CommandSpec
	ordered  []CommandSpec
	help     string

	sessions ports.SessionStore
	gateway  ports.Gateway
	renderer ports.JSONRenderer
	clock    ports.Clock
	logger   *zap.Logger

	newRequestID func() string
}

func NewDispatcher(sessions ports.SessionStore, gateway ports.Gateway, renderer ports.JSONRenderer, clock ports.Clock, logger *zap.Logger) *Dispatcher {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ordered := DefaultCommands()
	commands := make(map[string]CommandSpec, len(ordered))
	for _, command := range ordered {
		commands[command.Name] = command
	}

	return &Dispatcher{
		commands:     commands,
		ordered:      ordered,
		help:         buildHelp(ordered),
		sessions:     sessions,
		gateway:      gateway,
		renderer:     renderer,
		clock:        clock,
		logger:       logger,
		newRequestID: uuid.NewString,
	}
}

func (d *Dispatcher) Commands() []CommandSpec {
	out := make([]CommandSpec, len(d.ordered))
	copy(out, d.ordered)
	return out
}

func (d *Dispatcher) Help() string {
	return d.help
}

// Handle runs one invocation and returns either a reply or one of the domain
// error kinds. It performs at most one gateway call.
func (d *Dispatcher) Handle(ctx context.Context, inv domain.Invocation) (domain.Reply, error) {
	return d.handle(ctx, inv, d.newRequestID())
}

// Respond is the single place where errors become user-facing text. It never
// panics and always yields exactly one reply.
func (d *Dispatcher) Respond(ctx context.Context, inv domain.Invocation) domain.Reply {
	requestID := d.newRequestID()
	started := d.clock.Now()
	logger := d.logger.With(
		zap.String("command", inv.Name),
		zap.String("caller", string(inv.Caller)),
		zap.String("request_id", requestID),
	)

	reply, err := d.handleRecovered(ctx, inv, requestID)
	elapsed := d.clock.Now().Sub(started)
	if err == nil {
		logger.Info("command handled", zap.String("reply", string(reply.Kind)), zap.Duration("elapsed", elapsed))
		return reply
	}

	reply = errorReply(err)

	var usageErr *domain.UsageError
	switch {
	case errors.As(err, &usageErr), errors.Is(err, domain.ErrNotLoggedIn), errors.Is(err, domain.ErrUnknownCommand):
		logger.Info("command rejected", zap.Error(err), zap.Duration("elapsed", elapsed))
	default:
		logger.Warn("command failed", zap.Error(err), zap.Duration("elapsed", elapsed))
	}

	return reply
}

func (d *Dispatcher) handleRecovered(ctx context.Context, inv domain.Invocation, requestID string) (reply domain.Reply, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &domain.GatewayError{Command: inv.Name, Op: "handle command", Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	return d.handle(ctx, inv, requestID)
}

func (d *Dispatcher) handle(ctx context.Context, inv domain.Invocation, requestID string) (domain.Reply, error) {
	command, ok := d.commands[inv.Name]
	if !ok {
		return domain.Reply{}, fmt.Errorf("%w: /%s", domain.ErrUnknownCommand, inv.Name)
	}
	if command.Local {
		return domain.PlainReply(d.help), nil
	}

	var token string
	if command.Auth.RequiresToken() {
		stored, ok := d.sessions.Get(inv.Caller)
		if !ok {
			return domain.Reply{}, &domain.NotLoggedInError{Command: command.Name, Message: command.notLoggedInMessage()}
		}
		token = stored
	}

	args, err := command.Shape.Parse(inv.Args)
	if err != nil {
		return domain.Reply{}, &domain.UsageError{Command: command.Name, Usage: command.Usage(), Err: err}
	}

	req := ports.GatewayRequest{
		Method:    command.Method,
		Path:      command.expandPath(args),
		Token:     token,
		RequestID: requestID,
	}
	if command.Body != nil {
		req.Body = command.Body(args)
	}

	resp, err := d.gateway.Do(ctx, req)
	if err != nil {
		return domain.Reply{}, &domain.GatewayError{Command: command.Name, Op: "call gateway", Err: err}
	}
	d.logger.Debug("gateway responded",
		zap.String("request_id", requestID),
		zap.String("method", req.Method),
		zap.String("path", command.Path),
		zap.Int("status", resp.StatusCode),
	)

	if command.onResponse != nil {
		if reply, handled := command.onResponse(d.sessions, inv.Caller, resp); handled {
			return reply, nil
		}
	}

	rendered, err := d.renderer.RenderJSON(resp.Body)
	if err != nil {
		return domain.Reply{}, &domain.GatewayError{Command: command.Name, Op: "render response", Err: err}
	}

	return domain.JSONReply(rendered), nil
}

func errorReply(err error) domain.Reply {
	var usageErr *domain.UsageError
	if errors.As(err, &usageErr) {
		return domain.PlainReply(usageErr.Usage)
	}

	var notLoggedIn *domain.NotLoggedInError
	if errors.As(err, &notLoggedIn) {
		return domain.PlainReply(notLoggedIn.Message)
	}

	if errors.Is(err, domain.ErrUnknownCommand) {
		return domain.PlainReply(msgUnknownCommand)
	}

	var gatewayErr *domain.GatewayError
	if errors.As(err, &gatewayErr) {
		return domain.PlainReply("An error occurred: " + gatewayErr.Err.Error())
	}

	return domain.PlainReply("An error occurred: " + err.Error())
}
