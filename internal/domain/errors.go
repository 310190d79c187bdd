package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotLoggedIn     = errors.New("not logged in")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrMissingBotToken = errors.New("telegram bot token is not configured")
)

// UsageError reports arguments that do not fit a command's shape.
type UsageError struct {
	Command string
	Usage   string
	Err     error
}

func (e *UsageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("usage error [%s]", e.Command)
	}
	return fmt.Sprintf("usage error [%s]: %v", e.Command, e.Err)
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

type NotLoggedInError struct {
	Command string
	Message string
}

func (e *NotLoggedInError) Error() string {
	return fmt.Sprintf("%s: %s", e.Command, ErrNotLoggedIn)
}

func (e *NotLoggedInError) Unwrap() error {
	return ErrNotLoggedIn
}

// GatewayError is a failed exchange with the gateway: transport, timeout or an
// undecodable body. HTTP error statuses with a JSON body are not errors.
type GatewayError struct {
	Command string
	Op      string
	Err     error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway error [%s] %s: %v", e.Command, e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
