package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommandLine(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantName string
		wantArgs []string
		wantOK   bool
	}{
		{name: "no args", text: "/summary", wantName: "summary", wantArgs: []string{}, wantOK: true},
		{name: "collapses whitespace", text: "/login  alice \t secret ", wantName: "login", wantArgs: []string{"alice", "secret"}, wantOK: true},
		{name: "bot mention", text: "/login@expbot alice secret", wantName: "login", wantArgs: []string{"alice", "secret"}, wantOK: true},
		{name: "upper case name", text: "/Summary", wantName: "summary", wantArgs: []string{}, wantOK: true},
		{name: "plain text", text: "hello there", wantOK: false},
		{name: "empty", text: "   ", wantOK: false},
		{name: "bare slash", text: "/ foo", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCommandLine(tt.text)
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantName, got.Name)
			assert.Equal(t, tt.wantArgs, got.Args)
		})
	}
}

func TestAuthLevelRequiresToken(t *testing.T) {
	assert.False(t, AuthPublic.RequiresToken())
	assert.True(t, AuthAuthenticated.RequiresToken())
	assert.True(t, AuthAdmin.RequiresToken())
}

func TestParseAmount(t *testing.T) {
	amount, err := ParseAmount("12.5")
	require.NoError(t, err)

	encoded, err := json.Marshal(map[string]any{"amount": amount})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":12.5}`, string(encoded))

	for _, raw := range []string{"", "abc", "NaN", "Inf", "12,5", "1e1000000", "1e100000000", "1e2000000000", "1e-2000000000", "1e19", "1234567890123456789"} {
		_, err := ParseAmount(raw)
		assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", raw)
	}
}

func TestParseAmountKeepsRequestBodiesSmall(t *testing.T) {
	testCases := []struct {
		raw  string
		want string
	}{
		{raw: "1e3", want: "1000"},
		{raw: "-3.75", want: "-3.75"},
		{raw: "0e2000000000", want: "0"},
		{raw: "0.1234567890123456", want: "0.123456789012"},
		{raw: "1e-40", want: "0"},
		{raw: "999999999999999999", want: "999999999999999999"},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			amount, err := ParseAmount(tc.raw)
			require.NoError(t, err)

			encoded, err := json.Marshal(amount)
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(encoded))
		})
	}
}

func TestTypedErrorsUnwrap(t *testing.T) {
	var notLoggedIn error = &NotLoggedInError{Command: "summary", Message: "You must be logged in."}
	assert.True(t, errors.Is(notLoggedIn, ErrNotLoggedIn))

	cause := errors.New("connection refused")
	var gatewayErr error = &GatewayError{Command: "summary", Op: "send request", Err: cause}
	assert.True(t, errors.Is(gatewayErr, cause))
	assert.Contains(t, gatewayErr.Error(), "connection refused")

	var usageErr error = &UsageError{Command: "addtransaction", Usage: "Usage: ...", Err: ErrInvalidAmount}
	assert.True(t, errors.Is(usageErr, ErrInvalidAmount))

	var target *UsageError
	require.True(t, errors.As(usageErr, &target))
	assert.Equal(t, "addtransaction", target.Command)
}
