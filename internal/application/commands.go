package application

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/bnema/expense-bot/internal/domain"
	"github.com/bnema/expense-bot/internal/ports"
)

const (
	msgLoginRequired      = "You must be logged in."
	msgAdminLoginRequired = "You must be logged in as an admin."
	msgNotLoggedIn        = "You are not logged in."
	msgLoginSuccess       = "Login successful! Token saved."
	msgLogoutSuccess      = "Logout successful."
)

type CommandGroup string

const (
	GroupUser        CommandGroup = "User Commands"
	GroupCategory    CommandGroup = "Category Commands"
	GroupTransaction CommandGroup = "Transaction Commands"
	GroupAdmin       CommandGroup = "Admin Commands"
)

var groupOrder = []CommandGroup{GroupUser, GroupCategory, GroupTransaction, GroupAdmin}

// responseHook may replace the generic JSON rendering of a gateway response.
// It reports false to fall through to the JSON render.
type responseHook func(sessions ports.SessionStore, caller domain.CallerID, resp ports.GatewayResponse) (domain.Reply, bool)

type CommandSpec struct {
	Name        string
	Group       CommandGroup
	ArgsHint    string
	Description string
	Auth        domain.AuthLevel
	// NotLoggedIn overrides the message shown when a token is required but absent.
	NotLoggedIn string
	Method      string
	// Path may reference parsed string arguments as "{name}".
	Path  string
	Shape Shape
	Body  func(Args) any
	Local bool

	onResponse responseHook
}

func (c CommandSpec) Usage() string {
	if c.ArgsHint == "" {
		return "Usage: /" + c.Name
	}
	return "Usage: /" + c.Name + " " + c.ArgsHint
}

func (c CommandSpec) notLoggedInMessage() string {
	if c.NotLoggedIn != "" {
		return c.NotLoggedIn
	}
	if c.Auth == domain.AuthAdmin {
		return msgAdminLoginRequired
	}
	return msgLoginRequired
}

func (c CommandSpec) expandPath(args Args) string {
	path := c.Path
	for {
		start := strings.IndexByte(path, '{')
		if start < 0 {
			return path
		}
		end := strings.IndexByte(path[start:], '}')
		if end < 0 {
			return path
		}
		name := path[start+1 : start+end]
		path = path[:start] + url.PathEscape(args.Text(name)) + path[start+end+1:]
	}
}

func credentialsBody(args Args) any {
	return map[string]string{
		"username": args.Text("username"),
		"password": args.Text("password"),
	}
}

func storeLoginToken(sessions ports.SessionStore, caller domain.CallerID, resp ports.GatewayResponse) (domain.Reply, bool) {
	if resp.StatusCode != http.StatusOK {
		return domain.Reply{}, false
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err != nil || payload.Token == "" {
		return domain.Reply{}, false
	}

	sessions.Set(caller, payload.Token)
	return domain.PlainReply(msgLoginSuccess), true
}

func clearSession(sessions ports.SessionStore, caller domain.CallerID, resp ports.GatewayResponse) (domain.Reply, bool) {
	if resp.StatusCode != http.StatusOK {
		return domain.Reply{}, false
	}

	sessions.Clear(caller)
	return domain.PlainReply(msgLogoutSuccess), true
}

// DefaultCommands returns the command table in help order.
func DefaultCommands() []CommandSpec {
	return []CommandSpec{
		{
			Name:        "start",
			Group:       GroupUser,
			Description: "Show this help",
			Auth:        domain.AuthPublic,
			Local:       true,
		},
		{
			Name:        "signup",
			Group:       GroupUser,
			ArgsHint:    "<username> <password>",
			Description: "Create a new account",
			Auth:        domain.AuthPublic,
			Method:      http.MethodPost,
			Path:        "/auth/signup",
			Shape:       Shape{Fields: []Field{{Name: "username"}, {Name: "password"}}},
			Body:        credentialsBody,
		},
		{
			Name:        "login",
			Group:       GroupUser,
			ArgsHint:    "<username> <password>",
			Description: "Log in to get a token",
			Auth:        domain.AuthPublic,
			Method:      http.MethodPost,
			Path:        "/auth/login",
			Shape:       Shape{Fields: []Field{{Name: "username"}, {Name: "password"}}},
			Body:        credentialsBody,
			onResponse:  storeLoginToken,
		},
		{
			Name:        "logout",
			Group:       GroupUser,
			Description: "Log out and invalidate your token",
			Auth:        domain.AuthAuthenticated,
			NotLoggedIn: msgNotLoggedIn,
			Method:      http.MethodPost,
			Path:        "/auth/logout",
			onResponse:  clearSession,
		},
		{
			Name:        "addcategory",
			Group:       GroupCategory,
			ArgsHint:    "<name> <type>",
			Description: "Create a category (e.g., Food expense)",
			Auth:        domain.AuthAuthenticated,
			Method:      http.MethodPost,
			Path:        "/category/create",
			Shape:       Shape{Fields: []Field{{Name: "name"}, {Name: "type"}}},
			Body: func(args Args) any {
				return map[string]string{"name": args.Text("name"), "type": args.Text("type")}
			},
		},
		{
			Name:        "listcategories",
			Group:       GroupCategory,
			Description: "View your categories",
			Auth:        domain.AuthAuthenticated,
			Method:      http.MethodGet,
			Path:        "/category/list",
		},
		{
			Name:        "addtransaction",
			Group:       GroupTransaction,
			ArgsHint:    "<amount> <type> <description>",
			Description: "Record a transaction",
			Auth:        domain.AuthAuthenticated,
			Method:      http.MethodPost,
			Path:        "/transaction/add",
			Shape: Shape{
				Fields:   []Field{{Name: "amount", Kind: FieldAmount}, {Name: "type"}},
				Trailing: "desc",
			},
			Body: func(args Args) any {
				return map[string]any{
					"amount": args.Amount("amount"),
					"type":   args.Text("type"),
					"desc":   args.Text("desc"),
				}
			},
		},
		{
			Name:        "listtransactions",
			Group:       GroupTransaction,
			Description: "View your transactions",
			Auth:        domain.AuthAuthenticated,
			Method:      http.MethodGet,
			Path:        "/transaction/list",
		},
		{
			Name:        "updatetransaction",
			Group:       GroupTransaction,
			ArgsHint:    "<id> <new_amount> <new_description>",
			Description: "Change a transaction",
			Auth:        domain.AuthAuthenticated,
			Method:      http.MethodPut,
			Path:        "/transaction/update/{id}",
			Shape: Shape{
				Fields:   []Field{{Name: "id"}, {Name: "amount", Kind: FieldAmount}},
				Trailing: "desc",
			},
			Body: func(args Args) any {
				return map[string]any{
					"amount": args.Amount("amount"),
					"desc":   args.Text("desc"),
				}
			},
		},
		{
			Name:        "deletetransaction",
			Group:       GroupTransaction,
			ArgsHint:    "<id>",
			Description: "Delete a transaction",
			Auth:        domain.AuthAuthenticated,
			Method:      http.MethodDelete,
			Path:        "/transaction/delete/{id}",
			Shape:       Shape{Fields: []Field{{Name: "id"}}},
		},
		{
			Name:        "summary",
			Group:       GroupTransaction,
			Description: "Get your income/expense summary",
			Auth:        domain.AuthAuthenticated,
			Method:      http.MethodGet,
			Path:        "/transaction/summary",
		},
		{
			Name:        "listusers",
			Group:       GroupAdmin,
			Description: "List all users",
			Auth:        domain.AuthAdmin,
			Method:      http.MethodGet,
			Path:        "/auth/admin/users",
		},
		{
			Name:        "listallcategories",
			Group:       GroupAdmin,
			Description: "List all categories (admin)",
			Auth:        domain.AuthAdmin,
			Method:      http.MethodGet,
			Path:        "/category/admin/all",
		},
		{
			Name:        "stats",
			Group:       GroupAdmin,
			Description: "Get system-wide statistics (admin)",
			Auth:        domain.AuthAdmin,
			Method:      http.MethodGet,
			Path:        "/transaction/admin/stats",
		},
	}
}
