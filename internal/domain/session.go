package domain

type CallerID string

type Session struct {
	Caller CallerID
	Token  string
}

type AuthLevel string

const (
	AuthPublic        AuthLevel = "public"
	AuthAuthenticated AuthLevel = "authenticated"
	// AuthAdmin is enforced by the gateway; locally it only requires a token.
	AuthAdmin AuthLevel = "admin"
)

func (l AuthLevel) RequiresToken() bool {
	return l == AuthAuthenticated || l == AuthAdmin
}
