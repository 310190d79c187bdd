package domain

import "strings"

type Invocation struct {
	Name   string
	Args   []string
	Caller CallerID
}

// ParseCommandLine splits a "/name arg..." message. A "@botname" suffix on the
// command is dropped, as chat clients append it in group chats.
func ParseCommandLine(text string) (Invocation, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return Invocation{}, false
	}

	name := strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	if name == "" {
		return Invocation{}, false
	}

	return Invocation{
		Name: strings.ToLower(name),
		Args: fields[1:],
	}, true
}
