package application

import "strings"

const helpHeader = "Welcome to the Expenditure Tracker Bot!"

func buildHelp(commands []CommandSpec) string {
	var b strings.Builder
	b.WriteString(helpHeader)

	for _, group := range groupOrder {
		wroteHeader := false
		for _, command := range commands {
			if command.Group != group || command.Local {
				continue
			}
			if !wroteHeader {
				b.WriteString("\n\n--- " + string(group) + " ---")
				wroteHeader = true
			}
			b.WriteString("\n/" + command.Name)
			if command.ArgsHint != "" {
				b.WriteString(" " + command.ArgsHint)
			}
			b.WriteString(" - " + command.Description)
		}
	}

	return b.String()
}
