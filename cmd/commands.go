package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/bnema/expense-bot/internal/application"
	"github.com/spf13/cobra"
)

type commandView struct {
	Name        string `json:"name"`
	Usage       string `json:"usage"`
	Description string `json:"description"`
	Auth        string `json:"auth"`
	Method      string `json:"method,omitempty"`
	Path        string `json:"path,omitempty"`
}

func newCommandsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "commands",
		Short: "List the bot commands and the gateway routes they call",
		Args:  cobra.NoArgs,
		Annotations: map[string]string{
			skipConfigAnnotation: "true",
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			views := commandViews(application.DefaultCommands())
			out := cmd.OutOrStdout()

			if asJSON {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(views)
			}

			for _, view := range views {
				route := "local"
				if view.Method != "" {
					route = view.Method + " " + view.Path
				}
				if _, err := fmt.Fprintf(out, "%-52s %-14s %-30s %s\n", view.Usage, view.Auth, route, view.Description); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the table as JSON")
	return cmd
}

func commandViews(commands []application.CommandSpec) []commandView {
	views := make([]commandView, 0, len(commands))
	for _, command := range commands {
		view := commandView{
			Name:        command.Name,
			Usage:       command.Usage(),
			Description: command.Description,
			Auth:        string(command.Auth),
		}
		if !command.Local {
			view.Method = command.Method
			view.Path = command.Path
		}
		views = append(views, view)
	}
	return views
}
