package cmd

import (
	"fmt"

	"github.com/bnema/expense-bot/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the expbot config file",
	}

	cmd.AddCommand(newConfigInitCmd(app))
	return cmd
}

func newConfigInitCmd(app *app) *cobra.Command {
	var (
		force      bool
		gatewayURL string
		tokenRef   string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		Annotations: map[string]string{
			skipConfigAnnotation: "true",
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := configPath(app.configFile)
			if err != nil {
				return err
			}

			dir, err := config.DefaultDir()
			if err != nil {
				return err
			}

			cfg := config.Defaults(dir)
			cfg.Gateway.URL = gatewayURL
			cfg.Telegram.TokenRef = tokenRef

			if err := config.WriteDefault(path, cfg, force); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	cmd.Flags().StringVar(&gatewayURL, "gateway-url", "", "expenditure gateway base URL")
	cmd.Flags().StringVar(&tokenRef, "token-ref", "", "secret key holding the Telegram bot token (pass entry or file under secrets.dir)")
	return cmd
}
