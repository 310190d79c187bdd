package cmd

import (
	"fmt"

	"github.com/bnema/expense-bot/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// skipConfigAnnotation marks commands that must work without a valid config.
const skipConfigAnnotation = "expbot/skip-config"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	return newRootCmdFor(&app{viper: viper.New()})
}

func newRootCmdFor(app *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "expbot",
		Short:         "Expense tracker chat bot",
		Long:          "expbot turns /commands sent over Telegram (or typed into a local console) into calls against the expenditure gateway and replies with the result.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[skipConfigAnnotation] == "true" {
				return app.initLogger(cmd.ErrOrStderr(), config.Defaults("").Log)
			}
			return app.load(cmd.ErrOrStderr())
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			app.sync()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&app.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/expbot/config.toml)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: json or console")
	if err := bindFlags(app.viper, flags, map[string]string{
		config.KeyLogLevel:  "log-level",
		config.KeyLogFormat: "log-format",
	}); err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(app),
		newConsoleCmd(app),
		newCommandsCmd(),
		newConfigCmd(app),
	)

	return rootCmd
}

// bindFlags lets flags override the matching config keys when they are set.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	for key, name := range keys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("bind --%s flag: %w", name, err)
		}
	}
	return nil
}

func configPath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	path, err := config.DefaultPath()
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return path, nil
}
