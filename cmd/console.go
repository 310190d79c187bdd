package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/bnema/expense-bot/internal/adapters/transport/console"
	"github.com/bnema/expense-bot/internal/domain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newConsoleCmd(app *app) *cobra.Command {
	var (
		caller      string
		prompt      bool
		showSpinner bool
	)

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Type bot commands in the terminal",
		Long:  "console reads /commands from stdin and prints the replies, using the same gateway and session rules as the Telegram bot. No bot token is needed.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			dispatcher, err := app.wireDispatcher()
			if err != nil {
				return err
			}

			session := console.NewSession(dispatcher, domain.CallerID(caller), cmd.InOrStdin(), cmd.OutOrStdout())
			session.Interactive = prompt
			if showSpinner {
				session.Progress = cmd.ErrOrStderr()
			}

			app.logger.Debug("console session started", zap.String("caller", caller))
			return session.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&caller, "caller", "console", "caller id the session is stored under")
	cmd.Flags().BoolVar(&prompt, "prompt", true, "print a prompt before each line")
	cmd.Flags().BoolVar(&showSpinner, "spinner", false, "show a spinner on stderr while a command runs")

	return cmd
}
