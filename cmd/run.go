package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bnema/expense-bot/internal/adapters/transport/telegram"
	"github.com/bnema/expense-bot/internal/application"
	"github.com/bnema/expense-bot/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRunCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the Telegram bot",
		Long:  "run long-polls Telegram for /commands and answers each one through the expenditure gateway until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			dispatcher, err := app.wireDispatcher()
			if err != nil {
				return err
			}

			token, err := app.botToken(ctx)
			if err != nil {
				return err
			}

			api, err := telegram.Connect(token, app.telegramClient(), app.telegramEndpoint)
			if err != nil {
				return err
			}

			logger := app.logger.Named("telegram")
			bot := telegram.NewBot(api, dispatcher, telegram.Options{
				PollTimeout: app.cfg.Telegram.PollTimeout,
				Workers:     app.cfg.Telegram.Workers,
			}, logger)

			if app.cfg.Telegram.RegisterCommands {
				if err := bot.RegisterCommands(commandInfos(dispatcher.Commands())); err != nil {
					logger.Warn("command registration failed", zap.Error(err))
				}
			}

			logger.Info("bot started",
				zap.String("username", api.Self.UserName),
				zap.String("gateway", app.cfg.Gateway.URL),
				zap.Int("workers", app.cfg.Telegram.Workers),
			)
			if err := bot.Run(ctx); err != nil {
				return fmt.Errorf("run telegram bot: %w", err)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Int("workers", 0, "maximum number of commands handled at once")
	flags.Bool("register-commands", true, "publish the command list to Telegram on start")
	if err := bindFlags(app.viper, flags, map[string]string{
		config.KeyTelegramWorkers:          "workers",
		config.KeyTelegramRegisterCommands: "register-commands",
	}); err != nil {
		cmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
	}

	return cmd
}

func commandInfos(commands []application.CommandSpec) []telegram.CommandInfo {
	infos := make([]telegram.CommandInfo, 0, len(commands))
	for _, command := range commands {
		infos = append(infos, telegram.CommandInfo{
			Name:        command.Name,
			Description: command.Description,
		})
	}
	return infos
}
