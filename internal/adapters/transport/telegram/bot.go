package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/bnema/expense-bot/internal/adapters/render"
	"github.com/bnema/expense-bot/internal/domain"
	"github.com/bnema/expense-bot/internal/ports"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultPollTimeout = 60
	defaultWorkers     = 16
)

// botAPI is the subset of *tgbotapi.BotAPI the bot uses.
type botAPI interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Options struct {
	// PollTimeout is the long-poll timeout in seconds.
	PollTimeout int
	// Workers bounds how many updates are handled at once.
	Workers int
}

type CommandInfo struct {
	Name        string
	Description string
}

type Bot struct {
	api       botAPI
	responder ports.Responder
	opts      Options
	logger    *zap.Logger
}

func Connect(token string, httpClient *http.Client, apiEndpoint string) (*tgbotapi.BotAPI, error) {
	if token == "" {
		return nil, errors.New("telegram bot token is required")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if apiEndpoint == "" {
		apiEndpoint = tgbotapi.APIEndpoint
	}

	api, err := tgbotapi.NewBotAPIWithClient(token, apiEndpoint, httpClient)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}
	return api, nil
}

func NewBot(api botAPI, responder ports.Responder, opts Options, logger *zap.Logger) *Bot {
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = defaultPollTimeout
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Bot{api: api, responder: responder, opts: opts, logger: logger}
}

func (b *Bot) RegisterCommands(commands []CommandInfo) error {
	botCommands := make([]tgbotapi.BotCommand, 0, len(commands))
	for _, command := range commands {
		botCommands = append(botCommands, tgbotapi.BotCommand{
			Command:     command.Name,
			Description: command.Description,
		})
	}

	if _, err := b.api.Request(tgbotapi.NewSetMyCommands(botCommands...)); err != nil {
		return fmt.Errorf("register bot commands: %w", err)
	}
	return nil
}

// Run long-polls for updates until ctx is cancelled. Commands already being
// handled are allowed to finish before Run returns.
func (b *Bot) Run(ctx context.Context) error {
	config := tgbotapi.NewUpdate(0)
	config.Timeout = b.opts.PollTimeout
	updates := b.api.GetUpdatesChan(config)

	// slots bounds concurrent handlers. A slot is taken before the next update
	// is read so a full pool never hides ctx.Done from the loop.
	slots := make(chan struct{}, b.opts.Workers)
	var group errgroup.Group
	handlerCtx := context.WithoutCancel(ctx)

	b.logger.Info("telegram bot polling", zap.Int("workers", b.opts.Workers), zap.Int("poll_timeout", b.opts.PollTimeout))

	for {
		select {
		case <-ctx.Done():
			return b.stop(&group)
		case slots <- struct{}{}:
		}

		select {
		case <-ctx.Done():
			<-slots
			return b.stop(&group)
		case update, ok := <-updates:
			if !ok {
				<-slots
				_ = group.Wait()
				return errors.New("telegram update channel closed")
			}
			group.Go(func() error {
				defer func() { <-slots }()
				b.handleUpdate(handlerCtx, update)
				return nil
			})
		}
	}
}

// stop ends polling and waits for handlers already running.
func (b *Bot) stop(group *errgroup.Group) error {
	b.api.StopReceivingUpdates()
	_ = group.Wait()
	b.logger.Info("telegram bot stopped")
	return nil
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	message := update.Message
	if message == nil || message.From == nil || message.Chat == nil {
		return
	}

	inv, ok := domain.ParseCommandLine(message.Text)
	if !ok {
		return
	}
	inv.Caller = domain.CallerID(strconv.FormatInt(message.From.ID, 10))

	reply := b.responder.Respond(ctx, inv)

	text, parseMode := render.TelegramHTML(reply)
	out := tgbotapi.NewMessage(message.Chat.ID, text)
	out.ParseMode = parseMode

	if _, err := b.api.Send(out); err != nil {
		b.logger.Warn("send reply failed",
			zap.Int("update_id", update.UpdateID),
			zap.String("command", inv.Name),
			zap.Error(err),
		)
	}
}
