package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bnema/expense-bot/internal/adapters/gateway"
	"github.com/bnema/expense-bot/internal/adapters/render"
	chainstore "github.com/bnema/expense-bot/internal/adapters/secrets/chain"
	memorysession "github.com/bnema/expense-bot/internal/adapters/session/memory"
	"github.com/bnema/expense-bot/internal/application"
	"github.com/bnema/expense-bot/internal/config"
	"github.com/bnema/expense-bot/internal/ports"
	"github.com/bnema/expense-bot/internal/version"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// telegramPollSlack is added to the long-poll timeout for the HTTP client
// deadline so an idle poll is not cut short.
const telegramPollSlack = 10 * time.Second

type app struct {
	viper      *viper.Viper
	configFile string

	cfg        config.Config
	logger     *zap.Logger
	httpClient *http.Client

	// secrets resolves telegram.token_ref; nil means the pass/file chain.
	secrets ports.SecretReader
	// telegramEndpoint overrides the Bot API endpoint format string.
	telegramEndpoint string
}

func (a *app) load(logOut io.Writer) error {
	cfg, err := config.Load(a.viper, config.Options{ConfigFile: a.configFile})
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := a.initLogger(logOut, cfg.Log); err != nil {
		return err
	}
	if cfg.File != "" {
		a.logger.Debug("config loaded", zap.String("file", cfg.File))
	}
	return nil
}

func (a *app) initLogger(out io.Writer, logCfg config.LogConfig) error {
	logger, err := newLogger(out, logCfg)
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

func (a *app) sync() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func newLogger(out io.Writer, logCfg config.LogConfig) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if logCfg.Level != "" {
		level, err := zap.ParseAtomicLevel(logCfg.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		zapCfg.Level = level
	}

	var encoder zapcore.Encoder
	switch logCfg.Format {
	case "", "json":
		encoder = zapcore.NewJSONEncoder(zapCfg.EncoderConfig)
	case "console":
		encoderCfg := zap.NewDevelopmentEncoderConfig()
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	default:
		return nil, fmt.Errorf("unknown log format %q", logCfg.Format)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(out)), zapCfg.Level)
	return zap.New(core, zap.AddCaller()).With(zap.String("service", "expbot")), nil
}

func (a *app) client() *http.Client {
	if a.httpClient != nil {
		return a.httpClient
	}
	return http.DefaultClient
}

func (a *app) wireDispatcher() (*application.Dispatcher, error) {
	if err := a.cfg.RequireGateway(); err != nil {
		return nil, err
	}

	gatewayClient, err := gateway.NewClient(a.cfg.Gateway.URL, a.client(), a.cfg.Gateway.Timeout, "expbot/"+version.Version)
	if err != nil {
		return nil, fmt.Errorf("wire gateway client: %w", err)
	}

	return application.NewDispatcher(
		memorysession.NewStore(),
		gatewayClient,
		render.JSONRenderer{},
		ports.SystemClock{},
		a.logger.Named("dispatcher"),
	), nil
}

func (a *app) botToken(ctx context.Context) (string, error) {
	secrets := a.secrets
	if secrets == nil && a.cfg.Telegram.Token == "" && a.cfg.Telegram.TokenRef != "" {
		chain, err := chainstore.NewPassFirstWithFileFallback(a.cfg.Secrets.Dir)
		if err != nil {
			return "", fmt.Errorf("wire secret reader chain: %w", err)
		}
		secrets = chain
	}

	return a.cfg.BotToken(ctx, secrets)
}

// telegramClient returns an HTTP client whose deadline outlasts a long poll.
func (a *app) telegramClient() *http.Client {
	if a.httpClient != nil {
		return a.httpClient
	}
	return &http.Client{Timeout: time.Duration(a.cfg.Telegram.PollTimeout)*time.Second + telegramPollSlack}
}
