package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/expense-bot/internal/domain"
	"github.com/bnema/expense-bot/internal/ports"
	"github.com/spf13/viper"
)

const (
	appDir      = "expbot"
	configName  = "config"
	configType  = "toml"
	envPrefix   = "EXPBOT"
	dotEnvFile  = ".env"
	secretsName = "secrets"

	KeyTelegramToken            = "telegram.token"
	KeyTelegramTokenRef         = "telegram.token_ref"
	KeyTelegramPollTimeout      = "telegram.poll_timeout"
	KeyTelegramWorkers          = "telegram.workers"
	KeyTelegramRegisterCommands = "telegram.register_commands"
	KeyGatewayURL               = "gateway.url"
	KeyGatewayTimeout           = "gateway.timeout"
	KeyLogLevel                 = "log.level"
	KeyLogFormat                = "log.format"
	KeySecretsDir               = "secrets.dir"
)

const (
	DefaultPollTimeout    = 60
	DefaultWorkers        = 16
	DefaultGatewayTimeout = 30 * time.Second
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"
)

var ErrMissingGatewayURL = errors.New("gateway url is not configured (set gateway.url or API_GATEWAY_URL)")

// legacyEnv maps the environment names the bot has always read onto config
// keys. They are checked after the EXPBOT_ prefixed names.
var legacyEnv = map[string]string{
	KeyTelegramToken: "TELEGRAM_TOKEN",
	KeyGatewayURL:    "API_GATEWAY_URL",
}

type Config struct {
	Telegram TelegramConfig
	Gateway  GatewayConfig
	Log      LogConfig
	Secrets  SecretsConfig

	// File is the config file that was read, empty when none was found.
	File string
}

type TelegramConfig struct {
	Token            string
	TokenRef         string
	PollTimeout      int
	Workers          int
	RegisterCommands bool
}

type GatewayConfig struct {
	URL     string
	Timeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type SecretsConfig struct {
	Dir string
}

// Options controls where Load looks. Empty fields fall back to the user
// config directory and the process working directory.
type Options struct {
	ConfigFile string
	ConfigDir  string
	WorkDir    string
}

// DefaultDir returns $XDG_CONFIG_HOME/expbot (or the platform equivalent).
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}

	return filepath.Join(base, appDir), nil
}

// DefaultPath returns the config file used when --config is not given.
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, configName+"."+configType), nil
}

// Load reads configuration with the precedence flags > env > config file >
// .env > defaults. A missing default config file is not an error; a missing
// explicit one is.
func Load(v *viper.Viper, opts Options) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	configDir := opts.ConfigDir
	if configDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return Config{}, err
		}
		configDir = dir
	}

	setDefaults(v, configDir)

	if err := mergeDotEnv(v, opts.WorkDir); err != nil {
		return Config{}, err
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		if err := v.BindEnv(key, envPrefix+"_"+envName(key), legacy); err != nil {
			return Config{}, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		v.SetConfigType(configType)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(configDir)
	}

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}
	if err := (fileSchema{Version: v.GetInt("version")}).validateVersion(); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Telegram: TelegramConfig{
			Token:            strings.TrimSpace(v.GetString(KeyTelegramToken)),
			TokenRef:         strings.TrimSpace(v.GetString(KeyTelegramTokenRef)),
			PollTimeout:      v.GetInt(KeyTelegramPollTimeout),
			Workers:          v.GetInt(KeyTelegramWorkers),
			RegisterCommands: v.GetBool(KeyTelegramRegisterCommands),
		},
		Gateway: GatewayConfig{
			URL:     strings.TrimSpace(v.GetString(KeyGatewayURL)),
			Timeout: v.GetDuration(KeyGatewayTimeout),
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString(KeyLogLevel)),
			Format: strings.ToLower(v.GetString(KeyLogFormat)),
		},
		Secrets: SecretsConfig{Dir: v.GetString(KeySecretsDir)},
		File:    v.ConfigFileUsed(),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Defaults returns the configuration used when nothing else is set.
func Defaults(configDir string) Config {
	return Config{
		Telegram: TelegramConfig{
			PollTimeout:      DefaultPollTimeout,
			Workers:          DefaultWorkers,
			RegisterCommands: true,
		},
		Gateway: GatewayConfig{Timeout: DefaultGatewayTimeout},
		Log:     LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Secrets: SecretsConfig{Dir: filepath.Join(configDir, secretsName)},
	}
}

// BotToken returns the inline token when set, otherwise resolves token_ref
// through the secret reader.
func (c Config) BotToken(ctx context.Context, secrets ports.SecretReader) (string, error) {
	if c.Telegram.Token != "" {
		return c.Telegram.Token, nil
	}
	if c.Telegram.TokenRef == "" || secrets == nil {
		return "", domain.ErrMissingBotToken
	}

	token, err := secrets.Get(ctx, c.Telegram.TokenRef)
	if err != nil {
		return "", fmt.Errorf("resolve telegram token %q: %w", c.Telegram.TokenRef, err)
	}

	return strings.TrimSpace(token), nil
}

// RequireGateway reports ErrMissingGatewayURL when no gateway is configured.
func (c Config) RequireGateway() error {
	if c.Gateway.URL == "" {
		return ErrMissingGatewayURL
	}

	return nil
}

func (c Config) validate() error {
	if c.Telegram.PollTimeout < 0 {
		return fmt.Errorf("%s must not be negative, got %d", KeyTelegramPollTimeout, c.Telegram.PollTimeout)
	}
	if c.Telegram.Workers < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", KeyTelegramWorkers, c.Telegram.Workers)
	}
	if c.Gateway.Timeout <= 0 {
		return fmt.Errorf("%s must be positive, got %s", KeyGatewayTimeout, c.Gateway.Timeout)
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("%s must be json or console, got %q", KeyLogFormat, c.Log.Format)
	}

	return nil
}

func setDefaults(v *viper.Viper, configDir string) {
	defaults := Defaults(configDir)
	v.SetDefault(KeyTelegramToken, "")
	v.SetDefault(KeyTelegramTokenRef, "")
	v.SetDefault(KeyTelegramPollTimeout, defaults.Telegram.PollTimeout)
	v.SetDefault(KeyTelegramWorkers, defaults.Telegram.Workers)
	v.SetDefault(KeyTelegramRegisterCommands, defaults.Telegram.RegisterCommands)
	v.SetDefault(KeyGatewayURL, "")
	v.SetDefault(KeyGatewayTimeout, defaults.Gateway.Timeout)
	v.SetDefault(KeyLogLevel, defaults.Log.Level)
	v.SetDefault(KeyLogFormat, defaults.Log.Format)
	v.SetDefault(KeySecretsDir, defaults.Secrets.Dir)
}

// mergeDotEnv loads KEY=value pairs from a .env file in dir as defaults, so
// the real environment and the config file both win over it.
func mergeDotEnv(v *viper.Viper, dir string) error {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve working directory: %w", err)
		}
		dir = wd
	}

	path := filepath.Join(dir, dotEnvFile)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", dotEnvFile, err)
	}

	dotenv := viper.New()
	dotenv.SetConfigFile(path)
	dotenv.SetConfigType("env")
	if err := dotenv.ReadInConfig(); err != nil {
		return fmt.Errorf("read %s: %w", dotEnvFile, err)
	}

	for _, key := range allKeys() {
		names := []string{envPrefix + "_" + envName(key)}
		if legacy, ok := legacyEnv[key]; ok {
			names = append(names, legacy)
		}
		for _, name := range names {
			if value := dotenv.GetString(strings.ToLower(name)); value != "" {
				v.SetDefault(key, value)
				break
			}
		}
	}

	return nil
}

func allKeys() []string {
	return []string{
		KeyTelegramToken,
		KeyTelegramTokenRef,
		KeyTelegramPollTimeout,
		KeyTelegramWorkers,
		KeyTelegramRegisterCommands,
		KeyGatewayURL,
		KeyGatewayTimeout,
		KeyLogLevel,
		KeyLogFormat,
		KeySecretsDir,
	}
}

func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
