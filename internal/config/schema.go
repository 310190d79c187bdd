package config

import "fmt"

const currentSchemaVersion = 1

// fileSchema is the on-disk layout written by WriteDefault. Durations are kept
// as strings so the file stays readable ("30s" rather than nanoseconds).
type fileSchema struct {
	Version  int            `toml:"version"`
	Telegram telegramSchema `toml:"telegram"`
	Gateway  gatewaySchema  `toml:"gateway"`
	Log      logSchema      `toml:"log"`
	Secrets  secretsSchema  `toml:"secrets"`
}

type telegramSchema struct {
	Token            string `toml:"token"`
	TokenRef         string `toml:"token_ref"`
	PollTimeout      int    `toml:"poll_timeout"`
	Workers          int    `toml:"workers"`
	RegisterCommands bool   `toml:"register_commands"`
}

type gatewaySchema struct {
	URL     string `toml:"url"`
	Timeout string `toml:"timeout"`
}

type logSchema struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type secretsSchema struct {
	Dir string `toml:"dir"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported config schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

func toSchema(cfg Config) fileSchema {
	return fileSchema{
		Version: currentSchemaVersion,
		Telegram: telegramSchema{
			Token:            cfg.Telegram.Token,
			TokenRef:         cfg.Telegram.TokenRef,
			PollTimeout:      cfg.Telegram.PollTimeout,
			Workers:          cfg.Telegram.Workers,
			RegisterCommands: cfg.Telegram.RegisterCommands,
		},
		Gateway: gatewaySchema{
			URL:     cfg.Gateway.URL,
			Timeout: cfg.Gateway.Timeout.String(),
		},
		Log: logSchema{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
		},
		Secrets: secretsSchema{Dir: cfg.Secrets.Dir},
	}
}
