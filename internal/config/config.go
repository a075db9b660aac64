/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package config loads ttswiss settings from the environment and an optional
// .env file.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/mikeb26/ttswiss/internal"
)

const (
	EnvGameMode    = "TTSWISS_GAME_MODE"
	EnvHandicap    = "TTSWISS_HANDICAP"
	EnvStoreBucket = "TTSWISS_STORE_BUCKET"
	EnvStoreDir    = "TTSWISS_STORE_DIR"
	EnvLogLevel    = "TTSWISS_LOG_LEVEL"
	EnvHTTPAddr    = "TTSWISS_HTTP_ADDR"
	EnvAppID       = "DISCORD_APP_ID"
	EnvPubKey      = "DISCORD_PUB_KEY"
	EnvBotToken    = "DISCORD_BOT_TOKEN"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	GameMode      int    `validate:"oneof=2 3"`
	WithHandicaps bool
	StoreBucket   string `validate:"omitempty,min=3,max=63"`
	StoreDir      string `validate:"required"`
	LogLevel      string `validate:"omitempty,oneof=debug info warn error"`
	HTTPAddr      string `validate:"required,hostname_port"`
	Discord       Discord `validate:"-"`
}

// Discord holds the bot credentials. They are only checked by
// RequireDiscord since the CLI does not need them.
type Discord struct {
	AppID    string `validate:"required,numeric"`
	PubKey   string `validate:"required,hexadecimal,len=64"`
	BotToken string `validate:"required"`
}

var validate = validator.New()

// Load reads the given .env files (default ".env"; missing files are
// skipped) and then the process environment. Variables already set in the
// environment win over file contents.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "config: loading %v", f)
		}
	}

	cfg := &Config{
		StoreBucket: strings.TrimSpace(os.Getenv(EnvStoreBucket)),
		StoreDir:    getEnv(EnvStoreDir, defaultStoreDir()),
		LogLevel:    strings.ToLower(getEnv(EnvLogLevel, "info")),
		HTTPAddr:    getEnv(EnvHTTPAddr, internal.DefaultHTTPAddr),
		Discord: Discord{
			AppID:    strings.TrimSpace(os.Getenv(EnvAppID)),
			PubKey:   strings.TrimSpace(os.Getenv(EnvPubKey)),
			BotToken: strings.TrimSpace(os.Getenv(EnvBotToken)),
		},
	}

	var err error
	cfg.GameMode, err = strconv.Atoi(getEnv(EnvGameMode, "3"))
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "config: parse %v", EnvGameMode),
			ErrInvalidConfig)
	}
	cfg.WithHandicaps, err = strconv.ParseBool(getEnv(EnvHandicap, "false"))
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "config: parse %v", EnvHandicap),
			ErrInvalidConfig)
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "config"), ErrInvalidConfig)
	}

	return cfg, nil
}

// RequireDiscord checks that every bot credential is present.
func (cfg *Config) RequireDiscord() error {
	if err := validate.Struct(cfg.Discord); err != nil {
		return errors.Mark(errors.Wrap(err, "config: discord"), ErrInvalidConfig)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func defaultStoreDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return internal.DefaultStoreDir
	}
	return filepath.Join(home, internal.DefaultStoreDir)
}
