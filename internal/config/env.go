package config

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-envconfig"
)

// LoadEnv overlays environment variables onto the config struct.
// Fields are matched by their env tags; unset variables leave the YAML value alone.
func LoadEnv(ctx context.Context, config *AppConfig) error {
	return loadEnvWith(ctx, config, envconfig.OsLookuper())
}

func loadEnvWith(ctx context.Context, config *AppConfig, lookuper envconfig.Lookuper) error {
	log.Debug().Msg("Loading environment variables")

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   config,
		Lookuper: lookuper,
	}); err != nil {
		return fmt.Errorf("failed to process environment: %w", err)
	}

	return nil
}
