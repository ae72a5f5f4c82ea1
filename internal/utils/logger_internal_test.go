package utils

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"

	"github.com/eventure/eventure-api/internal/config"
)

func TestInitLogger(t *testing.T) {
	original := log.Logger
	originalLevel := zerolog.GlobalLevel()
	defer func() {
		log.Logger = original
		zerolog.SetGlobalLevel(originalLevel)
	}()

	var buf bytes.Buffer
	cfg := &config.AppConfig{
		App:     config.AppSettings{Name: "eventure-api", Version: "1.2.3", Environment: "production"},
		Logging: config.LoggingSettings{Level: "warn", Format: "json"},
	}

	initLogger(cfg, &buf)
	log.Info().Msg("hidden")
	log.Warn().Msg("visible")

	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "visible")
	assert.Contains(t, buf.String(), `"app":"eventure-api"`)
	assert.Contains(t, buf.String(), `"env":"production"`)
}

func TestInitLogger_InvalidLevelDefaultsToInfo(t *testing.T) {
	originalLevel := zerolog.GlobalLevel()
	original := log.Logger
	defer func() {
		log.Logger = original
		zerolog.SetGlobalLevel(originalLevel)
	}()

	initLogger(&config.AppConfig{Logging: config.LoggingSettings{Level: "chatty"}}, &bytes.Buffer{})
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
