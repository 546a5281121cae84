package cmd

import (
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"suitesync.dev/pkg/suitesync/internal/domain"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "suitesync", configBaseName)
	assert.Equal(t, "suitesync.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "SUITESYNC", envPrefix)
	assert.Equal(t, "exclude", excludeFlagName)
	assert.Equal(t, "parallel", runParallelFlagName)
	assert.Equal(t, "run.parallel", runParallelConfigKey)
	assert.Equal(t, "paths.exclude", excludeConfigKey)
	assert.Equal(t, 2*time.Second, defaultWatchDebounce)
}

func TestConfigVersionConstants(t *testing.T) {
	assert.Equal(t, "version", configVersionKey)
	assert.Equal(t, 1, currentConfigVersion)
}

func TestBuildConfig_DefaultsAreValid(t *testing.T) {
	cfg := buildConfig()
	defaults := domain.DefaultConfig()

	assert.Equal(t, defaults.Tests, cfg.Tests)
	assert.Equal(t, defaults.Paths.SourceRoot, cfg.Paths.SourceRoot)
	assert.Equal(t, defaults.Paths.Extensions, cfg.Paths.Extensions)
	assert.Equal(t, defaults.Diff, cfg.Diff)
	assert.Equal(t, defaults.Generation.Model, cfg.Generation.Model)
	assert.Equal(t, defaults.Publish.APIURL, cfg.Publish.APIURL)
	assert.NoError(t, cfg.Validate())
}

func TestBuildConfig_TokenFallsBackToEnvironment(t *testing.T) {
	t.Setenv(githubTokenEnv, "env-token")

	assert.Equal(t, "env-token", buildConfig().Publish.Token)

	viper.Set(publishTokenKey, "configured-token")
	t.Cleanup(func() { viper.Set(publishTokenKey, "") })

	assert.Equal(t, "configured-token", buildConfig().Publish.Token)
}

func TestBuildConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SUITESYNC_GENERATION_MODEL", "qwen2.5-coder")

	assert.Equal(t, "qwen2.5-coder", buildConfig().Generation.Model)
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  slog.Level
	}{
		{"empty uses default", "", slog.LevelInfo},
		{"debug", "debug", slog.LevelDebug},
		{"upper case", "WARN", slog.LevelWarn},
		{"warning alias", "warning", slog.LevelWarn},
		{"error", " error ", slog.LevelError},
		{"numeric", "-4", slog.LevelDebug},
		{"unknown uses default", "loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.value, slog.LevelInfo))
		})
	}
}
