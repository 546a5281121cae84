package cmd

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"suitesync.dev/pkg/suitesync/internal/adapter"
	"suitesync.dev/pkg/suitesync/internal/domain"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "suitesync"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	envPrefix = "SUITESYNC"

	// githubTokenEnv is consulted when publish.token is not configured.
	githubTokenEnv = "GITHUB_TOKEN"

	rootFlagName          = "root"
	verboseFlagName       = "verbose"
	logFileFlagName       = "log-file"
	bootstrapFlagName     = "bootstrap"
	workingTreeFlagName   = "working-tree"
	prevFlagName          = "prev"
	currFlagName          = "curr"
	thresholdFlagName     = "threshold"
	maxIterationsFlagName = "max-iterations"
	noPublishFlagName     = "no-publish"
	runParallelFlagName   = "parallel"
	metricsFileFlagName   = "metrics-file"
	formatFlagName        = "format"
	debounceFlagName      = "debounce"
	excludeFlagName       = "exclude"

	thresholdKey         = "coverage.threshold"
	maxIterationsKey     = "coverage.max_iterations"
	coverageRunnerKey    = "coverage.runner"
	coverageCommandKey   = "coverage.command"
	reportsDirKey        = "coverage.reports_dir"
	coverageTimeoutKey   = "coverage.timeout"
	sourceRootKey        = "paths.source_root"
	extensionsKey        = "paths.extensions"
	excludeConfigKey     = "paths.exclude"
	testsDirKey          = "tests.dir"
	testsSuffixKey       = "tests.suffix"
	zeroCountKey         = "diff.zero_count"
	wholeFileFallbackKey = "diff.whole_file_fallback"
	endpointKey          = "generation.endpoint"
	modelKey             = "generation.model"
	apiKeyKey            = "generation.api_key"
	generationTimeoutKey = "generation.timeout"
	generationRateKey    = "generation.rate"
	runParallelConfigKey = "run.parallel"
	publishEnabledKey    = "publish.enabled"
	publishRemoteKey     = "publish.remote"
	publishBaseKey       = "publish.base"
	authorNameKey        = "publish.author_name"
	authorEmailKey       = "publish.author_email"
	publishTokenKey      = "publish.token"
	publishAPIURLKey     = "publish.api_url"
	metricsFileKey       = "metrics.file"
	watchDebounceKey     = "watch.debounce"

	defaultCoverageTimeout = 10 * time.Minute
	defaultWatchDebounce   = 2 * time.Second

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".suitesync.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	setConfigDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}

		return
	}
}

func setConfigDefaults() {
	defaults := domain.DefaultConfig()

	viper.SetDefault(configVersionKey, currentConfigVersion)

	viper.SetDefault(thresholdKey, defaults.Coverage.Threshold)
	viper.SetDefault(maxIterationsKey, defaults.Coverage.MaxIterations)
	viper.SetDefault(coverageRunnerKey, defaults.Coverage.Runner)
	viper.SetDefault(coverageCommandKey, adapter.DefaultJestCommand)
	viper.SetDefault(reportsDirKey, defaults.Coverage.ReportsDir)
	viper.SetDefault(coverageTimeoutKey, defaultCoverageTimeout)
	viper.SetDefault(sourceRootKey, defaults.Paths.SourceRoot)
	viper.SetDefault(extensionsKey, defaults.Paths.Extensions)
	viper.SetDefault(excludeConfigKey, []string{})
	viper.SetDefault(testsDirKey, defaults.Tests.Dir)
	viper.SetDefault(testsSuffixKey, defaults.Tests.Suffix)
	viper.SetDefault(zeroCountKey, string(defaults.Diff.ZeroCount))
	viper.SetDefault(wholeFileFallbackKey, defaults.Diff.WholeFileFallback)
	viper.SetDefault(endpointKey, defaults.Generation.Endpoint)
	viper.SetDefault(modelKey, defaults.Generation.Model)
	viper.SetDefault(apiKeyKey, "")
	viper.SetDefault(generationTimeoutKey, defaults.Generation.Timeout)
	viper.SetDefault(generationRateKey, defaults.Generation.Rate)
	viper.SetDefault(runParallelConfigKey, defaults.Parallel)
	viper.SetDefault(publishEnabledKey, defaults.Publish.Enabled)
	viper.SetDefault(publishRemoteKey, defaults.Publish.Remote)
	viper.SetDefault(publishBaseKey, defaults.Publish.Base)
	viper.SetDefault(authorNameKey, "")
	viper.SetDefault(authorEmailKey, "")
	viper.SetDefault(publishTokenKey, "")
	viper.SetDefault(publishAPIURLKey, defaults.Publish.APIURL)
	viper.SetDefault(metricsFileKey, "")
	viper.SetDefault(watchDebounceKey, defaultWatchDebounce)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)
}

// buildConfig assembles the explicit run configuration from viper. It is the
// only place that reads configuration sources.
func buildConfig() domain.Config {
	token := viper.GetString(publishTokenKey)
	if token == "" {
		token = os.Getenv(githubTokenEnv)
	}

	return domain.Config{
		Coverage: domain.CoverageConfig{
			Threshold:     viper.GetFloat64(thresholdKey),
			MaxIterations: viper.GetInt(maxIterationsKey),
			Runner:        viper.GetString(coverageRunnerKey),
			Command:       viper.GetString(coverageCommandKey),
			ReportsDir:    viper.GetString(reportsDirKey),
		},
		Paths: domain.PathsConfig{
			SourceRoot: viper.GetString(sourceRootKey),
			Extensions: viper.GetStringSlice(extensionsKey),
			Exclude:    viper.GetStringSlice(excludeConfigKey),
		},
		Tests: domain.TestsConfig{
			Dir:    viper.GetString(testsDirKey),
			Suffix: viper.GetString(testsSuffixKey),
		},
		Diff: domain.DiffConfig{
			ZeroCount:         domain.ZeroCountPolicy(viper.GetString(zeroCountKey)),
			WholeFileFallback: viper.GetBool(wholeFileFallbackKey),
		},
		Generation: domain.GenerationConfig{
			Endpoint: viper.GetString(endpointKey),
			Model:    viper.GetString(modelKey),
			APIKey:   viper.GetString(apiKeyKey),
			Timeout:  viper.GetDuration(generationTimeoutKey),
			Rate:     viper.GetFloat64(generationRateKey),
		},
		Publish: domain.PublishConfig{
			Enabled:     viper.GetBool(publishEnabledKey),
			Remote:      viper.GetString(publishRemoteKey),
			Base:        viper.GetString(publishBaseKey),
			AuthorName:  viper.GetString(authorNameKey),
			AuthorEmail: viper.GetString(authorEmailKey),
			Token:       token,
			APIURL:      viper.GetString(publishAPIURLKey),
		},
		Parallel: viper.GetInt(runParallelConfigKey),
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose || viper.GetBool(logVerboseKey) {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
