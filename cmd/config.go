package cmd

import (
	"errors"
	"log/slog"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "graft"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	outputFlagName       = "output"
	languageFlagName     = "language"
	excludeFlagName      = "exclude"
	verboseFlagName      = "verbose"
	mutationsFlagName    = "mutations"
	maxSizeFlagName      = "max-size"
	seedFlagName         = "seed"
	reparseFlagName      = "reparse"
	chaoticFlagName      = "chaotic"
	testsFlagName        = "tests"
	parallelFlagName     = "parallel"
	nodeTypesFlagName    = "node-types"
	onParseErrorFlagName = "on-parse-error"

	languageConfigKey     = "corpus.language"
	excludeConfigKey      = "corpus.exclude"
	onParseErrorConfigKey = "corpus.on_parse_error"
	nodeTypesConfigKey    = "corpus.node_types"
	mutationsConfigKey    = "generate.mutations"
	maxSizeConfigKey      = "generate.max_size"
	seedConfigKey         = "generate.seed"
	reparseConfigKey      = "generate.reparse"
	chaoticConfigKey      = "generate.chaotic"
	testsConfigKey        = "generate.tests"
	parallelConfigKey     = "generate.parallel"

	defaultOutputDir    = "graft.out"
	defaultLanguage     = "go"
	defaultMutations    = 16
	defaultMaxSize      = 1 << 20
	defaultSeed         = int64(-1) // negative means draw entropy per run
	defaultReparse      = true
	defaultChaotic      = false
	defaultTests        = 4
	defaultOnParseError = "warn"

	envPrefix = "GRAFT"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".graft.log"
	defaultLogLevel      = int(slog.LevelInfo)
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

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(outputFlagName, defaultOutputDir)
	viper.SetDefault(languageConfigKey, defaultLanguage)
	viper.SetDefault(excludeConfigKey, []string{})
	viper.SetDefault(onParseErrorConfigKey, defaultOnParseError)
	viper.SetDefault(nodeTypesConfigKey, "")
	viper.SetDefault(mutationsConfigKey, defaultMutations)
	viper.SetDefault(maxSizeConfigKey, defaultMaxSize)
	viper.SetDefault(seedConfigKey, defaultSeed)
	viper.SetDefault(reparseConfigKey, defaultReparse)
	viper.SetDefault(chaoticConfigKey, defaultChaotic)
	viper.SetDefault(testsConfigKey, defaultTests)
	viper.SetDefault(parallelConfigKey, runtime.NumCPU())

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}

		return
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
	if verbose {
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
