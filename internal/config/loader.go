package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// ConfigPathEnv names the environment variable consulted by GetConfigPath
const ConfigPathEnv = "JSMON_CONFIG_PATH"

// GetConfigPath determines the configuration file path.
// Priority:
// 1. -config command-line flag
// 2. JSMON_CONFIG_PATH environment variable
// 3. config.yaml, config.yml, config.json in the current working directory
// 4. the same names in the executable's directory
func GetConfigPath(configFilePathFlag string) string {
	if configFilePathFlag != "" && fileExists(configFilePathFlag) {
		return configFilePathFlag
	}

	if envPath := os.Getenv(ConfigPathEnv); envPath != "" && fileExists(envPath) {
		return envPath
	}

	cwd, errCwd := os.Getwd()
	exePath, errExe := os.Executable()
	exeDir := ""
	if errExe == nil {
		exeDir = filepath.Dir(exePath)
	}

	defaultFiles := []string{"config.yaml", "config.yml", "config.json"}
	var locations []string
	if errCwd == nil {
		locations = append(locations, cwd)
	}
	if exeDir != "" && (errCwd != nil || exeDir != cwd) {
		locations = append(locations, exeDir)
	}

	for _, loc := range locations {
		for _, file := range defaultFiles {
			path := filepath.Join(loc, file)
			if fileExists(path) {
				return path
			}
		}
	}
	return ""
}

// loadDotEnv reads .env from the working directory into the process environment.
// Variables already set win over the file.
func loadDotEnv(logger zerolog.Logger) {
	if !fileExists(".env") {
		return
	}
	if err := godotenv.Load(".env"); err != nil {
		logger.Warn().Err(err).Msg("Failed to load .env file")
	}
}

// ApplyEnvOverrides copies secrets from the environment into the config
func ApplyEnvOverrides(cfg *GlobalConfig) {
	switch strings.ToLower(cfg.AIConfig.Provider) {
	case "openai":
		setString(&cfg.AIConfig.APIKey, "OPENAI_API_KEY")
	case "anthropic":
		setString(&cfg.AIConfig.APIKey, "ANTHROPIC_API_KEY")
	default:
		setString(&cfg.AIConfig.APIKey, "GEMINI_API_KEY")
	}
	setString(&cfg.AIConfig.APIKey, "JSMON_AI_API_KEY")

	setString(&cfg.NotificationConfig.Telegram.Token, "JSMON_TELEGRAM_TOKEN")
	if v := os.Getenv("JSMON_TELEGRAM_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.NotificationConfig.Telegram.ChatID = id
		}
	}
	setBool(&cfg.NotificationConfig.Telegram.Enabled, "JSMON_NOTIFY_TELEGRAM")

	setString(&cfg.NotificationConfig.Slack.Token, "JSMON_SLACK_TOKEN")
	setString(&cfg.NotificationConfig.Slack.ChannelID, "JSMON_SLACK_CHANNEL_ID")
	setBool(&cfg.NotificationConfig.Slack.Enabled, "JSMON_NOTIFY_SLACK")

	setString(&cfg.NotificationConfig.Discord.WebhookURL, "JSMON_DISCORD_WEBHOOK_URL")
	setBool(&cfg.NotificationConfig.Discord.Enabled, "JSMON_NOTIFY_DISCORD")

	setBool(&cfg.AIConfig.AutoGenerateSummaries, "AUTO_GENERATE_SUMMARIES")
	setBool(&cfg.AIConfig.LogResponses, "LOG_AI_RESPONSES")
	if v := os.Getenv("MAX_DIFF_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DiffConfig.MaxDiffSize = n
		}
	}
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// fileExists checks that filename exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
