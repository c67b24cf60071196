package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "Asia/Dubai"

	configPathEnv      = "NEWS_PROCESSOR_CONFIG"
	openAIKeyEnv       = "OPENAI_API_KEY"
	firebaseKeyEnv     = "FIREBASE_KEY_JSON"
	firebaseKeyPathEnv = "FIREBASE_KEY_PATH"
	telegramTokenEnv   = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv  = "TELEGRAM_CHAT_ID"
	historyPathEnv     = "HISTORY_DB_PATH"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Firestore     FirestoreConfig    `yaml:"firestore"`
	OpenAI        OpenAIConfig       `yaml:"openai"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Notifications NotificationConfig `yaml:"notifications"`
	History       HistoryConfig      `yaml:"history"`
	FallbackLimit int                `yaml:"fallbackLimit"`
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// FirestoreConfig describes the document store and its collections.
type FirestoreConfig struct {
	CredentialsPath     string `yaml:"credentialsPath"`
	CredentialsJSON     string `yaml:"-"`
	SourceCollection    string `yaml:"sourceCollection"`
	ProcessedCollection string `yaml:"processedCollection"`
}

// OpenAIConfig defines how to contact the completion API.
type OpenAIConfig struct {
	Endpoint        string `yaml:"endpoint"`
	ChatModel       string `yaml:"chatModel"`
	CompletionModel string `yaml:"completionModel"`
	APIKey          string `yaml:"apiKey"`
}

// SchedulerConfig defines when the processor runs. An empty cron expression
// means one run per invocation, leaving scheduling to the host.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the configured timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send the run digest.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// HistoryConfig points at the local run-history database; empty disables it.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(openAIKeyEnv); v != "" {
		c.OpenAI.APIKey = v
	}

	if v := os.Getenv(firebaseKeyPathEnv); v != "" {
		c.Firestore.CredentialsPath = v
	}

	if v := os.Getenv(firebaseKeyEnv); v != "" {
		c.Firestore.CredentialsJSON = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(historyPathEnv); v != "" {
		c.History.Path = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Firestore.CredentialsPath != "" {
		base.Firestore.CredentialsPath = override.Firestore.CredentialsPath
	}
	if override.Firestore.SourceCollection != "" {
		base.Firestore.SourceCollection = override.Firestore.SourceCollection
	}
	if override.Firestore.ProcessedCollection != "" {
		base.Firestore.ProcessedCollection = override.Firestore.ProcessedCollection
	}

	if override.OpenAI.Endpoint != "" {
		base.OpenAI.Endpoint = override.OpenAI.Endpoint
	}
	if override.OpenAI.ChatModel != "" {
		base.OpenAI.ChatModel = override.OpenAI.ChatModel
	}
	if override.OpenAI.CompletionModel != "" {
		base.OpenAI.CompletionModel = override.OpenAI.CompletionModel
	}
	if override.OpenAI.APIKey != "" {
		base.OpenAI.APIKey = override.OpenAI.APIKey
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.History.Path != "" {
		base.History.Path = override.History.Path
	}

	if override.FallbackLimit > 0 {
		base.FallbackLimit = override.FallbackLimit
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Firestore: FirestoreConfig{
			CredentialsPath:     "./firebase_key.json",
			SourceCollection:    "arabian_news_articles",
			ProcessedCollection: "processed_arabian_news_articles",
		},
		OpenAI: OpenAIConfig{
			Endpoint:        "https://api.openai.com/v1",
			ChatModel:       "gpt-3.5-turbo",
			CompletionModel: "gpt-3.5-turbo-instruct",
		},
		Scheduler:     SchedulerConfig{Timezone: defaultTimezone, location: tz},
		FallbackLimit: 10,
	}
}
