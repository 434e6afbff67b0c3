package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "EASYFINDER_CONFIG"
	appEnvEnv         = "APP_ENV"
	httpAddrEnv       = "HTTP_ADDR"
	logLevelEnv       = "LOG_LEVEL"
	leadsCSVPathEnv   = "LEADS_CSV_PATH"
	databaseDriverEnv = "DATABASE_DRIVER"
	databaseDSNEnv    = "DATABASE_DSN"
	emailModeEnv      = "EMAIL_MODE"
	sendGridAPIKeyEnv = "SENDGRID_API_KEY"
	fromEmailEnv      = "FROM_EMAIL"
	thresholdEnv      = "EMAIL_THRESHOLD"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"

	// EmailModeMock logs outgoing mail instead of sending it.
	EmailModeMock = "mock"
	// EmailModeLive delivers through SendGrid.
	EmailModeLive = "live"
)

// Config holds high-level settings required across the application.
type Config struct {
	AppEnv        string             `yaml:"appEnv"`
	Server        ServerConfig       `yaml:"server"`
	Logging       LoggingConfig      `yaml:"logging"`
	Leads         LeadsConfig        `yaml:"leads"`
	Scoring       ScoringConfig      `yaml:"scoring"`
	Database      DatabaseConfig     `yaml:"database"`
	Activity      ActivityConfig     `yaml:"activity"`
	Email         EmailConfig        `yaml:"email"`
	Notifications NotificationConfig `yaml:"notifications"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	CORSOrigins     []string      `yaml:"corsOrigins"`
}

// LoggingConfig selects verbosity and handler format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LeadsConfig points at the lead CSV.
type LeadsConfig struct {
	CSVPath string `yaml:"csvPath"`
	Workers int    `yaml:"workers"`
}

// ScoringConfig holds the outreach threshold. Zero keeps it on the HIGH tier
// boundary.
type ScoringConfig struct {
	EmailThreshold int `yaml:"emailThreshold"`
}

// DatabaseConfig describes the SQL backend. An empty driver keeps the
// activity log and status checks in memory.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// ActivityConfig bounds the activity log.
type ActivityConfig struct {
	Retention int `yaml:"retention"`
}

// EmailConfig configures outreach delivery.
type EmailConfig struct {
	Mode           string `yaml:"mode"`
	SendGridAPIKey string `yaml:"sendgridApiKey"`
	FromEmail      string `yaml:"fromEmail"`
	FromName       string `yaml:"fromName"`
	TemplatePath   string `yaml:"templatePath"`
}

// Live reports whether real delivery is requested and possible.
func (e EmailConfig) Live() bool {
	return strings.EqualFold(e.Mode, EmailModeLive) && e.SendGridAPIKey != ""
}

// NotificationConfig encapsulates operator channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Enabled reports whether both credentials are present.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// SchedulerConfig defines periodic processing in serve mode. Zero disables it.
type SchedulerConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// Load reads .env, YAML configuration (if present) and applies environment
// overrides.
func Load() Config {
	return LoadFrom("")
}

// LoadFrom is Load with an explicit YAML path. An empty path falls back to
// EASYFINDER_CONFIG.
func LoadFrom(path string) Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: cannot load .env: %v", err)
	}

	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		fileCfg, err := ReadFile(path)
		if err != nil {
			log.Printf("config: %v (falling back to defaults)", err)
		} else {
			cfg = mergeConfig(cfg, fileCfg)
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

// ReadFile parses a YAML config file without applying defaults.
func ReadFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		return Config{}, fmt.Errorf("cannot parse %s: %w", path, err)
	}
	return fileCfg, nil
}

func (c *Config) applyEnvOverrides() {
	overrideString(&c.AppEnv, appEnvEnv)
	overrideString(&c.Server.Addr, httpAddrEnv)
	overrideString(&c.Logging.Level, logLevelEnv)
	overrideString(&c.Leads.CSVPath, leadsCSVPathEnv)
	overrideString(&c.Database.Driver, databaseDriverEnv)
	overrideString(&c.Database.DSN, databaseDSNEnv)
	overrideString(&c.Email.Mode, emailModeEnv)
	overrideString(&c.Email.SendGridAPIKey, sendGridAPIKeyEnv)
	overrideString(&c.Email.FromEmail, fromEmailEnv)
	overrideString(&c.Notifications.Telegram.BotToken, telegramTokenEnv)
	overrideString(&c.Notifications.Telegram.ChatID, telegramChatIDEnv)

	if v := os.Getenv(thresholdEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Scoring.EmailThreshold = n
		} else {
			log.Printf("config: invalid %s=%q ignored", thresholdEnv, v)
		}
	}
}

func overrideString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.AppEnv != "" {
		base.AppEnv = override.AppEnv
	}

	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}
	if override.Server.ShutdownTimeout > 0 {
		base.Server.ShutdownTimeout = override.Server.ShutdownTimeout
	}
	if len(override.Server.CORSOrigins) > 0 {
		base.Server.CORSOrigins = override.Server.CORSOrigins
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Leads.CSVPath != "" {
		base.Leads.CSVPath = override.Leads.CSVPath
	}
	if override.Leads.Workers > 0 {
		base.Leads.Workers = override.Leads.Workers
	}

	if override.Scoring.EmailThreshold > 0 {
		base.Scoring.EmailThreshold = override.Scoring.EmailThreshold
	}

	if override.Database.Driver != "" {
		base.Database = override.Database
	}

	if override.Activity.Retention > 0 {
		base.Activity.Retention = override.Activity.Retention
	}

	if override.Email.Mode != "" {
		base.Email.Mode = override.Email.Mode
	}
	if override.Email.SendGridAPIKey != "" {
		base.Email.SendGridAPIKey = override.Email.SendGridAPIKey
	}
	if override.Email.FromEmail != "" {
		base.Email.FromEmail = override.Email.FromEmail
	}
	if override.Email.FromName != "" {
		base.Email.FromName = override.Email.FromName
	}
	if override.Email.TemplatePath != "" {
		base.Email.TemplatePath = override.Email.TemplatePath
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Scheduler.Interval > 0 {
		base.Scheduler.Interval = override.Scheduler.Interval
	}

	return base
}

func defaultConfig() Config {
	return Config{
		AppEnv:  "local",
		Server:  ServerConfig{Addr: ":8001", ShutdownTimeout: 10 * time.Second},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Leads:   LeadsConfig{CSVPath: "data/leads.csv"},
		Activity: ActivityConfig{
			Retention: 1000,
		},
		Email: EmailConfig{
			Mode:         EmailModeMock,
			FromEmail:    "demo@easyfinder.ai",
			FromName:     "EasyFinder AI",
			TemplatePath: "templates/nda_email.html",
		},
	}
}
