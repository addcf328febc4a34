package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Intake       IntakeConfig
	Notification NotificationConfig
	Roster       RosterConfig
	KB           KBConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines staff authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	StaffEmail            string
	StaffPasswordHash     string
}

// IntakeConfig controls the intake pipeline.
type IntakeConfig struct {
	AutoAssign       bool
	SuggestTopK      int
	PriorCacheTTLSec int
}

// SMTPConfig holds outbound mail settings. Empty host means email delivery
// degrades to log records.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// DiscordConfig holds the incoming-webhook endpoint. Empty URL disables it.
type DiscordConfig struct {
	WebhookURL string
}

// TelegramConfig holds bot credentials. APIBase is overridable for tests.
type TelegramConfig struct {
	BotToken string
	ChatID   string
	APIBase  string
}

// SMSConfig holds Twilio-style gateway credentials. Empty AccountSID means
// SMS delivery degrades to log records.
type SMSConfig struct {
	AccountSID string
	AuthToken  string
	From       string
	APIBase    string
}

// NotificationConfig bundles every outbound channel plus the event toggles.
type NotificationConfig struct {
	SMTP                  SMTPConfig
	Discord               DiscordConfig
	Telegram              TelegramConfig
	SMS                   SMSConfig
	AlertTo               string
	OperatorNumbers       []string
	Events                ToggleSet
	AlertUserOnCreate     bool
	AlertUserOnAssignment bool
}

// RosterConfig carries the team rosters and the assignee contact map, loaded
// once at start-up and immutable afterwards.
type RosterConfig struct {
	Teams    domain.Roster
	Contacts domain.ContactMap
}

// KBConfig controls knowledge-base seeding and reindexing.
type KBConfig struct {
	SeedFile    string
	ReindexCron string
}

// Load reads configuration from environment variables, applying defaults
// where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	toggles, err := ParseToggles(getEnv("ALERT_EVENTS", "ticket_created,assignment"))
	if err != nil {
		return nil, err
	}
	roster, err := ParseRoster(os.Getenv("TEAM_ROSTER"))
	if err != nil {
		return nil, err
	}
	contacts, err := ParseContacts(os.Getenv("ASSIGNEE_CONTACTS"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "helpdesk-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			StaffEmail:            os.Getenv("STAFF_EMAIL"),
			StaffPasswordHash:     os.Getenv("STAFF_PASSWORD_HASH"),
		},
		Intake: IntakeConfig{
			AutoAssign:       getEnvAsBool("INTAKE_AUTO_ASSIGN", true),
			SuggestTopK:      getEnvAsInt("INTAKE_SUGGEST_TOP_K", 3),
			PriorCacheTTLSec: getEnvAsInt("ROUTING_PRIOR_CACHE_TTL_SECONDS", 60),
		},
		Notification: NotificationConfig{
			SMTP: SMTPConfig{
				Host:     os.Getenv("SMTP_HOST"),
				Port:     getEnvAsInt("SMTP_PORT", 587),
				Username: os.Getenv("SMTP_USER"),
				Password: os.Getenv("SMTP_PASS"),
				From:     getEnv("ALERT_FROM", "noreply@localhost"),
			},
			Discord: DiscordConfig{
				WebhookURL: os.Getenv("DISCORD_WEBHOOK_URL"),
			},
			Telegram: TelegramConfig{
				BotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
				ChatID:   os.Getenv("TELEGRAM_CHAT_ID"),
				APIBase:  getEnv("TELEGRAM_API_BASE", "https://api.telegram.org"),
			},
			SMS: SMSConfig{
				AccountSID: os.Getenv("SMS_ACCOUNT_SID"),
				AuthToken:  os.Getenv("SMS_AUTH_TOKEN"),
				From:       os.Getenv("SMS_FROM"),
				APIBase:    getEnv("SMS_API_BASE", "https://api.twilio.com"),
			},
			AlertTo:               os.Getenv("ALERT_TO"),
			OperatorNumbers:       splitList(os.Getenv("OPERATOR_NUMBERS")),
			Events:                toggles,
			AlertUserOnCreate:     getEnvAsBool("ALERT_USER_ON_CREATE", true),
			AlertUserOnAssignment: getEnvAsBool("ALERT_USER_ON_ASSIGNMENT", true),
		},
		Roster: RosterConfig{
			Teams:    roster,
			Contacts: contacts,
		},
		KB: KBConfig{
			SeedFile:    os.Getenv("KB_SEED_FILE"),
			ReindexCron: os.Getenv("KB_REINDEX_CRON"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// PriorCacheTTL returns the routing-prior cache TTL.
func (i IntakeConfig) PriorCacheTTL() time.Duration {
	if i.PriorCacheTTLSec <= 0 {
		return time.Minute
	}
	return time.Duration(i.PriorCacheTTLSec) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
