package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names shared with tests and deploy tooling.
const (
	EnvAppEnv    = "LELIKELEN_APP_ENV"
	EnvPort      = "LELIKELEN_APP_PORT"
	EnvDBDSN     = "LELIKELEN_DB_DSN"
	EnvDBHost    = "LELIKELEN_DB_HOST"
	EnvDBUser    = "LELIKELEN_DB_USER"
	EnvDBName    = "LELIKELEN_DB_NAME"
	EnvRedisURL  = "LELIKELEN_REDIS_URL"
	EnvJWTSecret = "LELIKELEN_JWT_SECRET"
	EnvLLMAPIKey = "LELIKELEN_LLM_API_KEY"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	LLM          LLMConfig
	Chat         ChatConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LELIKELEN_APP_ENV" required:"true"`
	Port         string `envconfig:"LELIKELEN_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LELIKELEN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LELIKELEN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LELIKELEN_DB_DSN"`
	Driver string `envconfig:"LELIKELEN_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LELIKELEN_DB_HOST"`
	LegacyPort     int    `envconfig:"LELIKELEN_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LELIKELEN_DB_USER"`
	LegacyPassword string `envconfig:"LELIKELEN_DB_PASSWORD"`
	LegacyName     string `envconfig:"LELIKELEN_DB_NAME"`
	LegacySSLMode  string `envconfig:"LELIKELEN_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LELIKELEN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LELIKELEN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LELIKELEN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LELIKELEN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LELIKELEN_REDIS_URL"`
	Address      string        `envconfig:"LELIKELEN_REDIS_ADDR"`
	Password     string        `envconfig:"LELIKELEN_REDIS_PASSWORD"`
	DB           int           `envconfig:"LELIKELEN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LELIKELEN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LELIKELEN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LELIKELEN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LELIKELEN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LELIKELEN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig verifies bearer tokens minted by the hosted auth provider. The
// secret is optional; without it every caller is treated as anonymous.
type JWTConfig struct {
	Secret string `envconfig:"LELIKELEN_JWT_SECRET"`
	Issuer string `envconfig:"LELIKELEN_JWT_ISSUER" default:"lelikelen"`
}

// LLMConfig points at the OpenAI-compatible completion gateway.
type LLMConfig struct {
	APIKey   string `envconfig:"LELIKELEN_LLM_API_KEY"`
	Endpoint string `envconfig:"LELIKELEN_LLM_ENDPOINT" default:"https://ai.gateway.lovable.dev/v1"`
	Model    string `envconfig:"LELIKELEN_LLM_MODEL" default:"google/gemini-2.5-flash"`
}

// ChatConfig caps the context-assembly reads for the chat proxy.
type ChatConfig struct {
	HistoryLimit      int `envconfig:"LELIKELEN_CHAT_HISTORY_LIMIT" default:"20"`
	TranscriptLimit   int `envconfig:"LELIKELEN_CHAT_TRANSCRIPT_LIMIT" default:"50"`
	UpcomingLimit     int `envconfig:"LELIKELEN_CHAT_UPCOMING_LIMIT" default:"10"`
	PastServicesLimit int `envconfig:"LELIKELEN_CHAT_PAST_SERVICES_LIMIT" default:"5"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"LELIKELEN_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
