package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"family-tasks-go/internal/validation"
	"family-tasks-go/pkg/logger"
)

type Config struct {
	HTTPPort    string
	Env         string
	CORSOrigins []string
	DB          DBConfig
	Auth        AuthConfig
	Lists       ListsConfig
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	SecretKey  string
	Issuer     string
	TokenTTL   time.Duration
	BcryptCost int
	SkipAuth   bool
	MockUserID string
}

type ListsConfig struct {
	FamilyListName   string
	PersonalListName string
	Color            string
}

func Load(log logger.Logger) (Config, error) {
	if err := loadDotEnv(log); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"http://localhost:5173"}),
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "family_tasks"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Auth: AuthConfig{
			SecretKey:  getEnv("SECRET_KEY", ""),
			Issuer:     getEnv("TOKEN_ISSUER", "family-tasks"),
			TokenTTL:   time.Duration(getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60*24*8)) * time.Minute,
			BcryptCost: getEnvInt("BCRYPT_COST", 10),
			SkipAuth:   getEnvBool("AUTH_SKIP", false),
			MockUserID: getEnv("AUTH_MOCK_USER_ID", "00000000-0000-0000-0000-000000000001"),
		},
		Lists: ListsConfig{
			FamilyListName:   getEnv("DEFAULT_FAMILY_LIST", "Family"),
			PersonalListName: getEnv("DEFAULT_PERSONAL_LIST", "Personal"),
			Color:            getEnv("DEFAULT_LIST_COLOR", "#3B82F6"),
		},
	}

	if cfg.Auth.SecretKey == "" {
		if cfg.Env != "development" {
			return Config{}, fmt.Errorf("SECRET_KEY is required outside development")
		}
		cfg.Auth.SecretKey = "development-secret"
		log.Warn("config: SECRET_KEY not set, using development secret")
	}

	lists, err := cfg.Lists.normalize()
	if err != nil {
		return Config{}, fmt.Errorf("default lists: %w", err)
	}
	cfg.Lists = lists

	return cfg, nil
}

// normalize applies the same rules user-supplied lists go through, so a bad
// default fails at startup instead of on the first family created.
func (c ListsConfig) normalize() (ListsConfig, error) {
	var err error
	if c.FamilyListName, err = validation.Required("DEFAULT_FAMILY_LIST", c.FamilyListName, validation.MaxNameLength); err != nil {
		return ListsConfig{}, err
	}
	if c.PersonalListName, err = validation.Required("DEFAULT_PERSONAL_LIST", c.PersonalListName, validation.MaxNameLength); err != nil {
		return ListsConfig{}, err
	}
	if c.Color, err = validation.Color(c.Color); err != nil {
		return ListsConfig{}, err
	}
	return c, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
