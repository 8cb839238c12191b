package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"hotelbooking/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Locking    LockingConfig    `yaml:"locking"`
	Auth       AuthConfig       `yaml:"auth"`
	Booking    BookingConfig    `yaml:"booking"`
	API        APIConfig        `yaml:"api"`
	Backup     BackupConfig     `yaml:"backup"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Google     GoogleConfig     `yaml:"google"`
	Seed       SeedConfig       `yaml:"seed"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type DatabaseConfig struct {
	Path           string `yaml:"path"`
	MigrationTable string `yaml:"migration_table"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type LockingConfig struct {
	// Backend is one of memory, redis, failover.
	Backend     string        `yaml:"backend"`
	TTL         time.Duration `yaml:"ttl"`
	WaitTimeout time.Duration `yaml:"wait_timeout"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
	Issuer    string        `yaml:"issuer"`
}

type BookingConfig struct {
	MaxAdvanceDays  int `yaml:"max_advance_days"`
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
}

type APIConfig struct {
	HTTP      APIHTTPConfig      `yaml:"http"`
	GRPC      APIGRPCConfig      `yaml:"grpc"`
	RateLimit APIRateLimitConfig `yaml:"rate_limit"`
}

type APIHTTPConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type APIGRPCConfig struct {
	Enabled    bool `yaml:"enabled"`
	Port       int  `yaml:"port"`
	Reflection bool `yaml:"reflection"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Schedule      string `yaml:"schedule"`
	RetentionDays int    `yaml:"retention_days"`
	StoragePath   string `yaml:"storage_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type TelegramConfig struct {
	BotToken     string  `yaml:"bot_token"`
	Debug        bool    `yaml:"debug"`
	StaffChatIDs []int64 `yaml:"staff_chat_ids"`
}

type GoogleConfig struct {
	GoogleCredentialsFile string        `yaml:"credentials_file"`
	BookingSpreadSheetID  string        `yaml:"bookings_spreadsheet_id"`
	CacheRefreshInterval  time.Duration `yaml:"cache_refresh_interval"`
	// ResyncOnStart rewrites the whole sheet from the database at startup.
	ResyncOnStart bool `yaml:"resync_on_start"`
}

// Enabled reports whether the Sheets mirror is configured.
func (g GoogleConfig) Enabled() bool {
	return g.GoogleCredentialsFile != "" && g.BookingSpreadSheetID != ""
}

type SeedConfig struct {
	Users []SeedUser `yaml:"users"`
}

type SeedUser struct {
	FullName string `yaml:"full_name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
	Phone    string `yaml:"phone"`
}

func Load(configPath string) (*Config, error) {
	// .env необязателен
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Предварительная замена переменных окружения в YAML
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}

	if c.Auth.JWTSecret == "" || c.Auth.JWTSecret == "CHANGE_ME" {
		return errors.New("auth jwt_secret is required")
	}

	switch c.Locking.Backend {
	case "memory", "redis", "failover":
	default:
		return fmt.Errorf("unknown locking backend %q", c.Locking.Backend)
	}
	if c.Locking.Backend != "memory" && c.Redis.Address == "" {
		return fmt.Errorf("locking backend %q requires redis.address", c.Locking.Backend)
	}

	return ValidateSeedUsers(c.Seed.Users)
}

func ValidateSeedUsers(users []SeedUser) error {
	emails := make(map[string]bool)
	for _, u := range users {
		email := strings.ToLower(strings.TrimSpace(u.Email))
		if email == "" || u.Password == "" {
			return fmt.Errorf("seed user %q needs email and password", u.FullName)
		}
		if !models.IsStaffRole(u.Role) {
			return fmt.Errorf("seed user %s has invalid role %q", email, u.Role)
		}
		if emails[email] {
			return fmt.Errorf("duplicate seed user email: %s", email)
		}
		emails[email] = true
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "hotelbooking"
	}
	if c.Database.MigrationTable == "" {
		c.Database.MigrationTable = "schema_migrations"
	}
	if c.Locking.Backend == "" {
		c.Locking.Backend = "memory"
		if c.Redis.Address != "" {
			c.Locking.Backend = "failover"
		}
	}
	if c.Locking.TTL == 0 {
		c.Locking.TTL = models.DefaultLockTTL * time.Second
	}
	if c.Locking.WaitTimeout == 0 {
		c.Locking.WaitTimeout = 5 * time.Second
	}
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = 24 * time.Hour
	}
	if c.Auth.Issuer == "" {
		c.Auth.Issuer = c.App.Name
	}
	if c.Booking.MaxAdvanceDays == 0 {
		c.Booking.MaxAdvanceDays = models.DefaultMaxAdvanceDays
	}
	if c.Booking.DefaultPageSize == 0 {
		c.Booking.DefaultPageSize = models.DefaultPageSize
	}
	if c.Booking.MaxPageSize == 0 {
		c.Booking.MaxPageSize = models.MaxPageSize
	}
	if c.API.HTTP.Port == 0 {
		c.API.HTTP.Port = 8080
	}
	if c.API.HTTP.ReadTimeout == 0 {
		c.API.HTTP.ReadTimeout = 5 * time.Second
	}
	if c.API.HTTP.WriteTimeout == 0 {
		c.API.HTTP.WriteTimeout = 15 * time.Second
	}
	if c.API.GRPC.Port == 0 {
		c.API.GRPC.Port = 8081
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Google.CacheRefreshInterval == 0 {
		c.Google.CacheRefreshInterval = models.SheetsCacheTTL * time.Second
	}
	if c.Backup.StoragePath == "" {
		c.Backup.StoragePath = "backups"
	}
}
