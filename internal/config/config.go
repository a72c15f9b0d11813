package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Драйверы хранилища
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config конфигурация сервиса
type Config struct {
	Server         ServerConfig        `toml:"server"`
	Database       DatabaseConfig      `toml:"database"`
	Logs           LogsConfig          `toml:"logs"`
	Metrics        MetricsConfig       `toml:"metrics"`
	Scheduler      SchedulerConfig     `toml:"scheduler"`
	Booking        BookingConfig       `toml:"booking"`
	Events         EventsConfig        `toml:"events"`
	CORS           CORSConfig          `toml:"cors"`
	Notifications  NotificationsConfig `toml:"notifications"`
	StudentService ServiceClientConfig `toml:"student_service"`
	LessonService  ServiceClientConfig `toml:"lesson_service"`
}

// ServerConfig параметры HTTP сервера, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig параметры подключения к БД
type DatabaseConfig struct {
	Driver          string `toml:"driver"`
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
	AutoMigrate     bool   `toml:"auto_migrate"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig параметры логирования
type LogsConfig struct {
	Level  string `toml:"level"`
	File   string `toml:"file"`
	Format string `toml:"format"`
}

// MetricsConfig параметры Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// SchedulerConfig параметры планировщика истечения
type SchedulerConfig struct {
	Enabled         bool `toml:"enabled"`
	IntervalMinutes int  `toml:"interval_minutes"`
	Workers         int  `toml:"workers"`
	BatchSize       int  `toml:"batch_size"`
}

// Interval период тика
func (s SchedulerConfig) Interval() time.Duration {
	return time.Duration(s.IntervalMinutes) * time.Minute
}

// BookingConfig параметры бронирования по кредиту
type BookingConfig struct {
	AvailabilityTimeoutMs int    `toml:"availability_timeout_ms"`
	RetryBaseMs           int    `toml:"retry_base_ms"`
	MaxRetries            uint64 `toml:"max_retries"`
}

// EventsConfig параметры шины событий
type EventsConfig struct {
	Buffer      int    `toml:"buffer"`
	RetryBaseMs int    `toml:"retry_base_ms"`
	MaxRetries  uint64 `toml:"max_retries"`
}

// CORSConfig параметры CORS для фронтенда
type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
	MaxAge         int      `toml:"max_age"`
}

// NotificationsConfig каналы уведомлений
type NotificationsConfig struct {
	Console  bool           `toml:"console"`
	SendGrid SendGridConfig `toml:"sendgrid"`
	Twilio   TwilioConfig   `toml:"twilio"`
	Telegram TelegramConfig `toml:"telegram"`
}

// SendGridConfig канал email
type SendGridConfig struct {
	Enabled   bool   `toml:"enabled"`
	APIKey    string `toml:"api_key"`
	Host      string `toml:"host"`
	FromName  string `toml:"from_name"`
	FromEmail string `toml:"from_email"`
}

// TwilioConfig канал SMS
type TwilioConfig struct {
	Enabled    bool   `toml:"enabled"`
	BaseURL    string `toml:"base_url"`
	AccountSID string `toml:"account_sid"`
	AuthToken  string `toml:"auth_token"`
	From       string `toml:"from"`
	Timeout    int    `toml:"timeout"`
}

// TelegramConfig канал Telegram
type TelegramConfig struct {
	Enabled   bool   `toml:"enabled"`
	Token     string `toml:"token"`
	ServerURL string `toml:"server_url"`
}

// ServiceClientConfig внешний HTTP сервис, таймаут в секундах
type ServiceClientConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// Load читает .env (если есть), TOML файл и переменные окружения
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("SENDGRID_API_KEY"); v != "" {
		c.Notifications.SendGrid.APIKey = v
	}
	if v := os.Getenv("TWILIO_AUTH_TOKEN"); v != "" {
		c.Notifications.Twilio.AuthToken = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Notifications.Telegram.Token = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: HTTP_PORT must be a number, got %q", v)
		}
		c.Server.HTTPPort = port
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15
	}

	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Logs.Format == "" {
		c.Logs.Format = "json"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "makeup-credits"
	}

	if c.Scheduler.IntervalMinutes == 0 {
		c.Scheduler.IntervalMinutes = 24 * 60
	}
	if c.Scheduler.Workers == 0 {
		c.Scheduler.Workers = 4
	}
	if c.Scheduler.BatchSize == 0 {
		c.Scheduler.BatchSize = 500
	}

	if c.Booking.AvailabilityTimeoutMs == 0 {
		c.Booking.AvailabilityTimeoutMs = 5000
	}
	if c.Booking.RetryBaseMs == 0 {
		c.Booking.RetryBaseMs = 50
	}
	if c.Booking.MaxRetries == 0 {
		c.Booking.MaxRetries = 3
	}

	if c.Events.Buffer == 0 {
		c.Events.Buffer = 64
	}
	if c.Events.RetryBaseMs == 0 {
		c.Events.RetryBaseMs = 100
	}
	if c.Events.MaxRetries == 0 {
		c.Events.MaxRetries = 3
	}

	if c.CORS.MaxAge == 0 {
		c.CORS.MaxAge = 300
	}

	if c.Notifications.SendGrid.Host == "" {
		c.Notifications.SendGrid.Host = "https://api.sendgrid.com"
	}
	if c.Notifications.Twilio.BaseURL == "" {
		c.Notifications.Twilio.BaseURL = "https://api.twilio.com"
	}
	if c.Notifications.Twilio.Timeout == 0 {
		c.Notifications.Twilio.Timeout = 10
	}

	if c.StudentService.Timeout == 0 {
		c.StudentService.Timeout = 5
	}
	if c.LessonService.Timeout == 0 {
		c.LessonService.Timeout = 5
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	var problems []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		problems = append(problems, fmt.Sprintf("server.http_port out of range: %d", c.Server.HTTPPort))
	}

	switch c.Database.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			problems = append(problems, "database.host and database.dbname are required for postgres")
		}
	default:
		problems = append(problems, fmt.Sprintf("database.driver must be %q or %q, got %q", DriverPostgres, DriverMemory, c.Database.Driver))
	}

	if c.Scheduler.Workers < 1 {
		problems = append(problems, "scheduler.workers must be positive")
	}
	if c.Scheduler.BatchSize < 1 {
		problems = append(problems, "scheduler.batch_size must be positive")
	}

	sg := c.Notifications.SendGrid
	if sg.Enabled && (sg.APIKey == "" || sg.FromEmail == "") {
		problems = append(problems, "notifications.sendgrid requires api_key and from_email")
	}
	tw := c.Notifications.Twilio
	if tw.Enabled && (tw.AccountSID == "" || tw.AuthToken == "" || tw.From == "") {
		problems = append(problems, "notifications.twilio requires account_sid, auth_token and from")
	}
	if c.Notifications.Telegram.Enabled && c.Notifications.Telegram.Token == "" {
		problems = append(problems, "notifications.telegram requires token")
	}
	if !sg.Enabled && !c.Notifications.Console {
		problems = append(problems, "an email channel is required: enable notifications.sendgrid or notifications.console")
	}

	if c.StudentService.URL == "" {
		problems = append(problems, "student_service.url is required")
	}
	if c.LessonService.URL == "" {
		problems = append(problems, "lesson_service.url is required")
	}

	if len(problems) > 0 {
		return fmt.Errorf("config: invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
