package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// APIKeyEnv переменная окружения, переопределяющая booking_api.api_key
const APIKeyEnv = "STRIKE_BOOKING_API_KEY"

var (
	// ErrInvalidConfig возвращается, когда обязательные параметры не заданы
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Logs       LogsConfig       `toml:"logs"`
	Metrics    MetricsConfig    `toml:"metrics"`
	BookingAPI BookingAPIConfig `toml:"booking_api"`
	Session    SessionConfig    `toml:"session"`
	Events     EventsConfig     `toml:"events"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// BookingAPIConfig параметры внешнего сервиса бронирования
type BookingAPIConfig struct {
	URL     string `toml:"url"`
	APIKey  string `toml:"api_key"`
	Timeout int    `toml:"timeout"` // секунды
}

// SessionConfig параметры cookie сессии (аналог вкладки браузера)
type SessionConfig struct {
	CookieName    string `toml:"cookie_name"`
	Secure        bool   `toml:"secure"`
	TTL           int    `toml:"ttl"`            // секунды, срок жизни черновика и состояния навигации в памяти
	SweepInterval int    `toml:"sweep_interval"` // секунды
}

// EventsConfig публикация событий о подтверждённых бронированиях
type EventsConfig struct {
	Enabled     bool   `toml:"enabled"`
	RabbitMQURL string `toml:"rabbitmq_url"`
	Exchange    string `toml:"exchange"`
}

// DSN формирует строку подключения к Postgres
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// Load загружает конфигурацию из TOML-файла
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if key := os.Getenv(APIKeyEnv); key != "" {
		cfg.BookingAPI.APIKey = key
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("%w: server.http_port must be positive", ErrInvalidConfig)
	}
	if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
		return fmt.Errorf("%w: database host, dbname and user are required", ErrInvalidConfig)
	}
	if c.BookingAPI.URL == "" {
		return fmt.Errorf("%w: booking_api.url is required", ErrInvalidConfig)
	}
	if c.BookingAPI.APIKey == "" {
		return fmt.Errorf("%w: booking_api.api_key is required (or %s)", ErrInvalidConfig, APIKeyEnv)
	}
	if c.Session.TTL <= 0 || c.Session.SweepInterval <= 0 {
		return fmt.Errorf("%w: session.ttl and session.sweep_interval must be positive", ErrInvalidConfig)
	}
	if c.Events.Enabled && c.Events.RabbitMQURL == "" {
		return fmt.Errorf("%w: events.rabbitmq_url is required when events are enabled", ErrInvalidConfig)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "strike-booking",
		},
		BookingAPI: BookingAPIConfig{
			Timeout: 10,
		},
		Session: SessionConfig{
			CookieName:    "strike_session",
			TTL:           1800,
			SweepInterval: 60,
		},
		Events: EventsConfig{
			Exchange: "strike.bookings",
		},
	}
}
