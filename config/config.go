package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Log      LogConfig      `yaml:"log"`
	Flight   FlightConfig   `yaml:"flight"`
	Store    StoreConfig    `yaml:"store"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Waitlist WaitlistConfig `yaml:"waitlist"`
	Admin    AdminConfig    `yaml:"admin"`
}

type HTTPConfig struct {
	Address    string `yaml:"address"`
	SwaggerDir string `yaml:"swagger_dir"`
	// Mode is the gin mode: debug, release or test.
	Mode string `yaml:"mode"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type FlightConfig struct {
	Number      string `yaml:"number"`
	Origin      string `yaml:"origin"`
	Destination string `yaml:"destination"`
	Departure   string `yaml:"departure"`
	Arrival     string `yaml:"arrival"`
}

const (
	StoreFile     = "file"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

type StoreConfig struct {
	Backend      string `yaml:"backend"`
	Path         string `yaml:"path"`
	RedisKey     string `yaml:"redis_key"`
	SnapshotName string `yaml:"snapshot_name"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// KafkaConfig leaves event publishing off when Brokers is empty.
type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingTopic       string   `yaml:"booking_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type WaitlistConfig struct {
	RequeueMismatched bool `yaml:"requeue_mismatched"`
}

type AdminConfig struct {
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	PasswordHash string `yaml:"password_hash"`
}

func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{Address: ":8080", Mode: "release"},
		Log:  LogConfig{Level: "info", Format: "text"},
		Flight: FlightConfig{
			Number:      "AI101",
			Origin:      "New York",
			Destination: "Los Angeles",
			Departure:   "10:00 AM",
			Arrival:     "1:30 PM",
		},
		Store: StoreConfig{
			Backend:      StoreFile,
			Path:         "bookings.txt",
			RedisKey:     "flightdesk:bookings",
			SnapshotName: "default",
		},
		Database: DatabaseConfig{Host: "localhost", Port: 5432, SSLMode: "disable"},
		Redis:    RedisConfig{Addr: "localhost:6379"},
		Kafka: KafkaConfig{
			BookingTopic:       "booking-events",
			NotificationsTopic: "booking-notifications",
			GroupID:            "flightdesk-notifier",
		},
	}
}

// LoadConfig reads the YAML file at path over the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreFile, StoreRedis, StorePostgres:
	default:
		return fmt.Errorf("invalid config: unknown store backend %q", c.Store.Backend)
	}
	if c.Store.Backend == StoreFile && c.Store.Path == "" {
		return fmt.Errorf("invalid config: store.path is required for the file backend")
	}
	if c.Admin.Password != "" && c.Admin.PasswordHash != "" {
		return fmt.Errorf("invalid config: set admin.password or admin.password_hash, not both")
	}
	return nil
}

// Path returns CONFIG_PATH or config.yaml.
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.yaml"
}
