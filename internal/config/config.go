package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	EnvLocal      = "local"
	EnvProduction = "production"
)

type Config struct {
	Env        string  `yaml:"env" env:"APP_ENV" env-default:"local"`
	Debug      bool    `yaml:"debug" env:"APP_DEBUG"`
	BcryptCost int     `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"12"`
	Server     Server  `yaml:"server"`
	DB         DB      `yaml:"db"`
	Session    Session `yaml:"session"`
	Limiter    Limiter `yaml:"limiter"`
	SMTP       SMTP    `yaml:"smtp"`
	Admin      Admin   `yaml:"admin"`
	BgTasks    BgTasks `yaml:"bg_tasks"`
}

type Server struct {
	Port string `yaml:"port" env:"SERVER_PORT" env-default:"8000"`
	Host string `yaml:"host" env:"SERVER_HOST" env-default:"localhost"`

	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
}

type DB struct {
	Storage         string        `yaml:"storage" env:"DB_STORAGE" env-default:"postgres"`
	Dsn             string        `yaml:"dsn" env:"DB_DSN"`
	MaxConns        int           `yaml:"max_conns" env-default:"25"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env-default:"10m"`
}

type Session struct {
	Secret     string        `yaml:"secret" env:"SESSION_SECRET" env-required:"true"`
	TTL        time.Duration `yaml:"ttl" env-default:"24h"`
	CookieName string        `yaml:"cookie_name" env-default:"sid"`
	Store      string        `yaml:"store" env:"SESSION_STORE" env-default:"redis"`
	RedisURL   string        `yaml:"redis_url" env:"REDIS_URL" env-default:"localhost:6379"`
}

type Limiter struct {
	Enabled bool    `yaml:"enabled"`
	Rps     float64 `yaml:"rps" env-default:"20"`
	Burst   int     `yaml:"burst" env-default:"5"`
}

type SMTP struct {
	Host         string        `yaml:"host" env:"SMTP_HOST"`
	Port         int           `yaml:"port" env:"SMTP_PORT" env-default:"25"`
	Username     string        `yaml:"username" env:"SMTP_USERNAME"`
	Password     string        `yaml:"password" env:"SMTP_PASSWORD"`
	Sender       string        `yaml:"sender" env:"SMTP_SENDER" env-default:"Movie Library <no-reply@movielib.local>"`
	Timeout      time.Duration `yaml:"timeout" env-default:"5s"`
	RetriesCount int           `yaml:"retries_count" env-default:"3"`
}

// Admin describes the account ensured at startup. Bootstrap is skipped when
// Email or Password is empty.
type Admin struct {
	Email    string `yaml:"email" env:"ADMIN_EMAIL"`
	Username string `yaml:"username" env:"ADMIN_USERNAME" env-default:"admin"`
	Password string `yaml:"password" env:"ADMIN_PASSWORD"`
}

type BgTasks struct {
	Workers   int `yaml:"workers" env-default:"4"`
	QueueSize int `yaml:"queue_size" env-default:"100"`
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func (c *Config) validate() error {
	switch c.DB.Storage {
	case "postgres":
		if c.DB.Dsn == "" {
			return errors.New("db.dsn is required for postgres storage")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown db.storage %q", c.DB.Storage)
	}
	switch c.Session.Store {
	case "redis", "memory":
	default:
		return fmt.Errorf("unknown session.store %q", c.Session.Store)
	}
	if len(c.Session.Secret) < 32 {
		return errors.New("session.secret must be at least 32 bytes long")
	}
	return nil
}

// Load reads the yaml file at configPath, overridden by the environment.
// Variables from a .env file in the working directory are loaded first when
// it exists.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file %s not found", configPath)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(err)
	}
	return cfg
}
