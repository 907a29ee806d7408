package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type ReferralConfig struct {
	Env          string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer   `yaml:"http_server"`
	ReferralDB   `yaml:"referral_db"`
	LogConfig    `yaml:"log_config"`
	KafkaService `yaml:"kafka-service"`
	Referral     `yaml:"referral"`
	Reconciler   `yaml:"reconciler"`
	Alerting     `yaml:"alerting"`
}

type HTTPServer struct {
	Host            string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	RequestTimeout  time.Duration `yaml:"request_timeout" env-default:"15s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
}

type ReferralDB struct {
	// Driver is postgres or memory
	Driver         string `yaml:"driver" env:"DB_DRIVER" env-default:"postgres"`
	Dsn            string `yaml:"dsn" env:"DB_DSN"`
	MigrationsPath string `yaml:"migrations_path" env-default:"migrations"`
	MaxOpenConns   int    `yaml:"max_open_conns" env-default:"20"`
	MaxIdleConns   int    `yaml:"max_idle_conns" env-default:"5"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env-default:"json"`
	LogOutput string `yaml:"log_output" env-default:"stdout"`
}

type KafkaService struct {
	Enabled bool   `yaml:"enabled" env:"KAFKA_ENABLED"`
	Host    string `yaml:"host" env:"KAFKA_HOST"`
	Port    string `yaml:"port" env:"KAFKA_PORT"`
	Topic   string `yaml:"topic" env-default:"referral-events"`
}

type Referral struct {
	RootAddress      string `yaml:"root_address" env:"ROOT_ADDRESS" env-default:"0xA841371376190547E54c8Fa72B0e684191E756c7"`
	DefaultTreeDepth int    `yaml:"default_tree_depth" env-default:"3"`
	MaxTreeDepth     int    `yaml:"max_tree_depth" env-default:"10"`
}

type Reconciler struct {
	// Enabled is false unless the file or RECONCILER_ENABLED sets it
	Enabled   bool          `yaml:"enabled" env:"RECONCILER_ENABLED"`
	CronSpec  string        `yaml:"cron_spec" env-default:"*/30 * * * * *"`
	Workers   int           `yaml:"workers" env-default:"4"`
	BatchSize int           `yaml:"batch_size" env-default:"100"`
	Timeout   time.Duration `yaml:"timeout" env-default:"25s"`
}

type Alerting struct {
	// WebhookURL receives inconsistency alerts; empty disables alerting
	WebhookURL string        `yaml:"webhook_url" env:"ALERT_WEBHOOK_URL"`
	Timeout    time.Duration `yaml:"timeout" env-default:"5s"`
}

// Load reads the YAML file at path and applies env overrides.
func Load(path string) (*ReferralConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	var cfg ReferralConfig
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if cfg.ReferralDB.Driver == "postgres" && cfg.ReferralDB.Dsn == "" {
		return nil, fmt.Errorf("referral_db.dsn is required for the postgres driver")
	}

	return &cfg, nil
}

func MustLoad() *ReferralConfig {
	// Processing env config variable and file
	configPath := os.Getenv("REFERRAL_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("REFERRAL_CONFIG_PATH was not found\n")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("%v\n", err)
	}

	return cfg
}
