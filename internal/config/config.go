package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"progress-bot/internal/logger"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      logger.Config  `yaml:"log"`
	Slack    SlackConfig    `yaml:"slack"`
	Database DatabaseConfig `yaml:"database"`
	Delivery DeliveryConfig `yaml:"delivery"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type SlackConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	SuccessURL   string `yaml:"success_url"`
	ErrorURL     string `yaml:"error_url"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

type DeliveryConfig struct {
	Buffer  int `yaml:"buffer"`
	Workers int `yaml:"workers"`
}

func Load(configFile string) *Config {
	c := &Config{
		Server:   ServerConfig{Port: 8800},
		Log:      logger.Config{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
		Slack:    SlackConfig{SuccessURL: "https://progress.bot/success", ErrorURL: "https://progress.bot/error"},
		Database: DatabaseConfig{Host: "localhost", Port: 5432, Name: "progress", SSLMode: "disable"},
		Delivery: DeliveryConfig{Buffer: 64, Workers: 4},
	}

	paths := []string{"etc/config-dev.yaml", "/etc/progress-bot/config.yaml"}
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, c)
			break
		}
	}

	envOverride(&c.Slack.ClientID, "SLACK_CLIENT_ID")
	envOverride(&c.Slack.ClientSecret, "SLACK_CLIENT_SECRET")
	envOverride(&c.Database.Host, "PG_HOST")
	envOverride(&c.Database.User, "PG_USER")
	envOverride(&c.Database.Password, "PG_PASS")
	envOverride(&c.Database.Name, "PG_DB")
	envOverride(&c.Log.Level, "LOG_LEVEL")
	envOverride(&c.Log.File, "LOG_FILE")
	envOverrideInt(&c.Server.Port, "PORT")
	envOverrideInt(&c.Database.Port, "PG_PORT")

	return c
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password,
		c.Database.Name, c.Database.SSLMode)
}

func (c *Config) OpenGormDB() (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(c.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
