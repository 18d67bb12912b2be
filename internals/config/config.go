package config

import (
	"flag"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Server struct {
		Host string `yaml:"host" env:"SERVER_HOST" env-default:"localhost"`
		Port int    `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	} `yaml:"server"`

	Database struct {
		SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"cafehub.db"`
	} `yaml:"database"`

	Session struct {
		SecretKey  string `yaml:"secret_key" env:"SESSION_SECRET_KEY"`
		CookieName string `yaml:"cookie_name" env-default:"cafehub_session"`
	} `yaml:"session"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
}

func MustLoad() *Config {
	configflag := flag.String("config", "", "Path to configuration file")
	flag.Parse()
	configPath := *configflag
	if configPath == "" {
		configPath = os.Getenv("CONFIG_PATH")
	}
	if configPath == "" {
		log.Fatal("Config Path is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("Config file does not exist: %s", configPath)
	}
	var cfg Config
	err := cleanenv.ReadConfig(configPath, &cfg)
	if err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}
	if cfg.Session.SecretKey == "" {
		log.Fatal("Session secret key is not set")
	}
	return &cfg
}
