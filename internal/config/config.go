package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Storage struct {
		QuizzesFile     string `yaml:"quizzes_file"`
		LeaderboardFile string `yaml:"leaderboard_file"`
		CertificatesDir string `yaml:"certificates_dir"`
	} `yaml:"storage"`
	SMTP struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		From     string `yaml:"from"`
		Timeout  string `yaml:"timeout"`
	} `yaml:"smtp"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Catalog struct {
		TTL string `yaml:"ttl"`
	} `yaml:"catalog"`
}

// Load reads YAML config from path. The SMTP password can be supplied (or
// overridden) via SMTP_PASSWORD so credentials stay out of checked-in files.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if pw := os.Getenv("SMTP_PASSWORD"); pw != "" {
		cfg.SMTP.Password = pw
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Storage.QuizzesFile == "" {
		c.Storage.QuizzesFile = "quizzes.json"
	}
	if c.Storage.LeaderboardFile == "" {
		c.Storage.LeaderboardFile = "leaderboard.json"
	}
	if c.Storage.CertificatesDir == "" {
		c.Storage.CertificatesDir = "certificates"
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
