package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	// Database.Driver: memory | mysql | postgres
	Database struct {
		Driver   string `yaml:"driver"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	Minio struct {
		Endpoint      string `yaml:"endpoint"`
		AccessKey     string `yaml:"accessKey"`
		SecretKey     string `yaml:"secretKey"`
		ScanBucket    string `yaml:"scanBucket"`
		HeatmapBucket string `yaml:"heatmapBucket"`
		Region        string `yaml:"region"`
		UseSSL        bool   `yaml:"useSSL"`
		SignedURLTTL  int    `yaml:"signedUrlTtlSeconds"`
	} `yaml:"minio"`

	// Inference.Mode: stub | http | openai
	Inference struct {
		Mode     string `yaml:"mode"`
		Endpoint string `yaml:"endpoint"`
		APIKey   string `yaml:"apiKey"`
		Model    string `yaml:"model"`
	} `yaml:"inference"`

	// Explainer.Mode: stub | http
	Explainer struct {
		Mode     string `yaml:"mode"`
		Endpoint string `yaml:"endpoint"`
	} `yaml:"explainer"`
}

// Load baca file config.yaml, then lets the environment override secrets
// so credentials stay out of the file.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		cfg.Minio.AccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		cfg.Minio.SecretKey = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("INFERENCE_API_KEY"); v != "" {
		cfg.Inference.APIKey = v
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "memory"
	}
	if c.Minio.ScanBucket == "" {
		c.Minio.ScanBucket = "mri-scans"
	}
	if c.Minio.HeatmapBucket == "" {
		c.Minio.HeatmapBucket = "gradcam"
	}
	if c.Minio.SignedURLTTL == 0 {
		c.Minio.SignedURLTTL = 3600
	}
	if c.Inference.Mode == "" {
		c.Inference.Mode = "stub"
	}
	if c.Explainer.Mode == "" {
		c.Explainer.Mode = "stub"
	}
}

// SignedURLTTL as a duration.
func (c *Config) SignedURLTTL() time.Duration {
	return time.Duration(c.Minio.SignedURLTTL) * time.Second
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// Helper untuk build DSN Postgres
func (c *Config) PostgresDSN() string {
	ssl := c.Database.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		ssl,
	)
}
