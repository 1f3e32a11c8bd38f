package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port                  int `yaml:"port"`
		RequestTimeoutSeconds int `yaml:"requestTimeoutSeconds"`
	} `yaml:"server"`

	Database struct {
		Driver   string `yaml:"driver"` // mysql | postgres
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslmode"`
	} `yaml:"database"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	Redis struct {
		Enabled    bool   `yaml:"enabled"`
		Addr       string `yaml:"addr"`
		Password   string `yaml:"password"`
		DB         int    `yaml:"db"`
		TTLMinutes int    `yaml:"ttlMinutes"`
	} `yaml:"redis"`

	OpenAI struct {
		APIKey          string `yaml:"apiKey"`
		Model           string `yaml:"model"`
		TranscribeModel string `yaml:"transcribeModel"`
		TimeoutSeconds  int    `yaml:"timeoutSeconds"`
		MaxConcurrent   int    `yaml:"maxConcurrent"`
	} `yaml:"openai"`

	Media struct {
		FFmpegPath          string `yaml:"ffmpegPath"`
		FFprobePath         string `yaml:"ffprobePath"`
		FetchTimeoutSeconds int    `yaml:"fetchTimeoutSeconds"`
		FetchRetries        int    `yaml:"fetchRetries"`
		MaxPayloadMB        int    `yaml:"maxPayloadMB"`
		WorkerLimit         int    `yaml:"workerLimit"`
	} `yaml:"media"`
}

// Load reads the yaml config file; secrets fall back to env vars.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.OpenAI.APIKey == "" {
		cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.RequestTimeoutSeconds == 0 {
		c.Server.RequestTimeoutSeconds = 300
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o"
	}
	if c.OpenAI.TranscribeModel == "" {
		c.OpenAI.TranscribeModel = "whisper-1"
	}
	if c.OpenAI.TimeoutSeconds == 0 {
		c.OpenAI.TimeoutSeconds = 120
	}
	if c.OpenAI.MaxConcurrent == 0 {
		c.OpenAI.MaxConcurrent = 4
	}
	if c.Media.FFmpegPath == "" {
		c.Media.FFmpegPath = "ffmpeg"
	}
	if c.Media.FFprobePath == "" {
		c.Media.FFprobePath = "ffprobe"
	}
	if c.Media.FetchTimeoutSeconds == 0 {
		c.Media.FetchTimeoutSeconds = 30
	}
	if c.Media.FetchRetries == 0 {
		c.Media.FetchRetries = 2
	}
	if c.Media.MaxPayloadMB == 0 {
		c.Media.MaxPayloadMB = 15
	}
	if c.Media.WorkerLimit == 0 {
		c.Media.WorkerLimit = 8
	}
	if c.Redis.TTLMinutes == 0 {
		c.Redis.TTLMinutes = 60
	}
}

// MySQLDSN builds the DSN for the mysql driver.
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// PostgresDSN builds the DSN for lib/pq.
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
