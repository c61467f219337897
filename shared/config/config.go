package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AI         AIConfig         `yaml:"ai"`
	Segmenter  SegmenterConfig  `yaml:"segmenter"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Storage    StorageConfig    `yaml:"storage"`
	Email      EmailConfig      `yaml:"email"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Schedule   string           `yaml:"schedule"`
}

type AIConfig struct {
	GeminiAPIKey   string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	Model          string `yaml:"model"`
	FallbackModel  string `yaml:"fallback_model"`
	MaxRetries     int    `yaml:"max_retries"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Enabled reports whether the AI pipeline can run at all. Without a key
// the engine still works end to end on the heuristic segmentation path.
func (a *AIConfig) Enabled() bool {
	return a.GeminiAPIKey != ""
}

type SegmenterConfig struct {
	// SectionHeaders are literal phrases treated as section boundaries
	// when no explicit slide markers exist in the script.
	SectionHeaders    []string `yaml:"section_headers"`
	MinSectionChars   int      `yaml:"min_section_chars"`
	MinSplitChars     int      `yaml:"min_split_chars"`
	MaxRebalanceDepth int      `yaml:"max_rebalance_depth"`
}

type PipelineConfig struct {
	BatchSize          int `yaml:"batch_size"`
	BatchDelaySeconds  int `yaml:"batch_delay_seconds"`
	ReviewConfidence   int `yaml:"review_confidence"`
	FallbackConfidence int `yaml:"fallback_confidence"`
	MaxImageBytes      int `yaml:"max_image_bytes"`
}

type StorageConfig struct {
	DataDir       string `yaml:"data_dir"`
	JobMaxAgeDays int    `yaml:"job_max_age_days"`
}

type EmailConfig struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username" env:"EMAIL_USERNAME"`
	Password   string `yaml:"password" env:"EMAIL_PASSWORD"`
	FromEmail  string `yaml:"from_email"`
	ToEmail    string `yaml:"to_email"`
}

// Enabled reports whether report delivery is configured. Email is
// optional; alignment results are always persisted regardless.
func (e *EmailConfig) Enabled() bool {
	return e.ToEmail != ""
}

type MonitoringConfig struct {
	HealthPort int `yaml:"health_port"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	var cfg Config
	data, err := os.ReadFile(configFile)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		// No config file is fine, env vars and defaults cover everything
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
	}

	if cfg.AI.GeminiAPIKey == "" {
		cfg.AI.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Email.Username == "" {
		cfg.Email.Username = os.Getenv("EMAIL_USERNAME")
	}
	if cfg.Email.Password == "" {
		cfg.Email.Password = os.Getenv("EMAIL_PASSWORD")
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.AI.Model == "" {
		c.AI.Model = "gemini-2.5-flash"
	}
	if c.AI.FallbackModel == "" {
		c.AI.FallbackModel = "gemini-2.0-flash"
	}
	if c.AI.MaxRetries == 0 {
		c.AI.MaxRetries = 3
	}
	if c.AI.TimeoutSeconds == 0 {
		c.AI.TimeoutSeconds = 30
	}
	if len(c.Segmenter.SectionHeaders) == 0 {
		c.Segmenter.SectionHeaders = []string{
			"Introduction",
			"Agenda",
			"Overview",
			"Background",
			"Conclusion",
			"Summary",
			"Questions",
			"Thank you",
		}
	}
	if c.Segmenter.MinSectionChars == 0 {
		c.Segmenter.MinSectionChars = 20
	}
	if c.Segmenter.MinSplitChars == 0 {
		c.Segmenter.MinSplitChars = 50
	}
	if c.Segmenter.MaxRebalanceDepth == 0 {
		c.Segmenter.MaxRebalanceDepth = 10
	}
	if c.Pipeline.BatchSize == 0 {
		c.Pipeline.BatchSize = 3
	}
	if c.Pipeline.BatchDelaySeconds == 0 {
		c.Pipeline.BatchDelaySeconds = 2
	}
	if c.Pipeline.ReviewConfidence == 0 {
		c.Pipeline.ReviewConfidence = 50
	}
	if c.Pipeline.FallbackConfidence == 0 {
		c.Pipeline.FallbackConfidence = 70
	}
	if c.Pipeline.MaxImageBytes == 0 {
		c.Pipeline.MaxImageBytes = 5_000_000
	}
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = "data"
	}
	if c.Storage.JobMaxAgeDays == 0 {
		c.Storage.JobMaxAgeDays = 7
	}
	if c.Monitoring.HealthPort == 0 {
		c.Monitoring.HealthPort = 8080
	}
	if c.Schedule == "" {
		c.Schedule = "0 * * * * *" // Poll for pending jobs every minute
	}
}

func (c *Config) validate() error {
	if c.Email.Enabled() {
		if c.Email.Username == "" {
			return fmt.Errorf("email username is required when email delivery is configured (set EMAIL_USERNAME or email.username)")
		}
		if c.Email.Password == "" {
			return fmt.Errorf("email password is required when email delivery is configured (set EMAIL_PASSWORD or email.password)")
		}
		if c.Email.SMTPServer == "" {
			return fmt.Errorf("email smtp_server is required when email delivery is configured")
		}
	}
	if c.Pipeline.ReviewConfidence < 0 || c.Pipeline.ReviewConfidence > 100 {
		return fmt.Errorf("pipeline.review_confidence must be within [0, 100], got %d", c.Pipeline.ReviewConfidence)
	}
	if c.Pipeline.FallbackConfidence < 0 || c.Pipeline.FallbackConfidence > 100 {
		return fmt.Errorf("pipeline.fallback_confidence must be within [0, 100], got %d", c.Pipeline.FallbackConfidence)
	}
	return nil
}
