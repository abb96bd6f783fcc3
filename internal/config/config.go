package config

import (
	"time"

	"github.com/veritrust/classifier/internal/logging"
)

// Default configuration values.
const (
	defaultServiceName    = "classifier"
	defaultServiceVersion = "1.0.0"
	defaultServicePort    = 8070
	defaultCompletionURL  = "http://localhost:5001"
	defaultModel          = "mistral-7b-instruct-v0.2"
	defaultTemperature    = 0.3
	defaultMaxTokens      = 80
	defaultLLMTimeoutSec  = 30
	defaultLLMRPS         = 10
	defaultBreakerFails   = 5
	defaultBreakerReset   = 60 * time.Second
	defaultModelCommand   = "python3"
	defaultModelScript    = "predict_counterfeit.py"
	defaultModelTimeout   = 120 * time.Second
)

// Config holds all configuration for the classification service.
type Config struct {
	Service     ServiceConfig     `yaml:"service"`
	LLM         LLMConfig         `yaml:"llm"`
	Counterfeit CounterfeitConfig `yaml:"counterfeit"`
	Logging     logging.Config    `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `env:"CLASSIFIER_PORT" yaml:"port"`
	Debug   bool   `env:"APP_DEBUG"       yaml:"debug"`
}

// LLMConfig holds the text-completion endpoint configuration for
// review classification.
type LLMConfig struct {
	BaseURL     string        `env:"LLM_BASE_URL" yaml:"base_url"`
	Model       string        `env:"LLM_MODEL"    yaml:"model"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`

	// Outbound hardening. The external contract is unchanged: one
	// logical classification per request, bounded in time.
	RequestsPerSecond int           `yaml:"requests_per_second"`
	BreakerFailures   int           `yaml:"breaker_failures"`
	BreakerReset      time.Duration `yaml:"breaker_reset"`
}

// CounterfeitConfig holds the external counterfeit-model process
// configuration for product intake.
type CounterfeitConfig struct {
	Command string        `env:"COUNTERFEIT_COMMAND" yaml:"command"`
	Args    []string      `env:"COUNTERFEIT_ARGS"    yaml:"args"`
	Timeout time.Duration `yaml:"timeout"`
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := load(path, &cfg, setDefaults); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setLLMDefaults(&cfg.LLM)
	setCounterfeitDefaults(&cfg.Counterfeit)
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
}

func setLLMDefaults(l *LLMConfig) {
	if l.BaseURL == "" {
		l.BaseURL = defaultCompletionURL
	}
	if l.Model == "" {
		l.Model = defaultModel
	}
	if l.Temperature == 0 {
		l.Temperature = defaultTemperature
	}
	if l.MaxTokens == 0 {
		l.MaxTokens = defaultMaxTokens
	}
	if l.Timeout == 0 {
		l.Timeout = defaultLLMTimeoutSec * time.Second
	}
	if l.RequestsPerSecond == 0 {
		l.RequestsPerSecond = defaultLLMRPS
	}
	if l.BreakerFailures == 0 {
		l.BreakerFailures = defaultBreakerFails
	}
	if l.BreakerReset == 0 {
		l.BreakerReset = defaultBreakerReset
	}
}

func setCounterfeitDefaults(c *CounterfeitConfig) {
	if c.Command == "" {
		c.Command = defaultModelCommand
		if len(c.Args) == 0 {
			c.Args = []string{defaultModelScript}
		}
	}
	if c.Timeout == 0 {
		c.Timeout = defaultModelTimeout
	}
}
