package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Database struct {
		Host     string `yaml:"host"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		DBName   string `yaml:"dbname"`
		Port     string `yaml:"port"`
		SSLMode  string `yaml:"sslmode"`
	} `yaml:"database"`
	OpenAI struct {
		APIKey             string  `yaml:"api_key"`
		BaseURL            string  `yaml:"base_url"`
		Model              string  `yaml:"model"`
		TimeoutSeconds     int     `yaml:"timeout_seconds"`
		DecomposeMaxTokens uint32  `yaml:"decompose_max_tokens"`
		AnswerMaxTokens    uint32  `yaml:"answer_max_tokens"`
		Temperature        float32 `yaml:"temperature"`
	} `yaml:"openai"`
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Log struct {
		Mode string `yaml:"mode"` // "dev" or "prod"
	} `yaml:"log"`
}

// GlobalConfig is the global configuration instance
var GlobalConfig Config

// DSN generates the PostgreSQL DSN from database config
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Database.Host,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.Port,
		c.Database.SSLMode,
	)
}

// LoadConfig reads and parses the YAML configuration file into GlobalConfig
func LoadConfig(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, &GlobalConfig); err != nil {
		return err
	}

	applyDefaults(&GlobalConfig)
	return validate(&GlobalConfig)
}

func applyDefaults(c *Config) {
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4.1"
	}
	if c.OpenAI.TimeoutSeconds == 0 {
		c.OpenAI.TimeoutSeconds = 30
	}
	if c.OpenAI.DecomposeMaxTokens == 0 {
		c.OpenAI.DecomposeMaxTokens = 2000
	}
	if c.OpenAI.AnswerMaxTokens == 0 {
		c.OpenAI.AnswerMaxTokens = 800
	}
	if c.OpenAI.Temperature == 0 {
		c.OpenAI.Temperature = 0.7
	}
	if c.Log.Mode == "" {
		c.Log.Mode = "dev"
	}
}

func validate(c *Config) error {
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("database.password is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database.dbname is required")
	}
	if c.Database.Port == "" {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.SSLMode == "" {
		return fmt.Errorf("database.sslmode is required")
	}
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai.api_key is required")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	return nil
}
