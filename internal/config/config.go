// Package config provides configuration loading and validation for the
// server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Analysis backends.
const (
	BackendHeuristic   = "heuristic"
	BackendGemini      = "gemini"
	BackendRekognition = "rekognition"
	BackendNone        = "none"
)

// Config is the process configuration. It can be loaded from a JSON file,
// overlaid from the environment, and merged with Defaults.
type Config struct {
	Port          int      `json:"port,omitempty"`
	DatabaseURL   string   `json:"database_url,omitempty"`
	GeminiAPIKey  string   `json:"gemini_api_key,omitempty"`
	AWSRegion     string   `json:"aws_region,omitempty"`
	TextBackend   string   `json:"text_backend,omitempty"`  // heuristic | gemini
	ImageBackend  string   `json:"image_backend,omitempty"` // none | gemini | rekognition
	FoodTablePath string   `json:"food_table_path,omitempty"`
	CORSOrigins   []string `json:"cors_origins,omitempty"`
	Verbose       bool     `json:"verbose,omitempty"`

	// Model overrides for the Gemini text and image backends. Empty keeps the
	// built-in model for that tier.
	GeminiTextModel  string `json:"gemini_text_model,omitempty"`
	GeminiImageModel string `json:"gemini_image_model,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:         8080,
		TextBackend:  BackendHeuristic,
		ImageBackend: BackendNone,
		CORSOrigins:  []string{"*"},
	}
}

// LoadConfig loads configuration from a JSON file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overwrites fields with the environment variables that are set:
// PORT, DATABASE_URL, GEMINI_API_KEY, GEMINI_TEXT_MODEL, GEMINI_IMAGE_MODEL,
// AWS_REGION, TEXT_BACKEND, IMAGE_BACKEND, FOOD_TABLE_PATH and CORS_ORIGINS
// (comma separated).
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %v", err)
		}
		c.Port = port
	}

	strs := map[string]*string{
		"DATABASE_URL":       &c.DatabaseURL,
		"GEMINI_API_KEY":     &c.GeminiAPIKey,
		"GEMINI_TEXT_MODEL":  &c.GeminiTextModel,
		"GEMINI_IMAGE_MODEL": &c.GeminiImageModel,
		"AWS_REGION":         &c.AWSRegion,
		"TEXT_BACKEND":       &c.TextBackend,
		"IMAGE_BACKEND":      &c.ImageBackend,
		"FOOD_TABLE_PATH":    &c.FoodTablePath,
	}
	for key, field := range strs {
		if v := os.Getenv(key); v != "" {
			*field = v
		}
	}

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.CORSOrigins = origins
	}
	return nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}

	switch c.TextBackend {
	case "", BackendHeuristic:
	case BackendGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("config error: text backend %q requires 'gemini_api_key'", c.TextBackend)
		}
	default:
		return fmt.Errorf("config error: unknown text backend %q", c.TextBackend)
	}

	switch c.ImageBackend {
	case "", BackendNone:
	case BackendGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("config error: image backend %q requires 'gemini_api_key'", c.ImageBackend)
		}
	case BackendRekognition:
		if c.AWSRegion == "" {
			return fmt.Errorf("config error: image backend %q requires 'aws_region'", c.ImageBackend)
		}
	default:
		return fmt.Errorf("config error: unknown image backend %q", c.ImageBackend)
	}

	if c.FoodTablePath != "" {
		if _, err := os.Stat(c.FoodTablePath); os.IsNotExist(err) {
			return fmt.Errorf("config error: food table file not found: %s", c.FoodTablePath)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. Bools cannot be told apart from unset and are not merged.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.GeminiTextModel == "" {
		result.GeminiTextModel = defaults.GeminiTextModel
	}
	if result.GeminiImageModel == "" {
		result.GeminiImageModel = defaults.GeminiImageModel
	}
	if result.AWSRegion == "" {
		result.AWSRegion = defaults.AWSRegion
	}
	if result.TextBackend == "" {
		result.TextBackend = defaults.TextBackend
	}
	if result.ImageBackend == "" {
		result.ImageBackend = defaults.ImageBackend
	}
	if result.FoodTablePath == "" {
		result.FoodTablePath = defaults.FoodTablePath
	}
	if len(result.CORSOrigins) == 0 {
		result.CORSOrigins = defaults.CORSOrigins
	}

	return result
}
