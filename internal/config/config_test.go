package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"port": 9090,
		"database_url": "postgres://localhost/health",
		"image_backend": "rekognition",
		"aws_region": "us-east-1",
		"cors_origins": ["http://localhost:3000"],
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres://localhost/health", cfg.DatabaseURL)
	assert.Equal(t, BackendRekognition, cfg.ImageBackend)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.True(t, cfg.Verbose)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_Errors(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644))

	_, err := LoadConfig(tmpFile)
	assert.ErrorContains(t, err, "failed to parse config JSON")

	_, err = LoadConfig("/nonexistent/path/config.json")
	assert.ErrorContains(t, err, "failed to read config file")

	_, err = LoadConfig("")
	assert.ErrorContains(t, err, "config path is empty")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"defaults", Defaults(), ""},
		{"zero value", Config{}, ""},
		{"bad port", Config{Port: 70000}, "port"},
		{"gemini text without key", Config{TextBackend: BackendGemini}, "gemini_api_key"},
		{"gemini text with key", Config{TextBackend: BackendGemini, GeminiAPIKey: "k"}, ""},
		{"unknown text backend", Config{TextBackend: "oracle"}, "unknown text backend"},
		{"gemini image without key", Config{ImageBackend: BackendGemini}, "gemini_api_key"},
		{"rekognition without region", Config{ImageBackend: BackendRekognition}, "aws_region"},
		{"unknown image backend", Config{ImageBackend: "vision"}, "unknown image backend"},
		{"missing food table", Config{FoodTablePath: "/nonexistent/foods.json"}, "food table file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestConfig_ApplyEnv(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("DATABASE_URL", "postgres://env/health")
	t.Setenv("TEXT_BACKEND", BackendGemini)
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("GEMINI_IMAGE_MODEL", "gemini-2.5-pro")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,,")

	cfg := Config{Port: 8080, DatabaseURL: "postgres://file/health", AWSRegion: "eu-west-1", GeminiTextModel: "file-model"}
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "postgres://env/health", cfg.DatabaseURL)
	assert.Equal(t, BackendGemini, cfg.TextBackend)
	assert.Equal(t, "secret", cfg.GeminiAPIKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.GeminiImageModel)
	assert.Equal(t, "file-model", cfg.GeminiTextModel)
	assert.Equal(t, "eu-west-1", cfg.AWSRegion, "unset variables keep file values")
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestConfig_ApplyEnv_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "eighty")
	cfg := Config{}
	assert.ErrorContains(t, cfg.ApplyEnv(), "invalid PORT")
}

func TestConfig_MergeWithDefaults(t *testing.T) {
	cfg := Config{DatabaseURL: "postgres://mine"}
	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, 8080, merged.Port)
	assert.Equal(t, "postgres://mine", merged.DatabaseURL)
	assert.Equal(t, BackendHeuristic, merged.TextBackend)
	assert.Equal(t, BackendNone, merged.ImageBackend)
	assert.Equal(t, []string{"*"}, merged.CORSOrigins)
	assert.Empty(t, cfg.TextBackend, "receiver is not modified")
	assert.Empty(t, merged.GeminiTextModel)

	defaults := Defaults()
	defaults.GeminiImageModel = "default-image"
	cfg.GeminiTextModel = "mine-text"
	merged = cfg.MergeWithDefaults(defaults)
	assert.Equal(t, "mine-text", merged.GeminiTextModel)
	assert.Equal(t, "default-image", merged.GeminiImageModel)
}
