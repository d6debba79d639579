package config

import (
	"os"
	"testing"
	"time"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		expected   string
	}{
		{"uses env value", "TEST_VAR_1", "hello", "default", "hello"},
		{"uses default when empty", "TEST_VAR_2", "", "default", "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"parses integer", "TEST_INT_1", "42", 10, 42},
		{"uses default for empty", "TEST_INT_2", "", 10, 10},
		{"uses default for non-numeric", "TEST_INT_3", "abc", 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvAsIntOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsDurationOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal time.Duration
		expected   time.Duration
	}{
		{"parses duration", "TEST_DUR_1", "10s", time.Minute, 10 * time.Second},
		{"uses default for empty", "TEST_DUR_2", "", time.Minute, time.Minute},
		{"uses default for garbage", "TEST_DUR_3", "soon", time.Minute, time.Minute},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvAsDurationOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, result)
			}
		})
	}
}

func TestHasGemini(t *testing.T) {
	cfg := &Config{}
	if cfg.HasGemini() {
		t.Error("Expected HasGemini to be false without an API key")
	}

	cfg.GeminiAPIKey = "test-key"
	if !cfg.HasGemini() {
		t.Error("Expected HasGemini to be true with an API key")
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "GEMINI_MODEL", "OLLAMA_HOST", "OLLAMA_MODEL", "OLLAMA_TIMEOUT"} {
		os.Unsetenv(key)
	}

	cfg := Load()

	if cfg.Port != "3001" {
		t.Errorf("Expected default port 3001, got %q", cfg.Port)
	}
	if cfg.GeminiModel != "gemini-1.5-flash-latest" {
		t.Errorf("Unexpected default Gemini model %q", cfg.GeminiModel)
	}
	if cfg.OllamaHost != "http://127.0.0.1:11434" {
		t.Errorf("Unexpected default Ollama host %q", cfg.OllamaHost)
	}
	if cfg.OllamaTimeout != 5*time.Second {
		t.Errorf("Expected 5s Ollama timeout, got %v", cfg.OllamaTimeout)
	}
}
