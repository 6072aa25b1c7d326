// ABOUTME: Centralized configuration for the SurrealDB memory adapter
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the storage adapter
type Config struct {
	// SurrealDB settings
	URL       string
	Namespace string
	Database  string
	Username  string
	Password  string

	// OpenAI settings (embeddings for the recall surfaces)
	OpenAIKey      string
	EmbeddingModel string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// Memory settings
	VectorDimension  int
	RecallCollection string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		URL:              getEnv("SURREAL_URL", "ws://localhost:8000/rpc"),
		Namespace:        getEnv("SURREAL_NAMESPACE", "mastra"),
		Database:         getEnv("SURREAL_DATABASE", "memory"),
		Username:         getEnv("SURREAL_USER", "root"),
		Password:         getEnv("SURREAL_PASS", "root"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		EmbeddingModel:   getEnv("MEMORY_EMBEDDING_MODEL", "text-embedding-3-small"),
		Timeout:          getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:       getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:       getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
		VectorDimension:  getEnvInt("VECTOR_DIMENSION", 1536),
		RecallCollection: getEnv("RECALL_COLLECTION", "memory_messages"),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("SURREAL_URL must not be empty")
	}
	if c.VectorDimension <= 0 {
		return fmt.Errorf("VECTOR_DIMENSION must be positive, got %d", c.VectorDimension)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
