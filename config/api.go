package config

import (
	"fmt"
	"time"
)

// APIConfig holds settings for the books API server.
type APIConfig struct {
	Addr            string
	DataFile        string
	APIKey          string
	CORSOrigins     []string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	Verbose         bool
}

// DefaultAPIConfig returns the defaults used by cmd/api.
func DefaultAPIConfig() *APIConfig {
	return &APIConfig{
		Addr:            ":8000",
		DataFile:        "data/books_with_country.json",
		CORSOrigins:     []string{"*"},
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Validate ensures the API settings are usable.
func (c *APIConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("listen address cannot be empty")
	}
	if c.DataFile == "" {
		return fmt.Errorf("data file cannot be empty")
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 {
		return fmt.Errorf("read and write timeouts must be positive")
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown timeout cannot be negative")
	}
	return nil
}
