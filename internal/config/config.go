// Package config loads the application configuration. Values come from
// defaults, an optional config.yaml, .env files and MIAMALA_* environment
// variables, in increasing order of precedence.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// envFiles are tried in order by LoadEnv.
var envFiles = []string{".env", filepath.Join("..", ".env")}

// LoadEnv loads the first .env file found in the current or parent
// directory. Variables already present in the environment are not
// overridden. It returns the file that was loaded, or "" when none was.
func LoadEnv() (string, error) {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return "", err
		}
		return f, nil
	}
	return "", nil
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
