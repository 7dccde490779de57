package database

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	AppDirName        = ".world-travel-router"
	SQLiteDBFileName  = "data.db"
	JSONStoreFileName = "journeys.json"
	ConfigFileName    = "config.yaml"
)

// GetAppDir returns ~/.world-travel-router, creating it if needed
func GetAppDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	appDir := filepath.Join(homeDir, AppDirName)
	if err := os.MkdirAll(appDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create app directory: %w", err)
	}

	return appDir, nil
}

// GetDefaultDBPath returns the default SQLite database path: ~/.world-travel-router/data.db
func GetDefaultDBPath() (string, error) {
	appDir, err := GetAppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(appDir, SQLiteDBFileName), nil
}

// GetConfigFilePath returns ~/.world-travel-router/config.yaml
func GetConfigFilePath() (string, error) {
	appDir, err := GetAppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(appDir, ConfigFileName), nil
}

// GetJSONStorePath returns the JSON data file used by the command line tool: ~/.world-travel-router/journeys.json
func GetJSONStorePath() (string, error) {
	appDir, err := GetAppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(appDir, JSONStoreFileName), nil
}
