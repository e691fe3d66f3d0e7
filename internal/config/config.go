// Package config provides configuration management for DrivePort.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/driveport/driveport/internal/constants"
)

// Config is the single configuration source for the CLI and any embedding
// application.
//
// Config file location:
//   - Unix: ~/.config/driveport/config
//   - Windows: %USERPROFILE%\.config\driveport\config
//
// INI format:
//
//	[platform]
//	endpoint_url = https://cloud.example.com/v1
//	project_id = drive-prod
//	api_key = <session-secret-or-api-key>
//	database_id = drive
//	files_collection_id = files
//	folders_collection_id = folders
//	bucket_id = uploads
//	token_endpoint = /account/tokens/storage
//
//	[uploads]
//	max_concurrent = 6
//
//	[search]
//	debounce_ms = 300
//	limit = 12
type Config struct {
	Platform PlatformConfig
	Uploads  UploadConfig
	Search   SearchConfig
}

// PlatformConfig holds connection settings for the backing platform.
type PlatformConfig struct {
	// EndpointURL is the platform API base URL, including the version prefix.
	EndpointURL string `ini:"endpoint_url"`

	// ProjectID scopes every request to one project.
	ProjectID string `ini:"project_id"`

	// APIKey authenticates document-store and account requests.
	APIKey string `ini:"api_key"`

	// DatabaseID is the document database holding the collections below.
	DatabaseID string `ini:"database_id"`

	// FilesCollectionID and FoldersCollectionID name the two collections the
	// core reads and writes.
	FilesCollectionID   string `ini:"files_collection_id"`
	FoldersCollectionID string `ini:"folders_collection_id"`

	// BucketID is the storage bucket receiving uploaded blobs.
	BucketID string `ini:"bucket_id"`

	// TokenEndpoint is the same-origin path minting short-lived storage
	// tokens for direct uploads. Relative paths resolve against EndpointURL.
	TokenEndpoint string `ini:"token_endpoint"`

	// Proxy settings. Empty values fall back to HTTP_PROXY/HTTPS_PROXY/
	// NO_PROXY environment variables.
	ProxyURL string `ini:"proxy_url"`
	NoProxy  string `ini:"no_proxy"`
}

// UploadConfig tunes the upload manager.
type UploadConfig struct {
	// MaxConcurrent caps simultaneously running transfers. 0 removes the cap.
	MaxConcurrent int `ini:"max_concurrent"`
}

// SearchConfig tunes the search coordinator.
type SearchConfig struct {
	// DebounceMs is the quiet period after the last keystroke.
	DebounceMs int `ini:"debounce_ms"`

	// Limit is the default number of hits returned.
	Limit int `ini:"limit"`
}

// Validation errors
var (
	ErrMissingEndpoint  = errors.New("endpoint_url is required")
	ErrMissingProjectID = errors.New("project_id is required")
	ErrMissingAPIKey    = errors.New("api_key is required")
	ErrMissingDatabase  = errors.New("database_id is required")
	ErrMissingBucket    = errors.New("bucket_id is required")
)

// DefaultConfig returns a config with sensible defaults applied. Connection
// settings still have to be filled in by the user.
func DefaultConfig() *Config {
	return &Config{
		Platform: PlatformConfig{
			DatabaseID:          "drive",
			FilesCollectionID:   "files",
			FoldersCollectionID: "folders",
			BucketID:            "uploads",
			TokenEndpoint:       "/account/tokens/storage",
		},
		Uploads: UploadConfig{
			MaxConcurrent: constants.DefaultMaxConcurrentUploads,
		},
		Search: SearchConfig{
			DebounceMs: int(constants.SearchDebounce.Milliseconds()),
			Limit:      constants.DefaultSearchLimit,
		},
	}
}

// DefaultConfigPath returns the default path for the config file.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "driveport", "config"), nil
}

// Load reads the config from path, layering file values over defaults and
// environment variables over the file. Missing files yield defaults plus
// environment, not an error, so first-run flows can prompt for the rest.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		file, err := ini.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		if err := file.Section("platform").MapTo(&cfg.Platform); err != nil {
			return nil, fmt.Errorf("failed to map platform section: %w", err)
		}
		if err := file.Section("uploads").MapTo(&cfg.Uploads); err != nil {
			return nil, fmt.Errorf("failed to map uploads section: %w", err)
		}
		if err := file.Section("search").MapTo(&cfg.Search); err != nil {
			return nil, fmt.Errorf("failed to map search section: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides layers environment variables over file values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DRIVEPORT_ENDPOINT_URL"); v != "" {
		cfg.Platform.EndpointURL = v
	}
	if v := os.Getenv("DRIVEPORT_PROJECT_ID"); v != "" {
		cfg.Platform.ProjectID = v
	}
	if v := os.Getenv("DRIVEPORT_API_KEY"); v != "" {
		cfg.Platform.APIKey = v
	}
}

// Save writes the config to path in INI format, creating parent directories
// with owner-only permissions. The file holds a credential, hence 0600.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file := ini.Empty()
	if err := file.Section("platform").ReflectFrom(&c.Platform); err != nil {
		return fmt.Errorf("failed to encode platform section: %w", err)
	}
	if err := file.Section("uploads").ReflectFrom(&c.Uploads); err != nil {
		return fmt.Errorf("failed to encode uploads section: %w", err)
	}
	if err := file.Section("search").ReflectFrom(&c.Search); err != nil {
		return fmt.Errorf("failed to encode search section: %w", err)
	}

	tmp := path + ".tmp"
	if err := file.SaveTo(tmp); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Chmod(tmp, 0600); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to set config permissions: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace config: %w", err)
	}
	return nil
}

// Validate checks that the connection settings required by every command are
// present.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Platform.EndpointURL) == "" {
		return ErrMissingEndpoint
	}
	if strings.TrimSpace(c.Platform.ProjectID) == "" {
		return ErrMissingProjectID
	}
	if strings.TrimSpace(c.Platform.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if strings.TrimSpace(c.Platform.DatabaseID) == "" {
		return ErrMissingDatabase
	}
	if strings.TrimSpace(c.Platform.BucketID) == "" {
		return ErrMissingBucket
	}
	return nil
}
