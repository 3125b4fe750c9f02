package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkspaceDir string `toml:"workspace_dir"`
	StateDir     string `toml:"state_dir"`
	LogDir       string `toml:"log_dir"`
}

// Profile declares an additional encoding profile for the local composer.
type Profile struct {
	ID          string   `toml:"id"`
	Description string   `toml:"description"`
	Inputs      int      `toml:"inputs"`
	Audio       bool     `toml:"audio"`
	Suffix      string   `toml:"suffix"`
	Args        []string `toml:"args"`
}

// Composer contains configuration for the local compute service.
type Composer struct {
	FFmpegBinary   string    `toml:"ffmpeg_binary"`
	OutputDir      string    `toml:"output_dir"`
	MaxConcurrent  int       `toml:"max_concurrent"`
	PollIntervalMS int       `toml:"poll_interval_ms"`
	Profiles       []Profile `toml:"profiles"`
}

// S3 contains credentials and target for the S3 storage backend.
type S3 struct {
	Bucket    string `toml:"bucket"`
	Region    string `toml:"region"`
	Prefix    string `toml:"prefix"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Endpoint  string `toml:"endpoint"`
}

// GCS contains configuration for the Google Cloud Storage backend.
type GCS struct {
	Bucket          string `toml:"bucket"`
	Prefix          string `toml:"prefix"`
	CredentialsFile string `toml:"credentials_file"`
}

// Storage selects where relocated tracks are kept.
type Storage struct {
	Backend string `toml:"backend"`
	S3      S3     `toml:"s3"`
	GCS     GCS    `toml:"gcs"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for trackmux.
//
// Configuration sections by subsystem:
//   - Paths: workspace, state (job database) and log directories
//   - Composer: local ffmpeg-backed compute service and extra profiles
//   - Storage: backend that receives relocated tracks (local, s3, gcs)
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Composer Composer `toml:"composer"`
	Storage  Storage  `toml:"storage"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/trackmux/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(expanded)
		if err == nil && !info.IsDir() {
			return expanded, true, nil
		}
		if err != nil && !os.IsNotExist(err) {
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, false, nil
	}

	defaultPath, err := expandPath("~/.config/trackmux/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("trackmux.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for CLI operation.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.StateDir, c.Paths.LogDir, c.Composer.OutputDir}
	if c.Storage.Backend == StorageLocal {
		dirs = append(dirs, c.Paths.WorkspaceDir)
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// JobsDBPath returns the location of the composer job database.
func (c *Config) JobsDBPath() string {
	return filepath.Join(c.Paths.StateDir, "jobs.db")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
