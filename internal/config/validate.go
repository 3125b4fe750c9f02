package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateComposer(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	if c.Storage.Backend == StorageLocal && strings.TrimSpace(c.Paths.WorkspaceDir) == "" {
		return errors.New("paths.workspace_dir must be set when storage.backend is local")
	}
	return nil
}

func (c *Config) validateComposer() error {
	if c.Composer.MaxConcurrent <= 0 {
		return errors.New("composer.max_concurrent must be positive")
	}
	if c.Composer.PollIntervalMS <= 0 {
		return errors.New("composer.poll_interval_ms must be positive")
	}
	seen := make(map[string]struct{}, len(c.Composer.Profiles))
	for i, profile := range c.Composer.Profiles {
		if profile.ID == "" {
			return fmt.Errorf("composer.profiles[%d].id must be set", i)
		}
		if _, dup := seen[profile.ID]; dup {
			return fmt.Errorf("composer.profiles[%d].id %q is declared twice", i, profile.ID)
		}
		seen[profile.ID] = struct{}{}
		if profile.Inputs < 1 || profile.Inputs > 2 {
			return fmt.Errorf("composer.profiles[%d].inputs must be 1 or 2", i)
		}
		if len(profile.Args) == 0 {
			return fmt.Errorf("composer.profiles[%d].args must not be empty", i)
		}
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case StorageLocal:
		return nil
	case StorageS3:
		if c.Storage.S3.Bucket == "" {
			return errors.New("storage.s3.bucket must be set when storage.backend is s3")
		}
		if c.Storage.S3.AccessKey == "" || c.Storage.S3.SecretKey == "" {
			return errors.New("storage.s3.access_key and storage.s3.secret_key must be set (or AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY)")
		}
		return nil
	case StorageGCS:
		if c.Storage.GCS.Bucket == "" {
			return errors.New("storage.gcs.bucket must be set when storage.backend is gcs")
		}
		return nil
	default:
		return fmt.Errorf("storage.backend: unsupported value %q (expected local, s3 or gcs)", c.Storage.Backend)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
