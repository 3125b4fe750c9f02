package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeComposer(); err != nil {
		return err
	}
	c.normalizeStorage()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.WorkspaceDir, err = expandPath(c.Paths.WorkspaceDir); err != nil {
		return fmt.Errorf("paths.workspace_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeComposer() error {
	var err error
	c.Composer.FFmpegBinary = strings.TrimSpace(c.Composer.FFmpegBinary)
	if c.Composer.FFmpegBinary == "" {
		c.Composer.FFmpegBinary = defaultFFmpegBinary
	}
	if strings.TrimSpace(c.Composer.OutputDir) == "" {
		c.Composer.OutputDir = defaultComposerOutput
	}
	if c.Composer.OutputDir, err = expandPath(c.Composer.OutputDir); err != nil {
		return fmt.Errorf("composer.output_dir: %w", err)
	}
	for i := range c.Composer.Profiles {
		profile := &c.Composer.Profiles[i]
		profile.ID = strings.TrimSpace(profile.ID)
		profile.Suffix = strings.TrimSpace(profile.Suffix)
		if profile.Suffix != "" && !strings.HasPrefix(profile.Suffix, ".") {
			profile.Suffix = "." + profile.Suffix
		}
		if profile.Inputs == 0 {
			profile.Inputs = defaultProfileInputs
		}
	}
	return nil
}

func (c *Config) normalizeStorage() {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if c.Storage.Backend == "" {
		c.Storage.Backend = defaultStorageBackend
	}
	s3 := &c.Storage.S3
	s3.Bucket = strings.TrimSpace(s3.Bucket)
	s3.Region = strings.TrimSpace(s3.Region)
	if s3.Region == "" {
		if value, ok := os.LookupEnv("AWS_REGION"); ok && strings.TrimSpace(value) != "" {
			s3.Region = strings.TrimSpace(value)
		} else {
			s3.Region = defaultS3Region
		}
	}
	s3.Prefix = strings.Trim(strings.TrimSpace(s3.Prefix), "/")
	s3.Endpoint = strings.TrimSpace(s3.Endpoint)
	s3.AccessKey = strings.TrimSpace(s3.AccessKey)
	if s3.AccessKey == "" {
		if value, ok := os.LookupEnv("AWS_ACCESS_KEY_ID"); ok {
			s3.AccessKey = strings.TrimSpace(value)
		}
	}
	s3.SecretKey = strings.TrimSpace(s3.SecretKey)
	if s3.SecretKey == "" {
		if value, ok := os.LookupEnv("AWS_SECRET_ACCESS_KEY"); ok {
			s3.SecretKey = strings.TrimSpace(value)
		}
	}

	gcs := &c.Storage.GCS
	gcs.Bucket = strings.TrimSpace(gcs.Bucket)
	gcs.Prefix = strings.Trim(strings.TrimSpace(gcs.Prefix), "/")
	gcs.CredentialsFile = strings.TrimSpace(gcs.CredentialsFile)
	if gcs.CredentialsFile == "" {
		if value, ok := os.LookupEnv("GOOGLE_APPLICATION_CREDENTIALS"); ok {
			gcs.CredentialsFile = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
