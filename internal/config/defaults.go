package config

// Storage backends.
const (
	StorageLocal = "local"
	StorageS3    = "s3"
	StorageGCS   = "gcs"
)

const (
	defaultWorkspaceDir   = "~/.local/share/trackmux/workspace"
	defaultStateDir       = "~/.local/share/trackmux"
	defaultLogDir         = "~/.local/share/trackmux/logs"
	defaultComposerOutput = "~/.local/share/trackmux/composer"
	defaultFFmpegBinary   = "ffmpeg"
	defaultMaxConcurrent  = 2
	defaultPollIntervalMS = 250
	defaultStorageBackend = StorageLocal
	defaultS3Region       = "us-east-1"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultProfileInputs  = 1
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkspaceDir: defaultWorkspaceDir,
			StateDir:     defaultStateDir,
			LogDir:       defaultLogDir,
		},
		Composer: Composer{
			FFmpegBinary:   defaultFFmpegBinary,
			OutputDir:      defaultComposerOutput,
			MaxConcurrent:  defaultMaxConcurrent,
			PollIntervalMS: defaultPollIntervalMS,
		},
		Storage: Storage{
			Backend: defaultStorageBackend,
			S3: S3{
				Region: defaultS3Region,
			},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
