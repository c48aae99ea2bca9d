package config

const (
	defaultLogDir              = "~/.local/share/mediasort/logs"
	defaultHistoryFile         = "history.db"
	defaultMode                = ModeMove
	defaultHashAlgorithm       = "sha256"
	defaultOnError             = OnErrorAbort
	defaultFFprobeBinary       = "ffprobe"
	defaultProbeTimeoutSeconds = 10
	defaultNtfyTimeoutSeconds  = 10
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Accepted values for organize.mode.
const (
	ModeCopy = "copy"
	ModeMove = "move"
)

// Accepted values for organize.on_error.
const (
	OnErrorAbort = "abort"
	OnErrorSkip  = "skip"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Organize: Organize{
			Mode:              defaultMode,
			FallbackToModTime: true,
			HashAlgorithm:     defaultHashAlgorithm,
			OnError:           defaultOnError,
		},
		Metadata: Metadata{
			EXIFEnabled:         true,
			FFprobeBinary:       defaultFFprobeBinary,
			ProbeTimeoutSeconds: defaultProbeTimeoutSeconds,
		},
		History: History{
			Enabled: true,
		},
		Notifications: Notifications{
			RequestTimeoutSeconds: defaultNtfyTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
