package config

// MiB is the unit sample sizes are expressed in.
const MiB int64 = 1 << 20

// SampleSizesMiB lists the selectable stream sample sizes.
var SampleSizesMiB = []int{100, 200, 300, 500, 1000}

// Scan error policies.
const (
	ScanOnErrorPrompt = "prompt"
	ScanOnErrorSkip   = "skip"
	ScanOnErrorAbort  = "abort"
)

const (
	defaultConfigPath   = "~/.config/bdsample/config.toml"
	defaultTargetDir    = "~/bdsample"
	defaultLogDir       = "~/.local/share/bdsample/logs"
	defaultSampleSizeMB = 200
	defaultBufferKiB    = 80
	minBufferKiB        = 4
	defaultScanOnError  = ScanOnErrorPrompt
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			TargetDir: defaultTargetDir,
			LogDir:    defaultLogDir,
		},
		Sample: Sample{
			SizeMiB:     defaultSampleSizeMB,
			BufferKiB:   defaultBufferKiB,
			KeepPartial: true,
			Lock:        true,
		},
		Scan: Scan{
			OnError: defaultScanOnError,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
