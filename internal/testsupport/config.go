package testsupport

import (
	"path/filepath"
	"testing"

	"bdsample/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.TargetDir = filepath.Join(base, "target")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Scan.OnError = config.ScanOnErrorAbort

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithSampleSize overrides the stream sample size in MiB.
func WithSampleSize(sizeMiB int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sample.SizeMiB = sizeMiB
	}
}

// WithScanPolicy overrides the scan error policy.
func WithScanPolicy(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scan.OnError = policy
	}
}
