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
	c.normalizeSample()
	c.normalizeScan()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.TargetDir) == "" {
		if value, ok := os.LookupEnv("BDSAMPLE_TARGET_DIR"); ok && strings.TrimSpace(value) != "" {
			c.Paths.TargetDir = strings.TrimSpace(value)
		} else {
			c.Paths.TargetDir = defaultTargetDir
		}
	}
	if c.Paths.TargetDir, err = expandPath(c.Paths.TargetDir); err != nil {
		return fmt.Errorf("paths.target_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSample() {
	if c.Sample.SizeMiB == 0 {
		c.Sample.SizeMiB = defaultSampleSizeMB
	}
	if c.Sample.BufferKiB == 0 {
		c.Sample.BufferKiB = defaultBufferKiB
	}
}

func (c *Config) normalizeScan() {
	c.Scan.OnError = strings.ToLower(strings.TrimSpace(c.Scan.OnError))
	if c.Scan.OnError == "" {
		c.Scan.OnError = defaultScanOnError
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
