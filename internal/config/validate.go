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
	if err := c.validateSample(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.TargetDir) == "" {
		return errors.New("paths.target_dir must be set")
	}
	return nil
}

func (c *Config) validateSample() error {
	if !ValidSampleSize(c.Sample.SizeMiB) {
		return fmt.Errorf("sample.size_mib must be one of %s (got %d)", formatSizes(), c.Sample.SizeMiB)
	}
	if c.Sample.BufferKiB < minBufferKiB {
		return fmt.Errorf("sample.buffer_kib must be at least %d", minBufferKiB)
	}
	return nil
}

func (c *Config) validateScan() error {
	switch c.Scan.OnError {
	case ScanOnErrorPrompt, ScanOnErrorSkip, ScanOnErrorAbort:
		return nil
	default:
		return fmt.Errorf("scan.on_error must be one of prompt, skip, abort (got %q)", c.Scan.OnError)
	}
}

func formatSizes() string {
	parts := make([]string, 0, len(SampleSizesMiB))
	for _, size := range SampleSizesMiB {
		parts = append(parts, fmt.Sprintf("%d", size))
	}
	return strings.Join(parts, ", ")
}
