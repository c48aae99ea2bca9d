package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Input and output directories
// are not required here because the CLI may supply them per run; see
// ValidateRun.
func (c *Config) Validate() error {
	if err := c.validateOrganize(); err != nil {
		return err
	}
	if err := c.validateMetadata(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

// ValidateRun checks the settings an organize run cannot start without.
func (c *Config) ValidateRun() error {
	if len(c.Paths.InputDirs) == 0 {
		return errors.New("paths.input_dirs must include at least one directory")
	}
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set (or pass --output)")
	}
	for _, in := range c.Paths.InputDirs {
		if in == c.Paths.OutputDir {
			return fmt.Errorf("paths.output_dir %q must differ from input directory", in)
		}
	}
	return c.Validate()
}

func (c *Config) validateOrganize() error {
	switch c.Organize.Mode {
	case ModeCopy, ModeMove:
	default:
		return fmt.Errorf("organize.mode: unsupported value %q (want copy or move)", c.Organize.Mode)
	}
	switch c.Organize.HashAlgorithm {
	case "sha256", "md5":
	default:
		return fmt.Errorf("organize.hash_algorithm: unsupported value %q (want sha256 or md5)", c.Organize.HashAlgorithm)
	}
	switch c.Organize.OnError {
	case OnErrorAbort, OnErrorSkip:
	default:
		return fmt.Errorf("organize.on_error: unsupported value %q (want abort or skip)", c.Organize.OnError)
	}
	return nil
}

func (c *Config) validateMetadata() error {
	if c.Metadata.ProbeTimeoutSeconds <= 0 {
		return errors.New("metadata.probe_timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
