package config

import (
	"errors"
	"fmt"
)

// WhisperModels are the accepted transcription model tiers, ordered by cost.
var WhisperModels = []string{"tiny", "base", "small", "medium"}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTranscriber(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateEnrichment(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTranscriber() error {
	if !IsWhisperModel(c.Transcriber.Model) {
		return fmt.Errorf("transcriber.model must be one of %v, got %q", WhisperModels, c.Transcriber.Model)
	}
	if err := ensurePositiveMap(map[string]int{
		"transcriber.fetch_timeout":   c.Transcriber.FetchTimeout,
		"transcriber.timeout_seconds": c.Transcriber.TimeoutSeconds,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLLM() error {
	if c.LLM.BaseURL == "" {
		return errors.New("llm.base_url must be set")
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model must be set")
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return errors.New("llm.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateEnrichment() error {
	if c.Enrichment.ItemDelaySeconds < 0 {
		return errors.New("enrichment.item_delay_seconds must not be negative")
	}
	return ensurePositiveMap(map[string]int{
		"enrichment.error_retry_interval": c.Enrichment.ErrorRetryInterval,
		"enrichment.max_errors_displayed": c.Enrichment.MaxErrorsDisplayed,
	})
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

// IsWhisperModel reports whether the given tier is a known whisper model.
func IsWhisperModel(model string) bool {
	for _, known := range WhisperModels {
		if model == known {
			return true
		}
	}
	return false
}

func ensurePositiveMap(values map[string]int) error {
	for name, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}
