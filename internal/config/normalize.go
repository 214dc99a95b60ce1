package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTranscriber()
	c.normalizeLLM()
	c.normalizeTaxonomy()
	c.normalizeEnrichment()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ScratchDir) == "" {
		c.Paths.ScratchDir = defaultScratchDir
	}
	if c.Paths.ScratchDir, err = expandPath(c.Paths.ScratchDir); err != nil {
		return fmt.Errorf("paths.scratch_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	return nil
}

func (c *Config) normalizeTranscriber() {
	c.Transcriber.Model = strings.ToLower(strings.TrimSpace(c.Transcriber.Model))
	if c.Transcriber.Model == "" {
		c.Transcriber.Model = defaultWhisperModel
	}
	c.Transcriber.WhisperBinary = strings.TrimSpace(c.Transcriber.WhisperBinary)
	if c.Transcriber.WhisperBinary == "" {
		c.Transcriber.WhisperBinary = defaultWhisperBinary
	}
	c.Transcriber.FetcherBinary = strings.TrimSpace(c.Transcriber.FetcherBinary)
	if c.Transcriber.FetcherBinary == "" {
		c.Transcriber.FetcherBinary = defaultFetcherBinary
	}
	if c.Transcriber.FetchTimeout <= 0 {
		c.Transcriber.FetchTimeout = defaultFetchTimeout
	}
	if c.Transcriber.TimeoutSeconds <= 0 {
		c.Transcriber.TimeoutSeconds = defaultTranscribeTimeout
	}
	languages := make([]string, 0, len(c.Transcriber.SubtitleLanguages))
	for _, lang := range c.Transcriber.SubtitleLanguages {
		lang = strings.ToLower(strings.TrimSpace(lang))
		if lang != "" {
			languages = append(languages, lang)
		}
	}
	if len(languages) == 0 {
		languages = defaultSubtitleLanguages()
	}
	c.Transcriber.SubtitleLanguages = languages
}

func (c *Config) normalizeLLM() {
	c.LLM.BaseURL = strings.TrimRight(strings.TrimSpace(c.LLM.BaseURL), "/")
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
}

func (c *Config) normalizeTaxonomy() {
	c.Taxonomy.Categories = dedupeLabels(c.Taxonomy.Categories)
	if len(c.Taxonomy.Categories) == 0 {
		c.Taxonomy.Categories = defaultCategories()
	}
	c.Taxonomy.Areas = dedupeLabels(c.Taxonomy.Areas)
	if len(c.Taxonomy.Areas) == 0 {
		c.Taxonomy.Areas = defaultAreas()
	}
}

func (c *Config) normalizeEnrichment() {
	if c.Enrichment.ItemDelaySeconds < 0 {
		c.Enrichment.ItemDelaySeconds = defaultItemDelaySeconds
	}
	if c.Enrichment.ErrorRetryInterval <= 0 {
		c.Enrichment.ErrorRetryInterval = defaultErrorRetryInterval
	}
	if c.Enrichment.MaxErrorsDisplayed <= 0 {
		c.Enrichment.MaxErrorsDisplayed = defaultMaxErrorsDisplayed
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

func dedupeLabels(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		key := strings.ToLower(label)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, label)
	}
	return out
}
