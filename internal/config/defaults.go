package config

const (
	defaultDataDir            = "~/.local/share/curator"
	defaultLogDir             = "~/.local/share/curator/logs"
	defaultScratchDir         = "~/.cache/curator/scratch"
	defaultAPIBind            = "127.0.0.1:7493"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultWhisperModel       = "base"
	defaultWhisperBinary      = "whisper"
	defaultFetcherBinary      = "yt-dlp"
	defaultFetchTimeout       = 180
	defaultTranscribeTimeout  = 900
	defaultLLMBaseURL         = "http://localhost:11434"
	defaultLLMModel           = "llama3.2:3b"
	defaultLLMTimeoutSeconds  = 90
	defaultItemDelaySeconds   = 1
	defaultErrorRetryInterval = 10
	defaultMaxErrorsDisplayed = 25
)

func defaultSubtitleLanguages() []string {
	return []string{"es", "en"}
}

func defaultCategories() []string {
	return []string{
		"Finanzas",
		"Tecnología",
		"Educación",
		"Productividad",
		"Salud",
		"Negocios",
		"Marketing",
		"Desarrollo Personal",
		"Entretenimiento",
		"Otros",
	}
}

func defaultAreas() []string {
	return []string{
		"Inversión y Finanzas",
		"Tecnología e IA",
		"Aprendizaje",
		"Bienestar",
		"Negocios y Emprendimiento",
		"Ocio",
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
			ScratchDir: defaultScratchDir,
			APIBind:    defaultAPIBind,
		},
		Transcriber: Transcriber{
			Model:             defaultWhisperModel,
			WhisperBinary:     defaultWhisperBinary,
			FetcherBinary:     defaultFetcherBinary,
			FetchTimeout:      defaultFetchTimeout,
			TimeoutSeconds:    defaultTranscribeTimeout,
			SubtitleLanguages: defaultSubtitleLanguages(),
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Taxonomy: Taxonomy{
			Categories: defaultCategories(),
			Areas:      defaultAreas(),
		},
		Enrichment: Enrichment{
			ItemDelaySeconds:   defaultItemDelaySeconds,
			ErrorRetryInterval: defaultErrorRetryInterval,
			MaxErrorsDisplayed: defaultMaxErrorsDisplayed,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
