package transcriber

// Config captures runtime settings for fetching and transcribing media audio.
type Config struct {
	// Model is the whisper model size (tiny, base, small, medium).
	Model string
	// WhisperBinary is the speech-to-text command.
	WhisperBinary string
	// FetcherBinary is the media download command.
	FetcherBinary string
	// FetchTimeoutSeconds bounds subtitle and audio downloads.
	FetchTimeoutSeconds int
	// TimeoutSeconds bounds a single whisper run.
	TimeoutSeconds int
	// SubtitleLanguages is the preference order for platform subtitles.
	SubtitleLanguages []string
	// ScratchDir is where intermediate subtitle and audio files land.
	ScratchDir string
}

// Transcription constants.
const (
	DefaultModel   = "base"
	WhisperCommand = "whisper"
	FetcherCommand = "yt-dlp"

	// minSubtitleRunes is the shortest subtitle extraction accepted before
	// falling back to audio transcription.
	minSubtitleRunes = 50

	defaultFetchTimeoutSeconds = 180
	defaultWhisperTimeout      = 600
)

// SourceSubtitles and SourceWhisper record how a transcript was obtained.
const (
	SourceSubtitles = "subtitles"
	SourceWhisper   = "whisper"
)

var audioExtensions = []string{".mp3", ".m4a", ".webm", ".opus", ".wav"}

var defaultSubtitleLanguages = []string{"es", "en"}
