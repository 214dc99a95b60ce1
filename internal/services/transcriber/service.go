package transcriber

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"curator/internal/services"
	"curator/internal/textutil"
)

// Request describes one item to transcribe.
type Request struct {
	URL        string
	ExternalID string
	// Model overrides the configured whisper model tier for this request.
	// Empty keeps the service default.
	Model string
	// PreferSubtitles fetches platform subtitles before falling back to
	// audio transcription. YouTube-family items set this.
	PreferSubtitles bool
}

// Result carries the transcript and how it was obtained.
type Result struct {
	Text   string
	Source string
}

// Service fetches media audio or subtitles and produces transcripts.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewService creates a transcription service with the given configuration.
func NewService(cfg Config) *Service {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.WhisperBinary == "" {
		cfg.WhisperBinary = WhisperCommand
	}
	if cfg.FetcherBinary == "" {
		cfg.FetcherBinary = FetcherCommand
	}
	if cfg.FetchTimeoutSeconds <= 0 {
		cfg.FetchTimeoutSeconds = defaultFetchTimeoutSeconds
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = defaultWhisperTimeout
	}
	if len(cfg.SubtitleLanguages) == 0 {
		cfg.SubtitleLanguages = defaultSubtitleLanguages
	}
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	s.commandRunner = runner
}

// Model returns the configured whisper model for logging.
func (s *Service) Model() string {
	return s.cfg.Model
}

// Transcribe obtains a transcript for the request. Subtitle-capable items try
// platform subtitles first; everything else downloads audio and runs whisper.
func (s *Service) Transcribe(ctx context.Context, req Request) (Result, error) {
	var empty Result
	if strings.TrimSpace(req.URL) == "" {
		return empty, services.Wrap(services.ErrValidation, "transcribe", "transcriber.Transcribe", "url required", nil)
	}

	workDir, err := s.makeWorkDir()
	if err != nil {
		return empty, services.Wrap(services.ErrConfiguration, "transcribe", "transcriber.Transcribe", "create scratch dir", err)
	}
	defer os.RemoveAll(workDir)

	if req.PreferSubtitles {
		if text := s.fetchSubtitles(ctx, req.URL, workDir); text != "" {
			return Result{Text: text, Source: SourceSubtitles}, nil
		}
		if ctx.Err() != nil {
			return empty, ctx.Err()
		}
	}

	audioPath, err := s.fetchAudio(ctx, req, workDir)
	if err != nil {
		return empty, err
	}

	text, err := s.transcribeAudio(ctx, audioPath, workDir, s.modelFor(req))
	if err != nil {
		return empty, err
	}
	return Result{Text: text, Source: SourceWhisper}, nil
}

func (s *Service) makeWorkDir() (string, error) {
	base := s.cfg.ScratchDir
	if base == "" {
		base = os.TempDir()
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", err
	}
	return os.MkdirTemp(base, "transcribe-")
}

// fetchSubtitles tries each preferred language, manual subtitles before
// auto-generated ones. Failures are soft; the caller falls back to audio.
func (s *Service) fetchSubtitles(ctx context.Context, url, workDir string) string {
	for _, lang := range s.cfg.SubtitleLanguages {
		for _, auto := range []bool{false, true} {
			if ctx.Err() != nil {
				return ""
			}
			subFlag := "--write-sub"
			if auto {
				subFlag = "--write-auto-sub"
			}
			args := []string{
				"--skip-download",
				subFlag,
				"--sub-lang", lang,
				"--sub-format", "vtt",
				"-o", filepath.Join(workDir, "subtitle"),
				"--quiet",
				"--no-warnings",
				url,
			}
			fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout())
			_, err := s.run(fetchCtx, s.cfg.FetcherBinary, args...)
			cancel()
			if err != nil {
				continue
			}
			if text := s.readSubtitleFiles(workDir); text != "" {
				return text
			}
		}
	}
	return ""
}

func (s *Service) readSubtitleFiles(workDir string) string {
	entries, err := os.ReadDir(workDir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".vtt") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(workDir, entry.Name()))
		if err != nil {
			continue
		}
		if text := textutil.ParseVTT(string(content)); len([]rune(text)) >= minSubtitleRunes {
			return text
		}
	}
	return ""
}

// fetchAudio downloads the item's audio track. TikTok items retry with the
// share-URL form when the canonical URL fails.
func (s *Service) fetchAudio(ctx context.Context, req Request, workDir string) (string, error) {
	outputPath := filepath.Join(workDir, "audio.mp3")
	urls := []string{req.URL}
	if req.ExternalID != "" && strings.Contains(strings.ToLower(req.URL), "tiktok") {
		urls = append([]string{tiktokShareURL(req.ExternalID)}, urls...)
	}

	var lastErr error
	for _, url := range urls {
		args := []string{
			"-x",
			"--audio-format", "mp3",
			"--audio-quality", "0",
			"-o", outputPath,
			"--quiet",
			"--no-warnings",
			url,
		}
		fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout())
		_, err := s.run(fetchCtx, s.cfg.FetcherBinary, args...)
		cancel()
		if err != nil {
			lastErr = err
			continue
		}
		if path := findAudioFile(workDir, outputPath); path != "" {
			return path, nil
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no audio file produced in %s", workDir)
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	return "", services.Wrap(services.ErrExternalTool, "transcribe", "transcriber.fetchAudio", "download audio", lastErr)
}

func tiktokShareURL(externalID string) string {
	return fmt.Sprintf("https://www.tiktokv.com/share/video/%s/", externalID)
}

// findAudioFile locates the downloaded audio, tolerating the fetcher swapping
// the extension on the requested output path.
func findAudioFile(workDir, requested string) string {
	if _, err := os.Stat(requested); err == nil {
		return requested
	}
	stem := strings.TrimSuffix(requested, filepath.Ext(requested))
	for _, ext := range audioExtensions {
		candidate := stem + ext
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	entries, err := os.ReadDir(workDir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		for _, ext := range audioExtensions {
			if strings.HasSuffix(entry.Name(), ext) {
				return filepath.Join(workDir, entry.Name())
			}
		}
	}
	return ""
}

func (s *Service) modelFor(req Request) string {
	if strings.TrimSpace(req.Model) != "" {
		return req.Model
	}
	return s.cfg.Model
}

func (s *Service) transcribeAudio(ctx context.Context, audioPath, workDir, model string) (string, error) {
	args := []string{
		audioPath,
		"--model", model,
		"--output_format", "txt",
		"--output_dir", workDir,
		"--fp16", "False",
		"--verbose", "False",
	}
	runCtx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.TimeoutSeconds)*time.Second)
	defer cancel()
	if _, err := s.run(runCtx, s.cfg.WhisperBinary, args...); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", services.Wrap(services.ErrExternalTool, "transcribe", "transcriber.transcribeAudio", "run whisper", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	textPath := filepath.Join(workDir, baseName+".txt")
	content, err := os.ReadFile(textPath)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "transcribe", "transcriber.transcribeAudio", "read whisper output", err)
	}
	text := textutil.CollapseWhitespace(string(content))
	if text == "" {
		return "", services.Wrap(services.ErrExternalTool, "transcribe", "transcriber.transcribeAudio", "whisper produced empty transcript", nil)
	}
	return text, nil
}

func (s *Service) fetchTimeout() time.Duration {
	return time.Duration(s.cfg.FetchTimeoutSeconds) * time.Second
}

// run executes a command, using the custom runner if set.
func (s *Service) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return output, nil
}
