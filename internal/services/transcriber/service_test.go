package transcriber

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleVTT = `WEBVTT
Kind: captions
Language: es

1
00:00:00.000 --> 00:00:03.000
Hola a todos, hoy vamos a hablar de finanzas personales y ahorro mensual.
`

func argValue(args []string, flag string) string {
	for i, arg := range args {
		if arg == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func hasArg(args []string, flag string) bool {
	for _, arg := range args {
		if arg == flag {
			return true
		}
	}
	return false
}

func TestTranscribePrefersSubtitles(t *testing.T) {
	svc := NewService(Config{ScratchDir: t.TempDir()})
	var fetchCalls int
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		if name != FetcherCommand {
			t.Fatalf("unexpected command %s", name)
		}
		fetchCalls++
		if !hasArg(args, "--skip-download") {
			t.Fatalf("expected subtitle fetch, got args %v", args)
		}
		if argValue(args, "--sub-lang") != "es" {
			t.Fatalf("expected es subtitles first, got %v", args)
		}
		outputStem := argValue(args, "-o")
		if err := os.WriteFile(outputStem+".es.vtt", []byte(sampleVTT), 0o644); err != nil {
			t.Fatalf("write vtt: %v", err)
		}
		return nil, nil
	})

	result, err := svc.Transcribe(context.Background(), Request{
		URL:             "https://youtube.com/watch?v=abc",
		PreferSubtitles: true,
	})
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if result.Source != SourceSubtitles {
		t.Fatalf("expected subtitles source, got %q", result.Source)
	}
	if !strings.Contains(result.Text, "finanzas personales") {
		t.Fatalf("unexpected transcript %q", result.Text)
	}
	if fetchCalls != 1 {
		t.Fatalf("expected 1 fetch call, got %d", fetchCalls)
	}
}

func TestTranscribeFallsBackToWhisper(t *testing.T) {
	svc := NewService(Config{ScratchDir: t.TempDir(), Model: "small"})
	var whisperRan bool
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		switch name {
		case FetcherCommand:
			if hasArg(args, "--skip-download") {
				// No subtitles available.
				return nil, nil
			}
			outputPath := argValue(args, "-o")
			if err := os.WriteFile(outputPath, []byte("fake audio"), 0o644); err != nil {
				t.Fatalf("write audio: %v", err)
			}
			return nil, nil
		case WhisperCommand:
			whisperRan = true
			if argValue(args, "--model") != "small" {
				t.Fatalf("expected small model, got %v", args)
			}
			outputDir := argValue(args, "--output_dir")
			if err := os.WriteFile(filepath.Join(outputDir, "audio.txt"), []byte("texto transcrito por whisper\n"), 0o644); err != nil {
				t.Fatalf("write transcript: %v", err)
			}
			return nil, nil
		default:
			t.Fatalf("unexpected command %s", name)
			return nil, nil
		}
	})

	result, err := svc.Transcribe(context.Background(), Request{
		URL:             "https://youtube.com/watch?v=abc",
		PreferSubtitles: true,
	})
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if result.Source != SourceWhisper {
		t.Fatalf("expected whisper source, got %q", result.Source)
	}
	if result.Text != "texto transcrito por whisper" {
		t.Fatalf("unexpected transcript %q", result.Text)
	}
	if !whisperRan {
		t.Fatal("expected whisper to run")
	}
}

func TestTranscribeTikTokUsesShareURL(t *testing.T) {
	svc := NewService(Config{ScratchDir: t.TempDir()})
	var sawShareURL bool
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		switch name {
		case FetcherCommand:
			url := args[len(args)-1]
			if strings.Contains(url, "tiktokv.com/share/video/12345/") {
				sawShareURL = true
			}
			outputPath := argValue(args, "-o")
			// Fetcher swapped the extension.
			m4a := strings.TrimSuffix(outputPath, ".mp3") + ".m4a"
			if err := os.WriteFile(m4a, []byte("audio"), 0o644); err != nil {
				t.Fatalf("write audio: %v", err)
			}
			return nil, nil
		case WhisperCommand:
			outputDir := argValue(args, "--output_dir")
			if err := os.WriteFile(filepath.Join(outputDir, "audio.txt"), []byte("contenido tiktok"), 0o644); err != nil {
				t.Fatalf("write transcript: %v", err)
			}
			return nil, nil
		default:
			t.Fatalf("unexpected command %s", name)
			return nil, nil
		}
	})

	result, err := svc.Transcribe(context.Background(), Request{
		URL:        "https://www.tiktok.com/@user/video/12345",
		ExternalID: "12345",
	})
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if !sawShareURL {
		t.Fatal("expected share URL to be tried first")
	}
	if result.Text != "contenido tiktok" {
		t.Fatalf("unexpected transcript %q", result.Text)
	}
}

func TestTranscribeRequiresURL(t *testing.T) {
	svc := NewService(Config{ScratchDir: t.TempDir()})
	if _, err := svc.Transcribe(context.Background(), Request{}); err == nil {
		t.Fatal("expected error for missing url")
	}
}

func TestTranscribeSurfacesFetchFailure(t *testing.T) {
	svc := NewService(Config{ScratchDir: t.TempDir()})
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, os.ErrNotExist
	})
	if _, err := svc.Transcribe(context.Background(), Request{URL: "https://youtube.com/watch?v=x"}); err == nil {
		t.Fatal("expected error when fetch fails")
	}
}

func TestTranscribeRequestModelOverridesDefault(t *testing.T) {
	svc := NewService(Config{ScratchDir: t.TempDir(), Model: "base"})
	var whisperModel string
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		switch name {
		case FetcherCommand:
			outputPath := argValue(args, "-o")
			if err := os.WriteFile(outputPath, []byte("fake audio"), 0o644); err != nil {
				t.Fatalf("write audio: %v", err)
			}
			return nil, nil
		case WhisperCommand:
			whisperModel = argValue(args, "--model")
			outputDir := argValue(args, "--output_dir")
			if err := os.WriteFile(filepath.Join(outputDir, "audio.txt"), []byte("texto\n"), 0o644); err != nil {
				t.Fatalf("write transcript: %v", err)
			}
			return nil, nil
		default:
			t.Fatalf("unexpected command %s", name)
			return nil, nil
		}
	})

	if _, err := svc.Transcribe(context.Background(), Request{
		URL:   "https://www.tiktok.com/@user/video/1",
		Model: "tiny",
	}); err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if whisperModel != "tiny" {
		t.Fatalf("expected request model to reach whisper, got %q", whisperModel)
	}
}
