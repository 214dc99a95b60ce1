package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// CheckFFmpegForWhisper reports the ffmpeg binary Whisper will use for audio
// decoding.
//
// A Whisper install inside a virtualenv often bundles its own ffmpeg in the
// same bin directory, which resolves ahead of PATH. This helper mirrors that
// lookup so status output matches what transcription actually executes.
func CheckFFmpegForWhisper(whisperCommand string) Status {
	result := Status{
		Name:        "FFmpeg",
		Description: "Used by Whisper for audio decoding",
	}

	whisperBinary := strings.TrimSpace(whisperCommand)
	if whisperBinary != "" {
		if resolved, err := exec.LookPath(whisperBinary); err == nil {
			if candidate, ok := siblingCandidate(resolved); ok {
				if info, statErr := os.Stat(candidate); statErr == nil && isExecutable(info) {
					result.Command = candidate
					result.Available = true
					return result
				}
			}
		}
	}

	ffmpegName := "ffmpeg"
	if ffmpegPath, err := exec.LookPath(ffmpegName); err == nil {
		result.Command = ffmpegPath
		result.Available = true
		return result
	}

	result.Command = ffmpegName
	result.Available = false
	result.Detail = fmt.Sprintf("binary %q not found", ffmpegName)
	return result
}

func siblingCandidate(whisperPath string) (string, bool) {
	if whisperPath == "" {
		return "", false
	}
	dir := filepath.Dir(whisperPath)
	name := "ffmpeg"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(dir, name), true
}

func isExecutable(info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
