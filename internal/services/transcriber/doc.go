// Package transcriber obtains transcripts for library items.
//
// Subtitle-capable items (YouTube and friends) first try platform subtitles
// via the fetcher binary, preferring manual over auto-generated captions in
// the configured language order. When no usable subtitles exist, or for
// sources without captions (TikTok), the audio track is downloaded and run
// through the whisper CLI.
//
// All external work happens in a per-request scratch directory that is
// removed when the request finishes.
package transcriber
