package transcriber

import (
	"context"

	"github.com/nguyentantai21042004/synopsis-flow/internal/transcript"
)

// Transcriber turns media files into time-coded transcripts.
type Transcriber interface {
	// ExtractAudio converts media into 16-bit mono WAV inside workDir.
	ExtractAudio(ctx context.Context, mediaPath, workDir string) (string, error)
	// Transcribe runs speech recognition over a WAV file. An empty or "auto"
	// language lets the engine detect it.
	Transcribe(ctx context.Context, audioPath, language string) (transcript.Transcript, error)
	// ResolveModel returns the model file to load and its tier.
	ResolveModel(ctx context.Context) (string, Tier, error)
}
