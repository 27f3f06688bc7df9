package transcript

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	SRTFileName  = "transcript.srt"
	TextFileName = "transcript.txt"
)

// Files are the paths written by Save.
type Files struct {
	SRT  string
	Text string
}

// Save writes both renderings of segments into dir, creating it if needed.
func Save(dir string, segments []Segment) (Files, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Files{}, fmt.Errorf("create transcript dir: %w", err)
	}

	files := Files{
		SRT:  filepath.Join(dir, SRTFileName),
		Text: filepath.Join(dir, TextFileName),
	}

	if err := os.WriteFile(files.SRT, []byte(RenderSRT(segments)), 0644); err != nil {
		return Files{}, fmt.Errorf("write srt: %w", err)
	}
	if err := os.WriteFile(files.Text, []byte(RenderTimecoded(segments)), 0644); err != nil {
		return Files{}, fmt.Errorf("write timecoded text: %w", err)
	}

	return files, nil
}

// Load reads a transcript file, choosing the parser by extension.
func Load(path string) ([]Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	if filepath.Ext(path) == ".srt" {
		return ParseSRT(string(data))
	}
	return ParseTimecoded(string(data))
}
