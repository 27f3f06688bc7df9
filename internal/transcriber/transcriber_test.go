package transcriber

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/synopsis-flow/internal/config"
	"github.com/nguyentantai21042004/synopsis-flow/internal/logger"
)

type command struct {
	name string
	args []string
}

// fakeExecutor records commands and plays canned results per binary.
type fakeExecutor struct {
	commands []command
	outputs  map[string]string
	errs     map[string]error
	// onRun runs after a command is recorded, e.g. to write output files.
	onRun func(name string, args []string)
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.commands = append(f.commands, command{name: name, args: args})
	if f.onRun != nil {
		f.onRun(name, args)
	}
	return f.outputs[name], f.errs[name]
}

func (f *fakeExecutor) ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error) {
	return f.Execute(ctx, name, args...)
}

func (f *fakeExecutor) LookPath(name string) (string, error) {
	return "/usr/bin/" + name, nil
}

func argAfter(args []string, flag string) string {
	i := slices.Index(args, flag)
	if i < 0 || i+1 >= len(args) {
		return ""
	}
	return args[i+1]
}

func TestSelectModel(t *testing.T) {
	tests := []struct {
		gb   float64
		want Tier
	}{
		{23, Turbo},
		{6.5, Turbo},
		{6, Medium},
		{5.5, Medium},
		{5, Small},
		{3, Small},
		{2, Base},
		{1.5, Base},
		{1, Tiny},
		{0, Tiny},
		{-1, Tiny},
	}
	for _, tt := range tests {
		if got := SelectModel(tt.gb); got != tt.want {
			t.Errorf("SelectModel(%v) = %s, want %s", tt.gb, got, tt.want)
		}
	}
}

func TestModelFile(t *testing.T) {
	if got := Turbo.ModelFile(); got != "ggml-large-v3-turbo.bin" {
		t.Errorf("Turbo.ModelFile() = %q", got)
	}
	if got := Small.ModelFile(); got != "ggml-small.bin" {
		t.Errorf("Small.ModelFile() = %q", got)
	}
}

func TestParseGPUMemory(t *testing.T) {
	gb, err := parseGPUMemory("8192\n24576\n")
	if err != nil {
		t.Fatalf("parseGPUMemory() error = %v", err)
	}
	if gb < 8.58 || gb > 8.59 {
		t.Errorf("parseGPUMemory() = %v, want ~8.59 (first GPU)", gb)
	}

	if _, err := parseGPUMemory("\n"); err == nil {
		t.Error("empty output should fail")
	}
	if _, err := parseGPUMemory("N/A"); err == nil {
		t.Error("non-numeric output should fail")
	}
}

func TestResolveModel(t *testing.T) {
	tests := []struct {
		name     string
		whisper  config.WhisperConfig
		gpuOut   string
		gpuErr   error
		wantPath string
		wantTier Tier
	}{
		{
			name:     "pinned model",
			whisper:  config.WhisperConfig{ModelPath: "/models/custom.bin", ModelsDir: "/models", UseGPU: true},
			wantPath: "/models/custom.bin",
		},
		{
			name:     "cpu",
			whisper:  config.WhisperConfig{ModelsDir: "/models"},
			wantPath: "/models/ggml-small.bin",
			wantTier: Small,
		},
		{
			name:     "8 GB gpu",
			whisper:  config.WhisperConfig{ModelsDir: "/models", UseGPU: true},
			gpuOut:   "8192\n",
			wantPath: "/models/ggml-large-v3-turbo.bin",
			wantTier: Turbo,
		},
		{
			name:     "4 GB gpu",
			whisper:  config.WhisperConfig{ModelsDir: "/models", UseGPU: true},
			gpuOut:   "4096\n",
			wantPath: "/models/ggml-small.bin",
			wantTier: Small,
		},
		{
			name:     "gpu query failure falls back to cpu tier",
			whisper:  config.WhisperConfig{ModelsDir: "/models", UseGPU: true},
			gpuErr:   errors.New("nvidia-smi not found"),
			wantPath: "/models/ggml-small.bin",
			wantTier: Small,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &fakeExecutor{
				outputs: map[string]string{"nvidia-smi": tt.gpuOut},
				errs:    map[string]error{"nvidia-smi": tt.gpuErr},
			}
			tr := New(tt.whisper, config.FFmpegConfig{}, exec, logger.NewNop())

			path, tier, err := tr.ResolveModel(context.Background())
			if err != nil {
				t.Fatalf("ResolveModel() error = %v", err)
			}
			if path != filepath.FromSlash(tt.wantPath) || tier != tt.wantTier {
				t.Errorf("ResolveModel() = %q, %q; want %q, %q", path, tier, tt.wantPath, tt.wantTier)
			}
		})
	}
}

func TestExtractAudio(t *testing.T) {
	exec := &fakeExecutor{}
	tr := New(config.WhisperConfig{}, config.FFmpegConfig{BinaryPath: "ffmpeg", SampleRate: 16000}, exec, logger.NewNop())
	workDir := filepath.Join(t.TempDir(), "work")

	audio, err := tr.ExtractAudio(context.Background(), "/in/alice/lecture.ru.mp4", workDir)
	if err != nil {
		t.Fatalf("ExtractAudio() error = %v", err)
	}
	if audio != filepath.Join(workDir, "lecture.ru.wav") {
		t.Errorf("audio path = %q", audio)
	}
	if _, err := os.Stat(workDir); err != nil {
		t.Errorf("work dir not created: %v", err)
	}

	cmd := exec.commands[0]
	if cmd.name != "ffmpeg" || argAfter(cmd.args, "-ar") != "16000" || argAfter(cmd.args, "-ac") != "1" {
		t.Errorf("ffmpeg command = %v", cmd)
	}
	if cmd.args[len(cmd.args)-1] != audio {
		t.Errorf("output path should be the last argument: %v", cmd.args)
	}
}

func TestTranscribe(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "lecture.wav")

	srt := "1\n00:00:00,000 --> 00:00:05,000\nIntro\n\n2\n00:00:05,000 --> 00:00:12,500\nMain topic\n\n"
	exec := &fakeExecutor{onRun: func(name string, args []string) {
		if name == "whisper-cli" {
			os.WriteFile(argAfter(args, "--output-file")+".srt", []byte(srt), 0644)
		}
	}}
	whisper := config.WhisperConfig{
		BinaryPath: "whisper-cli",
		ModelPath:  "/models/ggml-small.bin",
		Language:   "auto",
		Threads:    4,
	}
	tr := New(whisper, config.FFmpegConfig{}, exec, logger.NewNop())

	got, err := tr.Transcribe(context.Background(), audio, "ru")
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if got.Language != "ru" || len(got.Segments) != 2 {
		t.Fatalf("Transcribe() = %+v", got)
	}
	if got.Segments[1].Text != "Main topic" || got.Segments[1].End != 12.5 {
		t.Errorf("second segment = %+v", got.Segments[1])
	}

	args := exec.commands[0].args
	if argAfter(args, "-l") != "ru" || argAfter(args, "-m") != "/models/ggml-small.bin" || argAfter(args, "-t") != "4" {
		t.Errorf("whisper args = %v", args)
	}
	if !slices.Contains(args, "-osrt") || !slices.Contains(args, "-ng") {
		t.Errorf("whisper args missing -osrt or -ng: %v", args)
	}
	if slices.Contains(args, "--prompt") {
		t.Errorf("empty prompt must not be passed: %v", args)
	}
}

func TestTranscribeDefaultsLanguage(t *testing.T) {
	exec := &fakeExecutor{errs: map[string]error{"whisper-cli": errors.New("exit status 1")}}
	tr := New(config.WhisperConfig{BinaryPath: "whisper-cli", ModelPath: "m.bin"}, config.FFmpegConfig{}, exec, logger.NewNop())

	_, err := tr.Transcribe(context.Background(), "a.wav", "")
	if err == nil || !strings.Contains(err.Error(), "whisper transcribe") {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if got := argAfter(exec.commands[0].args, "-l"); got != "auto" {
		t.Errorf("language = %q, want auto", got)
	}
}

func TestLanguageFromFilename(t *testing.T) {
	tests := map[string]string{
		"lecture.ru.mp4":       "ru",
		"/in/bob/talk.EN.mp3":  "en",
		"lecture.mp4":          "",
		"v1.2.mp4":             "",
		"notes.fr.final.mp4":   "",
		"dir.es/recording.mp4": "",
	}
	for in, want := range tests {
		if got := LanguageFromFilename(in); got != want {
			t.Errorf("LanguageFromFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"Auto", "", true},
		{"", "", true},
		{"Русский", "ru", true},
		{"español", "es", true},
		{"fr", "fr", true},
		{"klingon", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseLanguage(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseLanguage(%q) = %q, %v", tt.in, got, ok)
		}
	}

	if LanguageLabel("ru") != "Русский" || LanguageLabel("") != "Auto-detect" || LanguageLabel("de") != "de" {
		t.Error("LanguageLabel mismatch")
	}
}
