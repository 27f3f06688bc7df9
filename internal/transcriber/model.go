package transcriber

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/synopsis-flow/pkg/executor"
)

// Tier is a whisper model size.
type Tier string

const (
	Tiny   Tier = "tiny"
	Base   Tier = "base"
	Small  Tier = "small"
	Medium Tier = "medium"
	Turbo  Tier = "turbo"
)

// CPUTier is the largest model that is still practical without a GPU.
const CPUTier = Small

// reservedGB is kept free on the GPU for everything that is not the model.
const reservedGB = 1.0

var tierTable = []struct {
	aboveGB float64
	tier    Tier
}{
	{6, Turbo},
	{5, Medium},
	{2, Small},
	{1, Base},
}

// SelectModel picks the largest tier whose threshold the available GPU
// memory exceeds. Anything at or below 1 GB gets Tiny.
func SelectModel(availableGB float64) Tier {
	for _, row := range tierTable {
		if availableGB > row.aboveGB {
			return row.tier
		}
	}
	return Tiny
}

// ModelFile is the ggml file name whisper.cpp ships for the tier.
func (t Tier) ModelFile() string {
	if t == Turbo {
		return "ggml-large-v3-turbo.bin"
	}
	return "ggml-" + string(t) + ".bin"
}

// QueryGPUMemory returns the total memory of the first NVIDIA GPU in GB.
func QueryGPUMemory(ctx context.Context, exec executor.Executor) (float64, error) {
	if _, err := exec.LookPath("nvidia-smi"); err != nil {
		return 0, fmt.Errorf("nvidia-smi not available: %w", err)
	}
	out, err := exec.Execute(ctx, "nvidia-smi", "--query-gpu=memory.total", "--format=csv,noheader,nounits")
	if err != nil {
		return 0, fmt.Errorf("query gpu memory: %w", err)
	}
	return parseGPUMemory(out)
}

// parseGPUMemory reads nvidia-smi MiB values, one line per GPU.
func parseGPUMemory(out string) (float64, error) {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		mib, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return 0, fmt.Errorf("parse gpu memory %q: %w", line, err)
		}
		return mib * 1024 * 1024 / 1e9, nil
	}
	return 0, fmt.Errorf("no gpu reported")
}

// ResolveModel returns the pinned model when one is configured. Otherwise it
// sizes the model to the GPU, falling back to CPUTier when there is none.
func (t *implTranscriber) ResolveModel(ctx context.Context) (string, Tier, error) {
	if t.whisper.ModelPath != "" {
		return t.whisper.ModelPath, "", nil
	}
	if t.whisper.ModelsDir == "" {
		return "", "", fmt.Errorf("no whisper model configured")
	}

	tier := CPUTier
	if t.whisper.UseGPU {
		total, err := QueryGPUMemory(ctx, t.executor)
		if err != nil {
			t.logger.Warn(ctx, "GPU memory query failed, using %s model: %v", CPUTier, err)
		} else {
			tier = SelectModel(total - reservedGB)
			t.logger.Debug(ctx, "GPU has %.1f GB, selected %s model", total, tier)
		}
	}

	return filepath.Join(t.whisper.ModelsDir, tier.ModelFile()), tier, nil
}
