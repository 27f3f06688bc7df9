package synopsis

import (
	"context"
	"strings"
	"time"
)

// Summarize walks the chunks in order, one completion call each. Every call
// sees the instruction followed by the tail of what was produced so far, so
// the model can skip points it already covered. The tail is sized so that
// instruction plus tail stay within ContextBudget regardless of transcript length.
func (s *implSynopsizer) Summarize(ctx context.Context, text string) (string, error) {
	out, _, err := s.summarize(ctx, text)
	return out, err
}

func (s *implSynopsizer) summarize(ctx context.Context, text string) (string, int, error) {
	chunks := Split(text, s.opts.ChunkBudget, s.prompts.ChunkPrefix)
	s.recorder.ObserveChunks(len(chunks))

	tailRunes := s.contextRunes()
	s.logger.Debug(ctx, "Summarizing %d chunks (context tail %d chars)", len(chunks), tailRunes)

	var running strings.Builder
	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return "", 0, &ChunkError{Index: chunk.Index, Total: len(chunks), Err: err}
		}

		if cost := EstimateCost(chunk.Text); cost >= s.opts.ChunkBudget {
			s.logger.Warn(ctx, "Chunk %d is oversized (cost %.0f >= budget %.0f)", chunk.Index+1, cost, s.opts.ChunkBudget)
		}

		system := s.prompts.Instruction + Tail(running.String(), tailRunes)

		out, err := s.complete(ctx, "chunk", system, chunk.Text)
		if err != nil {
			return "", 0, &ChunkError{Index: chunk.Index, Total: len(chunks), Err: err}
		}

		running.WriteString(out)
		running.WriteString("\n")
		s.logger.Debug(ctx, "[%d/%d] chunk summarized", chunk.Index+1, len(chunks))
	}

	return running.String(), len(chunks), nil
}

// contextRunes is how many characters of prior summary fit next to the instruction.
func (s *implSynopsizer) contextRunes() int {
	return costToRunes(s.opts.ContextBudget - EstimateCost(s.prompts.Instruction))
}

func (s *implSynopsizer) complete(ctx context.Context, kind, system, user string) (string, error) {
	start := time.Now()
	out, err := s.completer.Complete(ctx, system, user)
	s.recorder.ObserveCompletion(kind, time.Since(start), err)
	return out, err
}
