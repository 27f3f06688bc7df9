package synopsis

import (
	"github.com/nguyentantai21042004/synopsis-flow/internal/completion"
	"github.com/nguyentantai21042004/synopsis-flow/internal/logger"
)

// Options are the two independent budgets plus prompt and normalization settings.
type Options struct {
	// ChunkBudget bounds the cost of each chunk (the user turn).
	ChunkBudget float64
	// ContextBudget bounds the system turn: instruction plus replayed summary tail.
	ContextBudget float64
	Locale        string
	// StrictTimecodes reattaches timecodes line by line instead of by position.
	StrictTimecodes bool
}

type implSynopsizer struct {
	opts      Options
	prompts   Prompts
	completer completion.Completer
	logger    logger.Logger
	recorder  Recorder
}

// New creates a Synopsizer backed by the given completion service.
// rec may be nil.
func New(opts Options, c completion.Completer, log logger.Logger, rec Recorder) Synopsizer {
	if opts.ChunkBudget <= 0 {
		opts.ChunkBudget = 1500
	}
	if opts.ContextBudget <= 0 {
		opts.ContextBudget = 500
	}
	if rec == nil {
		rec = nopRecorder{}
	}

	return &implSynopsizer{
		opts:      opts,
		prompts:   PromptsFor(opts.Locale),
		completer: c,
		logger:    log,
		recorder:  rec,
	}
}
