package completion

import (
	"fmt"

	"github.com/nguyentantai21042004/synopsis-flow/internal/config"
	"github.com/nguyentantai21042004/synopsis-flow/internal/logger"
)

// New builds the Completer for the configured provider.
func New(cfg config.CompletionConfig, log logger.Logger) (Completer, error) {
	switch cfg.Provider {
	case "gemini", "":
		return NewGemini(cfg, log)
	case "openai":
		return NewOpenAI(cfg, log)
	default:
		return nil, fmt.Errorf("unsupported completion provider %q", cfg.Provider)
	}
}
