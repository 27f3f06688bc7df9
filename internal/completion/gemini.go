package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/synopsis-flow/internal/config"
	"github.com/nguyentantai21042004/synopsis-flow/internal/logger"
)

const providerGemini = "gemini"

type geminiCompleter struct {
	apiKeys     []string
	model       string
	baseURL     string
	temperature float32
	logger      logger.Logger

	mu         sync.Mutex
	currentKey int
	clients    map[string]*genai.Client
}

// NewGemini creates a Completer that rotates through the supplied Gemini API keys.
func NewGemini(cfg config.CompletionConfig, log logger.Logger) (Completer, error) {
	if len(cfg.APIKeys) == 0 {
		return nil, fmt.Errorf("gemini: at least one API key is required (GEMINI_API_KEYS)")
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &geminiCompleter{
		apiKeys:     cfg.APIKeys,
		model:       model,
		baseURL:     cfg.BaseURL,
		temperature: cfg.EffectiveTemperature(),
		logger:      log,
		clients:     make(map[string]*genai.Client),
	}, nil
}

// Complete sends one system + user exchange to Gemini.
// Rotates API keys on 429 / quota errors; any other failure is returned as is.
func (g *geminiCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr(g.temperature),
	}

	attempts := len(g.apiKeys)
	var lastErr error

	for range attempts {
		idx, key := g.key()

		client, err := g.client(ctx, key)
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			g.rotateKey(idx)
			continue
		}

		result, err := client.Models.GenerateContent(ctx, g.model, genai.Text(user), genCfg)
		if err != nil {
			if isRateLimited(err) {
				g.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
				g.rotateKey(idx)
				lastErr = err
				continue
			}
			return "", &ServiceError{Provider: providerGemini, Reason: "generate content", Err: err}
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text string
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					text += part.Text
				}
			}
			if text != "" {
				return text, nil
			}
		}

		return "", &ServiceError{Provider: providerGemini, Reason: "empty response"}
	}

	return "", &ServiceError{Provider: providerGemini, Reason: "all API keys exhausted", Err: lastErr}
}

func (g *geminiCompleter) key() (int, string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentKey, g.apiKeys[g.currentKey]
}

// rotateKey advances past idx unless another caller already rotated.
func (g *geminiCompleter) rotateKey(idx int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.currentKey == idx {
		g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
	}
}

func (g *geminiCompleter) client(ctx context.Context, key string) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.clients[key]; ok {
		return c, nil
	}

	cc := &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	}
	if g.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
	}

	c, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}
	g.clients[key] = c
	return c, nil
}

func isRateLimited(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == 429 {
		return true
	}
	errMsg := err.Error()
	return strings.Contains(errMsg, "429") || strings.Contains(errMsg, "quota") || strings.Contains(errMsg, "RESOURCE_EXHAUSTED")
}
