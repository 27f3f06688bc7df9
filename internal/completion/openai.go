package completion

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/nguyentantai21042004/synopsis-flow/internal/config"
	"github.com/nguyentantai21042004/synopsis-flow/internal/logger"
)

const providerOpenAI = "openai"

// openAICompleter talks to any OpenAI-compatible chat endpoint
// (OpenAI itself, LocalAI, vLLM, ...).
type openAICompleter struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      logger.Logger
}

// NewOpenAI creates a Completer for an OpenAI-compatible chat completion API.
// A key is optional when BaseURL points at a local server.
func NewOpenAI(cfg config.CompletionConfig, log logger.Logger) (Completer, error) {
	var key string
	if len(cfg.APIKeys) > 0 {
		key = cfg.APIKeys[0]
	}
	if key == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("openai: OPENAI_API_KEY is required when base_url is not set")
	}

	clientCfg := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &openAICompleter{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		temperature: requestTemperature(cfg.EffectiveTemperature()),
		logger:      log,
	}, nil
}

func (o *openAICompleter) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: o.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", &ServiceError{Provider: providerOpenAI, Reason: "create chat completion", Err: err}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &ServiceError{Provider: providerOpenAI, Reason: "empty response"}
	}

	o.logger.Debug(ctx, "Completion used %d prompt / %d completion tokens", resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	return resp.Choices[0].Message.Content, nil
}

// requestTemperature keeps an explicit 0 on the wire: go-openai omits a zero
// temperature, which servers read as their default.
func requestTemperature(t float32) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}
