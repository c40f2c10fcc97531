package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIJudge implements the Judge interface for OpenAI models
type OpenAIJudge struct {
	client *openai.Client
	config Config
}

// NewOpenAIJudge creates a new OpenAI oracle client
func NewOpenAIJudge(config Config) (*OpenAIJudge, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIJudge{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name
func (p *OpenAIJudge) Name() string {
	return "openai"
}

// IsAvailable checks if the provider is properly configured
func (p *OpenAIJudge) IsAvailable(ctx context.Context) bool {
	// Lightweight API call: list models
	_, err := p.client.ListModels(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "OpenAI API check failed: %v\n", err)
		return false
	}
	return true
}

// Judge compares two slide texts via OpenAI's Chat Completions API
func (p *OpenAIJudge) Judge(ctx context.Context, textA, textB string) (*Verdict, error) {
	model := p.config.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	maxTokens := p.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 512
	}

	timeout := p.config.Timeout
	if timeout == 0 {
		timeout = DefaultConfig().Timeout
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	chatReq := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: verdictSystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(textA, textB),
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.1, // near-deterministic verdicts
	}

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, chatReq)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, &ParseError{Raw: ""}
	}

	return ParseVerdict(strings.TrimSpace(resp.Choices[0].Message.Content))
}
