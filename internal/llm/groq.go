package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/dkarpov/truthshield/internal/model"
)

const (
	groqBaseURL = "https://api.groq.com/openai/v1"

	// DefaultGroqModel is the chat model used when none is configured.
	DefaultGroqModel = "llama-3.3-70b-versatile"

	// DefaultGroqExtractionModel is the smaller model used for claim-topic
	// extraction.
	DefaultGroqExtractionModel = "llama-3.1-8b-instant"
)

// GroqProvider implements Provider on Groq's OpenAI-compatible API.
type GroqProvider struct {
	client *openai.Client
	config Config
}

// NewGroqProvider creates a Groq provider.
func NewGroqProvider(config Config) (*GroqProvider, error) {
	if config.APIKey == "" {
		return nil, &model.ConfigError{Feature: "chat", Reason: "Groq API key is required"}
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = groqBaseURL
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &GroqProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name.
func (p *GroqProvider) Name() string {
	return "groq"
}

// ExtractionModel returns the model used for topic extraction.
func (p *GroqProvider) ExtractionModel() string {
	if p.config.ExtractionModel != "" {
		return p.config.ExtractionModel
	}
	return DefaultGroqExtractionModel
}

// Complete issues one chat-completion request and returns the first choice.
func (p *GroqProvider) Complete(ctx context.Context, req CompletionRequest) (*model.ChatMessage, error) {
	chatModel := req.Model
	if chatModel == "" {
		chatModel = p.config.Model
	}
	if chatModel == "" {
		chatModel = DefaultGroqModel
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Text,
		})
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, openai.ChatCompletionRequest{
		Model:       chatModel,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return nil, mapGroqError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &model.UpstreamError{API: "groq", Body: "no choices in response"}
	}

	reply := model.NewMessage(model.RoleAssistant, strings.TrimSpace(resp.Choices[0].Message.Content))
	return &reply, nil
}

func mapGroqError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &model.UpstreamError{API: "groq", StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &model.UpstreamError{API: "groq", StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	return &model.UpstreamError{API: "groq", Timeout: isTimeout(err), Err: err}
}
