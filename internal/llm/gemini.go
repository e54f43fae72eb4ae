package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dkarpov/truthshield/internal/model"
)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultGeminiModel is the model used when none is configured.
	DefaultGeminiModel = "gemini-1.5-flash"
)

// GeminiProvider implements Provider for the Gemini generateContent API.
type GeminiProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	config     Config
}

// Gemini API structures
type geminiRequest struct {
	SystemInstruction *geminiContent   `json:"systemInstruction,omitempty"`
	Contents          []geminiContent  `json:"contents"`
	GenerationConfig  geminiGenConfig  `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature     float32 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// NewGeminiProvider creates a Gemini provider.
func NewGeminiProvider(config Config) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, &model.ConfigError{Feature: "chat", Reason: "Gemini API key is required"}
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = geminiBaseURL
	}

	return &GeminiProvider{
		apiKey:  config.APIKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config: config,
	}, nil
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// ExtractionModel returns the model used for topic extraction.
func (p *GeminiProvider) ExtractionModel() string {
	if p.config.ExtractionModel != "" {
		return p.config.ExtractionModel
	}
	return DefaultGeminiModel
}

// Complete issues one generateContent request and returns the first
// candidate's text.
func (p *GeminiProvider) Complete(ctx context.Context, req CompletionRequest) (*model.ChatMessage, error) {
	chatModel := req.Model
	if chatModel == "" {
		chatModel = p.config.Model
	}
	if chatModel == "" {
		chatModel = DefaultGeminiModel
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}

	apiReq := buildGeminiRequest(req.Messages, req.Temperature, maxTokens)

	resp, err := p.makeRequest(ctx, chatModel, apiReq)
	if err != nil {
		return nil, err
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, &model.UpstreamError{API: "gemini", Body: "no candidates in response"}
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	reply := model.NewMessage(model.RoleAssistant, strings.TrimSpace(text.String()))
	return &reply, nil
}

// buildGeminiRequest maps the ordered message sequence onto Gemini's shape.
// System messages become the systemInstruction, assistant turns use role
// "model", and consecutive same-role turns are merged because the API
// requires strictly alternating contents.
func buildGeminiRequest(messages []model.ChatMessage, temperature float32, maxTokens int) geminiRequest {
	var system []string
	var contents []geminiContent

	for _, msg := range messages {
		if msg.Role == model.RoleSystem {
			system = append(system, msg.Text)
			continue
		}

		role := "user"
		if msg.Role == model.RoleAssistant {
			role = "model"
		}

		if n := len(contents); n > 0 && contents[n-1].Role == role {
			contents[n-1].Parts[0].Text += "\n" + msg.Text
			continue
		}
		contents = append(contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: msg.Text}},
		})
	}

	req := geminiRequest{
		Contents: contents,
		GenerationConfig: geminiGenConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxTokens,
		},
	}
	if len(system) > 0 {
		req.SystemInstruction = &geminiContent{
			Parts: []geminiPart{{Text: strings.Join(system, "\n")}},
		}
	}
	return req
}

func (p *GeminiProvider) makeRequest(ctx context.Context, chatModel string, apiReq geminiRequest) (*geminiResponse, error) {
	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", p.baseURL, chatModel, p.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, &model.UpstreamError{API: "gemini", Timeout: isTimeout(err), Err: err}
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &model.UpstreamError{API: "gemini", Timeout: isTimeout(err), Err: err}
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr geminiError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, &model.UpstreamError{
				API:        "gemini",
				StatusCode: httpResp.StatusCode,
				Body:       fmt.Sprintf("%s: %s", apiErr.Error.Status, apiErr.Error.Message),
			}
		}
		return nil, &model.UpstreamError{API: "gemini", StatusCode: httpResp.StatusCode, Body: string(respBody)}
	}

	var resp geminiResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, &model.UpstreamError{API: "gemini", StatusCode: httpResp.StatusCode, Body: string(respBody), Err: err}
	}

	return &resp, nil
}
