package llm

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// DeepSeekProvider speaks to DeepSeek (or any OpenAI-compatible endpoint)
// through the OpenAI client with a custom base URL.
type DeepSeekProvider struct {
	client       *openai.Client
	defaultModel string
}

func NewDeepSeekProvider(apiKey, baseURL, defaultModel string) *DeepSeekProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if defaultModel == "" {
		defaultModel = "deepseek-chat"
	}
	return &DeepSeekProvider{
		client:       openai.NewClientWithConfig(cfg),
		defaultModel: defaultModel,
	}
}

func (p *DeepSeekProvider) Name() string { return "deepseek" }

func (p *DeepSeekProvider) Models() []string {
	return []string{p.defaultModel, "deepseek-chat", "deepseek-reasoner"}
}

func (p *DeepSeekProvider) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	start := time.Now()

	model := req.Model
	if model == "" {
		model = p.defaultModel
	}

	msgs := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	oReq := openai.ChatCompletionRequest{
		Model:    model,
		Messages: msgs,
	}
	if req.Temperature > 0 {
		oReq.Temperature = float32(req.Temperature)
	}
	if req.MaxTokens > 0 {
		oReq.MaxTokens = req.MaxTokens
	}
	if len(req.Stop) > 0 {
		oReq.Stop = req.Stop
	}

	resp, err := p.client.CreateChatCompletion(ctx, oReq)
	if err != nil {
		return nil, fmt.Errorf("deepseek chat: %w", err)
	}

	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}

	latency := time.Since(start).Milliseconds()
	cost := CalculateCost(model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	return &ChatResponse{
		ID:           resp.ID,
		Provider:     "deepseek",
		Model:        resp.Model,
		Content:      content,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		TotalTokens:  resp.Usage.TotalTokens,
		CostUSD:      cost,
		LatencyMs:    latency,
	}, nil
}
