package plan

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/notq/speech-backend/internal/llm"
)

// Cache is the subset of the redis cache the plan service uses. A nil Cache
// disables caching.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Service turns plan requests into validated structured LLM output.
type Service struct {
	gateway  llm.Gateway
	cache    Cache
	cacheTTL time.Duration
}

func NewService(gw llm.Gateway, c Cache, cacheTTL time.Duration) *Service {
	return &Service{gateway: gw, cache: c, cacheTTL: cacheTTL}
}

// GenerateTherapyPlan produces a week-by-week speech therapy plan. The
// request must already be validated.
func (s *Service) GenerateTherapyPlan(ctx context.Context, req TherapyRequest) (*SpeechTherapyPlan, error) {
	cacheKey := requestKey("plan:therapy", req)
	if s.cache != nil {
		var cached SpeechTherapyPlan
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	var result SpeechTherapyPlan
	err := s.generateJSON(ctx, therapySystemPrompt, buildTherapyPrompt(req, therapySchemaDesc), &result)
	if err != nil {
		return nil, fmt.Errorf("generate therapy plan: %w", err)
	}

	if len(result.WeeklyPlans) == 0 {
		return nil, fmt.Errorf("generate therapy plan: model returned no weekly plans")
	}

	// The profile fields are inputs, not model output; pin them to the request.
	result.ChildAge = req.ChildAge
	result.DelayLevel = req.DelayLevel
	result.Language = req.Language
	result.DailyTimeMinutes = req.DailyTimeMinutes
	result.PlanDurationWeeks = req.PlanDurationWeeks

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, &result, s.cacheTTL); err != nil {
			slog.Warn("plan cache write failed", "error", err)
		}
	}
	return &result, nil
}

// GeneratePlan produces a general step-by-step plan from free-form context.
// The caller-supplied system prompt is required and used as-is.
func (s *Service) GeneratePlan(ctx context.Context, req PlanRequest) (*Plan, error) {
	var result Plan
	if err := s.generateJSON(ctx, req.SystemPrompt, buildPlanPrompt(req), &result); err != nil {
		return nil, fmt.Errorf("generate plan: %w", err)
	}
	if len(result.Steps) == 0 {
		return nil, fmt.Errorf("generate plan: model returned no steps")
	}
	if result.Objective == "" {
		result.Objective = req.Objective
	}
	for i := range result.Steps {
		if result.Steps[i].Number == 0 {
			result.Steps[i].Number = i + 1
		}
	}
	return &result, nil
}

// generateJSON asks the gateway for a bare-JSON response and unmarshals it
// into target, tolerating markdown code fences around the object.
func (s *Service) generateJSON(ctx context.Context, system, prompt string, target any) error {
	resp, err := s.gateway.Chat(ctx, llm.ChatRequest{
		Messages: []llm.Message{
			{Role: "system", Content: system + "\n\nYou must respond with ONLY a valid JSON object. No markdown, no explanation."},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.15,
	})
	if err != nil {
		return err
	}

	content := stripFences(resp.Content)
	if err := json.Unmarshal([]byte(content), target); err != nil {
		return fmt.Errorf("parse structured output: %w", err)
	}
	return nil
}

func stripFences(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

func requestKey(prefix string, req any) string {
	data, _ := json.Marshal(req)
	sum := sha256.Sum256(data)
	return prefix + ":" + hex.EncodeToString(sum[:])
}
