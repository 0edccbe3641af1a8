package plan

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/notq/speech-backend/internal/llm"
)

type fakeGateway struct {
	content string
	err     error
	lastReq llm.ChatRequest
}

func (f *fakeGateway) Chat(_ context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.ChatResponse{Provider: "fake", Content: f.content}, nil
}

func (f *fakeGateway) Provider(name string) (llm.Provider, error) {
	return nil, fmt.Errorf("provider %q not configured", name)
}

func (f *fakeGateway) ListModels() []llm.ModelInfo { return nil }

func TestTherapyRequestValidate(t *testing.T) {
	valid := TherapyRequest{ChildAge: 3, DelayLevel: "Slight Delay", PlanDurationWeeks: 4}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
	if valid.DelayLevel != "slight delay" {
		t.Errorf("delay level not normalized: %q", valid.DelayLevel)
	}
	if valid.Language != "English" || valid.DailyTimeMinutes != 15 {
		t.Errorf("defaults not applied: %+v", valid)
	}

	bad := []TherapyRequest{
		{ChildAge: 1, DelayLevel: "slight delay", PlanDurationWeeks: 4},
		{ChildAge: 9, DelayLevel: "slight delay", PlanDurationWeeks: 4},
		{ChildAge: 4, DelayLevel: "huge delay", PlanDurationWeeks: 4},
		{ChildAge: 4, DelayLevel: "medium delay", PlanDurationWeeks: 0},
		{ChildAge: 4, DelayLevel: "medium delay", PlanDurationWeeks: 13},
	}
	for i, r := range bad {
		if err := r.Validate(); err == nil {
			t.Errorf("case %d: expected validation error for %+v", i, r)
		}
	}
}

const therapyJSON = `{
  "child_age": 99,
  "delay_level": "whatever the model said",
  "language": "Klingon",
  "daily_time_minutes": 1,
  "plan_duration_weeks": 1,
  "weekly_plans": [
    {
      "week": 1,
      "focus_area": "Basic sounds",
      "weekly_goal": "Say two new words",
      "daily_plans": [
        {"day": 1, "words": ["mama", "more"], "notes": "repeat during meals"},
        {"day": 2, "words": ["up", "go"]}
      ]
    }
  ]
}`

func TestGenerateTherapyPlan(t *testing.T) {
	gw := &fakeGateway{content: "```json\n" + therapyJSON + "\n```"}
	svc := NewService(gw, nil, 0)

	req := TherapyRequest{ChildAge: 3, DelayLevel: "medium delay", Language: "English", DailyTimeMinutes: 15, PlanDurationWeeks: 4}
	got, err := svc.GenerateTherapyPlan(context.Background(), req)
	if err != nil {
		t.Fatalf("GenerateTherapyPlan: %v", err)
	}

	// Profile fields come from the request, not from the model.
	if got.ChildAge != 3 || got.DelayLevel != "medium delay" || got.Language != "English" ||
		got.DailyTimeMinutes != 15 || got.PlanDurationWeeks != 4 {
		t.Errorf("profile fields not pinned to request: %+v", got)
	}
	if len(got.WeeklyPlans) != 1 || got.WeeklyPlans[0].FocusArea != "Basic sounds" {
		t.Errorf("weekly plans not parsed: %+v", got.WeeklyPlans)
	}
	if len(got.WeeklyPlans[0].DailyPlans) != 2 || got.WeeklyPlans[0].DailyPlans[0].Words[0] != "mama" {
		t.Errorf("daily plans not parsed: %+v", got.WeeklyPlans[0].DailyPlans)
	}
	if gw.lastReq.Temperature != 0.15 {
		t.Errorf("temperature = %v, want 0.15", gw.lastReq.Temperature)
	}
}

func TestGenerateTherapyPlanEmptyWeeks(t *testing.T) {
	gw := &fakeGateway{content: `{"weekly_plans": []}`}
	svc := NewService(gw, nil, 0)
	_, err := svc.GenerateTherapyPlan(context.Background(), TherapyRequest{ChildAge: 3, DelayLevel: "medium delay", PlanDurationWeeks: 4})
	if err == nil {
		t.Fatal("expected error for plan with no weeks")
	}
}

func TestGenerateTherapyPlanBadJSON(t *testing.T) {
	gw := &fakeGateway{content: "Sorry, I cannot help with that."}
	svc := NewService(gw, nil, 0)
	_, err := svc.GenerateTherapyPlan(context.Background(), TherapyRequest{ChildAge: 3, DelayLevel: "medium delay", PlanDurationWeeks: 4})
	if err == nil {
		t.Fatal("expected parse error for non-JSON response")
	}
}

func TestGeneratePlan(t *testing.T) {
	gw := &fakeGateway{content: `{
	  "summary": "Do the thing in three moves.",
	  "steps": [
	    {"title": "Scope", "description": "Agree on what done means."},
	    {"title": "Build", "description": "Implement the smallest slice."},
	    {"title": "Verify", "description": "Check against the objective."}
	  ],
	  "assumptions": ["team of two"],
	  "risks": ["scope creep"]
	}`}
	svc := NewService(gw, nil, 0)

	req := PlanRequest{
		SystemPrompt: "You plan software releases.",
		Context:      "a small internal tool",
		Objective:    "ship v1",
		StepsHint:    3,
	}
	got, err := svc.GeneratePlan(context.Background(), req)
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}
	if got.Objective != "ship v1" {
		t.Errorf("objective fallback not applied: %q", got.Objective)
	}
	// The caller's system prompt is passed through verbatim.
	if len(gw.lastReq.Messages) == 0 || !strings.HasPrefix(gw.lastReq.Messages[0].Content, "You plan software releases.") {
		t.Errorf("system message = %+v", gw.lastReq.Messages)
	}
	for i, step := range got.Steps {
		if step.Number != i+1 {
			t.Errorf("step %d number = %d, want %d", i, step.Number, i+1)
		}
	}
}

func TestPlanRequestValidate(t *testing.T) {
	if err := (&PlanRequest{SystemPrompt: "s", Context: "c", Objective: "o"}).Validate(); err != nil {
		t.Errorf("valid request rejected: %v", err)
	}
	if err := (&PlanRequest{Context: "c", Objective: "o"}).Validate(); err == nil {
		t.Error("missing system_prompt accepted")
	}
	if err := (&PlanRequest{SystemPrompt: "s", Objective: "o"}).Validate(); err == nil {
		t.Error("missing context accepted")
	}
	if err := (&PlanRequest{SystemPrompt: "s", Context: "c"}).Validate(); err == nil {
		t.Error("missing objective accepted")
	}
}

func TestParseConstraints(t *testing.T) {
	got := ParseConstraints(" budget under 10k ,, two weeks ,")
	if len(got) != 2 || got[0] != "budget under 10k" || got[1] != "two weeks" {
		t.Errorf("ParseConstraints = %v", got)
	}
	if ParseConstraints("") != nil {
		t.Error("empty input should yield nil")
	}
}
