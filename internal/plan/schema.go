// Package plan generates structured plans through an LLM gateway: a general
// step-by-step planner and a children's speech-therapy plan generator.
package plan

import (
	"fmt"
	"strings"
)

// DelayLevels are the accepted speech delay severities.
var DelayLevels = []string{"slight delay", "medium delay", "severe delay"}

// DailyWords is one day's practice word list.
type DailyWords struct {
	Day   int      `json:"day"`
	Words []string `json:"words"`
	Notes string   `json:"notes,omitempty"`
}

// WeeklyPlan is one week of a therapy plan.
type WeeklyPlan struct {
	Week       int          `json:"week"`
	FocusArea  string       `json:"focus_area"`
	DailyPlans []DailyWords `json:"daily_plans"`
	WeeklyGoal string       `json:"weekly_goal"`
}

// SpeechTherapyPlan is the week-by-week therapy plan returned to clients.
type SpeechTherapyPlan struct {
	ChildAge          int          `json:"child_age"`
	DelayLevel        string       `json:"delay_level"`
	Language          string       `json:"language"`
	DailyTimeMinutes  int          `json:"daily_time_minutes"`
	PlanDurationWeeks int          `json:"plan_duration_weeks"`
	WeeklyPlans       []WeeklyPlan `json:"weekly_plans"`
}

// PlanStep is a single numbered step of a general plan.
type PlanStep struct {
	Number      int    `json:"number"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Plan is the general planner output.
type Plan struct {
	Objective   string     `json:"objective"`
	Summary     string     `json:"summary"`
	Steps       []PlanStep `json:"steps"`
	Assumptions []string   `json:"assumptions,omitempty"`
	Risks       []string   `json:"risks,omitempty"`
}

// TherapyRequest holds the validated inputs for a speech-therapy plan.
type TherapyRequest struct {
	ChildAge           int    `json:"child_age"`
	DelayLevel         string `json:"delay_level"`
	Language           string `json:"language"`
	DailyTimeMinutes   int    `json:"daily_time_minutes"`
	PlanDurationWeeks  int    `json:"plan_duration_weeks"`
	WordsChildCanSpeak string `json:"words_child_can_speak"`
	AdditionalInfo     string `json:"additional_info"`
}

// Validate checks the therapy request bounds and normalizes defaults.
func (r *TherapyRequest) Validate() error {
	if r.ChildAge < 2 || r.ChildAge > 8 {
		return fmt.Errorf("child age must be between 2 and 8 years")
	}
	r.DelayLevel = strings.ToLower(strings.TrimSpace(r.DelayLevel))
	valid := false
	for _, lvl := range DelayLevels {
		if r.DelayLevel == lvl {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("delay level must be 'slight delay', 'medium delay', or 'severe delay'")
	}
	if r.PlanDurationWeeks < 1 || r.PlanDurationWeeks > 12 {
		return fmt.Errorf("plan duration must be between 1 and 12 weeks")
	}
	if r.Language == "" {
		r.Language = "English"
	}
	if r.DailyTimeMinutes <= 0 {
		r.DailyTimeMinutes = 15
	}
	return nil
}

// PlanRequest holds the inputs for the general planner.
type PlanRequest struct {
	SystemPrompt string   `json:"system_prompt"`
	Context      string   `json:"context"`
	Objective    string   `json:"objective"`
	Constraints  []string `json:"constraints,omitempty"`
	StepsHint    int      `json:"steps_hint,omitempty"`
}

// Validate checks the general plan request.
func (r *PlanRequest) Validate() error {
	if strings.TrimSpace(r.SystemPrompt) == "" {
		return fmt.Errorf("system_prompt is required")
	}
	if strings.TrimSpace(r.Context) == "" {
		return fmt.Errorf("context is required")
	}
	if strings.TrimSpace(r.Objective) == "" {
		return fmt.Errorf("objective is required")
	}
	return nil
}

// ParseConstraints splits a comma-separated constraints form value.
func ParseConstraints(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
