package handlers

import (
	"net/http"
	"strconv"

	"github.com/notq/speech-backend/internal/plan"
)

type PlanHandler struct {
	svc *plan.Service
}

func NewPlanHandler(svc *plan.Service) *PlanHandler {
	return &PlanHandler{svc: svc}
}

// GenerateSpeechPlan creates a week-by-week therapy plan for a child with a
// speech delay.
func (h *PlanHandler) GenerateSpeechPlan(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "invalid form data"})
		return
	}

	req := plan.TherapyRequest{
		ChildAge:           formInt(r, "child_age", 0),
		DelayLevel:         r.FormValue("delay_level"),
		Language:           formDefault(r, "language", "English"),
		DailyTimeMinutes:   formInt(r, "daily_time_minutes", 15),
		PlanDurationWeeks:  formInt(r, "plan_duration_weeks", 4),
		WordsChildCanSpeak: r.FormValue("words_child_can_speak"),
		AdditionalInfo:     r.FormValue("additional_info"),
	}

	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": err.Error()})
		return
	}

	result, err := h.svc.GenerateTherapyPlan(r.Context(), req)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": "Failed to generate speech therapy plan: " + err.Error(),
			"plan":    nil,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Speech therapy plan generated successfully.",
		"plan":    result,
	})
}

// GeneratePlan creates a general structured plan from free-form context.
func (h *PlanHandler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "invalid form data"})
		return
	}

	req := plan.PlanRequest{
		SystemPrompt: r.FormValue("system_prompt"),
		Context:      r.FormValue("context"),
		Objective:    r.FormValue("objective"),
		Constraints:  plan.ParseConstraints(r.FormValue("constraints")),
		StepsHint:    formInt(r, "steps_hint", 0),
	}

	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": err.Error()})
		return
	}

	result, err := h.svc.GeneratePlan(r.Context(), req)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": "Failed to generate plan: " + err.Error(),
			"plan":    nil,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Plan generated successfully.",
		"plan":    result,
	})
}

func formInt(r *http.Request, key string, fallback int) int {
	v := r.FormValue(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func formDefault(r *http.Request, key, fallback string) string {
	if v := r.FormValue(key); v != "" {
		return v
	}
	return fallback
}
