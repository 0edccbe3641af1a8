package plan

import (
	"fmt"
	"strings"
)

// ageGuidelines summarizes typical speech development per age, used to ground
// the therapy prompt when no richer research context is available.
var ageGuidelines = map[int]string{
	2: "Age 2: Basic words, simple combinations, family understanding",
	3: "Age 3: Vocabulary growth, short sentences, clearer speech",
	4: "Age 4: Complex sentences, storytelling, most sounds clear",
	5: "Age 5: Advanced grammar, abstract concepts, reading readiness",
	6: "Age 6: Mature speech patterns, reading skills, complex communication",
	7: "Age 7: Fluent reading, detailed narratives, advanced vocabulary",
	8: "Age 8: Adult-like speech, complex reasoning, academic language",
}

func guidelinesForAge(age int) string {
	if g, ok := ageGuidelines[age]; ok {
		return g
	}
	return fmt.Sprintf("Age %d: Advanced communication development", age)
}

const therapySystemPrompt = `You are a certified speech-language pathologist with 15+ years of experience working with children aged 2-8 who have speech delays. You create only practical, evidence-based speech therapy plans.`

func buildTherapyPrompt(req TherapyRequest, schemaDesc string) string {
	words := req.WordsChildCanSpeak
	if strings.TrimSpace(words) == "" {
		words = "None specified"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `CRITICAL INSTRUCTIONS:
- Use developmentally appropriate words for age %d
- Adjust complexity based on "%s" severity
- Each day should have 3-7 words maximum (fewer for severe delays)
- Words must be functional and meaningful to daily life
- Progress should be gradual and achievable

DELAY LEVEL GUIDELINES:
- Slight delay: Start with 4-6 words/day, focus on clarity and expansion
- Medium delay: Start with 2-4 words/day, emphasize basic communication needs
- Severe delay: Start with 1-2 words/day, focus on foundational sounds

CHILD PROFILE:
- Age: %d years old (words must match developmental stage)
- Speech delay level: %s
- Primary language: %s
- Daily practice time: %d minutes
- Plan duration: %d weeks

LANGUAGE REQUIREMENTS:
Generate the ENTIRE plan in %s: all word lists, notes, weekly goals and focus
areas. If %s is not English, provide words appropriate for %s speaking
children and ensure cultural appropriateness.

WORD SELECTION CRITERIA:
1. High-frequency words the child hears daily (mama, more, up, go)
2. Functional communication needs (help, stop, yes, no)
3. Early developing sounds first (p, b, m, t, d, n)
4. Words that motivate the child (favorite foods, toys, activities)

WORDS TO SKIP:
The child can already speak these words: %s
Do NOT include any of them; focus on NEW words that build on current abilities.

PROGRESSION RULES:
- Week 1: Establish core vocabulary foundation (excluding known words)
- Each subsequent week: Build on previous words + add 2-3 new ones
- Repeat successful words across multiple days
- Notes should be specific and actionable for parents

DEVELOPMENTAL CONTEXT:
%s

ADDITIONAL CHILD INFO:
%s

OUTPUT REQUIREMENTS:
- Realistic word counts per day for the delay level
- Notes must be specific, practical instructions for parents
- Weekly goals measurable and achievable
- Focus areas progress logically (sounds -> words -> combinations)

Respond with ONLY a JSON object matching this schema:
%s`,
		req.ChildAge, req.DelayLevel,
		req.ChildAge, req.DelayLevel, req.Language, req.DailyTimeMinutes, req.PlanDurationWeeks,
		req.Language, req.Language, req.Language,
		words,
		guidelinesForAge(req.ChildAge),
		req.AdditionalInfo,
		schemaDesc,
	)
	return sb.String()
}

const therapySchemaDesc = `{
  "child_age": <number>,
  "delay_level": <string>,
  "language": <string>,
  "daily_time_minutes": <number>,
  "plan_duration_weeks": <number>,
  "weekly_plans": [
    {
      "week": <number>,
      "focus_area": <string>, // main speech focus for this week
      "weekly_goal": <string>, // what should be achieved by end of week
      "daily_plans": [
        {"day": <number 1-7>, "words": [<string>, ...], "notes": <string, optional>}
      ]
    }
  ]
}`

const planSchemaDesc = `{
  "objective": <string>,
  "summary": <string>, // one-paragraph overview of the plan
  "steps": [
    {"number": <number>, "title": <string>, "description": <string>}
  ],
  "assumptions": [<string>, ...],
  "risks": [<string>, ...]
}`

func buildPlanPrompt(req PlanRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "OBJECTIVE:\n%s\n\nCONTEXT:\n%s\n", req.Objective, req.Context)
	if len(req.Constraints) > 0 {
		sb.WriteString("\nCONSTRAINTS:\n")
		for _, c := range req.Constraints {
			fmt.Fprintf(&sb, "- %s\n", c)
		}
	}
	if req.StepsHint > 0 {
		fmt.Fprintf(&sb, "\nAim for approximately %d steps.\n", req.StepsHint)
	}
	fmt.Fprintf(&sb, "\nProduce an actionable, ordered plan grounded in the context above.\nRespond with ONLY a JSON object matching this schema:\n%s", planSchemaDesc)
	return sb.String()
}
