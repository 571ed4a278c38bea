package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"peoplefirst_backend/internal/config"
	"peoplefirst_backend/internal/model"
	"peoplefirst_backend/internal/repository"
	"peoplefirst_backend/internal/util"
	"peoplefirst_backend/pkg/logger"

	"go.uber.org/zap"
)

const advisorSystemPrompt = `You are a career advisor for students exploring their first career paths.
You know the student's verified skills and recent grades.
Answer concretely and briefly, in the student's own language.
When asked for a career assessment, reply with JSON only, matching:
{"summary": string, "strengths": [string], "gaps": [string], "recommendedPaths": [{"title": string, "matchScore": number 0-100, "reason": string, "nextSteps": [string]}]}
When asked for skill recommendations, reply with JSON only, matching:
{"skills": [{"name": string, "reason": string}]}`

// AdvisorSkillStore is the slice of the skill repository the advisor
// reads when building its prompt.
type AdvisorSkillStore interface {
	FindUserSkills(userID uint) ([]model.UserSkill, error)
	FindByID(id string) (*model.Skill, error)
}

var _ AdvisorSkillStore = (*repository.SkillRepository)(nil)

// AdvisorService answers career questions with an LLM, grounding the
// prompt in the student's skill and grade records. The primary
// provider is tried first, the fallback picks up its failures.
type AdvisorService struct {
	Primary  *AIService
	Fallback *AIService
	Skills   AdvisorSkillStore
	Grades   GradeStore
}

func NewAdvisorService(cfg config.AIConfig, skills AdvisorSkillStore, grades GradeStore) *AdvisorService {
	return &AdvisorService{
		Primary:  NewAIService(cfg.Grok),
		Fallback: NewAIService(cfg.MiniMax),
		Skills:   skills,
		Grades:   grades,
	}
}

// studentContext renders the student's record into prompt text.
func (s *AdvisorService) studentContext(userID uint) string {
	var b strings.Builder

	if skills, err := s.Skills.FindUserSkills(userID); err == nil && len(skills) > 0 {
		b.WriteString("Verified skills:\n")
		for _, us := range skills {
			name := us.SkillID
			if us.Skill != nil {
				name = us.Skill.Name
			} else if skill, err := s.Skills.FindByID(us.SkillID); err == nil {
				name = skill.Name
			}
			fmt.Fprintf(&b, "- %s: score %d/100, tier %d\n", name, us.Score, us.Level)
		}
	}

	if grades, err := s.Grades.FindByUser(userID, "", ""); err == nil && len(grades) > 0 {
		if len(grades) > 10 {
			grades = grades[:10]
		}
		b.WriteString("Recent grades:\n")
		for _, g := range grades {
			fmt.Fprintf(&b, "- %s (%s): %.0f/%.0f (%s)\n", g.Title, g.GradeType, g.Score, g.MaxScore, g.LetterGrade)
		}
	}

	if b.Len() == 0 {
		return "The student has no verified skills or grades yet."
	}
	return b.String()
}

func (s *AdvisorService) buildMessages(userID uint, history []AIChatMessage, prompt string) []AIChatMessage {
	messages := []AIChatMessage{{
		Role:    "system",
		Content: advisorSystemPrompt + "\n\nStudent record:\n" + s.studentContext(userID),
	}}
	messages = append(messages, history...)
	messages = append(messages, AIChatMessage{Role: "user", Content: prompt})
	return messages
}

// chat runs the completion against the primary provider and falls back
// on any failure.
func (s *AdvisorService) chat(ctx context.Context, messages []AIChatMessage) (string, error) {
	if s.Primary.Configured() {
		reply, err := s.Primary.Chat(ctx, messages)
		if err == nil {
			return reply, nil
		}
		logger.Log.Warn("primary advisor provider failed", zap.Error(err))
	}

	if s.Fallback.Configured() {
		reply, err := s.Fallback.Chat(ctx, messages)
		if err == nil {
			return reply, nil
		}
		logger.Log.Error("fallback advisor provider failed", zap.Error(err))
	}

	return "", util.ErrAdvisorDown
}

// Ask answers a free-form career question.
func (s *AdvisorService) Ask(ctx context.Context, userID uint, prompt string, history []AIChatMessage) (string, error) {
	return s.chat(ctx, s.buildMessages(userID, history, prompt))
}

type CareerPath struct {
	Title      string   `json:"title"`
	MatchScore int      `json:"matchScore"`
	Reason     string   `json:"reason"`
	NextSteps  []string `json:"nextSteps"`
}

type CareerAssessment struct {
	Summary          string       `json:"summary"`
	Strengths        []string     `json:"strengths"`
	Gaps             []string     `json:"gaps"`
	RecommendedPaths []CareerPath `json:"recommendedPaths"`
}

// AssessInput carries what the student tells us beyond their record.
// All fields are optional.
type AssessInput struct {
	Interests  []string `json:"interests"`
	Goals      string   `json:"goals"`
	Background string   `json:"background"`
}

// Assess produces a structured career assessment from the student's
// record, enriched with whatever the student volunteered.
func (s *AdvisorService) Assess(ctx context.Context, userID uint, input AssessInput) (*CareerAssessment, error) {
	var b strings.Builder
	b.WriteString("Give me a career assessment based on my record.")
	if len(input.Interests) > 0 {
		fmt.Fprintf(&b, " My interests: %s.", strings.Join(input.Interests, ", "))
	}
	if input.Goals != "" {
		fmt.Fprintf(&b, " My goals: %s.", input.Goals)
	}
	if input.Background != "" {
		fmt.Fprintf(&b, " My background: %s.", input.Background)
	}
	b.WriteString(" Reply with the assessment JSON schema only.")

	reply, err := s.chat(ctx, s.buildMessages(userID, nil, b.String()))
	if err != nil {
		return nil, err
	}

	var assessment CareerAssessment
	if err := json.Unmarshal([]byte(extractJSON(reply)), &assessment); err != nil {
		logger.Log.Warn("advisor returned malformed assessment", zap.Error(err))
		// Surface the raw text rather than failing the request.
		return &CareerAssessment{Summary: reply}, nil
	}
	return &assessment, nil
}

type SkillRecommendation struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type skillRecommendations struct {
	Skills []SkillRecommendation `json:"skills"`
}

// RecommendSkills suggests which skills the student should pick up
// next, based on their record.
func (s *AdvisorService) RecommendSkills(ctx context.Context, userID uint) ([]SkillRecommendation, error) {
	prompt := "Which skills should I learn next? Reply with the skill recommendations JSON schema only."
	reply, err := s.chat(ctx, s.buildMessages(userID, nil, prompt))
	if err != nil {
		return nil, err
	}

	var recs skillRecommendations
	if err := json.Unmarshal([]byte(extractJSON(reply)), &recs); err != nil {
		logger.Log.Warn("advisor returned malformed skill recommendations", zap.Error(err))
		return nil, util.ErrAdvisorDown
	}
	return recs.Skills, nil
}

// extractJSON strips markdown fences and surrounding prose that models
// wrap around JSON replies.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
