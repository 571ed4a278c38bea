package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peoplefirst_backend/internal/config"
	"peoplefirst_backend/internal/model"
	"peoplefirst_backend/internal/util"
)

// chatServer spins up an OpenAI-compatible completions endpoint that
// always replies with the given content.
func chatServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func providerFor(srv *httptest.Server) config.AIProviderConfig {
	return config.AIProviderConfig{BaseURL: srv.URL, APIKey: "test-key", Model: "test-model"}
}

type advisorSkillFake struct {
	userSkills []model.UserSkill
	names      map[string]string
}

func (f *advisorSkillFake) FindUserSkills(userID uint) ([]model.UserSkill, error) {
	return f.userSkills, nil
}

func (f *advisorSkillFake) FindByID(id string) (*model.Skill, error) {
	name, ok := f.names[id]
	if !ok {
		return nil, fmt.Errorf("skill %s not found", id)
	}
	s := &model.Skill{Name: name}
	s.ID = id
	return s, nil
}

func newTestAdvisor(primary, fallback config.AIProviderConfig, skills AdvisorSkillStore, grades GradeStore) *AdvisorService {
	if skills == nil {
		skills = &advisorSkillFake{}
	}
	if grades == nil {
		grades = &fakeGradeStore{}
	}
	return &AdvisorService{
		Primary:  NewAIService(primary),
		Fallback: NewAIService(fallback),
		Skills:   skills,
		Grades:   grades,
	}
}

func TestAIService_Chat(t *testing.T) {
	srv := chatServer(t, http.StatusOK, "hello student")
	ai := NewAIService(providerFor(srv))

	reply, err := ai.Chat(context.Background(), []AIChatMessage{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "hello student", reply)
}

func TestAIService_ChatServerError(t *testing.T) {
	srv := chatServer(t, http.StatusInternalServerError, "")
	ai := NewAIService(providerFor(srv))

	_, err := ai.Chat(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestAIService_Configured(t *testing.T) {
	assert.False(t, NewAIService(config.AIProviderConfig{}).Configured())
	assert.False(t, NewAIService(config.AIProviderConfig{BaseURL: "http://x"}).Configured())
	assert.True(t, NewAIService(config.AIProviderConfig{BaseURL: "http://x", APIKey: "k"}).Configured())
}

func TestAIService_ChatStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		chunks := []string{"Hel", "lo"}
		for _, c := range chunks {
			fmt.Fprintf(w, "data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n\n", c)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	ai := NewAIService(providerFor(srv))
	out, errChan := ai.ChatStream(context.Background(), nil)

	var got string
	for chunk := range out {
		got += chunk
	}
	require.NoError(t, <-errChan)
	assert.Equal(t, "Hello", got)
}

func TestAdvisor_FallsBackWhenPrimaryFails(t *testing.T) {
	primary := chatServer(t, http.StatusBadGateway, "")
	fallback := chatServer(t, http.StatusOK, "fallback answer")

	svc := newTestAdvisor(providerFor(primary), providerFor(fallback), nil, nil)

	reply, err := svc.Ask(context.Background(), 1, "what should I study?", nil)
	require.NoError(t, err)
	assert.Equal(t, "fallback answer", reply)
}

func TestAdvisor_DownWhenBothFail(t *testing.T) {
	primary := chatServer(t, http.StatusBadGateway, "")
	fallback := chatServer(t, http.StatusServiceUnavailable, "")

	svc := newTestAdvisor(providerFor(primary), providerFor(fallback), nil, nil)

	_, err := svc.Ask(context.Background(), 1, "anything", nil)
	assert.ErrorIs(t, err, util.ErrAdvisorDown)
}

func TestAdvisor_DownWhenNothingConfigured(t *testing.T) {
	svc := newTestAdvisor(config.AIProviderConfig{}, config.AIProviderConfig{}, nil, nil)

	_, err := svc.Ask(context.Background(), 1, "anything", nil)
	assert.ErrorIs(t, err, util.ErrAdvisorDown)
}

func TestAdvisor_StudentContextInPrompt(t *testing.T) {
	var sawSystem string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Messages)
		sawSystem = req.Messages[0].Content

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": "ok"}}},
		})
	}))
	defer srv.Close()

	skills := &advisorSkillFake{
		userSkills: []model.UserSkill{{SkillID: "sql", Score: 85, Level: 3, Verified: true}},
		names:      map[string]string{"sql": "SQL"},
	}
	grades := &fakeGradeStore{grades: []model.Grade{
		{UserID: 1, Title: "Databases final", GradeType: model.GradeFinalExam, Score: 92, MaxScore: 100, LetterGrade: "A"},
	}}

	svc := newTestAdvisor(providerFor(srv), config.AIProviderConfig{}, skills, grades)

	_, err := svc.Ask(context.Background(), 1, "question", nil)
	require.NoError(t, err)

	assert.Contains(t, sawSystem, "SQL: score 85/100, tier 3")
	assert.Contains(t, sawSystem, "Databases final (final_exam): 92/100 (A)")
}

func TestAdvisor_Assess(t *testing.T) {
	assessment := `Here you go:
` + "```json" + `
{"summary":"solid start","strengths":["SQL"],"gaps":["statistics"],"recommendedPaths":[{"title":"Data Analyst","matchScore":82,"reason":"SQL strength","nextSteps":["learn pandas"]}]}
` + "```"
	srv := chatServer(t, http.StatusOK, assessment)

	svc := newTestAdvisor(providerFor(srv), config.AIProviderConfig{}, nil, nil)

	got, err := svc.Assess(context.Background(), 1, AssessInput{})
	require.NoError(t, err)
	assert.Equal(t, "solid start", got.Summary)
	assert.Equal(t, []string{"SQL"}, got.Strengths)
	require.Len(t, got.RecommendedPaths, 1)
	assert.Equal(t, "Data Analyst", got.RecommendedPaths[0].Title)
	assert.Equal(t, 82, got.RecommendedPaths[0].MatchScore)
}

func TestAdvisor_AssessInputInPrompt(t *testing.T) {
	var sawUser string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Messages)
		sawUser = req.Messages[len(req.Messages)-1].Content

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": `{"summary":"ok"}`}}},
		})
	}))
	defer srv.Close()

	svc := newTestAdvisor(providerFor(srv), config.AIProviderConfig{}, nil, nil)

	_, err := svc.Assess(context.Background(), 1, AssessInput{
		Interests:  []string{"games", "music"},
		Goals:      "build my own studio",
		Background: "self-taught web developer",
	})
	require.NoError(t, err)

	assert.Contains(t, sawUser, "My interests: games, music.")
	assert.Contains(t, sawUser, "My goals: build my own studio.")
	assert.Contains(t, sawUser, "My background: self-taught web developer.")
}

func TestAdvisor_RecommendSkills(t *testing.T) {
	srv := chatServer(t, http.StatusOK, `{"skills":[{"name":"Statistics","reason":"rounds out your SQL work"},{"name":"Python","reason":"most data tooling speaks it"}]}`)

	svc := newTestAdvisor(providerFor(srv), config.AIProviderConfig{}, nil, nil)

	recs, err := svc.RecommendSkills(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Statistics", recs[0].Name)
	assert.Equal(t, "Python", recs[1].Name)
}

func TestAdvisor_RecommendSkillsMalformedJSON(t *testing.T) {
	srv := chatServer(t, http.StatusOK, "not json at all")

	svc := newTestAdvisor(providerFor(srv), config.AIProviderConfig{}, nil, nil)

	_, err := svc.RecommendSkills(context.Background(), 1)
	assert.ErrorIs(t, err, util.ErrAdvisorDown)
}

func TestAdvisor_AssessMalformedJSON(t *testing.T) {
	srv := chatServer(t, http.StatusOK, "I cannot answer in JSON right now.")

	svc := newTestAdvisor(providerFor(srv), config.AIProviderConfig{}, nil, nil)

	got, err := svc.Assess(context.Background(), 1, AssessInput{})
	require.NoError(t, err, "malformed model output degrades to plain text")
	assert.Equal(t, "I cannot answer in JSON right now.", got.Summary)
	assert.Empty(t, got.RecommendedPaths)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare json", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding prose", `Sure! {"a":1} Hope that helps.`, `{"a":1}`},
		{"no json", "no braces here", "no braces here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.in))
		})
	}
}
