package service

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peoplefirst_backend/internal/model"
)

func exactQuestion(answer string) *model.Question {
	raw, _ := json.Marshal(answer)
	return &model.Question{AnswerMode: model.AnswerExact, AnswerValue: raw}
}

func setQuestion(mode model.AnswerMode, answers ...string) *model.Question {
	raw, _ := json.Marshal(answers)
	return &model.Question{AnswerMode: mode, AnswerValue: raw}
}

func TestCheckAnswer_Exact(t *testing.T) {
	tests := []struct {
		name      string
		stored    string
		submitted []string
		want      bool
	}{
		{"match", "Paris", []string{"Paris"}, true},
		{"case insensitive", "Paris", []string{"paris"}, true},
		{"whitespace trimmed", "Paris", []string{"  Paris  "}, true},
		{"wrong answer", "Paris", []string{"London"}, false},
		{"empty submission", "Paris", nil, false},
		{"multiple values rejected", "Paris", []string{"Paris", "Paris"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckAnswer(exactQuestion(tt.stored), tt.submitted)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckAnswer_AnySet(t *testing.T) {
	q := setQuestion(model.AnswerAnySet, "A", "C", "D")

	tests := []struct {
		name      string
		submitted []string
		want      bool
	}{
		{"same order", []string{"A", "C", "D"}, true},
		{"different order", []string{"D", "A", "C"}, true},
		{"case insensitive", []string{"d", "a", "c"}, true},
		{"missing element", []string{"A", "C"}, false},
		{"extra element", []string{"A", "B", "C", "D"}, false},
		{"wrong element", []string{"A", "B", "D"}, false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckAnswer(q, tt.submitted))
		})
	}
}

func TestCheckAnswer_OneOf(t *testing.T) {
	q := setQuestion(model.AnswerOneOf, "colour", "color")

	tests := []struct {
		name      string
		submitted []string
		want      bool
	}{
		{"first alternative", []string{"colour"}, true},
		{"second alternative", []string{"Color"}, true},
		{"no match", []string{"colr"}, false},
		{"two answers rejected", []string{"colour", "color"}, false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckAnswer(q, tt.submitted))
		})
	}
}

func TestLevelScore(t *testing.T) {
	tests := []struct {
		name    string
		correct int
		total   int
		want    int
	}{
		{"all correct", 8, 8, 100},
		{"none correct", 0, 8, 0},
		{"rounds up", 5, 8, 63},
		{"rounds half up", 1, 8, 13},
		{"two thirds", 2, 3, 67},
		{"empty level", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LevelScore(tt.correct, tt.total))
		})
	}
}

func TestCompositeScore(t *testing.T) {
	tests := []struct {
		name   string
		levels []int
		want   int
	}{
		{"even average", []int{100, 80, 60}, 80},
		{"rounded", []int{100, 100, 50}, 83},
		{"missing level counts as zero", []int{100, 100}, 67},
		{"all zero", []int{0, 0, 0}, 0},
		{"perfect", []int{100, 100, 100}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompositeScore(tt.levels))
		})
	}
}

func TestQuestionPoints(t *testing.T) {
	tests := []struct {
		name        string
		skillPoints int
		difficulty  int
		want        int
	}{
		{"easiest", 10, 1, 50},
		{"medium", 10, 3, 30},
		{"hardest", 10, 5, 10},
		{"weighted hard", 50, 5, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QuestionPoints(tt.skillPoints, tt.difficulty))
		})
	}
}

func TestProficiencyTier(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{0, 0},
		{24, 0},
		{25, 1},
		{49, 1},
		{50, 2},
		{69, 2},
		{70, 2},
		{75, 3},
		{99, 3},
		{100, 4},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ProficiencyTier(tt.score), "score %d", tt.score)
	}
}

func TestLevelBand(t *testing.T) {
	tests := []struct {
		difficulty int
		want       int
	}{
		{1, 1},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
		{0, 1},
		{9, 3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, levelBand(tt.difficulty), "difficulty %d", tt.difficulty)
	}
}

func TestPartitionQuestions(t *testing.T) {
	var pool []model.Question
	addN := func(n, difficulty int) {
		for i := 0; i < n; i++ {
			q := *exactQuestion("x")
			q.ID = string(rune('a'+difficulty)) + string(rune('0'+i))
			q.Difficulty = difficulty
			pool = append(pool, q)
		}
	}
	addN(12, 1) // easy band, over the cap
	addN(3, 2)  // still easy band
	addN(5, 3)  // medium band
	addN(2, 4)  // still medium band
	addN(4, 5)  // hard band

	rng := rand.New(rand.NewSource(42))
	bands := PartitionQuestions(pool, rng)

	require.Len(t, bands[0], QuestionsPerLevel, "easy band is capped")
	assert.Len(t, bands[1], 7)
	assert.Len(t, bands[2], 4)

	for i, band := range bands {
		for _, q := range band {
			assert.Equal(t, i+1, levelBand(q.Difficulty), "question %s in band %d", q.ID, i+1)
		}
	}
}

func TestPartitionQuestions_Deterministic(t *testing.T) {
	var pool []model.Question
	for i := 0; i < 20; i++ {
		q := *exactQuestion("x")
		q.ID = string(rune('a' + i))
		q.Difficulty = i%5 + 1
		pool = append(pool, q)
	}

	first := PartitionQuestions(pool, rand.New(rand.NewSource(7)))
	second := PartitionQuestions(pool, rand.New(rand.NewSource(7)))

	for i := range first {
		require.Equal(t, len(first[i]), len(second[i]))
		for j := range first[i] {
			assert.Equal(t, first[i][j].ID, second[i][j].ID)
		}
	}
}
