package service

import (
	"math"
	"math/rand"
	"sort"
	"strings"

	"peoplefirst_backend/internal/model"
)

const (
	// ChallengeLevels is the number of difficulty bands in a run.
	ChallengeLevels = 3
	// QuestionsPerLevel caps how many pool questions one band serves.
	QuestionsPerLevel = 8
	// VerifiedThreshold is the composite score at which a skill
	// becomes verified.
	VerifiedThreshold = 70
	// ChallengeTimeLimit is the run time budget in seconds.
	ChallengeTimeLimit = 900
)

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CheckAnswer compares a submission against the stored answer under the
// question's answer mode. Comparison is case-insensitive after trimming.
func CheckAnswer(q *model.Question, submitted []string) bool {
	switch q.AnswerMode {
	case model.AnswerAnySet:
		expected := q.AnswerSet()
		if len(submitted) != len(expected) {
			return false
		}
		want := make([]string, len(expected))
		got := make([]string, len(submitted))
		for i, s := range expected {
			want[i] = normalizeAnswer(s)
		}
		for i, s := range submitted {
			got[i] = normalizeAnswer(s)
		}
		sort.Strings(want)
		sort.Strings(got)
		for i := range want {
			if want[i] != got[i] {
				return false
			}
		}
		return true

	case model.AnswerOneOf:
		if len(submitted) != 1 {
			return false
		}
		answer := normalizeAnswer(submitted[0])
		for _, alt := range q.AnswerSet() {
			if normalizeAnswer(alt) == answer {
				return true
			}
		}
		return false

	default: // exact
		if len(submitted) != 1 {
			return false
		}
		return normalizeAnswer(submitted[0]) == normalizeAnswer(q.ExactAnswer())
	}
}

// levelBand maps a 1-5 difficulty onto the three challenge levels:
// 1-2 easy, 3-4 medium, 5 hard.
func levelBand(difficulty int) int {
	band := (difficulty + 1) / 2
	if band < 1 {
		band = 1
	}
	if band > ChallengeLevels {
		band = ChallengeLevels
	}
	return band
}

// PartitionQuestions splits the approved pool into the three level
// bands, shuffles each band and caps it at QuestionsPerLevel. The rand
// source is injected so runs are reproducible under test.
func PartitionQuestions(pool []model.Question, rng *rand.Rand) [ChallengeLevels][]model.Question {
	var bands [ChallengeLevels][]model.Question
	for _, q := range pool {
		idx := levelBand(q.Difficulty) - 1
		bands[idx] = append(bands[idx], q)
	}

	for i := range bands {
		rng.Shuffle(len(bands[i]), func(a, b int) {
			bands[i][a], bands[i][b] = bands[i][b], bands[i][a]
		})
		if len(bands[i]) > QuestionsPerLevel {
			bands[i] = bands[i][:QuestionsPerLevel]
		}
	}
	return bands
}

// LevelScore returns the 0-100 score for one level. A level with no
// questions scores zero.
func LevelScore(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) * 100 / float64(total)))
}

// CompositeScore averages the level scores over all ChallengeLevels,
// counting missing levels as zero.
func CompositeScore(levelScores []int) int {
	sum := 0
	for _, s := range levelScores {
		sum += s
	}
	return int(math.Round(float64(sum) / float64(ChallengeLevels)))
}

// QuestionPoints is the XP yield for answering a question correctly.
func QuestionPoints(skillPoints, difficulty int) int {
	return skillPoints * (6 - difficulty)
}

// ProficiencyTier maps a composite score onto the 0-4 tier scale.
func ProficiencyTier(score int) int {
	tier := score / 25
	if tier > 4 {
		tier = 4
	}
	return tier
}
