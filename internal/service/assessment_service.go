package service

import (
	"encoding/json"
	"errors"
	"math/rand"
	"strconv"
	"time"

	"peoplefirst_backend/internal/model"
	"peoplefirst_backend/internal/util"
	"peoplefirst_backend/pkg/logger"
	"peoplefirst_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SkillStore is the persistence surface the assessment flow needs.
type SkillStore interface {
	FindByID(id string) (*model.Skill, error)
	UpsertUserSkill(us *model.UserSkill) error
	CreateAssessment(a *model.SkillAssessment) error
	FindAssessmentsByRun(runID string) ([]model.SkillAssessment, error)
	CreateRun(run *model.ChallengeRun) error
	FindRunByID(id string) (*model.ChallengeRun, error)
	FindActiveRun(userID uint, skillID string) (*model.ChallengeRun, error)
	UpdateRun(run *model.ChallengeRun) error
}

type QuestionStore interface {
	FindApprovedBySkill(skillID string) ([]model.Question, error)
	FindByIDs(ids []string) ([]model.Question, error)
}

type XPStore interface {
	UpdateXP(userID uint, xp int) error
}

type AssessmentService struct {
	Skills    SkillStore
	Questions QuestionStore
	Users     XPStore
	Badges    *BadgeService
	rng       *rand.Rand
}

func NewAssessmentService(skills SkillStore, questions QuestionStore, users XPStore, badges *BadgeService) *AssessmentService {
	return &AssessmentService{
		Skills:    skills,
		Questions: questions,
		Users:     users,
		Badges:    badges,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetRandSource replaces the shuffle source. Tests use it for
// deterministic question selection.
func (s *AssessmentService) SetRandSource(src rand.Source) {
	s.rng = rand.New(src)
}

type ChallengeState struct {
	Run       *model.ChallengeRun `json:"run"`
	Questions []model.Question    `json:"questions"`
	Remaining int                 `json:"remainingSeconds"`
}

// StartChallenge opens a run for the skill, or resumes the caller's
// active run if one exists.
func (s *AssessmentService) StartChallenge(userID uint, skillID string) (*ChallengeState, error) {
	if _, err := s.Skills.FindByID(skillID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSkillNotFound
		}
		return nil, err
	}

	if run, err := s.Skills.FindActiveRun(userID, skillID); err == nil {
		return s.stateForRun(run)
	}

	pool, err := s.Questions.FindApprovedBySkill(skillID)
	if err != nil {
		return nil, err
	}

	bands := PartitionQuestions(pool, s.rng)

	levelQuestions := make(map[string][]string, ChallengeLevels)
	for i, band := range bands {
		ids := make([]string, len(band))
		for j, q := range band {
			ids[j] = q.ID
		}
		levelQuestions[strconv.Itoa(i+1)] = ids
	}
	encoded, err := json.Marshal(levelQuestions)
	if err != nil {
		return nil, err
	}

	run := &model.ChallengeRun{
		UserID:          userID,
		SkillID:         skillID,
		CurrentLevel:    1,
		TotalLevels:     ChallengeLevels,
		CompletedLevels: json.RawMessage("[]"),
		LevelQuestions:  encoded,
		TimeLimit:       ChallengeTimeLimit,
		StartedAt:       time.Now(),
		Status:          model.RunActive,
	}
	if err := s.Skills.CreateRun(run); err != nil {
		return nil, err
	}

	logger.Log.Info("challenge run started",
		zap.Uint("user_id", userID),
		zap.String("skill_id", skillID),
		zap.String("run_id", run.ID))

	return s.stateForRun(run)
}

// stateForRun loads the current level's questions with answers stripped
// by the model's json tags.
func (s *AssessmentService) stateForRun(run *model.ChallengeRun) (*ChallengeState, error) {
	ids, err := s.levelQuestionIDs(run, run.CurrentLevel)
	if err != nil {
		return nil, err
	}

	questions := []model.Question{}
	if len(ids) > 0 {
		loaded, err := s.Questions.FindByIDs(ids)
		if err != nil {
			return nil, err
		}
		// Restore the shuffled order, Find returns rows in index order.
		byID := make(map[string]model.Question, len(loaded))
		for _, q := range loaded {
			byID[q.ID] = q
		}
		for _, id := range ids {
			if q, ok := byID[id]; ok {
				questions = append(questions, q)
			}
		}
	}

	remaining := run.TimeLimit - int(time.Since(run.StartedAt).Seconds())
	if remaining < 0 {
		remaining = 0
	}

	return &ChallengeState{Run: run, Questions: questions, Remaining: remaining}, nil
}

func (s *AssessmentService) levelQuestionIDs(run *model.ChallengeRun, level int) ([]string, error) {
	var levelQuestions map[string][]string
	if err := json.Unmarshal(run.LevelQuestions, &levelQuestions); err != nil {
		return nil, err
	}
	return levelQuestions[strconv.Itoa(level)], nil
}

type AnswerSubmission struct {
	QuestionID string   `json:"questionId" binding:"required"`
	Answer     []string `json:"answer"`
}

type answerRecord struct {
	QuestionID string   `json:"questionId"`
	Answer     []string `json:"answer"`
	Correct    bool     `json:"correct"`
}

type LevelResult struct {
	Level          int  `json:"level"`
	Score          int  `json:"score"`
	CorrectAnswers int  `json:"correctAnswers"`
	TotalQuestions int  `json:"totalQuestions"`
	PointsEarned   int  `json:"pointsEarned"`
	RunComplete    bool `json:"runComplete"`

	// Populated once RunComplete is true.
	CompositeScore int  `json:"compositeScore,omitempty"`
	Verified       bool `json:"verified,omitempty"`
	SkillLevel     int  `json:"skillLevel,omitempty"`
}

// SubmitLevel grades the current level of a run, pays out XP for the
// correct answers and advances or completes the run.
func (s *AssessmentService) SubmitLevel(userID uint, runID string, level int, answers []AnswerSubmission) (*LevelResult, error) {
	run, err := s.Skills.FindRunByID(runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrRunNotFound
		}
		return nil, err
	}
	if run.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	if run.Status != model.RunActive {
		return nil, util.ErrRunCompleted
	}
	if level != run.CurrentLevel {
		return nil, util.ErrWrongLevel
	}

	ids, err := s.levelQuestionIDs(run, level)
	if err != nil {
		return nil, err
	}

	var questions []model.Question
	if len(ids) > 0 {
		if questions, err = s.Questions.FindByIDs(ids); err != nil {
			return nil, err
		}
	}
	byID := make(map[string]*model.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	submitted := make(map[string][]string, len(answers))
	for _, a := range answers {
		submitted[a.QuestionID] = a.Answer
	}

	correct := 0
	points := 0
	records := make([]answerRecord, 0, len(ids))
	for _, id := range ids {
		q, ok := byID[id]
		if !ok {
			continue
		}
		answer := submitted[id]
		ok = len(answer) > 0 && CheckAnswer(q, answer)
		if ok {
			correct++
			points += QuestionPoints(q.SkillPoints, q.Difficulty)
		}
		records = append(records, answerRecord{QuestionID: id, Answer: answer, Correct: ok})
	}

	score := LevelScore(correct, len(ids))
	timeSpent := int(time.Since(run.StartedAt).Seconds())

	assessmentData, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}
	assessment := &model.SkillAssessment{
		UserID:         userID,
		SkillID:        run.SkillID,
		RunID:          run.ID,
		Level:          level,
		Score:          score,
		TotalQuestions: len(ids),
		CorrectAnswers: correct,
		TimeSpent:      timeSpent,
		AssessmentData: assessmentData,
	}
	if err := s.Skills.CreateAssessment(assessment); err != nil {
		return nil, err
	}

	if points > 0 {
		if err := s.Users.UpdateXP(userID, points); err != nil {
			logger.Log.Warn("xp payout failed", zap.Uint("user_id", userID), zap.Error(err))
		}
	}

	var completed []int
	if err := json.Unmarshal(run.CompletedLevels, &completed); err != nil {
		completed = nil
	}
	completed = append(completed, score)
	run.CompletedLevels, _ = json.Marshal(completed)
	run.TotalScore += score

	result := &LevelResult{
		Level:          level,
		Score:          score,
		CorrectAnswers: correct,
		TotalQuestions: len(ids),
		PointsEarned:   points,
	}

	if level >= run.TotalLevels {
		run.Status = model.RunCompleted
		composite := CompositeScore(completed)
		result.RunComplete = true
		result.CompositeScore = composite
		result.Verified = composite >= VerifiedThreshold
		result.SkillLevel = ProficiencyTier(composite)

		if result.Verified {
			us := &model.UserSkill{
				UserID:   userID,
				SkillID:  run.SkillID,
				Score:    composite,
				Level:    result.SkillLevel,
				Verified: true,
			}
			if err := s.Skills.UpsertUserSkill(us); err != nil {
				return nil, err
			}
		}

		monitoring.AssessmentsCompleted.WithLabelValues(strconv.FormatBool(result.Verified)).Inc()
		logger.Log.Info("challenge run completed",
			zap.Uint("user_id", userID),
			zap.String("run_id", run.ID),
			zap.Int("composite", composite),
			zap.Bool("verified", result.Verified))

		if s.Badges != nil {
			go s.Badges.CheckAndAward(userID)
		}
	} else {
		run.CurrentLevel++
	}

	if err := s.Skills.UpdateRun(run); err != nil {
		return nil, err
	}
	return result, nil
}

// RunHistory returns the persisted per-level results of a run.
func (s *AssessmentService) RunHistory(userID uint, runID string) ([]model.SkillAssessment, error) {
	run, err := s.Skills.FindRunByID(runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrRunNotFound
		}
		return nil, err
	}
	if run.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return s.Skills.FindAssessmentsByRun(runID)
}

// CurrentChallenge resumes the caller's active run for a skill.
func (s *AssessmentService) CurrentChallenge(userID uint, skillID string) (*ChallengeState, error) {
	run, err := s.Skills.FindActiveRun(userID, skillID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrRunNotFound
		}
		return nil, err
	}
	return s.stateForRun(run)
}
