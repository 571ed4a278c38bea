package service

import (
	"encoding/json"
	"errors"

	"peoplefirst_backend/internal/model"
	"peoplefirst_backend/internal/repository"
	"peoplefirst_backend/internal/util"

	"gorm.io/gorm"
)

type SkillService struct {
	Skills    *repository.SkillRepository
	Questions *repository.QuestionRepository
}

func NewSkillService(skills *repository.SkillRepository, questions *repository.QuestionRepository) *SkillService {
	return &SkillService{Skills: skills, Questions: questions}
}

func (s *SkillService) ListSkills() ([]model.Skill, error) {
	return s.Skills.FindAll()
}

func (s *SkillService) GetSkill(id string) (*model.Skill, error) {
	skill, err := s.Skills.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSkillNotFound
		}
		return nil, err
	}
	return skill, nil
}

type SkillInput struct {
	Name         string `json:"name" binding:"required"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	MarketDemand int    `json:"marketDemand"`
}

func (s *SkillService) CreateSkill(input SkillInput) (*model.Skill, error) {
	skill := &model.Skill{
		Name:         input.Name,
		Category:     input.Category,
		Description:  input.Description,
		Icon:         input.Icon,
		MarketDemand: input.MarketDemand,
	}
	if err := s.Skills.Create(skill); err != nil {
		return nil, err
	}
	return skill, nil
}

func (s *SkillService) UserSkills(userID uint) ([]model.UserSkill, error) {
	return s.Skills.FindUserSkills(userID)
}

type QuestionInput struct {
	SkillID      string            `json:"skillId" binding:"required"`
	QuestionText string            `json:"questionText" binding:"required"`
	QuestionType model.QuestionType `json:"questionType" binding:"required"`
	Options      map[string]string `json:"options"`
	AnswerMode   model.AnswerMode  `json:"answerMode"`
	AnswerValue  json.RawMessage   `json:"answerValue" binding:"required"`
	Difficulty   int               `json:"difficulty" binding:"required,min=1,max=5"`
	SkillPoints  int               `json:"skillPoints"`
	Explanation  string            `json:"explanation"`
}

// CreateQuestion authors a new pool question. It goes live only after
// approval.
func (s *SkillService) CreateQuestion(authorID uint, input QuestionInput) (*model.Question, error) {
	if _, err := s.GetSkill(input.SkillID); err != nil {
		return nil, err
	}

	mode := input.AnswerMode
	if mode == "" {
		mode = model.AnswerExact
		if input.QuestionType == model.MultipleChoice {
			mode = model.AnswerAnySet
		}
	}

	options, err := json.Marshal(input.Options)
	if err != nil {
		return nil, err
	}
	skillPoints := input.SkillPoints
	if skillPoints <= 0 {
		skillPoints = 10
	}

	q := &model.Question{
		SkillID:      input.SkillID,
		QuestionText: input.QuestionText,
		QuestionType: input.QuestionType,
		Options:      options,
		AnswerMode:   mode,
		AnswerValue:  input.AnswerValue,
		Difficulty:   input.Difficulty,
		SkillPoints:  skillPoints,
		Explanation:  input.Explanation,
		CreatedBy:    authorID,
	}
	if err := s.Questions.Create(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *SkillService) ListQuestions(skillID string, page, pageSize int) ([]model.Question, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.Questions.FindBySkill(skillID, page, pageSize)
}

func (s *SkillService) ApproveQuestion(id string) error {
	q, err := s.Questions.FindByID(id)
	if err != nil {
		return err
	}
	q.IsApproved = true
	return s.Questions.Update(q)
}

func (s *SkillService) DeleteQuestion(id string) error {
	return s.Questions.Delete(id)
}
