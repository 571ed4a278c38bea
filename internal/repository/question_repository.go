package repository

import (
	"peoplefirst_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(q *model.Question) error {
	return r.DB.Create(q).Error
}

func (r *QuestionRepository) FindByID(id string) (*model.Question, error) {
	var q model.Question
	err := r.DB.Where("id = ?", id).First(&q).Error
	return &q, err
}

func (r *QuestionRepository) FindByIDs(ids []string) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("id IN ?", ids).Find(&questions).Error
	return questions, err
}

// FindApprovedBySkill returns the approved question pool for a skill.
// The caller partitions it into difficulty bands.
func (r *QuestionRepository) FindApprovedBySkill(skillID string) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("skill_id = ? AND is_approved = ?", skillID, true).
		Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) FindBySkill(skillID string, page, pageSize int) ([]model.Question, int64, error) {
	var questions []model.Question
	var total int64

	query := r.DB.Model(&model.Question{}).Where("skill_id = ?", skillID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("difficulty, created_at").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&questions).Error
	return questions, total, err
}

func (r *QuestionRepository) Update(q *model.Question) error {
	return r.DB.Save(q).Error
}

func (r *QuestionRepository) Delete(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.Question{}).Error
}
