package repository

import (
	"time"

	"peoplefirst_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SkillRepository struct {
	DB *gorm.DB
}

func NewSkillRepository(db *gorm.DB) *SkillRepository {
	return &SkillRepository{DB: db}
}

func (r *SkillRepository) FindAll() ([]model.Skill, error) {
	var skills []model.Skill
	err := r.DB.Order("category, name").Find(&skills).Error
	return skills, err
}

func (r *SkillRepository) FindByID(id string) (*model.Skill, error) {
	var skill model.Skill
	err := r.DB.Where("id = ?", id).First(&skill).Error
	return &skill, err
}

func (r *SkillRepository) FindByName(name string) (*model.Skill, error) {
	var skill model.Skill
	err := r.DB.Where("name = ?", name).First(&skill).Error
	return &skill, err
}

func (r *SkillRepository) Create(skill *model.Skill) error {
	return r.DB.Create(skill).Error
}

// UpsertUserSkill writes the assessed score for a user+skill pair. A
// re-assessment overwrites the previous result in place.
func (r *SkillRepository) UpsertUserSkill(us *model.UserSkill) error {
	us.LastAssessment = time.Now()
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "skill_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"score", "level", "verified", "last_assessment", "updated_at",
		}),
	}).Create(us).Error
}

func (r *SkillRepository) FindUserSkills(userID uint) ([]model.UserSkill, error) {
	var skills []model.UserSkill
	err := r.DB.Preload("Skill").
		Where("user_id = ?", userID).
		Order("score DESC").
		Find(&skills).Error
	return skills, err
}

func (r *SkillRepository) FindUserSkill(userID uint, skillID string) (*model.UserSkill, error) {
	var us model.UserSkill
	err := r.DB.Preload("Skill").
		Where("user_id = ? AND skill_id = ?", userID, skillID).
		First(&us).Error
	return &us, err
}

// CountVerifiedAtOrAbove counts a user's verified skills scoring at
// least minScore. Badge progress for skill mastery reads this.
func (r *SkillRepository) CountVerifiedAtOrAbove(userID uint, minScore int) (int64, error) {
	var count int64
	err := r.DB.Model(&model.UserSkill{}).
		Where("user_id = ? AND verified = ? AND score >= ?", userID, true, minScore).
		Count(&count).Error
	return count, err
}

func (r *SkillRepository) CreateAssessment(a *model.SkillAssessment) error {
	return r.DB.Create(a).Error
}

func (r *SkillRepository) FindAssessmentsByUser(userID uint, limit int) ([]model.SkillAssessment, error) {
	var assessments []model.SkillAssessment
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&assessments).Error
	return assessments, err
}

func (r *SkillRepository) FindAssessmentsByRun(runID string) ([]model.SkillAssessment, error) {
	var assessments []model.SkillAssessment
	err := r.DB.Where("run_id = ?", runID).
		Order("level").
		Find(&assessments).Error
	return assessments, err
}

func (r *SkillRepository) CreateRun(run *model.ChallengeRun) error {
	return r.DB.Create(run).Error
}

func (r *SkillRepository) FindRunByID(id string) (*model.ChallengeRun, error) {
	var run model.ChallengeRun
	err := r.DB.Where("id = ?", id).First(&run).Error
	return &run, err
}

func (r *SkillRepository) FindActiveRun(userID uint, skillID string) (*model.ChallengeRun, error) {
	var run model.ChallengeRun
	err := r.DB.Where("user_id = ? AND skill_id = ? AND status = ?",
		userID, skillID, model.RunActive).
		Order("started_at DESC").
		First(&run).Error
	return &run, err
}

func (r *SkillRepository) UpdateRun(run *model.ChallengeRun) error {
	return r.DB.Save(run).Error
}
