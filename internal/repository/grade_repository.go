package repository

import (
	"peoplefirst_backend/internal/model"

	"gorm.io/gorm"
)

type GradeRepository struct {
	DB *gorm.DB
}

func NewGradeRepository(db *gorm.DB) *GradeRepository {
	return &GradeRepository{DB: db}
}

func (r *GradeRepository) Create(grade *model.Grade) error {
	return r.DB.Create(grade).Error
}

func (r *GradeRepository) CreateBatch(grades []model.Grade) error {
	if len(grades) == 0 {
		return nil
	}
	return r.DB.CreateInBatches(grades, 100).Error
}

func (r *GradeRepository) FindByID(id string) (*model.Grade, error) {
	var grade model.Grade
	err := r.DB.Where("id = ?", id).First(&grade).Error
	return &grade, err
}

func (r *GradeRepository) FindByUser(userID uint, semester string, gradeType model.GradeType) ([]model.Grade, error) {
	var grades []model.Grade
	query := r.DB.Where("user_id = ?", userID)
	if semester != "" {
		query = query.Where("semester = ?", semester)
	}
	if gradeType != "" {
		query = query.Where("grade_type = ?", gradeType)
	}
	err := query.Order("graded_at DESC, created_at DESC").Find(&grades).Error
	return grades, err
}

func (r *GradeRepository) Update(grade *model.Grade) error {
	return r.DB.Save(grade).Error
}

func (r *GradeRepository) Delete(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.Grade{}).Error
}

func (r *GradeRepository) FindSemesters(userID uint) ([]string, error) {
	var semesters []string
	err := r.DB.Model(&model.Grade{}).
		Where("user_id = ? AND semester != ''", userID).
		Distinct("semester").
		Order("semester DESC").
		Pluck("semester", &semesters).Error
	return semesters, err
}
