package repository

import (
	"peoplefirst_backend/internal/model"

	"gorm.io/gorm"
)

type StoryRepository struct {
	DB *gorm.DB
}

func NewStoryRepository(db *gorm.DB) *StoryRepository {
	return &StoryRepository{DB: db}
}

func (r *StoryRepository) Create(story *model.Story) error {
	return r.DB.Create(story).Error
}

func (r *StoryRepository) FindByID(id string) (*model.Story, error) {
	var story model.Story
	err := r.DB.Preload("Author").Where("id = ?", id).First(&story).Error
	return &story, err
}

func (r *StoryRepository) FindAll(page, pageSize int, careerPath string) ([]model.Story, int64, error) {
	var stories []model.Story
	var total int64

	query := r.DB.Model(&model.Story{})
	if careerPath != "" {
		query = query.Where("career_path = ?", careerPath)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Author").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&stories).Error
	return stories, total, err
}

func (r *StoryRepository) Delete(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.Story{}).Error
}

func (r *StoryRepository) Like(id string) error {
	return r.DB.Model(&model.Story{}).
		Where("id = ?", id).
		Update("likes", gorm.Expr("likes + 1")).
		Error
}

func (r *StoryRepository) CreateComment(comment *model.StoryComment) error {
	return r.DB.Create(comment).Error
}

func (r *StoryRepository) FindComments(storyID string) ([]model.StoryComment, error) {
	var comments []model.StoryComment
	err := r.DB.Preload("Author").
		Where("story_id = ?", storyID).
		Order("created_at").
		Find(&comments).Error
	return comments, err
}
