package repository

import (
	"time"

	"peoplefirst_backend/internal/model"

	"gorm.io/gorm"
)

type ContentRepository struct {
	DB *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{DB: db}
}

func (r *ContentRepository) Create(content *model.Content) error {
	return r.DB.Create(content).Error
}

func (r *ContentRepository) FindByID(id string) (*model.Content, error) {
	var content model.Content
	err := r.DB.Preload("Author").Where("id = ?", id).First(&content).Error
	return &content, err
}

func (r *ContentRepository) FindAll(page, pageSize int, category, search string) ([]model.Content, int64, error) {
	var contents []model.Content
	var total int64

	query := r.DB.Model(&model.Content{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if search != "" {
		query = query.Where("title LIKE ? OR description LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Author").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&contents).Error
	return contents, total, err
}

func (r *ContentRepository) Update(content *model.Content) error {
	return r.DB.Save(content).Error
}

func (r *ContentRepository) Delete(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.Content{}).Error
}

func (r *ContentRepository) IncrementViews(id string) error {
	return r.DB.Model(&model.Content{}).
		Where("id = ?", id).
		Update("view_count", gorm.Expr("view_count + 1")).
		Error
}

func (r *ContentRepository) FindCategories() ([]string, error) {
	var categories []string
	err := r.DB.Model(&model.Content{}).
		Where("category != ''").
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	return categories, err
}

func (r *ContentRepository) AddFavorite(userID uint, contentID string) error {
	return r.DB.Create(&model.Favorite{UserID: userID, ContentID: contentID}).Error
}

func (r *ContentRepository) RemoveFavorite(userID uint, contentID string) error {
	return r.DB.Where("user_id = ? AND content_id = ?", userID, contentID).
		Delete(&model.Favorite{}).Error
}

func (r *ContentRepository) FindFavorites(userID uint) ([]model.Content, error) {
	var contents []model.Content
	err := r.DB.
		Joins("JOIN favorites ON favorites.content_id = contents.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC").
		Find(&contents).Error
	return contents, err
}

func (r *ContentRepository) IsFavorite(userID uint, contentID string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Favorite{}).
		Where("user_id = ? AND content_id = ?", userID, contentID).
		Count(&count).Error
	return count > 0, err
}

// MarkCompleted is idempotent. Completing the same content twice keeps
// the original completion row.
func (r *ContentRepository) MarkCompleted(userID uint, contentID string) error {
	var count int64
	if err := r.DB.Model(&model.ContentCompletion{}).
		Where("user_id = ? AND content_id = ?", userID, contentID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return r.DB.Create(&model.ContentCompletion{
		UserID:      userID,
		ContentID:   contentID,
		CompletedAt: time.Now(),
	}).Error
}

func (r *ContentRepository) FindCompletions(userID uint) ([]model.ContentCompletion, error) {
	var completions []model.ContentCompletion
	err := r.DB.Where("user_id = ?", userID).
		Order("completed_at DESC").
		Find(&completions).Error
	return completions, err
}
