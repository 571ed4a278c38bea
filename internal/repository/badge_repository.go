package repository

import (
	"peoplefirst_backend/internal/model"

	"gorm.io/gorm"
)

type BadgeRepository struct {
	DB *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{DB: db}
}

func (r *BadgeRepository) FindAll() ([]model.Badge, error) {
	var badges []model.Badge
	err := r.DB.Order("category, requirement_value").Find(&badges).Error
	return badges, err
}

func (r *BadgeRepository) FindByID(id string) (*model.Badge, error) {
	var badge model.Badge
	err := r.DB.Where("id = ?", id).First(&badge).Error
	return &badge, err
}

func (r *BadgeRepository) FindUserBadges(userID uint) ([]model.UserBadge, error) {
	var earned []model.UserBadge
	err := r.DB.Preload("Badge").
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&earned).Error
	return earned, err
}

func (r *BadgeRepository) HasBadge(userID uint, badgeID string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.UserBadge{}).
		Where("user_id = ? AND badge_id = ?", userID, badgeID).
		Count(&count).Error
	return count > 0, err
}

func (r *BadgeRepository) Award(ub *model.UserBadge) error {
	return r.DB.Create(ub).Error
}

func (r *BadgeRepository) CountEarned(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.UserBadge{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// SumEarnedPoints totals the badge points a user has collected.
func (r *BadgeRepository) SumEarnedPoints(userID uint) (int64, error) {
	var total int64
	err := r.DB.Model(&model.UserBadge{}).
		Joins("JOIN badges ON badges.id = user_badges.badge_id").
		Where("user_badges.user_id = ?", userID).
		Select("COALESCE(SUM(badges.points), 0)").
		Scan(&total).Error
	return total, err
}

type BadgeLeaderboardEntry struct {
	UserID     uint   `json:"user_id"`
	Name       string `json:"name"`
	Avatar     string `json:"avatar"`
	BadgeCount int64  `json:"badge_count"`
	Points     int64  `json:"points"`
}

func (r *BadgeRepository) Leaderboard(limit int) ([]BadgeLeaderboardEntry, error) {
	var entries []BadgeLeaderboardEntry
	err := r.DB.Model(&model.UserBadge{}).
		Joins("JOIN badges ON badges.id = user_badges.badge_id").
		Joins("JOIN users ON users.id = user_badges.user_id").
		Select("user_badges.user_id, users.name, users.avatar, COUNT(*) AS badge_count, COALESCE(SUM(badges.points), 0) AS points").
		Group("user_badges.user_id, users.name, users.avatar").
		Order("points DESC").
		Limit(limit).
		Scan(&entries).Error
	return entries, err
}

// MaxSkillScore backs the score requirement: the user's best composite
// assessment score across all skills.
func (r *BadgeRepository) MaxSkillScore(userID uint) (int64, error) {
	var best int64
	err := r.DB.Model(&model.UserSkill{}).
		Where("user_id = ?", userID).
		Select("COALESCE(MAX(score), 0)").
		Scan(&best).Error
	return best, err
}

// CountCompletedContent backs the course_complete requirement.
func (r *BadgeRepository) CountCompletedContent(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ContentCompletion{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// CountSocialInteractions backs the social requirement. Guild messages,
// story comments and favorites all count as one interaction each.
func (r *BadgeRepository) CountSocialInteractions(userID uint) (int64, error) {
	var messages, comments, favorites int64

	if err := r.DB.Model(&model.GuildMessage{}).
		Where("user_id = ?", userID).Count(&messages).Error; err != nil {
		return 0, err
	}
	if err := r.DB.Model(&model.StoryComment{}).
		Where("author_id = ?", userID).Count(&comments).Error; err != nil {
		return 0, err
	}
	if err := r.DB.Model(&model.Favorite{}).
		Where("user_id = ?", userID).Count(&favorites).Error; err != nil {
		return 0, err
	}

	return messages + comments + favorites, nil
}
