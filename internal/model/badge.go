package model

import "time"

type BadgeRarity string

const (
	RarityCommon    BadgeRarity = "common"
	RarityRare      BadgeRarity = "rare"
	RarityEpic      BadgeRarity = "epic"
	RarityLegendary BadgeRarity = "legendary"
)

type BadgeCategory string

const (
	CategoryLearning    BadgeCategory = "learning"
	CategorySocial      BadgeCategory = "social"
	CategoryAchievement BadgeCategory = "achievement"
	CategorySkill       BadgeCategory = "skill"
	CategoryMilestone   BadgeCategory = "milestone"
)

type RequirementType string

const (
	ReqScore          RequirementType = "score"
	ReqCourseComplete RequirementType = "course_complete"
	ReqSkillMastery   RequirementType = "skill_mastery"
	ReqStreak         RequirementType = "streak"
	ReqSocial         RequirementType = "social"
	ReqMilestone      RequirementType = "milestone"
)

// Badge is one catalog entry. The catalog is seed data, reconciled into the
// store at boot by name.
// swagger:model Badge
type Badge struct {
	UUIDBase
	Name             string          `gorm:"size:100;not null;unique" json:"name"`
	Description      string          `gorm:"type:text" json:"description"`
	IconURL          string          `gorm:"size:255" json:"iconUrl"`
	SkillID          string          `gorm:"type:varchar(36)" json:"skillId,omitempty"`
	Rarity           BadgeRarity     `gorm:"size:20;not null" json:"rarity"`
	Category         BadgeCategory   `gorm:"size:20;not null;index" json:"category"`
	RequirementType  RequirementType `gorm:"size:30;not null" json:"requirementType"`
	RequirementValue int             `gorm:"not null" json:"requirementValue"`
	RequirementScore int             `gorm:"default:0" json:"requirementScore"`
	Points           int             `gorm:"default:0" json:"points"`
}

func (Badge) TableName() string {
	return "badges"
}

// UserBadge records an earned badge. The unique (user, badge) index is what
// makes awarding idempotent.
type UserBadge struct {
	BaseModel
	UserID   uint      `gorm:"uniqueIndex:idx_user_badge;type:bigint unsigned" json:"userId"`
	BadgeID  string    `gorm:"uniqueIndex:idx_user_badge;type:varchar(36)" json:"badgeId"`
	EarnedAt time.Time `json:"earnedAt"`
	Badge    *Badge    `gorm:"foreignKey:BadgeID" json:"badge,omitempty"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}
