package model

import (
	"encoding/json"
	"time"
)

// Skill is a named competency category that questions and user proficiency
// records are keyed against.
// swagger:model Skill
type Skill struct {
	UUIDBase
	Name          string `gorm:"size:100;not null;unique" json:"name"`
	Category      string `gorm:"size:100;index" json:"category"`
	Description   string `gorm:"type:text" json:"description"`
	Icon          string `gorm:"size:255" json:"icon"`
	LevelRequired int    `gorm:"default:0" json:"levelRequired"`
	MarketDemand  int    `gorm:"default:0" json:"marketDemand"` // 1-100
}

func (Skill) TableName() string {
	return "skills"
}

// UserSkill is the persisted proficiency record, one row per user and skill.
// Verified means the most recent composite assessment score reached 70.
type UserSkill struct {
	BaseModel
	UserID         uint      `gorm:"uniqueIndex:idx_user_skill;type:bigint unsigned" json:"userId"`
	SkillID        string    `gorm:"uniqueIndex:idx_user_skill;type:varchar(36)" json:"skillId"`
	Score          int       `gorm:"default:0" json:"score"` // 0-100 composite
	Level          int       `gorm:"default:0" json:"level"` // 0-4 proficiency tier
	Verified       bool      `gorm:"default:false" json:"verified"`
	LastAssessment time.Time `json:"lastAssessment"`

	Skill *Skill `gorm:"foreignKey:SkillID" json:"skill,omitempty"`
}

func (UserSkill) TableName() string {
	return "user_skills"
}

// SkillAssessment stores one completed challenge level: the level score plus
// the raw per-question answers as JSON metadata.
type SkillAssessment struct {
	UUIDBase
	UserID         uint            `gorm:"index;type:bigint unsigned" json:"userId"`
	SkillID        string          `gorm:"index;type:varchar(36)" json:"skillId"`
	RunID          string          `gorm:"index;type:varchar(36)" json:"runId"`
	Level          int             `gorm:"not null" json:"level"` // 1-3 challenge level
	Score          int             `gorm:"not null" json:"score"` // 0-100
	TotalQuestions int             `json:"totalQuestions"`
	CorrectAnswers int             `json:"correctAnswers"`
	TimeSpent      int             `json:"timeSpent"` // seconds since run start
	AssessmentData json.RawMessage `gorm:"type:json" json:"assessmentData"`
}

func (SkillAssessment) TableName() string {
	return "skill_assessments"
}

type RunStatus string

const (
	RunActive    RunStatus = "active"
	RunCompleted RunStatus = "completed"
)

// ChallengeRun is the server-side state of one assessment run: three levels
// of increasing difficulty against a fixed time budget.
type ChallengeRun struct {
	UUIDBase
	UserID          uint            `gorm:"index;type:bigint unsigned" json:"userId"`
	SkillID         string          `gorm:"index;type:varchar(36)" json:"skillId"`
	CurrentLevel    int             `gorm:"default:1" json:"currentLevel"`
	TotalLevels     int             `gorm:"default:3" json:"totalLevels"`
	TotalScore      int             `gorm:"default:0" json:"totalScore"` // running sum of level scores
	CompletedLevels json.RawMessage `gorm:"type:json" json:"completedLevels"`
	LevelQuestions  json.RawMessage `gorm:"type:json" json:"-"` // level -> ordered question IDs
	TimeLimit       int             `gorm:"default:900" json:"timeLimit"` // seconds
	StartedAt       time.Time       `json:"startedAt"`
	Status          RunStatus       `gorm:"size:20;default:'active'" json:"status"`
}

func (ChallengeRun) TableName() string {
	return "challenge_runs"
}
