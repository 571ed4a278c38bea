package model

import "time"

type GradeType string

const (
	GradeQuiz           GradeType = "quiz"
	GradeAssignment     GradeType = "assignment"
	GradeProject        GradeType = "project"
	GradeFinalExam      GradeType = "final_exam"
	GradeParticipation  GradeType = "participation"
	GradePeerEvaluation GradeType = "peer_evaluation"
)

// swagger:model Grade
type Grade struct {
	UUIDBase
	UserID      uint       `gorm:"index;type:bigint unsigned" json:"userId"`
	CourseID    string     `gorm:"type:varchar(36)" json:"courseId,omitempty"`
	SkillID     string     `gorm:"type:varchar(36)" json:"skillId,omitempty"`
	GradeType   GradeType  `gorm:"size:20;not null" json:"gradeType"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Semester    string     `gorm:"size:20;index" json:"semester"`
	Credits     int        `gorm:"default:3" json:"credits"`
	MaxScore    float64    `gorm:"not null" json:"maxScore"`
	Score       float64    `json:"score"`
	LetterGrade string     `gorm:"size:2" json:"letterGrade"`
	Percentage  float64    `json:"percentage"`
	IsPassed    bool       `json:"isPassed"`
	Feedback    string     `gorm:"type:text" json:"feedback"`
	GradedBy    uint       `gorm:"type:bigint unsigned" json:"gradedBy,omitempty"`
	GradedAt    *time.Time `json:"gradedAt,omitempty"`
}

func (Grade) TableName() string {
	return "grades"
}
