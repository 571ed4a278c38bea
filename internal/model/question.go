package model

import "encoding/json"

type QuestionType string

const (
	SingleChoice   QuestionType = "single_choice"
	MultipleChoice QuestionType = "multiple_choice"
	FillBlank      QuestionType = "fill_blank"
	Code           QuestionType = "code"
)

// AnswerMode decides how a submission is compared against the stored
// answer. Authored explicitly per question.
type AnswerMode string

const (
	// AnswerExact compares the submission to a single stored string.
	AnswerExact AnswerMode = "exact"
	// AnswerAnySet compares the submitted set to the stored set,
	// order-independent. Used by multiple_choice.
	AnswerAnySet AnswerMode = "any_set"
	// AnswerOneOf accepts any single one of the stored alternatives.
	AnswerOneOf AnswerMode = "one_of"
)

// Question is immutable once authored: content authors create it, assessment
// takers only ever read it (with the answer stripped).
// swagger:model Question
type Question struct {
	UUIDBase
	SkillID      string          `gorm:"index;type:varchar(36)" json:"skillId"`
	QuestionText string          `gorm:"type:text;not null" json:"questionText"`
	QuestionType QuestionType    `gorm:"size:50;not null" json:"questionType"`
	Options      json.RawMessage `gorm:"type:json" json:"options"` // label -> text
	AnswerMode   AnswerMode      `gorm:"size:20;default:'exact'" json:"-"`
	AnswerValue  json.RawMessage `gorm:"type:json" json:"-"` // string or []string per mode
	Difficulty   int             `gorm:"default:1" json:"difficulty"`  // 1-5
	SkillPoints  int             `gorm:"default:10" json:"skillPoints"` // author-assigned weight
	Explanation  string          `gorm:"type:text" json:"explanation"`
	IsApproved   bool            `gorm:"default:false;index" json:"isApproved"`
	CreatedBy    uint            `gorm:"type:bigint unsigned" json:"createdBy"`
}

func (Question) TableName() string {
	return "questions"
}

// ExactAnswer returns the stored string for exact mode.
func (q *Question) ExactAnswer() string {
	var s string
	if err := json.Unmarshal(q.AnswerValue, &s); err != nil {
		return ""
	}
	return s
}

// AnswerSet returns the stored alternatives for any_set and one_of modes.
func (q *Question) AnswerSet() []string {
	var set []string
	if err := json.Unmarshal(q.AnswerValue, &set); err != nil {
		return nil
	}
	return set
}
