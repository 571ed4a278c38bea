package model

// Story is an alumni success story on the story wall.
type Story struct {
	UUIDBase
	AuthorID   uint   `gorm:"index;type:bigint unsigned" json:"authorId"`
	Title      string `gorm:"size:255;not null" json:"title"`
	Content    string `gorm:"type:text;not null" json:"content"`
	CareerPath string `gorm:"size:100;index" json:"careerPath"`
	Likes      int    `gorm:"default:0" json:"likes"`
	Author     *User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (Story) TableName() string {
	return "stories"
}

type StoryComment struct {
	UUIDBase
	StoryID  string `gorm:"index;type:varchar(36)" json:"storyId"`
	AuthorID uint   `gorm:"type:bigint unsigned" json:"authorId"`
	Content  string `gorm:"type:text;not null" json:"content"`
	Author   *User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (StoryComment) TableName() string {
	return "story_comments"
}
