package model

import "time"

type ContentType string

const (
	ContentArticle ContentType = "article"
	ContentVideo   ContentType = "video"
)

// Content is one piece of career-exploration material on the browse surface.
// swagger:model Content
type Content struct {
	UUIDBase
	Title       string      `gorm:"size:255;not null" json:"title"`
	Description string      `gorm:"type:text" json:"description"`
	Category    string      `gorm:"size:100;index" json:"category"`
	ContentType ContentType `gorm:"size:20;default:'article'" json:"contentType"`
	Body        string      `gorm:"type:longtext" json:"body,omitempty"`
	VideoURL    string      `gorm:"size:255" json:"videoUrl,omitempty"`
	Duration    int         `gorm:"default:0" json:"duration"` // seconds, probed on upload
	Thumbnail   string      `gorm:"size:255" json:"thumbnail,omitempty"`
	AuthorID    uint        `gorm:"index;type:bigint unsigned" json:"authorId"`
	ViewCount   int         `gorm:"default:0" json:"viewCount"`
	Author      *User       `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (Content) TableName() string {
	return "contents"
}

type Favorite struct {
	BaseModel
	UserID    uint   `gorm:"uniqueIndex:idx_user_content_fav;type:bigint unsigned" json:"userId"`
	ContentID string `gorm:"uniqueIndex:idx_user_content_fav;type:varchar(36)" json:"contentId"`
}

func (Favorite) TableName() string {
	return "favorites"
}

// ContentCompletion feeds the course_complete badge requirement.
type ContentCompletion struct {
	BaseModel
	UserID      uint      `gorm:"uniqueIndex:idx_user_content_done;type:bigint unsigned" json:"userId"`
	ContentID   string    `gorm:"uniqueIndex:idx_user_content_done;type:varchar(36)" json:"contentId"`
	CompletedAt time.Time `json:"completedAt"`
}

func (ContentCompletion) TableName() string {
	return "content_completions"
}
