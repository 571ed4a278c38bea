package model

import (
	"encoding/json"
	"time"
)

type GuildRole string

const (
	RoleLeader    GuildRole = "leader"
	RoleModerator GuildRole = "moderator"
	RoleMember    GuildRole = "member"
)

// swagger:model Guild
type Guild struct {
	UUIDBase
	Name        string `gorm:"size:100;not null;unique" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"size:100;index" json:"category"`
	MemberCount int    `gorm:"default:0" json:"memberCount"`
	MaxMembers  int    `gorm:"default:50" json:"maxMembers"`
	GuildLevel  int    `gorm:"default:1" json:"guildLevel"`
	CreatorID   uint   `gorm:"type:bigint unsigned" json:"creatorId"`
}

func (Guild) TableName() string {
	return "guilds"
}

type GuildMember struct {
	BaseModel
	GuildID  string    `gorm:"uniqueIndex:idx_guild_member;type:varchar(36)" json:"guildId"`
	UserID   uint      `gorm:"uniqueIndex:idx_guild_member;type:bigint unsigned" json:"userId"`
	Role     GuildRole `gorm:"size:20;default:'member'" json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Guild    *Guild    `gorm:"foreignKey:GuildID" json:"guild,omitempty"`
}

func (GuildMember) TableName() string {
	return "guild_members"
}

type MessageType string

const (
	MessageText   MessageType = "text"
	MessageImage  MessageType = "image"
	MessageFile   MessageType = "file"
	MessageSystem MessageType = "system"
)

type GuildMessage struct {
	UUIDBase
	GuildID     string      `gorm:"index;type:varchar(36)" json:"guildId"`
	UserID      uint        `gorm:"index;type:bigint unsigned" json:"userId"`
	Content     string      `gorm:"type:text;not null" json:"content"`
	MessageType MessageType `gorm:"size:20;default:'text'" json:"messageType"`
	ReplyTo     string      `gorm:"type:varchar(36)" json:"replyTo,omitempty"`
	IsEdited    bool        `gorm:"default:false" json:"isEdited"`
	User        *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (GuildMessage) TableName() string {
	return "guild_messages"
}

type ActivityType string

const (
	ActivityJoined      ActivityType = "joined"
	ActivityLeft        ActivityType = "left"
	ActivityMessage     ActivityType = "message"
	ActivityAchievement ActivityType = "achievement"
	ActivityLevelUp     ActivityType = "level_up"
)

type GuildActivity struct {
	BaseModel
	GuildID      string          `gorm:"index;type:varchar(36)" json:"guildId"`
	UserID       uint            `gorm:"type:bigint unsigned" json:"userId"`
	ActivityType ActivityType    `gorm:"size:20;not null" json:"activityType"`
	Content      string          `gorm:"type:text" json:"content"`
	Metadata     json.RawMessage `gorm:"type:json" json:"metadata,omitempty"`
	User         *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (GuildActivity) TableName() string {
	return "guild_activities"
}
