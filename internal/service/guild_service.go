package service

import (
	"errors"
	"time"

	"peoplefirst_backend/internal/model"
	"peoplefirst_backend/internal/repository"
	"peoplefirst_backend/internal/util"
	"peoplefirst_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GuildStore is the persistence surface behind guilds, membership, chat
// history and the activity feed.
type GuildStore interface {
	Create(guild *model.Guild) error
	FindByID(id string) (*model.Guild, error)
	FindAll(page, pageSize int, search string) ([]model.Guild, int64, error)
	Delete(guildID string) error
	FindMember(guildID string, userID uint) (*model.GuildMember, error)
	TransferLeadership(guildID string, fromID, toID uint) error
	FindMembers(guildID string) ([]model.GuildMember, error)
	FindUserGuilds(userID uint) ([]model.GuildMember, error)
	AddMember(member *model.GuildMember) error
	RemoveMember(guildID string, userID uint) error
	UpdateMemberRole(guildID string, userID uint, role model.GuildRole) error
	CreateMessage(msg *model.GuildMessage) error
	FindMessages(guildID string, before string, limit int) ([]model.GuildMessage, error)
	CreateActivity(activity *model.GuildActivity) error
	FindActivities(guildID string, limit int) ([]model.GuildActivity, error)
}

var _ GuildStore = (*repository.GuildRepository)(nil)

type GuildService struct {
	Guilds GuildStore
	Hub    *GuildHub
}

func NewGuildService(guilds GuildStore, hub *GuildHub) *GuildService {
	return &GuildService{Guilds: guilds, Hub: hub}
}

type GuildInput struct {
	Name        string `json:"name" binding:"required,min=3,max=100"`
	Description string `json:"description"`
	Category    string `json:"category"`
	MaxMembers  int    `json:"maxMembers"`
}

// Create opens a guild with the caller as leader.
func (s *GuildService) Create(userID uint, input GuildInput) (*model.Guild, error) {
	maxMembers := input.MaxMembers
	if maxMembers <= 0 || maxMembers > 200 {
		maxMembers = 50
	}

	guild := &model.Guild{
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		MaxMembers:  maxMembers,
		CreatorID:   userID,
	}
	if err := s.Guilds.Create(guild); err != nil {
		return nil, err
	}

	member := &model.GuildMember{
		GuildID:  guild.ID,
		UserID:   userID,
		Role:     model.RoleLeader,
		JoinedAt: time.Now(),
	}
	if err := s.Guilds.AddMember(member); err != nil {
		return nil, err
	}
	guild.MemberCount = 1

	logger.Log.Info("guild created", zap.String("guild_id", guild.ID), zap.Uint("creator", userID))
	return guild, nil
}

func (s *GuildService) Get(id string) (*model.Guild, error) {
	guild, err := s.Guilds.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrGuildNotFound
		}
		return nil, err
	}
	return guild, nil
}

func (s *GuildService) List(page, pageSize int, search string) ([]model.Guild, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.Guilds.FindAll(page, pageSize, search)
}

func (s *GuildService) Join(userID uint, guildID string) error {
	guild, err := s.Get(guildID)
	if err != nil {
		return err
	}
	if _, err := s.Guilds.FindMember(guildID, userID); err == nil {
		return util.ErrAlreadyMember
	}
	if guild.MemberCount >= guild.MaxMembers {
		return util.ErrGuildFull
	}

	member := &model.GuildMember{
		GuildID:  guildID,
		UserID:   userID,
		Role:     model.RoleMember,
		JoinedAt: time.Now(),
	}
	if err := s.Guilds.AddMember(member); err != nil {
		return err
	}

	s.recordActivity(guildID, userID, model.ActivityJoined, "joined the guild")
	return nil
}

func (s *GuildService) Leave(userID uint, guildID string) error {
	member, err := s.Guilds.FindMember(guildID, userID)
	if err != nil {
		return util.ErrNotGuildMember
	}
	// The leader must hand over before leaving.
	if member.Role == model.RoleLeader {
		return util.ErrPermissionDenied
	}

	if err := s.Guilds.RemoveMember(guildID, userID); err != nil {
		return err
	}

	s.recordActivity(guildID, userID, model.ActivityLeft, "left the guild")
	return nil
}

// Delete disbands a guild. Only the leader (or an admin) may do it.
func (s *GuildService) Delete(actorID uint, guildID string, isAdmin bool) error {
	if _, err := s.Get(guildID); err != nil {
		return err
	}
	if !isAdmin {
		member, err := s.Guilds.FindMember(guildID, actorID)
		if err != nil {
			return util.ErrNotGuildMember
		}
		if member.Role != model.RoleLeader {
			return util.ErrPermissionDenied
		}
	}
	if err := s.Guilds.Delete(guildID); err != nil {
		return err
	}
	logger.Log.Info("guild disbanded", zap.String("guild_id", guildID), zap.Uint("actor", actorID))
	return nil
}

// TransferLeadership hands the leader role to another member. The
// previous leader stays in the guild as a plain member.
func (s *GuildService) TransferLeadership(actorID uint, guildID string, targetID uint) error {
	actor, err := s.Guilds.FindMember(guildID, actorID)
	if err != nil {
		return util.ErrNotGuildMember
	}
	if actor.Role != model.RoleLeader {
		return util.ErrPermissionDenied
	}
	if targetID == actorID {
		return util.ErrPermissionDenied
	}
	if _, err := s.Guilds.FindMember(guildID, targetID); err != nil {
		return util.ErrNotGuildMember
	}
	if err := s.Guilds.TransferLeadership(guildID, actorID, targetID); err != nil {
		return err
	}

	s.recordActivity(guildID, targetID, model.ActivityAchievement, "became the guild leader")
	return nil
}

func (s *GuildService) Members(guildID string) ([]model.GuildMember, error) {
	if _, err := s.Get(guildID); err != nil {
		return nil, err
	}
	return s.Guilds.FindMembers(guildID)
}

func (s *GuildService) UserGuilds(userID uint) ([]model.GuildMember, error) {
	return s.Guilds.FindUserGuilds(userID)
}

// PromoteMember changes a member's role. Only the leader may do this,
// and the leader role itself is not assignable here.
func (s *GuildService) PromoteMember(actorID uint, guildID string, targetID uint, role model.GuildRole) error {
	actor, err := s.Guilds.FindMember(guildID, actorID)
	if err != nil {
		return util.ErrNotGuildMember
	}
	if actor.Role != model.RoleLeader {
		return util.ErrPermissionDenied
	}
	if role != model.RoleModerator && role != model.RoleMember {
		return util.ErrPermissionDenied
	}
	if _, err := s.Guilds.FindMember(guildID, targetID); err != nil {
		return util.ErrNotGuildMember
	}
	return s.Guilds.UpdateMemberRole(guildID, targetID, role)
}

// PostMessage persists a chat message sent over HTTP and fans it out to
// connected sockets.
func (s *GuildService) PostMessage(userID uint, guildID, content, replyTo string) (*model.GuildMessage, error) {
	if _, err := s.Guilds.FindMember(guildID, userID); err != nil {
		return nil, util.ErrNotGuildMember
	}

	msg := &model.GuildMessage{
		GuildID:     guildID,
		UserID:      userID,
		Content:     content,
		MessageType: model.MessageText,
		ReplyTo:     replyTo,
	}
	if err := s.Guilds.CreateMessage(msg); err != nil {
		return nil, err
	}

	if s.Hub != nil {
		s.Hub.Publish(guildID, WSMessage{Type: "message", Data: mustJSON(msg)})
	}
	return msg, nil
}

func (s *GuildService) Messages(userID uint, guildID, before string, limit int) ([]model.GuildMessage, error) {
	if _, err := s.Guilds.FindMember(guildID, userID); err != nil {
		return nil, util.ErrNotGuildMember
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.Guilds.FindMessages(guildID, before, limit)
}

func (s *GuildService) Activities(guildID string, limit int) ([]model.GuildActivity, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Guilds.FindActivities(guildID, limit)
}

func (s *GuildService) OnlineCount(guildID string) int64 {
	if s.Hub == nil {
		return 0
	}
	return s.Hub.OnlineCount(guildID)
}

// IsMember reports membership for the websocket upgrade check.
func (s *GuildService) IsMember(userID uint, guildID string) bool {
	_, err := s.Guilds.FindMember(guildID, userID)
	return err == nil
}

func (s *GuildService) recordActivity(guildID string, userID uint, kind model.ActivityType, content string) {
	activity := &model.GuildActivity{
		GuildID:      guildID,
		UserID:       userID,
		ActivityType: kind,
		Content:      content,
	}
	if err := s.Guilds.CreateActivity(activity); err != nil {
		logger.Log.Warn("guild activity record failed", zap.Error(err))
		return
	}
	if s.Hub != nil {
		s.Hub.Publish(guildID, WSMessage{Type: "activity", Data: mustJSON(activity)})
	}
}
