package repository

import (
	"peoplefirst_backend/internal/model"

	"gorm.io/gorm"
)

type GuildRepository struct {
	DB *gorm.DB
}

func NewGuildRepository(db *gorm.DB) *GuildRepository {
	return &GuildRepository{DB: db}
}

func (r *GuildRepository) Create(guild *model.Guild) error {
	return r.DB.Create(guild).Error
}

func (r *GuildRepository) FindByID(id string) (*model.Guild, error) {
	var guild model.Guild
	err := r.DB.Where("id = ?", id).First(&guild).Error
	return &guild, err
}

func (r *GuildRepository) FindAll(page, pageSize int, search string) ([]model.Guild, int64, error) {
	var guilds []model.Guild
	var total int64

	query := r.DB.Model(&model.Guild{})
	if search != "" {
		query = query.Where("name LIKE ? OR description LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("member_count DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&guilds).Error
	return guilds, total, err
}

func (r *GuildRepository) Update(guild *model.Guild) error {
	return r.DB.Save(guild).Error
}

// Delete soft-deletes the guild and its memberships together.
func (r *GuildRepository) Delete(guildID string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("guild_id = ?", guildID).Delete(&model.GuildMember{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", guildID).Delete(&model.Guild{}).Error
	})
}

// TransferLeadership swaps the leader role to another member in one
// transaction, demoting the previous leader to a plain member.
func (r *GuildRepository) TransferLeadership(guildID string, fromID, toID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.GuildMember{}).
			Where("guild_id = ? AND user_id = ?", guildID, toID).
			Update("role", model.RoleLeader).Error; err != nil {
			return err
		}
		return tx.Model(&model.GuildMember{}).
			Where("guild_id = ? AND user_id = ?", guildID, fromID).
			Update("role", model.RoleMember).
			Error
	})
}

func (r *GuildRepository) FindMember(guildID string, userID uint) (*model.GuildMember, error) {
	var member model.GuildMember
	err := r.DB.Where("guild_id = ? AND user_id = ?", guildID, userID).
		First(&member).Error
	return &member, err
}

func (r *GuildRepository) FindMembers(guildID string) ([]model.GuildMember, error) {
	var members []model.GuildMember
	err := r.DB.Preload("User").
		Where("guild_id = ?", guildID).
		Order("joined_at").
		Find(&members).Error
	return members, err
}

func (r *GuildRepository) FindUserGuilds(userID uint) ([]model.GuildMember, error) {
	var memberships []model.GuildMember
	err := r.DB.Preload("Guild").
		Where("user_id = ?", userID).
		Find(&memberships).Error
	return memberships, err
}

// AddMember inserts the membership and bumps member_count in one
// transaction so the counter cannot drift from the rows.
func (r *GuildRepository) AddMember(member *model.GuildMember) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(member).Error; err != nil {
			return err
		}
		return tx.Model(&model.Guild{}).
			Where("id = ?", member.GuildID).
			Update("member_count", gorm.Expr("member_count + 1")).
			Error
	})
}

func (r *GuildRepository) RemoveMember(guildID string, userID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("guild_id = ? AND user_id = ?", guildID, userID).
			Delete(&model.GuildMember{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&model.Guild{}).
			Where("id = ? AND member_count > 0", guildID).
			Update("member_count", gorm.Expr("member_count - 1")).
			Error
	})
}

func (r *GuildRepository) UpdateMemberRole(guildID string, userID uint, role model.GuildRole) error {
	return r.DB.Model(&model.GuildMember{}).
		Where("guild_id = ? AND user_id = ?", guildID, userID).
		Update("role", role).
		Error
}

func (r *GuildRepository) CreateMessage(msg *model.GuildMessage) error {
	return r.DB.Create(msg).Error
}

func (r *GuildRepository) FindMessages(guildID string, before string, limit int) ([]model.GuildMessage, error) {
	var messages []model.GuildMessage
	query := r.DB.Preload("User").
		Where("guild_id = ?", guildID)
	if before != "" {
		query = query.Where("created_at < (SELECT created_at FROM guild_messages WHERE id = ?)", before)
	}
	err := query.Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

func (r *GuildRepository) CreateActivity(activity *model.GuildActivity) error {
	return r.DB.Create(activity).Error
}

func (r *GuildRepository) FindActivities(guildID string, limit int) ([]model.GuildActivity, error) {
	var activities []model.GuildActivity
	err := r.DB.Preload("User").
		Where("guild_id = ?", guildID).
		Order("created_at DESC").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}
