package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"peoplefirst_backend/internal/model"
	"peoplefirst_backend/internal/util"
)

type fakeGuildStore struct {
	guilds     map[string]*model.Guild
	members    []model.GuildMember
	messages   []model.GuildMessage
	activities []model.GuildActivity
	nextID     int
}

func newFakeGuildStore() *fakeGuildStore {
	return &fakeGuildStore{guilds: map[string]*model.Guild{}}
}

func (f *fakeGuildStore) Create(guild *model.Guild) error {
	f.nextID++
	guild.ID = fmt.Sprintf("g-%d", f.nextID)
	f.guilds[guild.ID] = guild
	return nil
}

func (f *fakeGuildStore) FindByID(id string) (*model.Guild, error) {
	if g, ok := f.guilds[id]; ok {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeGuildStore) FindAll(page, pageSize int, search string) ([]model.Guild, int64, error) {
	var out []model.Guild
	for _, g := range f.guilds {
		out = append(out, *g)
	}
	return out, int64(len(out)), nil
}

func (f *fakeGuildStore) Delete(guildID string) error {
	delete(f.guilds, guildID)
	var kept []model.GuildMember
	for _, m := range f.members {
		if m.GuildID != guildID {
			kept = append(kept, m)
		}
	}
	f.members = kept
	return nil
}

func (f *fakeGuildStore) TransferLeadership(guildID string, fromID, toID uint) error {
	if err := f.UpdateMemberRole(guildID, toID, model.RoleLeader); err != nil {
		return err
	}
	return f.UpdateMemberRole(guildID, fromID, model.RoleMember)
}

func (f *fakeGuildStore) FindMember(guildID string, userID uint) (*model.GuildMember, error) {
	for i := range f.members {
		if f.members[i].GuildID == guildID && f.members[i].UserID == userID {
			return &f.members[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeGuildStore) FindMembers(guildID string) ([]model.GuildMember, error) {
	var out []model.GuildMember
	for _, m := range f.members {
		if m.GuildID == guildID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeGuildStore) FindUserGuilds(userID uint) ([]model.GuildMember, error) {
	var out []model.GuildMember
	for _, m := range f.members {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeGuildStore) AddMember(member *model.GuildMember) error {
	f.members = append(f.members, *member)
	if g, ok := f.guilds[member.GuildID]; ok {
		g.MemberCount++
	}
	return nil
}

func (f *fakeGuildStore) RemoveMember(guildID string, userID uint) error {
	for i := range f.members {
		if f.members[i].GuildID == guildID && f.members[i].UserID == userID {
			f.members = append(f.members[:i], f.members[i+1:]...)
			if g, ok := f.guilds[guildID]; ok && g.MemberCount > 0 {
				g.MemberCount--
			}
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeGuildStore) UpdateMemberRole(guildID string, userID uint, role model.GuildRole) error {
	for i := range f.members {
		if f.members[i].GuildID == guildID && f.members[i].UserID == userID {
			f.members[i].Role = role
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeGuildStore) CreateMessage(msg *model.GuildMessage) error {
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeGuildStore) FindMessages(guildID string, before string, limit int) ([]model.GuildMessage, error) {
	var out []model.GuildMessage
	for _, m := range f.messages {
		if m.GuildID == guildID {
			out = append(out, m)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeGuildStore) CreateActivity(activity *model.GuildActivity) error {
	f.activities = append(f.activities, *activity)
	return nil
}

func (f *fakeGuildStore) FindActivities(guildID string, limit int) ([]model.GuildActivity, error) {
	var out []model.GuildActivity
	for _, a := range f.activities {
		if a.GuildID == guildID {
			out = append(out, a)
		}
	}
	return out, nil
}

func TestGuildService_Create(t *testing.T) {
	store := newFakeGuildStore()
	svc := NewGuildService(store, nil)

	guild, err := svc.Create(1, GuildInput{Name: "Gophers", MaxMembers: 500})
	require.NoError(t, err)

	assert.Equal(t, 50, guild.MaxMembers, "out-of-range max members falls back to 50")
	assert.Equal(t, 1, guild.MemberCount)
	assert.Equal(t, uint(1), guild.CreatorID)

	member, err := store.FindMember(guild.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, model.RoleLeader, member.Role, "creator joins as leader")
}

func TestGuildService_Join(t *testing.T) {
	store := newFakeGuildStore()
	svc := NewGuildService(store, nil)

	guild, err := svc.Create(1, GuildInput{Name: "Gophers", MaxMembers: 2})
	require.NoError(t, err)

	require.NoError(t, svc.Join(2, guild.ID))
	assert.ErrorIs(t, svc.Join(2, guild.ID), util.ErrAlreadyMember)
	assert.ErrorIs(t, svc.Join(3, guild.ID), util.ErrGuildFull)
	assert.ErrorIs(t, svc.Join(4, "missing"), util.ErrGuildNotFound)

	activities, err := svc.Activities(guild.ID, 10)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, model.ActivityJoined, activities[0].ActivityType)
}

func TestGuildService_Leave(t *testing.T) {
	store := newFakeGuildStore()
	svc := NewGuildService(store, nil)

	guild, err := svc.Create(1, GuildInput{Name: "Gophers"})
	require.NoError(t, err)
	require.NoError(t, svc.Join(2, guild.ID))

	assert.ErrorIs(t, svc.Leave(1, guild.ID), util.ErrPermissionDenied, "the leader cannot walk out")
	assert.ErrorIs(t, svc.Leave(9, guild.ID), util.ErrNotGuildMember)

	require.NoError(t, svc.Leave(2, guild.ID))
	assert.Equal(t, 1, store.guilds[guild.ID].MemberCount)
	assert.False(t, svc.IsMember(2, guild.ID))
}

func TestGuildService_PromoteMember(t *testing.T) {
	store := newFakeGuildStore()
	svc := NewGuildService(store, nil)

	guild, err := svc.Create(1, GuildInput{Name: "Gophers"})
	require.NoError(t, err)
	require.NoError(t, svc.Join(2, guild.ID))
	require.NoError(t, svc.Join(3, guild.ID))

	require.NoError(t, svc.PromoteMember(1, guild.ID, 2, model.RoleModerator))
	member, err := store.FindMember(guild.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, model.RoleModerator, member.Role)

	assert.ErrorIs(t, svc.PromoteMember(3, guild.ID, 2, model.RoleMember), util.ErrPermissionDenied, "only the leader promotes")
	assert.ErrorIs(t, svc.PromoteMember(1, guild.ID, 2, model.RoleLeader), util.ErrPermissionDenied, "leadership is not assignable")
	assert.ErrorIs(t, svc.PromoteMember(1, guild.ID, 9, model.RoleMember), util.ErrNotGuildMember)
}

func TestGuildService_TransferLeadership(t *testing.T) {
	store := newFakeGuildStore()
	svc := NewGuildService(store, nil)

	guild, err := svc.Create(1, GuildInput{Name: "Gophers"})
	require.NoError(t, err)
	require.NoError(t, svc.Join(2, guild.ID))

	assert.ErrorIs(t, svc.TransferLeadership(2, guild.ID, 1), util.ErrPermissionDenied, "only the leader transfers")
	assert.ErrorIs(t, svc.TransferLeadership(1, guild.ID, 1), util.ErrPermissionDenied, "self transfer is a no-op")
	assert.ErrorIs(t, svc.TransferLeadership(1, guild.ID, 9), util.ErrNotGuildMember)

	require.NoError(t, svc.TransferLeadership(1, guild.ID, 2))
	newLeader, err := store.FindMember(guild.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, model.RoleLeader, newLeader.Role)
	oldLeader, err := store.FindMember(guild.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, model.RoleMember, oldLeader.Role)

	// The old leader can leave now.
	require.NoError(t, svc.Leave(1, guild.ID))
}

func TestGuildService_Delete(t *testing.T) {
	store := newFakeGuildStore()
	svc := NewGuildService(store, nil)

	guild, err := svc.Create(1, GuildInput{Name: "Gophers"})
	require.NoError(t, err)
	require.NoError(t, svc.Join(2, guild.ID))

	assert.ErrorIs(t, svc.Delete(2, guild.ID, false), util.ErrPermissionDenied, "members cannot disband")
	assert.ErrorIs(t, svc.Delete(9, guild.ID, false), util.ErrNotGuildMember)

	require.NoError(t, svc.Delete(1, guild.ID, false))
	_, err = svc.Get(guild.ID)
	assert.ErrorIs(t, err, util.ErrGuildNotFound)
	assert.Empty(t, store.members)

	// Admins can disband guilds they are not in.
	other, err := svc.Create(3, GuildInput{Name: "Rustaceans"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(99, other.ID, true))
}

func TestGuildService_Messages(t *testing.T) {
	store := newFakeGuildStore()
	svc := NewGuildService(store, nil)

	guild, err := svc.Create(1, GuildInput{Name: "Gophers"})
	require.NoError(t, err)

	msg, err := svc.PostMessage(1, guild.ID, "hello guild", "")
	require.NoError(t, err)
	assert.Equal(t, model.MessageText, msg.MessageType)

	_, err = svc.PostMessage(9, guild.ID, "intruder", "")
	assert.ErrorIs(t, err, util.ErrNotGuildMember)

	msgs, err := svc.Messages(1, guild.ID, "", 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello guild", msgs[0].Content)

	_, err = svc.Messages(9, guild.ID, "", 0)
	assert.ErrorIs(t, err, util.ErrNotGuildMember)
}
