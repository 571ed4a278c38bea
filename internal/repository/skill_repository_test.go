package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peoplefirst_backend/internal/model"
)

func TestSkillRepository_FindUserSkillsPreloadsSkill(t *testing.T) {
	db := openTestDB(t, &model.Skill{}, &model.UserSkill{})
	repo := NewSkillRepository(db)

	sql := &model.Skill{Name: "SQL", Category: "data"}
	golang := &model.Skill{Name: "Go", Category: "backend"}
	require.NoError(t, repo.Create(sql))
	require.NoError(t, repo.Create(golang))

	require.NoError(t, repo.UpsertUserSkill(&model.UserSkill{UserID: 1, SkillID: sql.ID, Score: 85, Level: 3, Verified: true}))
	require.NoError(t, repo.UpsertUserSkill(&model.UserSkill{UserID: 1, SkillID: golang.ID, Score: 92, Level: 3, Verified: true}))
	require.NoError(t, repo.UpsertUserSkill(&model.UserSkill{UserID: 2, SkillID: sql.ID, Score: 40}))

	skills, err := repo.FindUserSkills(1)
	require.NoError(t, err)
	require.Len(t, skills, 2)

	// Highest score first, each row carrying its skill.
	require.NotNil(t, skills[0].Skill)
	assert.Equal(t, "Go", skills[0].Skill.Name)
	assert.Equal(t, 92, skills[0].Score)
	require.NotNil(t, skills[1].Skill)
	assert.Equal(t, "SQL", skills[1].Skill.Name)

	one, err := repo.FindUserSkill(1, sql.ID)
	require.NoError(t, err)
	require.NotNil(t, one.Skill)
	assert.Equal(t, "SQL", one.Skill.Name)
}

func TestSkillRepository_UpsertUserSkillOverwrites(t *testing.T) {
	db := openTestDB(t, &model.Skill{}, &model.UserSkill{})
	repo := NewSkillRepository(db)

	skill := &model.Skill{Name: "SQL"}
	require.NoError(t, repo.Create(skill))

	require.NoError(t, repo.UpsertUserSkill(&model.UserSkill{UserID: 1, SkillID: skill.ID, Score: 60, Level: 2, Verified: false}))
	require.NoError(t, repo.UpsertUserSkill(&model.UserSkill{UserID: 1, SkillID: skill.ID, Score: 88, Level: 3, Verified: true}))

	var count int64
	require.NoError(t, db.Model(&model.UserSkill{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	us, err := repo.FindUserSkill(1, skill.ID)
	require.NoError(t, err)
	assert.Equal(t, 88, us.Score)
	assert.Equal(t, 3, us.Level)
	assert.True(t, us.Verified)
	assert.False(t, us.LastAssessment.IsZero())
}

func TestSkillRepository_CountVerifiedAtOrAbove(t *testing.T) {
	db := openTestDB(t, &model.Skill{}, &model.UserSkill{})
	repo := NewSkillRepository(db)

	a := &model.Skill{Name: "SQL"}
	b := &model.Skill{Name: "Go"}
	c := &model.Skill{Name: "CSS"}
	for _, s := range []*model.Skill{a, b, c} {
		require.NoError(t, repo.Create(s))
	}

	require.NoError(t, repo.UpsertUserSkill(&model.UserSkill{UserID: 1, SkillID: a.ID, Score: 90, Verified: true}))
	require.NoError(t, repo.UpsertUserSkill(&model.UserSkill{UserID: 1, SkillID: b.ID, Score: 72, Verified: true}))
	require.NoError(t, repo.UpsertUserSkill(&model.UserSkill{UserID: 1, SkillID: c.ID, Score: 95, Verified: false}))

	count, err := repo.CountVerifiedAtOrAbove(1, 80)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	count, err = repo.CountVerifiedAtOrAbove(1, 70)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}
