package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peoplefirst_backend/internal/model"
	"peoplefirst_backend/internal/repository"
)

type fakeBadgeStore struct {
	catalog   []model.Badge
	earned    []model.UserBadge
	completed int64
	social    int64
	maxScore  int64
	awardErr  error
}

func (f *fakeBadgeStore) FindAll() ([]model.Badge, error) { return f.catalog, nil }

func (f *fakeBadgeStore) FindByID(id string) (*model.Badge, error) {
	for i := range f.catalog {
		if f.catalog[i].ID == id {
			return &f.catalog[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeBadgeStore) FindUserBadges(userID uint) ([]model.UserBadge, error) {
	var out []model.UserBadge
	for _, ub := range f.earned {
		if ub.UserID == userID {
			out = append(out, ub)
		}
	}
	return out, nil
}

func (f *fakeBadgeStore) HasBadge(userID uint, badgeID string) (bool, error) {
	for _, ub := range f.earned {
		if ub.UserID == userID && ub.BadgeID == badgeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBadgeStore) Award(ub *model.UserBadge) error {
	if f.awardErr != nil {
		return f.awardErr
	}
	f.earned = append(f.earned, *ub)
	return nil
}

func (f *fakeBadgeStore) CountEarned(userID uint) (int64, error) {
	ubs, _ := f.FindUserBadges(userID)
	return int64(len(ubs)), nil
}

func (f *fakeBadgeStore) SumEarnedPoints(userID uint) (int64, error) {
	var sum int64
	for _, ub := range f.earned {
		if ub.UserID != userID {
			continue
		}
		if b, err := f.FindByID(ub.BadgeID); err == nil {
			sum += int64(b.Points)
		}
	}
	return sum, nil
}

func (f *fakeBadgeStore) Leaderboard(limit int) ([]repository.BadgeLeaderboardEntry, error) {
	return nil, nil
}

func (f *fakeBadgeStore) MaxSkillScore(userID uint) (int64, error)          { return f.maxScore, nil }
func (f *fakeBadgeStore) CountCompletedContent(userID uint) (int64, error)  { return f.completed, nil }
func (f *fakeBadgeStore) CountSocialInteractions(userID uint) (int64, error) { return f.social, nil }

type fakeVerifiedSkills struct {
	byMinScore map[int]int64
}

func (f *fakeVerifiedSkills) CountVerifiedAtOrAbove(userID uint, minScore int) (int64, error) {
	return f.byMinScore[minScore], nil
}

type fakeXPStore struct {
	users map[uint]*model.User
	paid  map[uint]int
}

func (f *fakeXPStore) FindByID(id uint) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return u, nil
}

func (f *fakeXPStore) UpdateXP(userID uint, xp int) error {
	if f.paid == nil {
		f.paid = map[uint]int{}
	}
	f.paid[userID] += xp
	return nil
}

func badgeFixture(id, name string, req model.RequirementType, value, points int) model.Badge {
	b := model.Badge{
		Name:             name,
		RequirementType:  req,
		RequirementValue: value,
		Points:           points,
	}
	b.ID = id
	return b
}

func TestBadgeService_Progress(t *testing.T) {
	store := &fakeBadgeStore{
		catalog: []model.Badge{
			badgeFixture("b1", "First Steps", model.ReqCourseComplete, 1, 10),
			badgeFixture("b2", "Knowledge Seeker", model.ReqCourseComplete, 10, 50),
			badgeFixture("b3", "Milestone Hunter", model.ReqMilestone, 1000, 100),
		},
		completed: 4,
	}
	store.earned = []model.UserBadge{{UserID: 1, BadgeID: "b1", EarnedAt: time.Now()}}

	users := &fakeXPStore{users: map[uint]*model.User{1: {XP: 500}}}
	svc := NewBadgeService(store, &fakeVerifiedSkills{}, users)

	progress, err := svc.Progress(1)
	require.NoError(t, err)
	require.Len(t, progress, 3)

	assert.True(t, progress[0].Earned)
	assert.Equal(t, 100, progress[0].Percent)
	require.NotNil(t, progress[0].EarnedAt)

	assert.False(t, progress[1].Earned)
	assert.Equal(t, int64(4), progress[1].Current)
	assert.Equal(t, 40, progress[1].Percent)

	assert.Equal(t, int64(500), progress[2].Current)
	assert.Equal(t, 50, progress[2].Percent)
}

func TestBadgeService_ProgressCapsAtHundred(t *testing.T) {
	store := &fakeBadgeStore{
		catalog:   []model.Badge{badgeFixture("b1", "First Steps", model.ReqCourseComplete, 1, 10)},
		completed: 7,
	}
	svc := NewBadgeService(store, &fakeVerifiedSkills{}, &fakeXPStore{})

	progress, err := svc.Progress(1)
	require.NoError(t, err)
	assert.Equal(t, 100, progress[0].Percent)
	assert.False(t, progress[0].Earned)
}

func TestBadgeService_SkillMasteryDefaultsThreshold(t *testing.T) {
	skills := &fakeVerifiedSkills{byMinScore: map[int]int64{70: 3, 90: 1}}
	store := &fakeBadgeStore{
		catalog: []model.Badge{
			badgeFixture("b1", "Skill Apprentice", model.ReqSkillMastery, 1, 20),
			func() model.Badge {
				b := badgeFixture("b2", "Virtuoso", model.ReqSkillMastery, 1, 100)
				b.RequirementScore = 90
				return b
			}(),
		},
	}
	svc := NewBadgeService(store, skills, &fakeXPStore{})

	progress, err := svc.Progress(1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), progress[0].Current, "zero requirement score falls back to the verified threshold")
	assert.Equal(t, int64(1), progress[1].Current)
}

func TestBadgeService_CheckAndAward(t *testing.T) {
	store := &fakeBadgeStore{
		catalog: []model.Badge{
			badgeFixture("b1", "First Steps", model.ReqCourseComplete, 1, 10),
			badgeFixture("b2", "Knowledge Seeker", model.ReqCourseComplete, 10, 50),
			badgeFixture("b3", "Social Butterfly", model.ReqSocial, 5, 25),
		},
		completed: 2,
		social:    5,
	}
	users := &fakeXPStore{users: map[uint]*model.User{1: {}}}
	svc := NewBadgeService(store, &fakeVerifiedSkills{}, users)

	awarded, err := svc.CheckAndAward(1)
	require.NoError(t, err)
	require.Len(t, awarded, 2)
	assert.Equal(t, "First Steps", awarded[0].Name)
	assert.Equal(t, "Social Butterfly", awarded[1].Name)
	assert.Equal(t, 35, users.paid[1], "award pays out badge points as XP")

	// Running the check again awards nothing new.
	again, err := svc.CheckAndAward(1)
	require.NoError(t, err)
	assert.Empty(t, again)
	assert.Equal(t, 35, users.paid[1])
}

func TestBadgeService_CheckAndAwardDuplicateRace(t *testing.T) {
	store := &fakeBadgeStore{
		catalog:   []model.Badge{badgeFixture("b1", "First Steps", model.ReqCourseComplete, 1, 10)},
		completed: 1,
		awardErr:  errors.New("Duplicate entry '1-b1' for key 'idx_user_badge'"),
	}
	users := &fakeXPStore{users: map[uint]*model.User{1: {}}}
	svc := NewBadgeService(store, &fakeVerifiedSkills{}, users)

	awarded, err := svc.CheckAndAward(1)
	require.NoError(t, err, "a lost insert race is not an error")
	assert.Empty(t, awarded)
	assert.Zero(t, users.paid[1], "no payout when the insert lost the race")
}

func TestBadgeService_Stats(t *testing.T) {
	first := badgeFixture("b1", "First Steps", model.ReqCourseComplete, 1, 10)
	first.Rarity = model.RarityCommon
	first.Category = model.CategoryLearning
	seeker := badgeFixture("b2", "Knowledge Seeker", model.ReqCourseComplete, 10, 50)
	seeker.Rarity = model.RarityRare
	seeker.Category = model.CategoryLearning
	social := badgeFixture("b3", "Social Butterfly", model.ReqSocial, 5, 25)
	social.Rarity = model.RarityCommon
	social.Category = model.CategorySocial

	store := &fakeBadgeStore{
		catalog: []model.Badge{first, seeker, social},
		earned: []model.UserBadge{
			{UserID: 1, BadgeID: "b1", EarnedAt: time.Now()},
			{UserID: 1, BadgeID: "b3", EarnedAt: time.Now()},
		},
	}
	svc := NewBadgeService(store, &fakeVerifiedSkills{}, &fakeXPStore{})

	stats, err := svc.Stats(1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Earned)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, int64(35), stats.Points)
	assert.Equal(t, map[model.BadgeRarity]int{model.RarityCommon: 2}, stats.ByRarity)
	assert.Equal(t, map[model.BadgeCategory]int{
		model.CategoryLearning: 1,
		model.CategorySocial:   1,
	}, stats.ByCategory)
}
