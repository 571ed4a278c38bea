package service

import (
	"math"
	"time"

	"peoplefirst_backend/internal/model"
	"peoplefirst_backend/internal/repository"
	"peoplefirst_backend/pkg/logger"
	"peoplefirst_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// BadgeStore is the persistence surface behind badge progress and awards.
type BadgeStore interface {
	FindAll() ([]model.Badge, error)
	FindByID(id string) (*model.Badge, error)
	FindUserBadges(userID uint) ([]model.UserBadge, error)
	HasBadge(userID uint, badgeID string) (bool, error)
	Award(ub *model.UserBadge) error
	SumEarnedPoints(userID uint) (int64, error)
	Leaderboard(limit int) ([]repository.BadgeLeaderboardEntry, error)
	MaxSkillScore(userID uint) (int64, error)
	CountCompletedContent(userID uint) (int64, error)
	CountSocialInteractions(userID uint) (int64, error)
}

type VerifiedSkillStore interface {
	CountVerifiedAtOrAbove(userID uint, minScore int) (int64, error)
}

type XPReader interface {
	FindByID(id uint) (*model.User, error)
	UpdateXP(userID uint, xp int) error
}

type BadgeService struct {
	Badges BadgeStore
	Skills VerifiedSkillStore
	Users  XPReader
}

func NewBadgeService(badges BadgeStore, skills VerifiedSkillStore, users XPReader) *BadgeService {
	return &BadgeService{Badges: badges, Skills: skills, Users: users}
}

type BadgeProgress struct {
	Badge    model.Badge `json:"badge"`
	Current  int64       `json:"current"`
	Required int64       `json:"required"`
	Percent  int         `json:"percent"`
	Earned   bool        `json:"earned"`
	EarnedAt *time.Time  `json:"earnedAt,omitempty"`
}

// progressValue resolves the metric behind one badge requirement.
func (s *BadgeService) progressValue(userID uint, badge *model.Badge) (int64, error) {
	switch badge.RequirementType {
	case model.ReqCourseComplete:
		return s.Badges.CountCompletedContent(userID)
	case model.ReqSkillMastery:
		minScore := badge.RequirementScore
		if minScore == 0 {
			minScore = VerifiedThreshold
		}
		return s.Skills.CountVerifiedAtOrAbove(userID, minScore)
	case model.ReqSocial:
		return s.Badges.CountSocialInteractions(userID)
	case model.ReqMilestone:
		user, err := s.Users.FindByID(userID)
		if err != nil {
			return 0, err
		}
		return int64(user.XP), nil
	case model.ReqScore:
		return s.Badges.MaxSkillScore(userID)
	case model.ReqStreak:
		// Streak tracking lands with the check-in feature.
		return 0, nil
	default:
		return 0, nil
	}
}

// Progress reports the user's standing against the whole catalog.
func (s *BadgeService) Progress(userID uint) ([]BadgeProgress, error) {
	catalog, err := s.Badges.FindAll()
	if err != nil {
		return nil, err
	}
	earned, err := s.Badges.FindUserBadges(userID)
	if err != nil {
		return nil, err
	}
	earnedAt := make(map[string]time.Time, len(earned))
	for _, ub := range earned {
		earnedAt[ub.BadgeID] = ub.EarnedAt
	}

	progress := make([]BadgeProgress, 0, len(catalog))
	for _, badge := range catalog {
		current, err := s.progressValue(userID, &badge)
		if err != nil {
			return nil, err
		}

		required := int64(badge.RequirementValue)
		percent := 100
		if required > 0 {
			percent = int(math.Min(float64(current)/float64(required), 1) * 100)
		}

		entry := BadgeProgress{
			Badge:    badge,
			Current:  current,
			Required: required,
			Percent:  percent,
		}
		if at, ok := earnedAt[badge.ID]; ok {
			entry.Earned = true
			entry.Percent = 100
			t := at
			entry.EarnedAt = &t
		}
		progress = append(progress, entry)
	}
	return progress, nil
}

// CheckAndAward grants every badge whose requirement the user now
// meets. The unique (user, badge) index makes a concurrent double
// award collapse into one row.
func (s *BadgeService) CheckAndAward(userID uint) ([]model.Badge, error) {
	catalog, err := s.Badges.FindAll()
	if err != nil {
		return nil, err
	}

	var awarded []model.Badge
	for _, badge := range catalog {
		has, err := s.Badges.HasBadge(userID, badge.ID)
		if err != nil {
			return nil, err
		}
		if has {
			continue
		}

		current, err := s.progressValue(userID, &badge)
		if err != nil {
			return nil, err
		}
		if current < int64(badge.RequirementValue) {
			continue
		}

		ub := &model.UserBadge{
			UserID:   userID,
			BadgeID:  badge.ID,
			EarnedAt: time.Now(),
		}
		if err := s.Badges.Award(ub); err != nil {
			// A concurrent check already inserted the row.
			logger.Log.Debug("badge award skipped",
				zap.Uint("user_id", userID),
				zap.String("badge", badge.Name),
				zap.Error(err))
			continue
		}

		if badge.Points > 0 {
			if err := s.Users.UpdateXP(userID, badge.Points); err != nil {
				logger.Log.Warn("badge point payout failed",
					zap.Uint("user_id", userID), zap.Error(err))
			}
		}

		monitoring.BadgesAwarded.Inc()
		logger.Log.Info("badge awarded",
			zap.Uint("user_id", userID),
			zap.String("badge", badge.Name))
		awarded = append(awarded, badge)
	}
	return awarded, nil
}

func (s *BadgeService) UserBadges(userID uint) ([]model.UserBadge, error) {
	return s.Badges.FindUserBadges(userID)
}

type BadgeStats struct {
	Earned     int64                       `json:"earned"`
	Total      int                         `json:"total"`
	Points     int64                       `json:"points"`
	ByRarity   map[model.BadgeRarity]int   `json:"byRarity"`
	ByCategory map[model.BadgeCategory]int `json:"byCategory"`
}

func (s *BadgeService) Stats(userID uint) (*BadgeStats, error) {
	catalog, err := s.Badges.FindAll()
	if err != nil {
		return nil, err
	}
	earned, err := s.Badges.FindUserBadges(userID)
	if err != nil {
		return nil, err
	}
	points, err := s.Badges.SumEarnedPoints(userID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*model.Badge, len(catalog))
	for i := range catalog {
		byID[catalog[i].ID] = &catalog[i]
	}

	stats := &BadgeStats{
		Earned:     int64(len(earned)),
		Total:      len(catalog),
		Points:     points,
		ByRarity:   map[model.BadgeRarity]int{},
		ByCategory: map[model.BadgeCategory]int{},
	}
	for _, ub := range earned {
		badge := ub.Badge
		if badge == nil {
			badge = byID[ub.BadgeID]
		}
		if badge == nil {
			continue
		}
		stats.ByRarity[badge.Rarity]++
		stats.ByCategory[badge.Category]++
	}
	return stats, nil
}

func (s *BadgeService) Leaderboard(limit int) ([]repository.BadgeLeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.Badges.Leaderboard(limit)
}
