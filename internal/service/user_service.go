package service

import (
	"errors"

	"peoplefirst_backend/internal/model"
	"peoplefirst_backend/internal/repository"
	"peoplefirst_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	Users  *repository.UserRepository
	Skills *repository.SkillRepository
	Badges *repository.BadgeRepository
}

func NewUserService(users *repository.UserRepository, skills *repository.SkillRepository, badges *repository.BadgeRepository) *UserService {
	return &UserService{Users: users, Skills: skills, Badges: badges}
}

func (s *UserService) GetByID(id uint) (*model.User, error) {
	user, err := s.Users.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

type ProfileUpdate struct {
	Name     string `json:"name"`
	Headline string `json:"headline"`
	Avatar   string `json:"avatar"`
}

func (s *UserService) UpdateProfile(userID uint, input ProfileUpdate) (*model.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Headline != "" {
		user.Headline = input.Headline
	}
	if input.Avatar != "" {
		user.Avatar = input.Avatar
	}

	if err := s.Users.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.GetByID(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return util.ErrPermissionDenied
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	return s.Users.Update(user)
}

// Profile is the public view of a user: identity plus verified skills
// and earned badges.
type Profile struct {
	User   *model.User       `json:"user"`
	Skills []model.UserSkill `json:"skills"`
	Badges []model.UserBadge `json:"badges"`
}

func (s *UserService) Profile(userID uint) (*Profile, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}
	skills, err := s.Skills.FindUserSkills(userID)
	if err != nil {
		return nil, err
	}
	badges, err := s.Badges.FindUserBadges(userID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Skills: skills, Badges: badges}, nil
}

func (s *UserService) XPLeaderboard(limit int) ([]model.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.Users.FindTopByXP(limit)
}
