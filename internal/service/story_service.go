package service

import (
	"peoplefirst_backend/internal/model"
	"peoplefirst_backend/internal/repository"
	"peoplefirst_backend/internal/util"
)

type StoryService struct {
	Stories *repository.StoryRepository
	Badges  *BadgeService
}

func NewStoryService(stories *repository.StoryRepository, badges *BadgeService) *StoryService {
	return &StoryService{Stories: stories, Badges: badges}
}

type StoryInput struct {
	Title      string `json:"title" binding:"required"`
	Content    string `json:"content" binding:"required"`
	CareerPath string `json:"careerPath"`
}

func (s *StoryService) Create(authorID uint, input StoryInput) (*model.Story, error) {
	story := &model.Story{
		AuthorID:   authorID,
		Title:      input.Title,
		Content:    input.Content,
		CareerPath: input.CareerPath,
	}
	if err := s.Stories.Create(story); err != nil {
		return nil, err
	}
	return story, nil
}

func (s *StoryService) Get(id string) (*model.Story, error) {
	return s.Stories.FindByID(id)
}

func (s *StoryService) List(page, pageSize int, careerPath string) ([]model.Story, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.Stories.FindAll(page, pageSize, careerPath)
}

// Delete removes a story. Only its author or an admin may do it.
func (s *StoryService) Delete(actorID uint, actorRole model.UserRole, id string) error {
	story, err := s.Stories.FindByID(id)
	if err != nil {
		return err
	}
	if story.AuthorID != actorID && actorRole != model.Admin {
		return util.ErrPermissionDenied
	}
	return s.Stories.Delete(id)
}

func (s *StoryService) Like(id string) error {
	if _, err := s.Stories.FindByID(id); err != nil {
		return err
	}
	return s.Stories.Like(id)
}

func (s *StoryService) AddComment(authorID uint, storyID, content string) (*model.StoryComment, error) {
	if _, err := s.Stories.FindByID(storyID); err != nil {
		return nil, err
	}
	comment := &model.StoryComment{
		StoryID:  storyID,
		AuthorID: authorID,
		Content:  content,
	}
	if err := s.Stories.CreateComment(comment); err != nil {
		return nil, err
	}
	if s.Badges != nil {
		go s.Badges.CheckAndAward(authorID)
	}
	return comment, nil
}

func (s *StoryService) Comments(storyID string) ([]model.StoryComment, error) {
	return s.Stories.FindComments(storyID)
}
