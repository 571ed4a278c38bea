package service

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"time"

	"peoplefirst_backend/internal/model"
	"peoplefirst_backend/internal/repository"
	"peoplefirst_backend/internal/util"
	"peoplefirst_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	contentCacheTTL = 5 * time.Minute
	categoryCache   = "content:categories"
	listCachePrefix = "content:list:p1:"
)

type ContentService struct {
	Contents *repository.ContentRepository
	Storage  *StorageService
	Badges   *BadgeService
	Redis    *redis.Client
}

func NewContentService(contents *repository.ContentRepository, storage *StorageService, badges *BadgeService, rdb *redis.Client) *ContentService {
	return &ContentService{Contents: contents, Storage: storage, Badges: badges, Redis: rdb}
}

type ContentInput struct {
	Title       string            `json:"title" binding:"required"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	ContentType model.ContentType `json:"contentType"`
	Body        string            `json:"body"`
	Thumbnail   string            `json:"thumbnail"`
}

func (s *ContentService) Create(authorID uint, input ContentInput) (*model.Content, error) {
	kind := input.ContentType
	if kind == "" {
		kind = model.ContentArticle
	}
	content := &model.Content{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		ContentType: kind,
		Body:        input.Body,
		Thumbnail:   input.Thumbnail,
		AuthorID:    authorID,
	}
	if err := s.Contents.Create(content); err != nil {
		return nil, err
	}
	s.invalidateCaches()
	return content, nil
}

// AttachVideo stores an uploaded video and probes its duration.
func (s *ContentService) AttachVideo(ctx context.Context, contentID string, file *multipart.FileHeader) (*model.Content, error) {
	content, err := s.Contents.FindByID(contentID)
	if err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	filename := fmt.Sprintf("videos/%s%s", uuid.New().String(), filepath.Ext(file.Filename))
	url, err := s.Storage.Upload(ctx, filename, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	content.ContentType = model.ContentVideo
	content.VideoURL = url

	// Local uploads can be probed in place. Remote stores keep zero
	// and the player reads the real duration.
	if local, ok := s.Storage.Provider.(*LocalStorageProvider); ok {
		path := filepath.Join(local.Config.LocalPath, filename)
		if info, err := util.GetVideoInfo(path); err == nil {
			content.Duration = int(info.Duration)
		} else {
			logger.Log.Warn("video probe failed", zap.String("path", path), zap.Error(err))
		}
	}

	if err := s.Contents.Update(content); err != nil {
		return nil, err
	}
	s.invalidateCaches()
	return content, nil
}

func (s *ContentService) Get(id string) (*model.Content, error) {
	content, err := s.Contents.FindByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.Contents.IncrementViews(id); err != nil {
		logger.Log.Warn("view count increment failed", zap.Error(err))
	}
	return content, nil
}

type ContentPage struct {
	Items    []model.Content `json:"items"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
}

// List serves the browse surface. The first page of the unfiltered
// listing is cached in Redis.
func (s *ContentService) List(ctx context.Context, page, pageSize int, category, search string) (*ContentPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	cacheable := s.Redis != nil && page == 1 && category == "" && search == ""
	cacheKey := fmt.Sprintf("%ss%d", listCachePrefix, pageSize)

	if cacheable {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var result ContentPage
			if err := json.Unmarshal([]byte(cached), &result); err == nil {
				return &result, nil
			}
		}
	}

	items, total, err := s.Contents.FindAll(page, pageSize, category, search)
	if err != nil {
		return nil, err
	}
	result := &ContentPage{Items: items, Total: total, Page: page, PageSize: pageSize}

	if cacheable {
		if payload, err := json.Marshal(result); err == nil {
			s.Redis.Set(ctx, cacheKey, payload, contentCacheTTL)
		}
	}
	return result, nil
}

func (s *ContentService) Categories(ctx context.Context) ([]string, error) {
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, categoryCache).Result(); err == nil {
			var categories []string
			if err := json.Unmarshal([]byte(cached), &categories); err == nil {
				return categories, nil
			}
		}
	}

	categories, err := s.Contents.FindCategories()
	if err != nil {
		return nil, err
	}
	if s.Redis != nil {
		if payload, err := json.Marshal(categories); err == nil {
			s.Redis.Set(ctx, categoryCache, payload, contentCacheTTL)
		}
	}
	return categories, nil
}

// invalidateCaches drops every cached browse read so a write shows up
// on the next list or category request.
func (s *ContentService) invalidateCaches() {
	if s.Redis == nil {
		return
	}
	ctx := context.Background()
	s.Redis.Del(ctx, categoryCache)
	if keys, err := s.Redis.Keys(ctx, listCachePrefix + "*").Result(); err == nil && len(keys) > 0 {
		s.Redis.Del(ctx, keys...)
	}
}

func (s *ContentService) Favorite(userID uint, contentID string) error {
	if _, err := s.Contents.FindByID(contentID); err != nil {
		return err
	}
	if fav, err := s.Contents.IsFavorite(userID, contentID); err != nil {
		return err
	} else if fav {
		return nil
	}
	return s.Contents.AddFavorite(userID, contentID)
}

func (s *ContentService) Unfavorite(userID uint, contentID string) error {
	return s.Contents.RemoveFavorite(userID, contentID)
}

func (s *ContentService) Favorites(userID uint) ([]model.Content, error) {
	return s.Contents.FindFavorites(userID)
}

// Complete marks content as finished and re-checks badge progress.
func (s *ContentService) Complete(userID uint, contentID string) error {
	if _, err := s.Contents.FindByID(contentID); err != nil {
		return err
	}
	if err := s.Contents.MarkCompleted(userID, contentID); err != nil {
		return err
	}
	if s.Badges != nil {
		go s.Badges.CheckAndAward(userID)
	}
	return nil
}
