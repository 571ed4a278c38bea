package controller

import (
	"errors"
	"strconv"

	"peoplefirst_backend/internal/service"
	"peoplefirst_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StoryController struct {
	Service *service.StoryService
}

func NewStoryController(svc *service.StoryService) *StoryController {
	return &StoryController{Service: svc}
}

// @Summary Share a success story
// @Tags stories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.StoryInput true "story"
// @Success 201 {object} util.Response
// @Router /stories [post]
func (c *StoryController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var input service.StoryInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	story, err := c.Service.Create(claims.UserID, input)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, story)
}

// @Summary Story wall
// @Tags stories
// @Produce json
// @Param page query int false "page"
// @Param pageSize query int false "page size"
// @Param careerPath query string false "career path filter"
// @Success 200 {object} util.Response
// @Router /stories [get]
func (c *StoryController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("pageSize", "20"))

	stories, total, err := c.Service.List(page, pageSize, ctx.Query("careerPath"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"items": stories, "total": total})
}

// @Summary Story detail
// @Tags stories
// @Produce json
// @Param id path string true "story id"
// @Success 200 {object} util.Response
// @Router /stories/{id} [get]
func (c *StoryController) Get(ctx *gin.Context) {
	story, err := c.Service.Get(ctx.Param("id"))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, story)
}

// @Summary Delete a story
// @Tags stories
// @Produce json
// @Security BearerAuth
// @Param id path string true "story id"
// @Success 200 {object} util.Response
// @Router /stories/{id} [delete]
func (c *StoryController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	err := c.Service.Delete(claims.UserID, claims.Role, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(ctx)
			return
		}
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// @Summary Like a story
// @Tags stories
// @Produce json
// @Security BearerAuth
// @Param id path string true "story id"
// @Success 200 {object} util.Response
// @Router /stories/{id}/like [post]
func (c *StoryController) Like(ctx *gin.Context) {
	if err := c.Service.Like(ctx.Param("id")); err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, gin.H{"liked": true})
}

type commentRequest struct {
	Content string `json:"content" binding:"required"`
}

// @Summary Comment on a story
// @Tags stories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "story id"
// @Param body body commentRequest true "comment"
// @Success 201 {object} util.Response
// @Router /stories/{id}/comments [post]
func (c *StoryController) AddComment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req commentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	comment, err := c.Service.AddComment(claims.UserID, ctx.Param("id"), req.Content)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Created(ctx, comment)
}

// @Summary Story comments
// @Tags stories
// @Produce json
// @Param id path string true "story id"
// @Success 200 {object} util.Response
// @Router /stories/{id}/comments [get]
func (c *StoryController) Comments(ctx *gin.Context) {
	comments, err := c.Service.Comments(ctx.Param("id"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, comments)
}
