package controller

import (
	"strconv"

	"peoplefirst_backend/internal/service"
	"peoplefirst_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	Service *service.ContentService
}

func NewContentController(svc *service.ContentService) *ContentController {
	return &ContentController{Service: svc}
}

// @Summary Publish content
// @Tags content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.ContentInput true "content"
// @Success 201 {object} util.Response
// @Router /teacher/contents [post]
func (c *ContentController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var input service.ContentInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	content, err := c.Service.Create(claims.UserID, input)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, content)
}

// @Summary Attach a video to content
// @Tags content
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "content id"
// @Param file formData file true "video file"
// @Success 200 {object} util.Response
// @Router /teacher/contents/{id}/video [post]
func (c *ContentController) UploadVideo(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "missing file")
		return
	}

	content, err := c.Service.AttachVideo(ctx.Request.Context(), ctx.Param("id"), file)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, content)
}

// @Summary Browse content
// @Tags content
// @Produce json
// @Param page query int false "page"
// @Param pageSize query int false "page size"
// @Param category query string false "category filter"
// @Param search query string false "text filter"
// @Success 200 {object} util.Response
// @Router /contents [get]
func (c *ContentController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("pageSize", "20"))

	result, err := c.Service.List(ctx.Request.Context(), page, pageSize, ctx.Query("category"), ctx.Query("search"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary Content detail
// @Tags content
// @Produce json
// @Param id path string true "content id"
// @Success 200 {object} util.Response
// @Router /contents/{id} [get]
func (c *ContentController) Get(ctx *gin.Context) {
	content, err := c.Service.Get(ctx.Param("id"))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, content)
}

// @Summary Content categories
// @Tags content
// @Produce json
// @Success 200 {object} util.Response
// @Router /contents/categories [get]
func (c *ContentController) Categories(ctx *gin.Context) {
	categories, err := c.Service.Categories(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, categories)
}

// @Summary Favorite content
// @Tags content
// @Produce json
// @Security BearerAuth
// @Param id path string true "content id"
// @Success 200 {object} util.Response
// @Router /contents/{id}/favorite [post]
func (c *ContentController) Favorite(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.Service.Favorite(claims.UserID, ctx.Param("id")); err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, gin.H{"favorited": true})
}

// @Summary Remove a favorite
// @Tags content
// @Produce json
// @Security BearerAuth
// @Param id path string true "content id"
// @Success 200 {object} util.Response
// @Router /contents/{id}/favorite [delete]
func (c *ContentController) Unfavorite(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.Service.Unfavorite(claims.UserID, ctx.Param("id")); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"favorited": false})
}

// @Summary Own favorites
// @Tags content
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /contents/favorites [get]
func (c *ContentController) Favorites(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	contents, err := c.Service.Favorites(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, contents)
}

// @Summary Mark content completed
// @Tags content
// @Produce json
// @Security BearerAuth
// @Param id path string true "content id"
// @Success 200 {object} util.Response
// @Router /contents/{id}/complete [post]
func (c *ContentController) Complete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.Service.Complete(claims.UserID, ctx.Param("id")); err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, gin.H{"completed": true})
}
