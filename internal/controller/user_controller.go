package controller

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"peoplefirst_backend/internal/service"
	"peoplefirst_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserController struct {
	Service *service.UserService
	Storage *service.StorageService
}

func NewUserController(svc *service.UserService, storage *service.StorageService) *UserController {
	return &UserController{Service: svc, Storage: storage}
}

// @Summary Current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /users/me [get]
func (c *UserController) Me(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	user, err := c.Service.GetByID(claims.UserID)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, user)
}

// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.ProfileUpdate true "profile fields"
// @Success 200 {object} util.Response
// @Router /users/me [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var input service.ProfileUpdate
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.Service.UpdateProfile(claims.UserID, input)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// @Summary Change password
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body changePasswordRequest true "passwords"
// @Success 200 {object} util.Response
// @Router /users/me/password [put]
func (c *UserController) ChangePassword(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req changePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Service.ChangePassword(claims.UserID, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, util.ErrPermissionDenied) {
			util.Error(ctx, 401, "wrong password")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"changed": true})
}

// @Summary Upload avatar
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "image"
// @Success 200 {object} util.Response
// @Router /users/me/avatar [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "missing file")
		return
	}
	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	filename := fmt.Sprintf("avatars/%s%s", uuid.New().String(), filepath.Ext(file.Filename))
	url, err := c.Storage.Upload(ctx.Request.Context(), filename, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	user, err := c.Service.UpdateProfile(claims.UserID, service.ProfileUpdate{Avatar: url})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// @Summary Public profile
// @Tags users
// @Produce json
// @Param id path int true "user id"
// @Success 200 {object} util.Response
// @Router /users/{id}/profile [get]
func (c *UserController) Profile(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	profile, err := c.Service.Profile(uint(id))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, profile)
}

// @Summary XP leaderboard
// @Tags users
// @Produce json
// @Param limit query int false "max entries"
// @Success 200 {object} util.Response
// @Router /leaderboard/xp [get]
func (c *UserController) XPLeaderboard(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	users, err := c.Service.XPLeaderboard(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, users)
}
