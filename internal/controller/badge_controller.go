package controller

import (
	"strconv"

	"peoplefirst_backend/internal/service"
	"peoplefirst_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type BadgeController struct {
	Service *service.BadgeService
}

func NewBadgeController(svc *service.BadgeService) *BadgeController {
	return &BadgeController{Service: svc}
}

// @Summary Badge catalog with own progress
// @Tags badges
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /badges/progress [get]
func (c *BadgeController) Progress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	progress, err := c.Service.Progress(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// @Summary Own earned badges
// @Tags badges
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /badges/mine [get]
func (c *BadgeController) MyBadges(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	badges, err := c.Service.UserBadges(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, badges)
}

// @Summary Re-check and award due badges
// @Tags badges
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /badges/check [post]
func (c *BadgeController) Check(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	awarded, err := c.Service.CheckAndAward(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"awarded": awarded})
}

// @Summary Own badge statistics
// @Tags badges
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /badges/stats [get]
func (c *BadgeController) Stats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	stats, err := c.Service.Stats(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// @Summary Badge leaderboard
// @Tags badges
// @Produce json
// @Param limit query int false "max entries"
// @Success 200 {object} util.Response
// @Router /leaderboard/badges [get]
func (c *BadgeController) Leaderboard(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	entries, err := c.Service.Leaderboard(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}
