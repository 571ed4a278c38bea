package controller

import (
	"errors"

	"peoplefirst_backend/internal/service"
	"peoplefirst_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AdvisorController struct {
	Service *service.AdvisorService
}

func NewAdvisorController(svc *service.AdvisorService) *AdvisorController {
	return &AdvisorController{Service: svc}
}

type askRequest struct {
	Prompt  string                  `json:"prompt" binding:"required"`
	History []service.AIChatMessage `json:"history"`
}

// @Summary Ask the career advisor
// @Tags advisor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body askRequest true "question"
// @Success 200 {object} util.Response
// @Router /advisor/ask [post]
func (c *AdvisorController) Ask(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req askRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	reply, err := c.Service.Ask(ctx.Request.Context(), claims.UserID, req.Prompt, req.History)
	if err != nil {
		if errors.Is(err, util.ErrAdvisorDown) {
			util.Error(ctx, 503, "advisor is unavailable")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"reply": reply})
}

// @Summary Structured career assessment
// @Tags advisor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.AssessInput false "interests, goals and background"
// @Success 200 {object} util.Response
// @Router /advisor/assessment [post]
func (c *AdvisorController) Assess(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var input service.AssessInput
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&input); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}

	assessment, err := c.Service.Assess(ctx.Request.Context(), claims.UserID, input)
	if err != nil {
		if errors.Is(err, util.ErrAdvisorDown) {
			util.Error(ctx, 503, "advisor is unavailable")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, assessment)
}

// @Summary Skill recommendations
// @Tags advisor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /advisor/skills [get]
func (c *AdvisorController) RecommendSkills(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	recs, err := c.Service.RecommendSkills(ctx.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrAdvisorDown) {
			util.Error(ctx, 503, "advisor is unavailable")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"skills": recs})
}
