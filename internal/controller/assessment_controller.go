package controller

import (
	"errors"
	"strconv"

	"peoplefirst_backend/internal/service"
	"peoplefirst_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssessmentController struct {
	Service *service.AssessmentService
}

func NewAssessmentController(svc *service.AssessmentService) *AssessmentController {
	return &AssessmentController{Service: svc}
}

type startChallengeRequest struct {
	SkillID string `json:"skillId" binding:"required"`
}

// @Summary Start or resume a skill challenge
// @Tags assessments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body startChallengeRequest true "skill"
// @Success 200 {object} util.Response
// @Router /assessments/challenges [post]
func (c *AssessmentController) StartChallenge(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req startChallengeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	state, err := c.Service.StartChallenge(claims.UserID, req.SkillID)
	if err != nil {
		if errors.Is(err, util.ErrSkillNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, state)
}

// @Summary Resume the active challenge for a skill
// @Tags assessments
// @Produce json
// @Security BearerAuth
// @Param skillId path string true "skill id"
// @Success 200 {object} util.Response
// @Router /assessments/challenges/active/{skillId} [get]
func (c *AssessmentController) CurrentChallenge(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	state, err := c.Service.CurrentChallenge(claims.UserID, ctx.Param("skillId"))
	if err != nil {
		if errors.Is(err, util.ErrRunNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, state)
}

type submitLevelRequest struct {
	Answers []service.AnswerSubmission `json:"answers"`
}

// @Summary Submit answers for a challenge level
// @Tags assessments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param runId path string true "run id"
// @Param level path int true "level"
// @Param body body submitLevelRequest true "answers"
// @Success 200 {object} util.Response
// @Router /assessments/challenges/{runId}/levels/{level} [post]
func (c *AssessmentController) SubmitLevel(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	level, err := strconv.Atoi(ctx.Param("level"))
	if err != nil || level < 1 {
		util.BadRequest(ctx, "invalid level")
		return
	}

	var req submitLevelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.SubmitLevel(claims.UserID, ctx.Param("runId"), level, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrRunNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrRunCompleted):
			util.BadRequest(ctx, "run already completed")
		case errors.Is(err, util.ErrWrongLevel):
			util.BadRequest(ctx, "level out of order")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

// @Summary Per-level results of a run
// @Tags assessments
// @Produce json
// @Security BearerAuth
// @Param runId path string true "run id"
// @Success 200 {object} util.Response
// @Router /assessments/challenges/{runId}/history [get]
func (c *AssessmentController) RunHistory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	history, err := c.Service.RunHistory(claims.UserID, ctx.Param("runId"))
	if err != nil {
		if errors.Is(err, util.ErrRunNotFound) {
			util.NotFound(ctx)
			return
		}
		if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, history)
}
