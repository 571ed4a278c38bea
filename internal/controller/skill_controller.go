package controller

import (
	"errors"
	"strconv"

	"peoplefirst_backend/internal/service"
	"peoplefirst_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SkillController struct {
	Service *service.SkillService
}

func NewSkillController(svc *service.SkillService) *SkillController {
	return &SkillController{Service: svc}
}

// @Summary Skill catalog
// @Tags skills
// @Produce json
// @Success 200 {object} util.Response
// @Router /skills [get]
func (c *SkillController) ListSkills(ctx *gin.Context) {
	skills, err := c.Service.ListSkills()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, skills)
}

// @Summary Skill detail
// @Tags skills
// @Produce json
// @Param id path string true "skill id"
// @Success 200 {object} util.Response
// @Router /skills/{id} [get]
func (c *SkillController) GetSkill(ctx *gin.Context) {
	skill, err := c.Service.GetSkill(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrSkillNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, skill)
}

// @Summary Create a skill
// @Tags skills
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.SkillInput true "skill"
// @Success 201 {object} util.Response
// @Router /admin/skills [post]
func (c *SkillController) CreateSkill(ctx *gin.Context) {
	var input service.SkillInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	skill, err := c.Service.CreateSkill(input)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, skill)
}

// @Summary Own verified skills
// @Tags skills
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /users/me/skills [get]
func (c *SkillController) MySkills(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	skills, err := c.Service.UserSkills(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, skills)
}

// @Summary Author a question
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.QuestionInput true "question"
// @Success 201 {object} util.Response
// @Router /teacher/questions [post]
func (c *SkillController) CreateQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var input service.QuestionInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.Service.CreateQuestion(claims.UserID, input)
	if err != nil {
		if errors.Is(err, util.ErrSkillNotFound) {
			util.BadRequest(ctx, "unknown skill")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// @Summary Question pool for a skill
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param skillId query string true "skill id"
// @Param page query int false "page"
// @Param pageSize query int false "page size"
// @Success 200 {object} util.Response
// @Router /teacher/questions [get]
func (c *SkillController) ListQuestions(ctx *gin.Context) {
	skillID := ctx.Query("skillId")
	if skillID == "" {
		util.BadRequest(ctx, "skillId is required")
		return
	}
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("pageSize", "20"))

	questions, total, err := c.Service.ListQuestions(skillID, page, pageSize)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"items": questions, "total": total})
}

// @Summary Approve a question
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param id path string true "question id"
// @Success 200 {object} util.Response
// @Router /admin/questions/{id}/approve [put]
func (c *SkillController) ApproveQuestion(ctx *gin.Context) {
	if err := c.Service.ApproveQuestion(ctx.Param("id")); err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, gin.H{"approved": true})
}

// @Summary Delete a question
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param id path string true "question id"
// @Success 200 {object} util.Response
// @Router /admin/questions/{id} [delete]
func (c *SkillController) DeleteQuestion(ctx *gin.Context) {
	if err := c.Service.DeleteQuestion(ctx.Param("id")); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}
