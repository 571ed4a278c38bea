package controller

import (
	"errors"
	"strconv"

	"peoplefirst_backend/internal/model"
	"peoplefirst_backend/internal/service"
	"peoplefirst_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GuildController struct {
	Service *service.GuildService
	Hub     *service.GuildHub
}

func NewGuildController(svc *service.GuildService, hub *service.GuildHub) *GuildController {
	return &GuildController{Service: svc, Hub: hub}
}

// @Summary Create a guild
// @Tags guilds
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.GuildInput true "guild"
// @Success 201 {object} util.Response
// @Router /guilds [post]
func (c *GuildController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var input service.GuildInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	guild, err := c.Service.Create(claims.UserID, input)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, guild)
}

// @Summary Browse guilds
// @Tags guilds
// @Produce json
// @Param page query int false "page"
// @Param pageSize query int false "page size"
// @Param search query string false "name filter"
// @Success 200 {object} util.Response
// @Router /guilds [get]
func (c *GuildController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("pageSize", "20"))

	guilds, total, err := c.Service.List(page, pageSize, ctx.Query("search"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"items": guilds, "total": total})
}

// @Summary Guild detail
// @Tags guilds
// @Produce json
// @Param id path string true "guild id"
// @Success 200 {object} util.Response
// @Router /guilds/{id} [get]
func (c *GuildController) Get(ctx *gin.Context) {
	guild, err := c.Service.Get(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrGuildNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"guild":  guild,
		"online": c.Service.OnlineCount(guild.ID),
	})
}

// @Summary Disband a guild
// @Tags guilds
// @Produce json
// @Security BearerAuth
// @Param id path string true "guild id"
// @Success 200 {object} util.Response
// @Router /guilds/{id} [delete]
func (c *GuildController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	err := c.Service.Delete(claims.UserID, ctx.Param("id"), claims.Role == model.Admin)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrGuildNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNotGuildMember), errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

type transferRequest struct {
	UserID uint `json:"userId" binding:"required"`
}

// @Summary Transfer guild leadership
// @Tags guilds
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "guild id"
// @Param body body transferRequest true "new leader"
// @Success 200 {object} util.Response
// @Router /guilds/{id}/transfer [post]
func (c *GuildController) TransferLeadership(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req transferRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.Service.TransferLeadership(claims.UserID, ctx.Param("id"), req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrNotGuildMember):
			util.BadRequest(ctx, "not a member")
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"transferred": true})
}

// @Summary Join a guild
// @Tags guilds
// @Produce json
// @Security BearerAuth
// @Param id path string true "guild id"
// @Success 200 {object} util.Response
// @Router /guilds/{id}/join [post]
func (c *GuildController) Join(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	err := c.Service.Join(claims.UserID, ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrGuildNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrGuildFull):
			util.BadRequest(ctx, "guild is full")
		case errors.Is(err, util.ErrAlreadyMember):
			util.BadRequest(ctx, "already a member")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"joined": true})
}

// @Summary Leave a guild
// @Tags guilds
// @Produce json
// @Security BearerAuth
// @Param id path string true "guild id"
// @Success 200 {object} util.Response
// @Router /guilds/{id}/leave [post]
func (c *GuildController) Leave(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	err := c.Service.Leave(claims.UserID, ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrNotGuildMember):
			util.BadRequest(ctx, "not a member")
		case errors.Is(err, util.ErrPermissionDenied):
			util.BadRequest(ctx, "leader must transfer leadership first")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"left": true})
}

// @Summary Guild members
// @Tags guilds
// @Produce json
// @Param id path string true "guild id"
// @Success 200 {object} util.Response
// @Router /guilds/{id}/members [get]
func (c *GuildController) Members(ctx *gin.Context) {
	members, err := c.Service.Members(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrGuildNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, members)
}

// @Summary Own guild memberships
// @Tags guilds
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /guilds/mine [get]
func (c *GuildController) MyGuilds(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	memberships, err := c.Service.UserGuilds(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, memberships)
}

type promoteRequest struct {
	UserID uint            `json:"userId" binding:"required"`
	Role   model.GuildRole `json:"role" binding:"required"`
}

// @Summary Change a member's role
// @Tags guilds
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "guild id"
// @Param body body promoteRequest true "target"
// @Success 200 {object} util.Response
// @Router /guilds/{id}/members/role [put]
func (c *GuildController) Promote(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req promoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.Service.PromoteMember(claims.UserID, ctx.Param("id"), req.UserID, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrNotGuildMember):
			util.BadRequest(ctx, "not a member")
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"updated": true})
}

type messageRequest struct {
	Content string `json:"content" binding:"required"`
	ReplyTo string `json:"replyTo"`
}

// @Summary Post a chat message
// @Tags guilds
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "guild id"
// @Param body body messageRequest true "message"
// @Success 201 {object} util.Response
// @Router /guilds/{id}/messages [post]
func (c *GuildController) PostMessage(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req messageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	msg, err := c.Service.PostMessage(claims.UserID, ctx.Param("id"), req.Content, req.ReplyTo)
	if err != nil {
		if errors.Is(err, util.ErrNotGuildMember) {
			util.Forbidden(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, msg)
}

// @Summary Chat history
// @Tags guilds
// @Produce json
// @Security BearerAuth
// @Param id path string true "guild id"
// @Param before query string false "message id to page before"
// @Param limit query int false "max messages"
// @Success 200 {object} util.Response
// @Router /guilds/{id}/messages [get]
func (c *GuildController) Messages(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	messages, err := c.Service.Messages(claims.UserID, ctx.Param("id"), ctx.Query("before"), limit)
	if err != nil {
		if errors.Is(err, util.ErrNotGuildMember) {
			util.Forbidden(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, messages)
}

// @Summary Activity feed
// @Tags guilds
// @Produce json
// @Param id path string true "guild id"
// @Param limit query int false "max entries"
// @Success 200 {object} util.Response
// @Router /guilds/{id}/activities [get]
func (c *GuildController) Activities(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	activities, err := c.Service.Activities(ctx.Param("id"), limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, activities)
}

// @Summary Guild chat websocket
// @Tags guilds
// @Security BearerAuth
// @Param id path string true "guild id"
// @Router /guilds/{id}/ws [get]
func (c *GuildController) ServeWS(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	guildID := ctx.Param("id")

	if !c.Service.IsMember(claims.UserID, guildID) {
		util.Forbidden(ctx)
		return
	}

	if err := c.Hub.ServeWS(ctx.Writer, ctx.Request, claims.UserID, guildID); err != nil {
		util.LogInternalError(ctx, err)
	}
}
