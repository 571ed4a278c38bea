package controller

import (
	"fmt"
	"strconv"
	"time"

	"peoplefirst_backend/internal/model"
	"peoplefirst_backend/internal/service"
	"peoplefirst_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GradeController struct {
	Service *service.GradeService
}

func NewGradeController(svc *service.GradeService) *GradeController {
	return &GradeController{Service: svc}
}

// @Summary Record a grade
// @Tags grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.GradeInput true "grade"
// @Success 201 {object} util.Response
// @Router /teacher/grades [post]
func (c *GradeController) Record(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var input service.GradeInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if input.Score > input.MaxScore {
		util.BadRequest(ctx, "score exceeds max score")
		return
	}

	grade, err := c.Service.Record(claims.UserID, input)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, grade)
}

// @Summary Own grade report
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Param semester query string false "semester filter"
// @Param type query string false "grade type filter"
// @Success 200 {object} util.Response
// @Router /grades/report [get]
func (c *GradeController) MyReport(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	report, err := c.Service.Report(claims.UserID, ctx.Query("semester"), model.GradeType(ctx.Query("type")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// @Summary A student's grade report
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Param userId path int true "student id"
// @Param semester query string false "semester filter"
// @Success 200 {object} util.Response
// @Router /teacher/grades/{userId} [get]
func (c *GradeController) UserReport(ctx *gin.Context) {
	userID, err := strconv.ParseUint(ctx.Param("userId"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	report, err := c.Service.Report(uint(userID), ctx.Query("semester"), "")
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// @Summary Update a grade
// @Tags grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "grade id"
// @Param body body service.GradeInput true "grade"
// @Success 200 {object} util.Response
// @Router /teacher/grades/{id} [put]
func (c *GradeController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var input service.GradeInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	grade, err := c.Service.Update(claims.UserID, ctx.Param("id"), input)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, grade)
}

// @Summary Delete a grade
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Param id path string true "grade id"
// @Success 200 {object} util.Response
// @Router /teacher/grades/{id} [delete]
func (c *GradeController) Delete(ctx *gin.Context) {
	if err := c.Service.Delete(ctx.Param("id")); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// @Summary Export own grades as CSV
// @Tags grades
// @Produce text/csv
// @Security BearerAuth
// @Param semester query string false "semester filter"
// @Router /grades/export [get]
func (c *GradeController) ExportCSV(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	filename := fmt.Sprintf("grades-%d-%s.csv", claims.UserID, time.Now().Format("20060102"))
	ctx.Header("Content-Type", "text/csv")
	ctx.Header("Content-Disposition", "attachment; filename="+filename)

	if err := c.Service.ExportCSV(claims.UserID, ctx.Query("semester"), ctx.Writer); err != nil {
		util.LogInternalError(ctx, err)
	}
}

// @Summary Bulk import grades from CSV
// @Tags grades
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "csv file"
// @Success 201 {object} util.Response
// @Router /teacher/grades/import [post]
func (c *GradeController) ImportCSV(ctx *gin.Context) {
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

	count, err := c.Service.ImportCSV(claims.UserID, src)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, gin.H{"imported": count})
}
