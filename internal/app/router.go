package app

import (
	"peoplefirst_backend/docs"
	"peoplefirst_backend/internal/config"
	"peoplefirst_backend/internal/middleware"
	"peoplefirst_backend/internal/model"
	"peoplefirst_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c, cfg)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// Browse surfaces are open to guests.
		public.GET("/skills", c.skill.ListSkills)
		public.GET("/skills/:id", c.skill.GetSkill)
		public.GET("/contents", c.content.List)
		public.GET("/contents/categories", c.content.Categories)
		public.GET("/contents/:id", c.content.Get)
		public.GET("/stories", c.story.List)
		public.GET("/stories/:id", c.story.Get)
		public.GET("/stories/:id/comments", c.story.Comments)
		public.GET("/guilds", c.guild.List)
		public.GET("/guilds/:id", c.guild.Get)
		public.GET("/guilds/:id/members", c.guild.Members)
		public.GET("/guilds/:id/activities", c.guild.Activities)
		public.GET("/users/:id/profile", c.user.Profile)
		public.GET("/leaderboard/xp", c.user.XPLeaderboard)
		public.GET("/leaderboard/badges", c.badge.Leaderboard)
	}
}

func (a *App) registerStudentRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/users/me", c.user.Me)
	group.PUT("/users/me", c.user.UpdateProfile)
	group.PUT("/users/me/password", c.user.ChangePassword)
	group.POST("/users/me/avatar", c.user.UploadAvatar)
	group.GET("/users/me/skills", c.skill.MySkills)

	group.POST("/assessments/challenges", c.assessment.StartChallenge)
	group.GET("/assessments/challenges/active/:skillId", c.assessment.CurrentChallenge)
	group.POST("/assessments/challenges/:runId/levels/:level", c.assessment.SubmitLevel)
	group.GET("/assessments/challenges/:runId/history", c.assessment.RunHistory)

	group.GET("/badges/progress", c.badge.Progress)
	group.GET("/badges/mine", c.badge.MyBadges)
	group.GET("/badges/stats", c.badge.Stats)
	group.POST("/badges/check", c.badge.Check)

	group.POST("/guilds", c.guild.Create)
	group.GET("/guilds/mine", c.guild.MyGuilds)
	group.DELETE("/guilds/:id", c.guild.Delete)
	group.POST("/guilds/:id/join", c.guild.Join)
	group.POST("/guilds/:id/leave", c.guild.Leave)
	group.POST("/guilds/:id/transfer", c.guild.TransferLeadership)
	group.PUT("/guilds/:id/members/role", c.guild.Promote)
	group.POST("/guilds/:id/messages", c.guild.PostMessage)
	group.GET("/guilds/:id/messages", c.guild.Messages)
	group.GET("/guilds/:id/ws", c.guild.ServeWS)

	group.GET("/grades/report", c.grade.MyReport)
	group.GET("/grades/export", c.grade.ExportCSV)

	group.POST("/contents/:id/favorite", c.content.Favorite)
	group.DELETE("/contents/:id/favorite", c.content.Unfavorite)
	group.GET("/contents/favorites", c.content.Favorites)
	group.POST("/contents/:id/complete", c.content.Complete)

	group.POST("/stories", c.story.Create)
	group.DELETE("/stories/:id", c.story.Delete)
	group.POST("/stories/:id/like", c.story.Like)
	group.POST("/stories/:id/comments", c.story.AddComment)

	group.POST("/advisor/ask", c.advisor.Ask)
	group.POST("/advisor/assessment", c.advisor.Assess)
	group.GET("/advisor/skills", c.advisor.RecommendSkills)
}

func (a *App) registerTeacherRoutes(group *gin.RouterGroup, c *controllers) {
	teacher := group.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.POST("/questions", c.skill.CreateQuestion)
		teacher.GET("/questions", c.skill.ListQuestions)

		teacher.POST("/grades", c.grade.Record)
		teacher.GET("/grades/:userId", c.grade.UserReport)
		teacher.PUT("/grades/:id", c.grade.Update)
		teacher.DELETE("/grades/:id", c.grade.Delete)
		teacher.POST("/grades/import", c.grade.ImportCSV)

		teacher.POST("/contents", c.content.Create)
		teacher.POST("/contents/:id/video", c.content.UploadVideo)
	}
}

func (a *App) registerAdminRoutes(group *gin.RouterGroup, c *controllers) {
	admin := group.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/skills", c.skill.CreateSkill)
		admin.PUT("/questions/:id/approve", c.skill.ApproveQuestion)
		admin.DELETE("/questions/:id", c.skill.DeleteQuestion)
	}
}
