package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/adit-wn/teamlane/internal/api/handlers"
	"github.com/adit-wn/teamlane/internal/api/middleware"
)

type Deps struct {
	JWTSecret string

	Auth    *handlers.AuthHandler
	Profile *handlers.ProfileHandler
	Project *handlers.ProjectHandler
	Match   *handlers.MatchHandler
	WS      *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	r.POST("/auth/register", d.Auth.Register)
	r.POST("/auth/login", d.Auth.Login)

	// Protected routes (JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth(d.JWTSecret))

	auth.GET("/profile/me", d.Profile.Me)
	auth.PUT("/profile", d.Profile.Update)

	auth.POST("/projects", d.Project.Create)
	auth.GET("/projects", d.Project.List)
	auth.GET("/projects/:project_id", d.Project.Get)
	auth.PUT("/projects/:project_id", d.Project.Update)
	auth.DELETE("/projects/:project_id", d.Project.Delete)

	auth.GET("/match/:project_id", d.Match.Get)
	auth.GET("/recommendations", d.Match.Recommendations)
	auth.GET("/projects/:project_id/candidates", d.Match.CandidateRecommendations)
	auth.POST("/match/precompute", d.Match.Precompute)

	admin := auth.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	admin.GET("/match-audit/:candidate_id", d.Match.AuditLog)

	// WebSocket
	auth.GET("/ws/match/progress", d.WS.MatchProgress)
}
