package api

import (
	"github.com/gin-gonic/gin"

	"github.com/wjy1814-droid/memos/internal/handlers"
)

type routeDeps struct {
	auth    *handlers.AuthHandler
	groups  *handlers.GroupHandler
	memos   *handlers.MemoHandler
	invites *handlers.InviteHandler
	health  *handlers.HealthHandler
	guard   gin.HandlerFunc
}

// registerRoutes lays out the HTTP surface. Personal memos and invite
// inspection are deliberately public; everything group-scoped sits behind
// the token guard.
func registerRoutes(engine *gin.Engine, deps routeDeps) {
	engine.GET("/health", deps.health.Check)

	api := engine.Group("/api")

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", deps.auth.Register)
		authRoutes.POST("/login", deps.auth.Login)
		authRoutes.GET("/me", deps.guard, deps.auth.Me)
	}

	memoRoutes := api.Group("/memos")
	{
		memoRoutes.GET("", deps.memos.ListPersonal)
		memoRoutes.POST("", deps.memos.CreatePersonal)
		memoRoutes.GET("/group/:groupId", deps.guard, deps.memos.ListForGroup)
		memoRoutes.POST("/group/:groupId", deps.guard, deps.memos.CreateForGroup)
		memoRoutes.GET("/:id", deps.memos.Get)
		memoRoutes.PUT("/:id", deps.memos.Update)
		memoRoutes.DELETE("/:id", deps.memos.Delete)
	}

	groupRoutes := api.Group("/groups", deps.guard)
	{
		groupRoutes.GET("", deps.groups.List)
		groupRoutes.POST("", deps.groups.Create)
		groupRoutes.GET("/:groupId", deps.groups.Get)
		groupRoutes.PUT("/:groupId", deps.groups.Update)
		groupRoutes.DELETE("/:groupId", deps.groups.Delete)
		groupRoutes.POST("/:groupId/members", deps.groups.AddMember)
		groupRoutes.DELETE("/:groupId/members/:userId", deps.groups.RemoveMember)
		groupRoutes.POST("/:groupId/leave", deps.groups.Leave)
	}

	inviteRoutes := api.Group("/invites")
	{
		inviteRoutes.POST("/create", deps.guard, deps.invites.Create)
		inviteRoutes.GET("/group/:groupId", deps.guard, deps.invites.ListForGroup)
		inviteRoutes.GET("/:code", deps.invites.Inspect)
		inviteRoutes.POST("/:code/accept", deps.guard, deps.invites.Accept)
		inviteRoutes.DELETE("/:code", deps.guard, deps.invites.Deactivate)
	}
}
