package router

import (
	"Doubts_Clearance/internal/handler"
	"Doubts_Clearance/internal/middleware"
	"Doubts_Clearance/internal/pkg"
	"Doubts_Clearance/internal/repository/mysql"
	"Doubts_Clearance/internal/repository/redis"

	"github.com/gin-gonic/gin"
)

// Deps carries everything the route tree needs.
type Deps struct {
	Tokens   *pkg.TokenIssuer
	Sessions *redis.UserRepository
	Users    *mysql.UserRepository

	User   *handler.UserHandler
	Doubt  *handler.DoubtHandler
	Vote   *handler.VoteHandler
	Reply  *handler.ReplyHandler
	Upload *handler.UploadHandler
	Admin  *handler.AdminHandler
}

func InitRouter(d Deps) *gin.Engine {
	r := gin.Default()

	auth := middleware.AuthMiddleware(d.Tokens, d.Sessions, d.Users)

	// account routes
	userGroup := r.Group("/api/user")
	{
		userGroup.POST("/register", d.User.Register)
		userGroup.POST("/login", d.User.Login)
		userGroup.POST("/google", d.User.Google)
		userGroup.POST("/logout", auth, d.User.Logout)
		userGroup.GET("/me", auth, d.User.Me)
	}

	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", d.User.TokenRefresh)
	}

	usersGroup := r.Group("/api/users")
	usersGroup.Use(auth)
	{
		usersGroup.GET("/:id/reputation", d.User.ReputationHistory)
	}

	// doubt routes
	doubtGroup := r.Group("/api/doubt")
	doubtGroup.Use(auth)
	{
		doubtGroup.POST("", d.Doubt.Create)
		doubtGroup.POST("/check-duplicate", d.Doubt.CheckDuplicate)
		doubtGroup.GET("/all", d.Doubt.ListAll)
		doubtGroup.GET("/my", d.Doubt.ListMine)
		doubtGroup.GET("/dashboard", d.Doubt.Dashboard)
		doubtGroup.GET("/:id", d.Doubt.Get)
		doubtGroup.POST("/:id/vote", d.Vote.Vote)
		doubtGroup.POST("/:id/reply", d.Reply.Add)
		doubtGroup.PUT("/:id/replies/:replyId/approve", d.Reply.Approve)
	}

	uploadGroup := r.Group("/api/upload")
	uploadGroup.Use(auth)
	{
		uploadGroup.POST("", d.Upload.Upload)
	}

	// moderation routes
	adminGroup := r.Group("/api/admin")
	adminGroup.Use(auth, middleware.RequireAdmin())
	{
		adminGroup.GET("/users", d.Admin.ListUsers)
		adminGroup.PUT("/users/:id/status", d.Admin.ToggleUserStatus)
		adminGroup.GET("/doubts", d.Admin.ListDoubts)
		adminGroup.POST("/doubts/:id/action", d.Admin.DoubtAction)
	}

	return r
}
