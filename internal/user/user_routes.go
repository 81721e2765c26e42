package user

import (
	"go-accounts/internal/domain"
	"go-accounts/internal/middleware"
	"go-accounts/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, tokens *token.Service, rdb *redis.Client) {
	users := r.Group("/users")
	{
		users.POST("/register",
			middleware.RateLimitByIP(0.1, 5),
			middleware.OptionalAuth(tokens),
			middleware.Idempotency(rdb),
			h.Register,
		)
		users.POST("/create-user",
			middleware.Auth(tokens),
			middleware.RequireRoles(domain.RoleAdmin),
			middleware.Idempotency(rdb),
			h.CreateUser,
		)
		users.POST("/login", middleware.RateLimitByIP(0.1, 5), h.Login)
		users.POST("/logout", middleware.Auth(tokens), h.Logout)
		users.GET("/profile", middleware.Auth(tokens), middleware.RateLimitByUser(2, 5), h.Profile)
	}
}
