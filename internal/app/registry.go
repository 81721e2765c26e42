package app

import (
	"fmt"
	"os"

	"go-accounts/internal/company"
	"go-accounts/internal/messaging/kafka"
	"go-accounts/internal/token"
	"go-accounts/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	// --- Repositories ---
	companyRepo := company.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(gormDB)

	// --- Services ---
	tokenService := token.NewService(secret, token.DefaultTTL)
	userService := user.NewService(gormDB, userRepo, companyRepo, outboxRepo, tokenService)

	// --- Handlers ---
	userHandler := user.NewHandler(userService)

	// --- Routes ---
	api := router.Group("/api/v1")
	{
		user.RegisterRoutes(api, userHandler, tokenService, rdb)
	}

	return nil
}
