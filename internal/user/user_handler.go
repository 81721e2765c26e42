package user

import (
	"net/http"
	"os"

	"go-accounts/internal/middleware"
	"go-accounts/internal/shared/apperror"
	"go-accounts/internal/shared/contextutil"
	"go-accounts/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const tokenCookieMaxAge = 86400 // 1 day, matches the claim expiry

type Handler struct {
	svc    Service
	logger *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("user.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.handler")
	}
	return &Handler{svc: service, logger: l}
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	caller, _ := middleware.GetClaims(c)
	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)

	res, err := h.svc.Register(ctx, caller, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.setTokenCookie(c, res.Token, tokenCookieMaxAge)
	response.Success(c, http.StatusCreated, gin.H{
		"token": res.Token,
		"user":  res.User,
	})
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	caller, ok := middleware.GetClaims(c)
	if !ok {
		response.FromError(c, apperror.ErrUnauthorized)
		return
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)

	res, err := h.svc.CreateUserByAdmin(ctx, caller, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"user": res})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)

	res, err := h.svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.setTokenCookie(c, res.Token, tokenCookieMaxAge)
	response.Success(c, http.StatusOK, gin.H{
		"token": res.Token,
		"user":  res.User,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	// Claims are stateless, so logout is purely clearing the cookie; an
	// already-issued token stays valid until it expires.
	h.setTokenCookie(c, "", -1)
	response.Success(c, http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *Handler) Profile(c *gin.Context) {
	caller, ok := middleware.GetClaims(c)
	if !ok {
		response.FromError(c, apperror.ErrUnauthorized)
		return
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)

	res, err := h.svc.Profile(ctx, caller.CompanyID, caller.UserID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": res})
}

func (h *Handler) setTokenCookie(c *gin.Context, value string, maxAge int) {
	isProd := os.Getenv("APP_ENV") == "production"

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   isProd,
		SameSite: http.SameSiteLaxMode,
	})
}
